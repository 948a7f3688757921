package handlers

import (
	"encoding/json"
	"net/http"

	"legalis-project/microservices/tasks-service/models"
	"legalis-project/microservices/tasks-service/services"
)

// MentionHandler drives the @mention suggestion flow while a comment is
// being composed. Nothing here persists; the stored comment text keeps
// the literal @Name tokens.
type MentionHandler struct {
	tasks *services.TaskService
}

func NewMentionHandler(tasks *services.TaskService) *MentionHandler {
	return &MentionHandler{tasks: tasks}
}

type suggestRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

type suggestResponse struct {
	Active      bool            `json:"active"`
	Start       int             `json:"start,omitempty"`
	Query       string          `json:"query,omitempty"`
	Suggestions []models.Member `json:"suggestions,omitempty"`
}

func (h *MentionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var request suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	state, active := services.ActiveMention(request.Text, request.Caret)
	if !active {
		writeJSON(w, http.StatusOK, suggestResponse{Active: false})
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Active:      true,
		Start:       state.Start,
		Query:       state.Query,
		Suggestions: services.SuggestMembers(task.TaskForce(), state.Query),
	})
}

type applyRequest struct {
	Text     string `json:"text"`
	Caret    int    `json:"caret"`
	MemberID string `json:"memberId"`
}

type applyResponse struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// Apply recomputes the open mention from the text and caret, replaces its
// span with the selected member's display name and reports where the
// caret lands. The span is never taken from the client.
func (h *MentionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var request applyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	var selected *models.Member
	for _, m := range task.TaskForce() {
		if m.ID == request.MemberID {
			member := m
			selected = &member
			break
		}
	}
	if selected == nil {
		writeError(w, models.NotFound("memberId", "member is not on the task force"))
		return
	}

	text, caret, err := services.CompleteMention(request.Text, request.Caret, *selected)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Text: text, Caret: caret})
}
