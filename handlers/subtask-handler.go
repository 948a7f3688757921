package handlers

import (
	"encoding/json"
	"net/http"

	"legalis-project/microservices/tasks-service/services"

	"github.com/gorilla/mux"
)

type SubtaskHandler struct {
	service *services.SubtaskService
	tasks   *services.TaskService
}

func NewSubtaskHandler(service *services.SubtaskService, tasks *services.TaskService) *SubtaskHandler {
	return &SubtaskHandler{service: service, tasks: tasks}
}

func (h *SubtaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var request struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.AddSubtask(r.Context(), requester, taskID, request.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *SubtaskHandler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	task, err := h.service.ToggleSubtask(r.Context(), requester, taskID, vars["subtaskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *SubtaskHandler) EditSubtask(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	var request struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	task, err := h.service.EditSubtask(r.Context(), requester, taskID, vars["subtaskID"], request.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *SubtaskHandler) RemoveSubtask(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	task, err := h.service.RemoveSubtask(r.Context(), requester, taskID, vars["subtaskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// GetProgress reports the completed share of the checklist in percent.
func (h *SubtaskHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"progress": task.Progress()})
}
