package handlers

import (
	"encoding/json"
	"net/http"

	"legalis-project/microservices/tasks-service/services"

	"github.com/gorilla/mux"
)

type CommentHandler struct {
	service *services.CommentService
}

func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments returns the thread newest first; each comment's replies
// stay oldest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	comments, err := h.service.ListComments(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) PostComment(w http.ResponseWriter, r *http.Request) {
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
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	comment, err := h.service.PostComment(r.Context(), requester, taskID, request.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) PostReply(w http.ResponseWriter, r *http.Request) {
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
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	reply, err := h.service.PostReply(r.Context(), requester, taskID, vars["commentID"], request.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteComment(r.Context(), requester, taskID, vars["commentID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.DeleteReply(r.Context(), requester, taskID, vars["commentID"], vars["replyID"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reply deleted successfully"})
}
