package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"legalis-project/microservices/tasks-service/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps domain error kinds onto HTTP statuses. Anything that is
// not a domain error is reported as an internal error.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		status := http.StatusInternalServerError
		switch domainErr.Kind {
		case models.KindNotFound:
			status = http.StatusNotFound
		case models.KindPermissionDenied:
			status = http.StatusForbidden
		case models.KindValidation:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]interface{}{"error": domainErr})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]string{"message": err.Error()},
	})
}
