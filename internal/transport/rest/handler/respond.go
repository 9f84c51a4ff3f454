package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kickerledger/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service error onto its HTTP status
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("request failed: %v", err)
		body := map[string]interface{}{
			"error":   err.Error(),
			"partial": service.IsPartial(err),
		}
		var se *service.StoreError
		if errors.As(err, &se) && se.Partial {
			body["matchId"] = se.MatchID
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
