package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"siwes-backend-go/internal/services"
	"siwes-backend-go/internal/validation"
)

type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

func WriteValidationError(w http.ResponseWriter, details []validation.FieldError) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: details})
}

// WriteServiceError maps a domain error onto the wire. Anything that is not
// a ServiceError becomes an opaque 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	if serr, ok := services.AsServiceError(err); ok {
		WriteJSON(w, serr.Status, ErrorResponse{Error: serr.Message, Details: serr.Details})
		return
	}
	log.Printf("internal error: %v", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
