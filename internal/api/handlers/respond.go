package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/remindly/remindly-be/internal/services"
)

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto an HTTP status and a JSON error
// body. Unrecognized errors are logged and reported as a generic 500 so no
// internal detail leaks.
func respondError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Msg})
	case errors.Is(err, services.ErrInvalidID):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid event ID"})
	case errors.Is(err, services.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrUnverifiedAccount):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "Account email is not verified"})
	case errors.Is(err, services.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Event not found or not authorized"})
	case errors.Is(err, services.ErrDuplicateEmail):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "Email is already registered"})
	case errors.Is(err, services.ErrBadVerificationToken):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid verification token"})
	default:
		log.Error().Err(err).Msg("Internal server error")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
