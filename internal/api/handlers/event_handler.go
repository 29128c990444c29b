package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remindly/remindly-be/internal/auth"
	"github.com/remindly/remindly-be/internal/models"
	"github.com/remindly/remindly-be/internal/services"
)

// EventHandler handles HTTP requests for the authenticated user's events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// EventPayload defines the structure for event creation requests.
// Timestamps are RFC3339 strings; reminderMinutes is optional.
type EventPayload struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end,omitempty"`
	ReminderMinutes *int   `json:"reminderMinutes,omitempty"`
}

// Create handles event creation for the authenticated user.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access denied"})
		return
	}

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	input := services.EventInput{
		Title:           payload.Title,
		ReminderMinutes: payload.ReminderMinutes,
	}

	if payload.Start != "" {
		start, err := time.Parse(time.RFC3339, payload.Start)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be an RFC3339 timestamp"})
			return
		}
		input.Start = start
	}
	if payload.End != "" {
		end, err := time.Parse(time.RFC3339, payload.End)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "end must be an RFC3339 timestamp"})
			return
		}
		input.End = &end
	}

	event, err := h.service.CreateEvent(identity.UserID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// GetAll handles listing all events owned by the authenticated user.
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access denied"})
		return
	}

	events, err := h.service.GetEventsForUser(identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	respondJSON(w, http.StatusOK, events)
}

// Delete handles deletion of a single owned event.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access denied"})
		return
	}

	if err := h.service.DeleteEvent(chi.URLParam(r, "id"), identity.UserID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}
