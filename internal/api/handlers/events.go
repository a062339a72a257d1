package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eventboard/server/internal/api/middleware"
	"github.com/eventboard/server/internal/api/problem"
	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type eventResponse struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CategoryID int    `json:"categoryId"`
	Time       string `json:"time"`
	Place      string `json:"place"`
	ImageURL   string `json:"imageUrl"`
	Approved   bool   `json:"approved"`
	Blocked    bool   `json:"blocked"`
	Ratings    int    `json:"ratings"`
	OwnerID    int    `json:"ownerId"`
}

func toEventResponse(e events.Event) eventResponse {
	return eventResponse{
		ID:         e.ID,
		Title:      e.Title,
		CategoryID: e.CategoryID,
		Time:       e.Time.UTC().Format(time.RFC3339),
		Place:      e.Place,
		ImageURL:   e.ImageURL,
		Approved:   e.Approved,
		Blocked:    e.Blocked,
		Ratings:    e.Ratings,
		OwnerID:    e.OwnerID,
	}
}

func toEventResponses(items []events.Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toEventResponse(item))
	}
	return out
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParseFilters(r.URL.Query())
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	result, err := h.Service.List(r.Context(), middleware.Actor(r), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(result))
}

func (h *EventsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ListOwned(r.Context(), middleware.Actor(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(result))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.Env)
	if !ok {
		return
	}
	event, err := h.Service.Get(r.Context(), middleware.Actor(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params events.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), middleware.Actor(r), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(*event))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.Env)
	if !ok {
		return
	}
	var params events.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Update(r.Context(), middleware.Actor(r), id, params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.Env)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), middleware.Actor(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *EventsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.Service.Approve)
}

func (h *EventsHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.Service.Block)
}

func (h *EventsHandler) moderate(w http.ResponseWriter, r *http.Request, transition func(context.Context, *auth.Actor, int) (*events.Event, error)) {
	id, ok := pathID(w, r, "id", h.Env)
	if !ok {
		return
	}
	event, err := transition(r.Context(), middleware.Actor(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

func (h *EventsHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", h.Env)
	if !ok {
		return
	}
	ratings, err := h.Service.Rate(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"ratings": ratings})
}

func (h *EventsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr events.FieldError
	switch {
	case errors.As(err, &fieldErr):
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
	case errors.Is(err, events.ErrUnauthenticated):
		problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Unauthorized", err, h.Env)
	case errors.Is(err, events.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, "https://eventboard.dev/problems/forbidden", "Forbidden", err, h.Env)
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://eventboard.dev/problems/not-found", "Not found", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://eventboard.dev/problems/server-error", "Server error", err, h.Env)
	}
}
