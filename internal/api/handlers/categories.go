package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventboard/server/internal/api/middleware"
	"github.com/eventboard/server/internal/api/problem"
	"github.com/eventboard/server/internal/domain/categories"
)

type CategoriesHandler struct {
	Service *categories.Service
	Env     string
}

func NewCategoriesHandler(service *categories.Service, env string) *CategoriesHandler {
	return &CategoriesHandler{Service: service, Env: env}
}

type categoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]categoryResponse, 0, len(result))
	for _, category := range result {
		out = append(out, categoryResponse{ID: category.ID, Name: category.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	category, err := h.Service.Create(r.Context(), middleware.Actor(r), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
}

func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *CategoriesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr categories.FieldError
	switch {
	case errors.As(err, &fieldErr):
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", err, h.Env)
	case errors.Is(err, categories.ErrUnauthenticated):
		problem.Write(w, r, http.StatusUnauthorized, "https://eventboard.dev/problems/unauthorized", "Unauthorized", err, h.Env)
	case errors.Is(err, categories.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, "https://eventboard.dev/problems/forbidden", "Forbidden", err, h.Env)
	case errors.Is(err, categories.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://eventboard.dev/problems/not-found", "Not found", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://eventboard.dev/problems/server-error", "Server error", err, h.Env)
	}
}
