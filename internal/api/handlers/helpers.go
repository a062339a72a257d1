package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventboard/server/internal/api/problem"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// pathID extracts a positive integer id from a path parameter. Writes a
// 400 and returns false when the value is missing or malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, env string) (int, bool) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		problem.Write(w, r, http.StatusBadRequest, "https://eventboard.dev/problems/validation-error", "Invalid request", problemField(name, "must be a positive integer"), env)
		return 0, false
	}
	return id, true
}

type fieldError struct {
	field   string
	message string
}

func (e fieldError) Error() string {
	return "invalid " + e.field + ": " + e.message
}

func problemField(field, message string) error {
	return fieldError{field: field, message: message}
}
