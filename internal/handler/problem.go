package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"perfectapi/internal/domain"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// writeProblem sends an RFC 7807 problem response. The title is derived from
// the status code and the instance from the request path, so the same failure
// always produces the same body.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	title := http.StatusText(status)
	if title == "" {
		title = "Error"
	}
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	body := Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write problem response", "error", err)
	}
}

// writeDomainError converts a service error into its problem response
// according to the error taxonomy. Every failure is terminal for the current
// request; nothing is retried.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrIntegrity):
		// Stale references are a server fault, never silently dropped.
		slog.Error("integrity violation", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, err.Error())
	default:
		slog.Error("unexpected error", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
