package handler

import (
	"net/http"
	"strings"

	"perfectapi/internal/service"
)

// TokenHandler issues access tokens from the static credential table.
type TokenHandler struct {
	auth *service.AuthService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(auth *service.AuthService) *TokenHandler {
	return &TokenHandler{auth: auth}
}

// HandleIssue serves POST /token. Credentials arrive as form fields; scope is
// an optional space-separated list and defaults to everything the credential
// grants.
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "body: must be form-encoded")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeProblem(w, r, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	scopes := strings.Fields(r.PostFormValue("scope"))

	token, err := h.auth.IssueToken(username, password, scopes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
