package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"perfectapi/internal/domain"
	"perfectapi/internal/etag"
	"perfectapi/internal/pagination"
	"perfectapi/internal/service"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserHandler serves the /users endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList serves GET /users.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = "created_at"
	}
	switch sort {
	case "created_at", "-created_at", "email":
	default:
		writeProblem(w, r, http.StatusUnprocessableEntity, "sort: must be one of created_at, -created_at, email")
		return
	}

	users, err := h.users.List(sort)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]userDTO, 0, size)
	for _, u := range pagination.Slice(users, page, size) {
		items = append(items, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, collection[userDTO]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    len(users),
		Links:    pagination.Build(absoluteURL(r), page, size, len(users)),
	})
}

type profileInput struct {
	Bio       string   `json:"bio"`
	Website   string   `json:"website"`
	Interests []string `json:"interests"`
}

type userCreateInput struct {
	Email   string        `json:"email"`
	Name    string        `json:"name"`
	Role    string        `json:"role"`
	Active  *bool         `json:"active"`
	Profile *profileInput `json:"profile"`
}

// HandleCreate serves POST /users.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in userCreateInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return
	}
	if in.Role == "" {
		in.Role = string(domain.RoleMember)
	}
	if err := validateUserFields(in.Email, in.Name, in.Role, in.Profile); err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user := domain.User{
		Email:   in.Email,
		Name:    in.Name,
		Role:    domain.Role(in.Role),
		Active:  true,
		Profile: toDomainProfile(in.Profile),
	}
	if in.Active != nil {
		user.Active = *in.Active
	}

	created, err := h.users.Create(r.Context(), user, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toUserDTO(created)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/users/"+created.ID.String())
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusCreated, dto)
}

// HandleGet serves GET /users/{id}. The representation carries a weak ETag; a
// matching If-None-Match short-circuits to 304 with no body.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	trail, err := h.users.AuditTrail(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toUserDetailDTO(user, trail)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	if etag.Match(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

type userPatchInput struct {
	Email   *string         `json:"email"`
	Name    *string         `json:"name"`
	Role    *string         `json:"role"`
	Active  *bool           `json:"active"`
	Profile json.RawMessage `json:"profile"`
}

// HandlePatch serves PATCH /users/{id}. Absent fields are left untouched; an
// explicit null profile clears it.
func (h *UserHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var in userPatchInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return
	}

	patch := service.UserPatch{
		Email:  in.Email,
		Name:   in.Name,
		Active: in.Active,
	}
	if in.Email != nil && !emailPattern.MatchString(*in.Email) {
		writeProblem(w, r, http.StatusUnprocessableEntity, "email: must be a valid email address")
		return
	}
	if in.Name != nil && (len(*in.Name) < 1 || len(*in.Name) > 80) {
		writeProblem(w, r, http.StatusUnprocessableEntity, "name: must be between 1 and 80 characters")
		return
	}
	if in.Role != nil {
		if !domain.ValidRole(domain.Role(*in.Role)) {
			writeProblem(w, r, http.StatusUnprocessableEntity, "role: must be one of admin, member, viewer")
			return
		}
		role := domain.Role(*in.Role)
		patch.Role = &role
	}
	if len(in.Profile) > 0 {
		patch.SetProfile = true
		if string(in.Profile) != "null" {
			var p profileInput
			if err := json.Unmarshal(in.Profile, &p); err != nil {
				writeProblem(w, r, http.StatusUnprocessableEntity, "profile: "+err.Error())
				return
			}
			if err := validateProfile(&p); err != nil {
				writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
				return
			}
			patch.Profile = toDomainProfile(&p)
		}
	}

	updated, err := h.users.Patch(r.Context(), id, patch, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	dto := toUserDTO(updated)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, dto)
}

// HandleDelete serves DELETE /users/{id}.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id, actorFrom(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateUserFields(email, name, role string, profile *profileInput) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email: must be a valid email address")
	}
	if len(name) < 1 || len(name) > 80 {
		return fmt.Errorf("name: must be between 1 and 80 characters")
	}
	if !domain.ValidRole(domain.Role(role)) {
		return fmt.Errorf("role: must be one of admin, member, viewer")
	}
	return validateProfile(profile)
}

func validateProfile(p *profileInput) error {
	if p == nil {
		return nil
	}
	if len(p.Bio) > 280 {
		return fmt.Errorf("profile.bio: must be at most 280 characters")
	}
	if p.Website != "" {
		u, err := url.Parse(p.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("profile.website: must be an http or https URL")
		}
	}
	if len(p.Interests) > 10 {
		return fmt.Errorf("profile.interests: must contain at most 10 entries")
	}
	seen := make(map[string]bool, len(p.Interests))
	for _, interest := range p.Interests {
		if interest == "" {
			return fmt.Errorf("profile.interests: entries must not be empty")
		}
		key := strings.ToLower(interest)
		if seen[key] {
			return fmt.Errorf("profile.interests: entries must be unique")
		}
		seen[key] = true
	}
	return nil
}

func toDomainProfile(p *profileInput) *domain.Profile {
	if p == nil {
		return nil
	}
	return &domain.Profile{Bio: p.Bio, Website: p.Website, Interests: p.Interests}
}

// pathUUID parses the {id} path segment, writing a validation problem on
// failure.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "id: must be a valid UUID")
		return uuid.UUID{}, false
	}
	return id, true
}

// actorFrom names the authenticated principal for audit purposes.
func actorFrom(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return p.Subject
	}
	return "anonymous"
}
