package handler

import (
	"net/http"

	"perfectapi/internal/service"
)

// AuditHandler serves the recent-activity feed.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

type activityEntryDTO struct {
	Action      string `json:"action"`
	EntityKind  string `json:"entity_kind"`
	EntityID    string `json:"entity_id"`
	Actor       string `json:"actor"`
	Summary     string `json:"summary"`
	PerformedAt string `json:"performed_at"`
}

type activityFeedDTO struct {
	Items []activityEntryDTO `json:"items"`
}

// HandleRecent serves GET /audit: the latest write operations across every
// collection, most recent first.
func (h *AuditHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if limit < 1 || limit > 100 {
		writeProblem(w, r, http.StatusUnprocessableEntity, "limit: must be between 1 and 100")
		return
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]activityEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, activityEntryDTO{
			Action:      e.Action,
			EntityKind:  e.EntityKind,
			EntityID:    e.EntityID,
			Actor:       e.Actor,
			Summary:     e.Summary,
			PerformedAt: formatTime(e.PerformedAt),
		})
	}
	writeJSON(w, http.StatusOK, activityFeedDTO{Items: items})
}
