package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler lists the audit trail of one installation domain.
type AuditHandler struct {
	Reader audit.Reader
}

// ServeHTTP lists audit events
//
//	@Summary		List audit events
//	@Description	Returns the most recent activation, deactivation, status and update-check events for a domain, newest first. Requires licenses:read scope.
//	@Tags			Admin
//	@Produce		json
//	@Param			domain	query		string							true	"Installation domain or URL"
//	@Param			limit	query		int								false	"Maximum events (1-500, default 50)"
//	@Success		200		{object}	licensesdk.AuditListResponse	"Audit events"
//	@Failure		401		{object}	licensesdk.ErrorResponse		"Unauthorized"
//	@Failure		403		{object}	licensesdk.ErrorResponse		"Missing required scope"
//	@Failure		422		{object}	licensesdk.ErrorResponse		"Validation failed"
//	@Failure		500		{object}	licensesdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/admin/audit [get].
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	host := hostx.Normalize(q.Get("domain"))
	if host == "" {
		licensesdk.ValidationFailed(map[string]string{"domain": "is required"}).WriteError(w)
		return
	}

	limit := int64(defaultAuditLimit)
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > maxAuditLimit {
			licensesdk.ValidationFailed(map[string]string{"limit": "must be between 1 and 500"}).WriteError(w)
			return
		}
		limit = n
	}

	events, err := h.Reader.ListByDomain(ctx, host, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list audit events", "error", err, "domain", host)
		licensesdk.ErrServer.WriteError(w)
		return
	}

	resp := licensesdk.AuditListResponse{
		Domain: host,
		Events: make([]licensesdk.AuditEventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, licensesdk.AuditEventResponse{
			ID:            e.ID,
			Action:        string(e.Action),
			Domain:        e.Domain,
			LicenseID:     e.LicenseID,
			Outcome:       e.Outcome,
			Runtime:       e.Runtime,
			ClientVersion: e.ClientVersion,
			URL:           e.URL,
			At:            e.At,
		})
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
