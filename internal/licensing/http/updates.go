package http

import (
	"net/http"

	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

type UpdatesHandler struct {
	ReleaseService *service.ReleaseService
}

// ServeHTTP answers the release feed
//
//	@Summary		Release feed
//	@Description	Returns the latest published release for slug when it is newer than version, otherwise an empty object.
//	@Tags			Updates
//	@Produce		json
//	@Param			slug			query		string						true	"Product slug"
//	@Param			version			query		string						true	"Installed version"
//	@Param			domain			query		string						false	"Installation domain (audit only)"
//	@Param			runtime			query		string						false	"Client runtime (audit only)"
//	@Param			client_version	query		string						false	"Client version (audit only)"
//	@Param			url				query		string						false	"Installation URL (audit only)"
//	@Success		200				{object}	licensesdk.UpdateResponse	"Newer release or empty object"
//	@Failure		429				{object}	licensesdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500				{object}	licensesdk.ErrorResponse	"Internal server error"
//	@Router			/v1/updates [get].
func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	info := service.ClientInfo{
		Runtime:       q.Get("runtime"),
		ClientVersion: q.Get("client_version"),
		URL:           q.Get("url"),
	}
	rel, ok, err := h.ReleaseService.Check(ctx, q.Get("slug"), q.Get("version"), q.Get("domain"), info)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to read release feed", "error", err)
		licensesdk.ErrServer.WriteError(w)
		return
	}

	var resp licensesdk.UpdateResponse
	if ok {
		resp = licensesdk.UpdateResponse{
			NewVersion: rel.Version,
			Package:    rel.Package,
			URL:        rel.URL,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
