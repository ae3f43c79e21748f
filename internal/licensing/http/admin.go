package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
)

// AdminHandler serves operator endpoints. Every route requires a bearer token.
type AdminHandler struct {
	AdminService   *service.AdminService
	ReleaseService *service.ReleaseService
}

func toLicenseResponse(l domain.License, acts []domain.Activation) licensesdk.LicenseResponse {
	resp := licensesdk.LicenseResponse{
		ID:        l.ID,
		Key:       l.Key,
		Plan:      l.Plan,
		MaxSites:  l.MaxSites,
		Status:    string(l.Status),
		ExpiresAt: l.ExpiresAt,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	for _, a := range acts {
		resp.Activations = append(resp.Activations, licensesdk.ActivationResponse{
			Domain:    a.Domain,
			State:     string(a.State),
			FirstSeen: a.FirstSeen,
			LastSeen:  a.LastSeen,
		})
	}
	return resp
}

// HandleIssue issues a license
//
//	@Summary		Issue a license
//	@Description	Creates a license under a freshly generated key. Requires licenses:write scope.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.IssueLicenseRequest	true	"License to issue"
//	@Success		201		{object}	licensesdk.LicenseResponse		"Issued license, including its key"
//	@Failure		400		{object}	licensesdk.ErrorResponse		"Malformed body"
//	@Failure		401		{object}	licensesdk.ErrorResponse		"Unauthorized"
//	@Failure		403		{object}	licensesdk.ErrorResponse		"Missing required scope"
//	@Failure		422		{object}	licensesdk.ErrorResponse		"Validation failed"
//	@Failure		500		{object}	licensesdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/admin/licenses [post].
func (h *AdminHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.IssueLicenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeBindError(w, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		writeBindError(w, err)
		return
	}

	lic, err := h.AdminService.IssueLicense(r.Context(), service.IssueParams{
		Plan:      req.Plan,
		MaxSites:  req.MaxSites,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, toLicenseResponse(lic, nil))
}

// HandleGet shows a license
//
//	@Summary		Get a license
//	@Description	Returns the license for key with every domain it has been bound to. Requires licenses:read scope.
//	@Tags			Admin
//	@Produce		json
//	@Param			key	path		string						true	"License key"
//	@Success		200	{object}	licensesdk.LicenseResponse	"License with activations"
//	@Failure		401	{object}	licensesdk.ErrorResponse	"Unauthorized"
//	@Failure		403	{object}	licensesdk.ErrorResponse	"Missing required scope"
//	@Failure		404	{object}	licensesdk.ErrorResponse	"License not found"
//	@Failure		500	{object}	licensesdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/admin/licenses/{key} [get].
func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lic, acts, err := h.AdminService.GetLicense(r.Context(), r.PathValue("key"))
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toLicenseResponse(lic, acts))
}

// HandleUpdate changes a license's status or expiry
//
//	@Summary		Update a license
//	@Description	Applies an operator transition. Absent fields are left unchanged. Requires licenses:write scope.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string							true	"License key"
//	@Param			request	body		licensesdk.UpdateLicenseRequest	true	"Fields to change"
//	@Success		200		{object}	licensesdk.LicenseResponse		"Updated license"
//	@Failure		400		{object}	licensesdk.ErrorResponse		"Malformed body"
//	@Failure		401		{object}	licensesdk.ErrorResponse		"Unauthorized"
//	@Failure		403		{object}	licensesdk.ErrorResponse		"Missing required scope"
//	@Failure		404		{object}	licensesdk.ErrorResponse		"License not found"
//	@Failure		422		{object}	licensesdk.ErrorResponse		"Validation failed"
//	@Failure		500		{object}	licensesdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/admin/licenses/{key} [patch].
func (h *AdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.UpdateLicenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeBindError(w, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		writeBindError(w, err)
		return
	}

	var p service.UpdateParams
	if req.Status != nil {
		st := domain.LicenseStatus(*req.Status)
		p.Status = &st
	}
	p.ExpiresAt = req.ExpiresAt

	lic, err := h.AdminService.UpdateLicense(r.Context(), r.PathValue("key"), p)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toLicenseResponse(lic, nil))
}

// HandlePublishRelease advertises a release
//
//	@Summary		Publish a release
//	@Description	Records release metadata served by the update feed. Requires licenses:write scope.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.PublishReleaseRequest	true	"Release metadata"
//	@Success		201		{object}	licensesdk.ReleaseResponse			"Published release"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"Malformed body"
//	@Failure		401		{object}	licensesdk.ErrorResponse			"Unauthorized"
//	@Failure		403		{object}	licensesdk.ErrorResponse			"Missing required scope"
//	@Failure		409		{object}	licensesdk.ErrorResponse			"Version already published"
//	@Failure		422		{object}	licensesdk.ErrorResponse			"Validation failed"
//	@Failure		500		{object}	licensesdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/admin/releases [post].
func (h *AdminHandler) HandlePublishRelease(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.PublishReleaseRequest
	if err := httpx.Decode(r, &req); err != nil {
		writeBindError(w, err)
		return
	}
	if err := httpx.Validate(&req); err != nil {
		writeBindError(w, err)
		return
	}

	rel, err := h.ReleaseService.Publish(r.Context(), service.PublishParams{
		Slug:    req.Slug,
		Version: req.Version,
		Package: req.Package,
		URL:     req.URL,
	})
	if err != nil {
		writeAdminError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, licensesdk.ReleaseResponse{
		ID:          rel.ID,
		Slug:        rel.Slug,
		Version:     rel.Version,
		Package:     rel.Package,
		URL:         rel.URL,
		PublishedAt: rel.PublishedAt,
	})
}

func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrLicenseNotFound):
		licensesdk.ErrLicenseNotFound.WriteError(w)
	case errors.Is(err, service.ErrReleaseExists):
		licensesdk.ErrReleaseExists.WriteError(w)
	case errors.Is(err, service.ErrInvalidVersion):
		licensesdk.ValidationFailed(map[string]string{"version": "must be a semantic version"}).WriteError(w)
	case errors.Is(err, service.ErrInvalidMaxSites):
		licensesdk.ValidationFailed(map[string]string{"max_sites": "must be at least 1"}).WriteError(w)
	case errors.Is(err, service.ErrInvalidStatus):
		licensesdk.ValidationFailed(map[string]string{"status": "must be one of: active revoked expired"}).WriteError(w)
	case errors.Is(err, service.ErrInvalidExpiry):
		licensesdk.ValidationFailed(map[string]string{"expires_at": "must be at least 0"}).WriteError(w)
	default:
		writeServiceError(w, r, err)
	}
}
