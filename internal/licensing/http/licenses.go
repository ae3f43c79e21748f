package http

import (
	"net/http"

	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

// LicenseHandler serves the public license protocol.
type LicenseHandler struct {
	LicenseService *service.LicenseService
}

func clientInfo(c licensesdk.ClientContext) service.ClientInfo {
	return service.ClientInfo{
		Runtime:       c.Runtime,
		ClientVersion: c.ClientVersion,
		URL:           c.URL,
	}
}

// bind decodes the body into dst, normalizes *domain in place and validates.
func bind(r *http.Request, dst any, domain *string) error {
	if err := httpx.Decode(r, dst); err != nil {
		return err
	}
	*domain = hostx.Normalize(*domain)
	return httpx.Validate(dst)
}

// HandleActivate binds a domain to a license key
//
//	@Summary		Activate a license
//	@Description	Binds the installation domain to the license key. Repeating the call for the same domain is idempotent.
//	@Description	Expired licenses answer 200 with status "expired". Development domains are answered without touching storage.
//	@Tags			Licenses
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		licensesdk.ActivateRequest			true	"Activation request"
//	@Success		200		{object}	licensesdk.LicenseStatusResponse	"valid or expired"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"Malformed body"
//	@Failure		403		{object}	licensesdk.ErrorResponse			"invalid, not-active or seat-limit"
//	@Failure		422		{object}	licensesdk.ErrorResponse			"Missing or invalid domain or key"
//	@Failure		429		{object}	licensesdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	licensesdk.ErrorResponse			"Internal server error"
//	@Router			/v1/licenses/activate [post].
func (h *LicenseHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.ActivateRequest
	if err := bind(r, &req, &req.Domain); err != nil {
		writeBindError(w, err)
		return
	}

	r = r.WithContext(slogx.With(r.Context(), "domain", req.Domain, "license_key", req.Key))

	// Development domains may activate without a key
	if req.Key == "" && !(h.LicenseService.DevBypass && hostx.IsDevelopment(req.Domain)) {
		licensesdk.ValidationFailed(map[string]string{"key": "is required"}).WriteError(w)
		return
	}

	v, err := h.LicenseService.Activate(r.Context(), req.Domain, req.Key, clientInfo(req.ClientContext))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, licensesdk.LicenseStatusResponse{
		Status:  v.Status,
		Expires: v.Expires,
	})
}

// HandleDeactivate releases a domain
//
//	@Summary		Deactivate a license
//	@Description	Releases the domain from the license so its seat can be reused. Unknown keys and unbound domains still answer "deactivated".
//	@Tags			Licenses
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		licensesdk.DeactivateRequest	true	"Deactivation request"
//	@Success		200		{object}	licensesdk.DeactivateResponse	"deactivated"
//	@Failure		400		{object}	licensesdk.ErrorResponse		"Malformed body"
//	@Failure		422		{object}	licensesdk.ErrorResponse		"Missing or invalid domain"
//	@Failure		429		{object}	licensesdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	licensesdk.ErrorResponse		"Internal server error"
//	@Router			/v1/licenses/deactivate [post].
func (h *LicenseHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.DeactivateRequest
	if err := bind(r, &req, &req.Domain); err != nil {
		writeBindError(w, err)
		return
	}

	v, err := h.LicenseService.Deactivate(r.Context(), req.Domain, req.Key, clientInfo(req.ClientContext))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, licensesdk.DeactivateResponse{Status: v.Status})
}

// HandleStatus reports the license bound to a domain
//
//	@Summary		License status
//	@Description	Reports the verdict for the license actively bound to the domain and refreshes the binding's last-seen time.
//	@Tags			Licenses
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		licensesdk.StatusRequest			true	"Status request"
//	@Success		200		{object}	licensesdk.LicenseStatusResponse	"valid, invalid or expired"
//	@Failure		400		{object}	licensesdk.ErrorResponse			"Malformed body"
//	@Failure		404		{object}	licensesdk.ErrorResponse			"not-activated"
//	@Failure		422		{object}	licensesdk.ErrorResponse			"Missing or invalid domain"
//	@Failure		429		{object}	licensesdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	licensesdk.ErrorResponse			"Internal server error"
//	@Router			/v1/licenses/status [post].
func (h *LicenseHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req licensesdk.StatusRequest
	if err := bind(r, &req, &req.Domain); err != nil {
		writeBindError(w, err)
		return
	}

	v, err := h.LicenseService.Status(r.Context(), req.Domain, clientInfo(req.ClientContext))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, licensesdk.LicenseStatusResponse{
		Status:  v.Status,
		Expires: v.Expires,
	})
}
