package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
)

// writeServiceError maps a service error onto the wire taxonomy. Anything
// unrecognised is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDomain):
		licensesdk.ValidationFailed(map[string]string{"domain": "must be a valid hostname"}).WriteError(w)
	case errors.Is(err, service.ErrLicenseNotFound):
		licensesdk.ErrLicenseInvalid.WriteError(w)
	case errors.Is(err, service.ErrLicenseNotActive):
		licensesdk.ErrLicenseNotActive.WriteError(w)
	case errors.Is(err, service.ErrSeatLimitReached):
		licensesdk.ErrSeatLimit.WriteError(w)
	case errors.Is(err, service.ErrNotActivated):
		licensesdk.ErrNotActivated.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		licensesdk.ErrServer.WriteError(w)
	}
}

// writeBindError answers a body that failed to decode or validate.
func writeBindError(w http.ResponseWriter, err error) {
	var verr *httpx.ValidationError
	if errors.As(err, &verr) {
		licensesdk.ValidationFailed(verr.Fields).WriteError(w)
		return
	}
	licensesdk.NewAPIError(http.StatusBadRequest, licensesdk.ErrorCodeInvalidRequest, "malformed request body").WriteError(w)
}
