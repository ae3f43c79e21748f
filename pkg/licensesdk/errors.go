package licensesdk

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/licensor/pkg/httpx"
)

// ============================================================================
// Error codes
// ============================================================================

const (
	ErrorCodeValidation        = "validation_error"
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeServerError       = "server_error"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
)

// ErrorResponse is the failure body of every licensor endpoint. For license
// rejections Error carries the status label (invalid, not-active,
// seat-limit, not-activated).
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}

// APIError is a non-2xx response returned by the AdminClient.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Details     map[string]string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("licensor: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("licensor: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// WriteError writes e as an ErrorResponse.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
		Details:          e.Details,
	})
}

// NewAPIError creates an APIError with the given status, code and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

// ============================================================================
// Predefined errors
// ============================================================================

var (
	ErrLicenseInvalid = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        StatusInvalid,
		Description: "license key is not recognised",
	}

	ErrLicenseNotActive = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        StatusNotActive,
		Description: "license is not active",
	}

	ErrSeatLimit = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        StatusSeatLimit,
		Description: "license has no free seats for a new domain",
	}

	ErrNotActivated = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        StatusNotActivated,
		Description: "no active license is bound to this domain",
	}

	ErrServer = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	ErrLicenseNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "license not found",
	}

	ErrReleaseExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "release version already published",
	}
)

// ValidationFailed builds the 422 error for field-level problems.
func ValidationFailed(fields map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidation,
		Description: "request validation failed",
		Details:     fields,
	}
}
