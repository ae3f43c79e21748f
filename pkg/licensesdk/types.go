package licensesdk

import "time"

// ============================================================================
// Status labels
// ============================================================================

const (
	StatusValid        = "valid"
	StatusInvalid      = "invalid"
	StatusExpired      = "expired"
	StatusDeactivated  = "deactivated"
	StatusNotActive    = "not-active"
	StatusNotActivated = "not-activated"
	StatusSeatLimit    = "seat-limit"
)

// ============================================================================
// License protocol
// ============================================================================

// ClientContext is environment information attached to every request. The
// authority records it for audit and never requires it.
type ClientContext struct {
	Runtime       string `json:"runtime,omitempty"`
	ClientVersion string `json:"client_version,omitempty"`
	URL           string `json:"url,omitempty"`
}

// ActivateRequest is the body of POST /v1/licenses/activate.
type ActivateRequest struct {
	Domain string `json:"domain" validate:"required,hostname_rfc1123"`
	Key    string `json:"key"`
	ClientContext
}

// DeactivateRequest is the body of POST /v1/licenses/deactivate.
type DeactivateRequest struct {
	Domain string `json:"domain" validate:"required,hostname_rfc1123"`
	Key    string `json:"key,omitempty"`
	ClientContext
}

// StatusRequest is the body of POST /v1/licenses/status.
type StatusRequest struct {
	Domain string `json:"domain" validate:"required,hostname_rfc1123"`
	ClientContext
}

// LicenseStatusResponse answers activate and status.
type LicenseStatusResponse struct {
	Status string `json:"status"`

	// Expires is a unix timestamp; 0 means never.
	Expires int64 `json:"expires"`
}

// DeactivateResponse answers deactivate.
type DeactivateResponse struct {
	Status string `json:"status"`
}

// UpdateResponse answers GET /v1/updates. All fields are empty when no newer
// release exists.
type UpdateResponse struct {
	NewVersion string `json:"new_version,omitempty"`
	Package    string `json:"package,omitempty"`
	URL        string `json:"url,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports dependency state on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

// ============================================================================
// Admin API
// ============================================================================

// IssueLicenseRequest is the body of POST /v1/admin/licenses.
type IssueLicenseRequest struct {
	Plan      string `json:"plan,omitempty"`
	MaxSites  int    `json:"max_sites" validate:"required,min=1"`
	ExpiresAt int64  `json:"expires_at,omitempty" validate:"gte=0"`
}

// UpdateLicenseRequest is the body of PATCH /v1/admin/licenses/{key}. Absent
// fields are left unchanged.
type UpdateLicenseRequest struct {
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active revoked expired"`
	ExpiresAt *int64  `json:"expires_at,omitempty" validate:"omitempty,gte=0"`
}

// LicenseResponse describes a license to an operator.
type LicenseResponse struct {
	ID          int64                `json:"id"`
	Key         string               `json:"key"`
	Plan        string               `json:"plan"`
	MaxSites    int                  `json:"max_sites"`
	Status      string               `json:"status"`
	ExpiresAt   int64                `json:"expires_at"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Activations []ActivationResponse `json:"activations,omitempty"`
}

// ActivationResponse is one domain binding of a license.
type ActivationResponse struct {
	Domain    string `json:"domain"`
	State     string `json:"state"`
	FirstSeen int64  `json:"first_seen"`
	LastSeen  int64  `json:"last_seen"`
}

// PublishReleaseRequest is the body of POST /v1/admin/releases.
type PublishReleaseRequest struct {
	Slug    string `json:"slug" validate:"required"`
	Version string `json:"version" validate:"required"`
	Package string `json:"package,omitempty" validate:"omitempty,url"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
}

// ReleaseResponse describes a published release.
type ReleaseResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Version     string    `json:"version"`
	Package     string    `json:"package,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// AuditEventResponse is one recorded authority decision or update check.
type AuditEventResponse struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	Domain        string    `json:"domain"`
	LicenseID     int64     `json:"license_id,omitempty"`
	Outcome       string    `json:"outcome"`
	Runtime       string    `json:"runtime,omitempty"`
	ClientVersion string    `json:"client_version,omitempty"`
	URL           string    `json:"url,omitempty"`
	At            time.Time `json:"at"`
}

// AuditListResponse is the body of GET /v1/admin/audit.
type AuditListResponse struct {
	Domain string               `json:"domain"`
	Events []AuditEventResponse `json:"events"`
}
