package domain

// ActivationState is the binding state of a domain to a license.
type ActivationState string

const (
	ActivationActive      ActivationState = "active"
	ActivationDeactivated ActivationState = "deactivated"
)

// Activation binds a license to one normalized domain. Rows are never
// deleted; deactivation only flips State.
type Activation struct {
	LicenseID int64
	Domain    string
	State     ActivationState

	// Unix timestamps.
	FirstSeen int64
	LastSeen  int64
}
