package domain

// Verdict labels returned by the license authority.
const (
	VerdictValid        = "valid"
	VerdictInvalid      = "invalid"
	VerdictExpired      = "expired"
	VerdictDeactivated  = "deactivated"
	VerdictNotActive    = "not-active"
	VerdictNotActivated = "not-activated"
	VerdictSeatLimit    = "seat-limit"
)

// SeatPolicy selects how the seat ceiling is enforced for new domains.
type SeatPolicy string

const (
	// SeatPolicyStrict refuses a new domain once max_sites are active.
	SeatPolicyStrict SeatPolicy = "strict"
	// SeatPolicyLenient always binds the domain, ignoring max_sites.
	SeatPolicyLenient SeatPolicy = "lenient"
)

// ParseSeatPolicy maps a config string to a policy, defaulting to strict.
func ParseSeatPolicy(s string) SeatPolicy {
	if SeatPolicy(s) == SeatPolicyLenient {
		return SeatPolicyLenient
	}
	return SeatPolicyStrict
}
