package domain

// Status is the provider-agnostic verification outcome consumed by the
// purchase wizard. Provider-specific payloads are mapped to exactly one of
// these values before any wizard logic sees them.
type Status string

const (
	StatusPending  Status = "pending"  // session exists, wallet has not scanned yet
	StatusScanned  Status = "scanned"  // wallet scanned, user action outstanding
	StatusApproved Status = "approved" // user approved and released data
	StatusDeclined Status = "declined" // user declined the request
	StatusExpired  Status = "expired"  // session passed its expiry
	StatusFailed   Status = "failed"   // provider failure or repeated errors
	StatusTimeout  Status = "timeout"  // local safety timeout elapsed
)

// Terminal reports whether no further polling should happen for this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusExpired, StatusFailed, StatusTimeout:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
