package entity

// Platform is the social network an account publishes to
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
)

// Platforms lists every platform in tab order
var Platforms = []Platform{PlatformInstagram, PlatformX}

// ParsePlatform parses a string into a Platform
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformInstagram, PlatformX:
		return Platform(s), nil
	default:
		return "", ErrInvalidPlatform
	}
}

// AccountStatus represents the outreach state of a single account
type AccountStatus string

const (
	AccountStatusReady  AccountStatus = "ready"
	AccountStatusActive AccountStatus = "active"
	AccountStatusPaused AccountStatus = "paused"
)

// Account is an outreach account placed in exactly one column
type Account struct {
	ID                string        `json:"id"`
	DisplayName       string        `json:"display_name"`
	Platform          Platform      `json:"platform"`
	Status            AccountStatus `json:"status"`
	PendingLeadsCount int           `json:"pending_leads_count"`
}

// IsActive reports whether the account is currently running
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Draggable reports whether the account may be picked up for a move.
// Active accounts only leave their campaign after being paused.
func (a *Account) Draggable() bool {
	return !a.IsActive()
}
