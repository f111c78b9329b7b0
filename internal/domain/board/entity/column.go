package entity

// UnassignedColumnID is the storage id of the synthetic bucket holding accounts without a campaign
const UnassignedColumnID = "_unassigned"

// ColumnStatus is the campaign status derived from its accounts
type ColumnStatus string

const (
	ColumnStatusActive ColumnStatus = "active"
	ColumnStatusPaused ColumnStatus = "paused"
)

// Column is a campaign bucket, or the unassigned bucket, with its ordered accounts.
// The unassigned bucket has no platform at the storage layer.
type Column struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Platform Platform     `json:"platform,omitempty"`
	Status   ColumnStatus `json:"status"`
	Accounts []Account    `json:"accounts"`
}

// IsUnassigned reports whether this is the synthetic unassigned bucket
func (c *Column) IsUnassigned() bool {
	return c.ID == UnassignedColumnID
}

// Ref returns the tagged reference of the column. Platform copies of the
// unassigned bucket carry their tab platform.
func (c *Column) Ref() ColumnRef {
	if c.IsUnassigned() {
		return UnassignedRef(c.Platform)
	}
	return CampaignRef(c.ID)
}

// IndexOf returns the position of an account in the column, or -1
func (c *Column) IndexOf(accountID string) int {
	for i := range c.Accounts {
		if c.Accounts[i].ID == accountID {
			return i
		}
	}
	return -1
}

// DeriveStatus computes the campaign status: active iff at least one member account is active
func DeriveStatus(c Column) ColumnStatus {
	for i := range c.Accounts {
		if c.Accounts[i].IsActive() {
			return ColumnStatusActive
		}
	}
	return ColumnStatusPaused
}

// clone returns a deep copy of the column
func (c Column) clone() Column {
	out := c
	if c.Accounts != nil {
		out.Accounts = make([]Account, len(c.Accounts))
		copy(out.Accounts, c.Accounts)
	}
	return out
}
