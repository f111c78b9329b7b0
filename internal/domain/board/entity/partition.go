package entity

// ViewColumn is a column as rendered on one platform tab
type ViewColumn struct {
	Ref      ColumnRef    `json:"-"`
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Platform Platform     `json:"platform"`
	Status   ColumnStatus `json:"status"`
	Accounts []Account    `json:"accounts"`
}

// Views holds the per-platform renderings of a store
type Views struct {
	Instagram []ViewColumn `json:"instagram"`
	X         []ViewColumn `json:"x"`
}

// For returns the view columns of one platform
func (v Views) For(p Platform) []ViewColumn {
	switch p {
	case PlatformInstagram:
		return v.Instagram
	case PlatformX:
		return v.X
	default:
		return nil
	}
}

// Column finds a view column by its reference on the given platform tab
func (v Views) Column(p Platform, ref ColumnRef) (ViewColumn, bool) {
	for _, c := range v.For(p) {
		if c.ID == ref.ViewID() {
			return c, true
		}
	}
	return ViewColumn{}, false
}

// Partition splits the store into one view per platform. The unassigned bucket
// becomes one filtered column per platform, campaigns are routed whole by platform.
// Account order inside a column is preserved.
func Partition(s Store) Views {
	var v Views
	for i := range s.Columns {
		c := &s.Columns[i]
		if c.IsUnassigned() {
			for _, p := range Platforms {
				v.add(p, unassignedView(c, p))
			}
			continue
		}
		accounts := make([]Account, len(c.Accounts))
		copy(accounts, c.Accounts)
		v.add(c.Platform, ViewColumn{
			Ref:      CampaignRef(c.ID),
			ID:       c.ID,
			Name:     c.Name,
			Platform: c.Platform,
			Status:   DeriveStatus(*c),
			Accounts: accounts,
		})
	}
	return v
}

func unassignedView(c *Column, p Platform) ViewColumn {
	ref := UnassignedRef(p)
	accounts := make([]Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Platform == p {
			accounts = append(accounts, a)
		}
	}
	return ViewColumn{
		Ref:      ref,
		ID:       ref.ViewID(),
		Name:     c.Name,
		Platform: p,
		Status:   DeriveStatus(Column{Accounts: accounts}),
		Accounts: accounts,
	}
}

func (v *Views) add(p Platform, c ViewColumn) {
	switch p {
	case PlatformInstagram:
		v.Instagram = append(v.Instagram, c)
	case PlatformX:
		v.X = append(v.X, c)
	}
}
