package entity

import "strings"

// ColumnRef points at a board column. It is either a real campaign or the
// unassigned bucket seen from one platform tab.
type ColumnRef struct {
	campaignID string
	platform   Platform
	unassigned bool
}

// CampaignRef references a real campaign column
func CampaignRef(campaignID string) ColumnRef {
	return ColumnRef{campaignID: campaignID}
}

// UnassignedRef references the unassigned bucket as rendered on the given platform tab.
// An empty platform references the bucket as a whole.
func UnassignedRef(p Platform) ColumnRef {
	return ColumnRef{platform: p, unassigned: true}
}

// ParseColumnRef accepts a campaign id, "_unassigned" or a per-platform
// unassigned view id such as "_unassigned_instagram".
func ParseColumnRef(id string) (ColumnRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ColumnRef{}, ErrInvalidColumnRef
	}
	if id == UnassignedColumnID {
		return UnassignedRef(""), nil
	}
	if rest, ok := strings.CutPrefix(id, UnassignedColumnID+"_"); ok {
		p, err := ParsePlatform(rest)
		if err != nil {
			return ColumnRef{}, ErrInvalidColumnRef
		}
		return UnassignedRef(p), nil
	}
	return CampaignRef(id), nil
}

// IsUnassigned reports whether the reference is the unassigned bucket
func (r ColumnRef) IsUnassigned() bool {
	return r.unassigned
}

// Platform returns the tab platform of an unassigned reference
func (r ColumnRef) Platform() Platform {
	return r.platform
}

// IsZero reports whether the reference was never set
func (r ColumnRef) IsZero() bool {
	return r == ColumnRef{}
}

// StoreID is the id of the backing column in the Store
func (r ColumnRef) StoreID() string {
	if r.unassigned {
		return UnassignedColumnID
	}
	return r.campaignID
}

// ViewID is the id of the column as rendered in a platform view
func (r ColumnRef) ViewID() string {
	if r.unassigned {
		if r.platform == "" {
			return UnassignedColumnID
		}
		return UnassignedColumnID + "_" + string(r.platform)
	}
	return r.campaignID
}

// WireCampaignID is the campaign id sent to the campaign service.
// The unassigned bucket travels as the empty string.
func (r ColumnRef) WireCampaignID() string {
	if r.unassigned {
		return ""
	}
	return r.campaignID
}

func (r ColumnRef) String() string {
	return r.ViewID()
}
