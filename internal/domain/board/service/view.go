package service

import "github.com/vadim/neo-outreach/internal/domain/board/entity"

// AccountView is an account card on the active tab
type AccountView struct {
	entity.Account
	Selected  bool `json:"selected"`
	Draggable bool `json:"draggable"`
}

// ColumnView is a column on the active tab
type ColumnView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Platform       entity.Platform     `json:"platform"`
	Status         entity.ColumnStatus `json:"status"`
	Unassigned     bool                `json:"unassigned"`
	SelectAllLabel string              `json:"select_all_label"`
	Accounts       []AccountView       `json:"accounts"`
}

// BoardView is what the active tab renders
type BoardView struct {
	Platform  entity.Platform `json:"platform"`
	Busy      bool            `json:"busy"`
	Selection []string        `json:"selection"`
	Columns   []ColumnView    `json:"columns"`
}

// View renders the active tab. Labels are computed from the current selection on every call.
func (b *Board) View() BoardView {
	out := BoardView{
		Platform:  b.platform,
		Busy:      b.busy,
		Selection: b.selection.IDs(),
	}
	for _, c := range b.Views().For(b.platform) {
		cv := ColumnView{
			ID:         c.ID,
			Name:       c.Name,
			Platform:   c.Platform,
			Status:     c.Status,
			Unassigned: c.Ref.IsUnassigned(),
			Accounts:   make([]AccountView, len(c.Accounts)),
		}
		selected := 0
		for i, a := range c.Accounts {
			sel := b.selection.Has(a.ID)
			if sel {
				selected++
			}
			cv.Accounts[i] = AccountView{
				Account:   a,
				Selected:  sel,
				Draggable: a.Draggable() && !b.busy,
			}
		}
		cv.SelectAllLabel = SelectAllLabel(selected, len(c.Accounts))
		out.Columns = append(out.Columns, cv)
	}
	return out
}
