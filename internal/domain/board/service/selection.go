package service

import (
	"fmt"
	"sort"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// Selection is the set of multi-selected account ids on the active platform tab
type Selection struct {
	ids map[string]struct{}
}

// Has reports whether the account is selected
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add selects the given accounts
func (s *Selection) Add(ids ...string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Remove unselects the given accounts
func (s *Selection) Remove(ids ...string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Toggle flips membership and reports whether the account is now selected
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = nil
}

// Len returns the number of selected accounts
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in a stable order
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CountSelected returns how many of the given ids are selected
func (s *Selection) CountSelected(ids []string) int {
	n := 0
	for _, id := range ids {
		if s.Has(id) {
			n++
		}
	}
	return n
}

// SelectAllLabel renders the tri-state label of a column's select-all control
func SelectAllLabel(selected, total int) string {
	switch {
	case total > 0 && selected == total:
		return fmt.Sprintf("Unselect All (%d)", total)
	case selected == 0:
		return fmt.Sprintf("Select All (%d)", total)
	default:
		return fmt.Sprintf("Select All (%d/%d)", selected, total)
	}
}

// ToggleSelection flips the selection of an account visible on the active tab.
// It never starts a drag.
func (b *Board) ToggleSelection(accountID string) (bool, error) {
	if !b.hydrated {
		return false, entity.ErrNotHydrated
	}
	if _, _, err := b.store.Account(accountID); err != nil {
		return false, err
	}
	if _, ok := b.visibleIDs()[accountID]; !ok {
		return false, entity.ErrNotVisible
	}
	return b.selection.Toggle(accountID), nil
}

// SelectAllInColumn selects every account of a view column, or unselects
// them all when every one of them is already selected.
func (b *Board) SelectAllInColumn(ref entity.ColumnRef) (string, error) {
	col, err := b.viewColumn(ref)
	if err != nil {
		return "", err
	}
	ids := accountIDs(col.Accounts)
	if len(ids) > 0 && b.selection.CountSelected(ids) == len(ids) {
		b.selection.Remove(ids...)
	} else {
		b.selection.Add(ids...)
	}
	return SelectAllLabel(b.selection.CountSelected(ids), len(ids)), nil
}

// SelectAllLabel renders the current select-all label of a view column
func (b *Board) SelectAllLabel(ref entity.ColumnRef) (string, error) {
	col, err := b.viewColumn(ref)
	if err != nil {
		return "", err
	}
	ids := accountIDs(col.Accounts)
	return SelectAllLabel(b.selection.CountSelected(ids), len(ids)), nil
}

func (b *Board) viewColumn(ref entity.ColumnRef) (entity.ViewColumn, error) {
	if !b.hydrated {
		return entity.ViewColumn{}, entity.ErrNotHydrated
	}
	col, ok := b.Views().Column(b.platform, b.onTab(ref))
	if !ok {
		return entity.ViewColumn{}, entity.ErrColumnNotFound
	}
	return col, nil
}

func accountIDs(accounts []entity.Account) []string {
	out := make([]string, len(accounts))
	for i := range accounts {
		out[i] = accounts[i].ID
	}
	return out
}
