package service

import (
	"fmt"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// DragEvent is a completed drag gesture. A zero Dest means the card was dropped outside any column.
type DragEvent struct {
	DraggedID   string
	Source      entity.ColumnRef
	SourceIndex int
	Dest        entity.ColumnRef
	DestIndex   int
}

// IsNoop reports whether the drop leaves the card where it was
func (e DragEvent) IsNoop() bool {
	if e.Dest.IsZero() {
		return true
	}
	return e.Dest.ViewID() == e.Source.ViewID() && e.DestIndex == e.SourceIndex
}

// MoveSet returns the accounts moved by a drag of draggedID: the whole
// selection when the dragged card is selected, otherwise the card alone.
func (b *Board) MoveSet(draggedID string) []string {
	if b.selection.Has(draggedID) {
		return b.selection.IDs()
	}
	return []string{draggedID}
}

// PlanMove reconciles a drag into a move command. It returns a nil command for no-op drops.
// The board itself is not modified, see Apply.
func (b *Board) PlanMove(e DragEvent) (*Command, error) {
	e.Source = b.onTab(e.Source)
	e.Dest = b.onTab(e.Dest)
	if e.IsNoop() {
		return nil, nil
	}
	if err := b.ensureReady(); err != nil {
		return nil, err
	}

	dragged, _, err := b.store.Account(e.DraggedID)
	if err != nil {
		return nil, err
	}
	if err := b.checkSource(e); err != nil {
		return nil, err
	}
	if !dragged.Draggable() {
		return nil, entity.ErrAccountActive
	}

	dest, err := b.store.Column(e.Dest.StoreID())
	if err != nil {
		return nil, err
	}

	moveSet := make(map[string]struct{})
	for _, id := range b.MoveSet(e.DraggedID) {
		acc, _, err := b.store.Account(id)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", id, err)
		}
		if !acc.Draggable() {
			return nil, fmt.Errorf("account %s: %w", id, entity.ErrAccountActive)
		}
		if !dest.IsUnassigned() && acc.Platform != dest.Platform {
			return nil, fmt.Errorf("account %s: %w", id, entity.ErrPlatformMismatch)
		}
		moveSet[id] = struct{}{}
	}

	previous := b.store.Clone()
	next := previous.Clone()

	// Collect in store order and strip from every column, so a selection
	// straddling several columns is handled per account.
	var moved []entity.Account
	for ci := range next.Columns {
		kept := next.Columns[ci].Accounts[:0]
		for _, a := range next.Columns[ci].Accounts {
			if _, ok := moveSet[a.ID]; ok {
				moved = append(moved, a)
				continue
			}
			kept = append(kept, a)
		}
		next.Columns[ci].Accounts = kept
	}

	di := next.ColumnIndex(dest.ID)
	target := &next.Columns[di]
	at := insertIndex(target, e.Dest, e.DestIndex)
	accounts := make([]entity.Account, 0, len(target.Accounts)+len(moved))
	accounts = append(accounts, target.Accounts[:at]...)
	accounts = append(accounts, moved...)
	accounts = append(accounts, target.Accounts[at:]...)
	target.Accounts = accounts

	ids := accountIDs(moved)
	call := RemoteCall{Op: OpAssign, CampaignID: e.Dest.WireCampaignID()}
	if len(ids) == 1 {
		call.AccountID = ids[0]
	} else {
		call.Op = OpBulkAssign
		call.AccountIDs = ids
	}

	cmd := newCommand(CommandMove, previous, next, call)
	cmd.ClearSelection = true
	return cmd, nil
}

// checkSource verifies the dragged card is on the active tab and in the source column
func (b *Board) checkSource(e DragEvent) error {
	if _, ok := b.visibleIDs()[e.DraggedID]; !ok {
		return fmt.Errorf("account %s: %w", e.DraggedID, entity.ErrNotVisible)
	}
	if e.Source.IsZero() {
		return nil
	}
	col, ok := b.Views().Column(b.platform, e.Source)
	if !ok {
		return fmt.Errorf("account %s in %s: %w", e.DraggedID, e.Source, entity.ErrNotVisible)
	}
	for _, a := range col.Accounts {
		if a.ID == e.DraggedID {
			return nil
		}
	}
	return fmt.Errorf("account %s in %s: %w", e.DraggedID, e.Source, entity.ErrNotVisible)
}

// onTab pins a bare unassigned reference to the unassigned view of the active tab
func (b *Board) onTab(ref entity.ColumnRef) entity.ColumnRef {
	if ref.IsUnassigned() && ref.Platform() == "" {
		return entity.UnassignedRef(b.platform)
	}
	return ref
}

// insertIndex maps an index in the destination view column to a position in the stored column.
// Platform views of the unassigned bucket only show part of the stored accounts.
func insertIndex(c *entity.Column, ref entity.ColumnRef, viewIndex int) int {
	if viewIndex < 0 {
		viewIndex = 0
	}
	if !ref.IsUnassigned() || ref.Platform() == "" {
		return min(viewIndex, len(c.Accounts))
	}
	seen := 0
	for i, a := range c.Accounts {
		if a.Platform != ref.Platform() {
			continue
		}
		if seen == viewIndex {
			return i
		}
		seen++
	}
	return len(c.Accounts)
}
