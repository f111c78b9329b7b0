package service

import (
	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// Board is the state of one reassignment board: the store, the selection,
// the active platform tab and the busy flag. It is not safe for concurrent use.
type Board struct {
	store     entity.Store
	hydrated  bool
	selection Selection
	platform  entity.Platform
	busy      bool
}

// NewBoard creates an empty board showing the given platform tab
func NewBoard(platform entity.Platform) *Board {
	if _, err := entity.ParsePlatform(string(platform)); err != nil {
		platform = entity.PlatformInstagram
	}
	return &Board{platform: platform}
}

// Hydrate replaces the store wholesale with a freshly fetched overview.
// Selected ids no longer visible on the active tab are dropped.
func (b *Board) Hydrate(s entity.Store) {
	b.store = s.Clone()
	b.store.Recompute()
	b.hydrated = true
	b.pruneSelection()
}

// Hydrated reports whether an overview has been loaded
func (b *Board) Hydrated() bool {
	return b.hydrated
}

// Store returns a copy of the current store
func (b *Board) Store() entity.Store {
	return b.store.Clone()
}

// Platform returns the active platform tab
func (b *Board) Platform() entity.Platform {
	return b.platform
}

// SetPlatform switches the active tab. Switching clears the selection.
func (b *Board) SetPlatform(p entity.Platform) error {
	if _, err := entity.ParsePlatform(string(p)); err != nil {
		return err
	}
	if p != b.platform {
		b.platform = p
		b.selection.Clear()
	}
	return nil
}

// Busy reports whether a command is waiting for confirmation
func (b *Board) Busy() bool {
	return b.busy
}

// Selected returns the selected account ids
func (b *Board) Selected() []string {
	return b.selection.IDs()
}

// Views partitions the current store per platform
func (b *Board) Views() entity.Views {
	return entity.Partition(b.store)
}

// Apply writes the command's next state into the store and marks the board busy
func (b *Board) Apply(cmd *Command) error {
	if b.busy {
		return entity.ErrBusy
	}
	b.store = cmd.Next.Clone()
	b.busy = true
	return nil
}

// Commit finishes a confirmed command
func (b *Board) Commit(cmd *Command) {
	b.busy = false
	if cmd.ClearSelection {
		b.selection.Clear()
	}
}

// Rollback restores the state captured before the command was applied.
// The selection is left untouched so the user can retry.
func (b *Board) Rollback(cmd *Command) {
	defer func() { b.busy = false }()

	if cmd.Scope == "" {
		b.store = cmd.Previous.Clone()
		return
	}

	prev, err := cmd.Previous.Column(cmd.Scope)
	if err != nil {
		b.store = cmd.Previous.Clone()
		return
	}
	i := b.store.ColumnIndex(cmd.Scope)
	if i < 0 {
		b.store = cmd.Previous.Clone()
		return
	}
	restored := entity.Store{Columns: []entity.Column{*prev}}.Clone()
	b.store.Columns[i] = restored.Columns[0]
}

func (b *Board) ensureReady() error {
	if !b.hydrated {
		return entity.ErrNotHydrated
	}
	if b.busy {
		return entity.ErrBusy
	}
	return nil
}

// visibleIDs returns the account ids rendered on the active tab
func (b *Board) visibleIDs() map[string]struct{} {
	out := make(map[string]struct{})
	for _, c := range b.Views().For(b.platform) {
		for _, a := range c.Accounts {
			out[a.ID] = struct{}{}
		}
	}
	return out
}

func (b *Board) pruneSelection() {
	if b.selection.Len() == 0 {
		return
	}
	visible := b.visibleIDs()
	for _, id := range b.selection.IDs() {
		if _, ok := visible[id]; !ok {
			b.selection.Remove(id)
		}
	}
}
