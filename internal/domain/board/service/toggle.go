package service

import (
	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// ToggleAction is a bulk activation action on a campaign
type ToggleAction string

const (
	ActionStartAll ToggleAction = "start-all"
	ActionPauseAll ToggleAction = "pause-all"
)

// ParseToggleAction parses a string into a ToggleAction
func ParseToggleAction(s string) (ToggleAction, error) {
	switch ToggleAction(s) {
	case ActionStartAll, ActionPauseAll:
		return ToggleAction(s), nil
	default:
		return "", entity.ErrInvalidAction
	}
}

// PlanToggleAccount flips one account between active and paused.
// Pausing an active account drops its pending leads.
func (b *Board) PlanToggleAccount(ref entity.ColumnRef, accountID string) (*Command, error) {
	if err := b.ensureReady(); err != nil {
		return nil, err
	}
	if ref.IsUnassigned() {
		return nil, entity.ErrUnassignedToggle
	}

	previous := b.store.Clone()
	next := previous.Clone()
	col, err := next.Column(ref.StoreID())
	if err != nil {
		return nil, err
	}
	i := col.IndexOf(accountID)
	if i < 0 {
		return nil, entity.ErrAccountNotFound
	}

	acc := &col.Accounts[i]
	call := RemoteCall{CampaignID: ref.WireCampaignID(), AccountID: acc.ID}
	if acc.IsActive() {
		acc.Status = entity.AccountStatusPaused
		acc.PendingLeadsCount = 0
		call.Op = OpPause
	} else {
		acc.Status = entity.AccountStatusActive
		call.Op = OpStart
		call.DisplayName = acc.DisplayName
	}

	cmd := newCommand(CommandToggle, previous, next, call)
	cmd.Scope = col.ID
	return cmd, nil
}

// PlanToggleAll sets every account of a campaign to active or paused in one batch
func (b *Board) PlanToggleAll(ref entity.ColumnRef, action ToggleAction) (*Command, error) {
	if _, err := ParseToggleAction(string(action)); err != nil {
		return nil, err
	}
	if err := b.ensureReady(); err != nil {
		return nil, err
	}
	if ref.IsUnassigned() {
		return nil, entity.ErrUnassignedToggle
	}

	previous := b.store.Clone()
	next := previous.Clone()
	col, err := next.Column(ref.StoreID())
	if err != nil {
		return nil, err
	}

	status, op := entity.AccountStatusActive, OpStartAll
	if action == ActionPauseAll {
		status, op = entity.AccountStatusPaused, OpPauseAll
	}
	for i := range col.Accounts {
		col.Accounts[i].Status = status
	}

	cmd := newCommand(CommandToggleAll, previous, next, RemoteCall{Op: op, CampaignID: ref.WireCampaignID()})
	cmd.Scope = col.ID
	return cmd, nil
}
