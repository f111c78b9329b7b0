package service

import (
	"github.com/google/uuid"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// CommandKind identifies the user action behind a command
type CommandKind string

const (
	CommandMove      CommandKind = "move"
	CommandToggle    CommandKind = "toggle"
	CommandToggleAll CommandKind = "toggle_all"
)

// Op is the remote operation confirming a command
type Op string

const (
	OpAssign     Op = "assign"
	OpBulkAssign Op = "bulk_assign"
	OpStart      Op = "start"
	OpPause      Op = "pause"
	OpStartAll   Op = "start_all"
	OpPauseAll   Op = "pause_all"
)

// RemoteCall describes the single campaign service call confirming a command.
// CampaignID is already in wire form: the unassigned bucket is "".
type RemoteCall struct {
	Op          Op
	CampaignID  string
	AccountID   string
	AccountIDs  []string
	DisplayName string
}

// Command is one optimistic mutation: the state before it, the state after it
// and the remote call that makes it durable.
type Command struct {
	ID       string
	Kind     CommandKind
	Previous entity.Store
	Next     entity.Store
	Call     RemoteCall

	// Scope limits rollback to one column. Empty restores the whole store.
	Scope string

	// ClearSelection drops the selection once the call is confirmed.
	ClearSelection bool
}

func newCommand(kind CommandKind, previous, next entity.Store, call RemoteCall) *Command {
	next.Recompute()
	return &Command{
		ID:       uuid.New().String(),
		Kind:     kind,
		Previous: previous,
		Next:     next,
		Call:     call,
	}
}

// AccountIDs returns every account touched by the remote call
func (c *Command) AccountIDs() []string {
	if len(c.Call.AccountIDs) > 0 {
		return c.Call.AccountIDs
	}
	if c.Call.AccountID != "" {
		return []string{c.Call.AccountID}
	}
	return nil
}
