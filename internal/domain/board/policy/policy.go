package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/service"
)

// CampaignService is the remote account/campaign service confirming board changes.
// An empty campaign id means "unassigned".
type CampaignService interface {
	GetOverview(ctx context.Context) (entity.Store, error)
	Assign(ctx context.Context, accountID, campaignID string) error
	BulkAssign(ctx context.Context, accountIDs []string, campaignID string) error
	StartAccount(ctx context.Context, campaignID, accountID, displayName string) error
	PauseAccount(ctx context.Context, campaignID, accountID string) error
	StartAllAccounts(ctx context.Context, campaignID string) error
	PauseAllAccounts(ctx context.Context, campaignID string) error
}

// RollbackRecorder keeps a trace of rolled back commands
type RollbackRecorder interface {
	RecordRollback(ctx context.Context, in RollbackIncident) error
}

// RollbackIncident describes a command whose confirmation failed
type RollbackIncident struct {
	CommandID  string              `json:"command_id"`
	Kind       service.CommandKind `json:"kind"`
	Op         service.Op          `json:"op"`
	CampaignID string              `json:"campaign_id"`
	AccountIDs []string            `json:"account_ids,omitempty"`
	Error      string              `json:"error"`
	Previous   entity.Store        `json:"previous"`
	Attempted  entity.Store        `json:"attempted"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// User-facing messages of failed mutations
const (
	MoveFailedMessage   = "Failed to move account(s). Please try again."
	ToggleFailedMessage = "Failed to update account status. Please try again."
)

// MutationError is returned when the campaign service rejected a command and the board was rolled back
type MutationError struct {
	Message   string
	CommandID string
	Err       error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s (%v)", e.Message, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Option configures a Policy
type Option func(*Policy)

// WithPlatform sets the initial platform tab
func WithPlatform(p entity.Platform) Option {
	return func(pl *Policy) {
		pl.platform = p
	}
}

// WithRollbackRecorder archives every rollback
func WithRollbackRecorder(r RollbackRecorder) Option {
	return func(pl *Policy) {
		pl.recorder = r
	}
}

// Policy runs board use-cases: it applies commands optimistically, confirms them
// with the campaign service and rolls back on failure. One command at a time.
type Policy struct {
	mu       sync.Mutex
	board    *service.Board
	version  uint64
	platform entity.Platform

	campaigns CampaignService
	recorder  RollbackRecorder
	logger    *slog.Logger
	overview  singleflight.Group
}

// New creates a board policy
func New(campaigns CampaignService, logger *slog.Logger, opts ...Option) *Policy {
	p := &Policy{
		platform:  entity.PlatformInstagram,
		campaigns: campaigns,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.board = service.NewBoard(p.platform)
	return p
}

// Refresh re-fetches the full overview and replaces the store.
// Concurrent refreshes share one fetch. Refused while a command is confirming.
func (p *Policy) Refresh(ctx context.Context) error {
	p.mu.Lock()
	busy, version := p.board.Busy(), p.version
	p.mu.Unlock()
	if busy {
		return entity.ErrBusy
	}

	_, err, _ := p.overview.Do("overview", func() (any, error) {
		store, err := p.campaigns.GetOverview(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching overview: %w", err)
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.board.Busy() {
			return nil, entity.ErrBusy
		}
		if p.version != version {
			p.logger.Debug("discarding overview older than the last command")
			return nil, nil
		}
		p.board.Hydrate(store)
		return nil, nil
	})
	return err
}

// Busy reports whether a command is waiting for confirmation
func (p *Policy) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.Busy()
}

// View renders the active platform tab
func (p *Policy) View() (service.BoardView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.board.Hydrated() {
		return service.BoardView{}, entity.ErrNotHydrated
	}
	return p.board.View(), nil
}

// Store returns a copy of the current store
func (p *Policy) Store() entity.Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.Store()
}

// SetPlatform switches the active platform tab, clearing the selection
func (p *Policy) SetPlatform(platform entity.Platform) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.SetPlatform(platform)
}

// ToggleSelection flips the selection of one account
func (p *Policy) ToggleSelection(accountID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.ToggleSelection(accountID)
}

// SelectAllInColumn runs the tri-state select-all of a column and returns the new label
func (p *Policy) SelectAllInColumn(ref entity.ColumnRef) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.SelectAllInColumn(ref)
}

// Move reconciles a drag and confirms it with assign or bulk assign
func (p *Policy) Move(ctx context.Context, e service.DragEvent) error {
	return p.run(ctx, func(b *service.Board) (*service.Command, error) {
		return b.PlanMove(e)
	})
}

// ToggleAccount starts or pauses one account of a campaign
func (p *Policy) ToggleAccount(ctx context.Context, ref entity.ColumnRef, accountID string) error {
	return p.run(ctx, func(b *service.Board) (*service.Command, error) {
		return b.PlanToggleAccount(ref, accountID)
	})
}

// ToggleAll starts or pauses every account of a campaign
func (p *Policy) ToggleAll(ctx context.Context, ref entity.ColumnRef, action service.ToggleAction) error {
	return p.run(ctx, func(b *service.Board) (*service.Command, error) {
		return b.PlanToggleAll(ref, action)
	})
}

// run plans and applies a command under the lock, then confirms it outside the lock
func (p *Policy) run(ctx context.Context, plan func(*service.Board) (*service.Command, error)) error {
	p.mu.Lock()
	cmd, err := plan(p.board)
	if err != nil || cmd == nil {
		p.mu.Unlock()
		return err
	}
	if err := p.board.Apply(cmd); err != nil {
		p.mu.Unlock()
		return err
	}
	p.version++
	p.mu.Unlock()

	return p.execute(ctx, cmd)
}

func (p *Policy) execute(ctx context.Context, cmd *service.Command) error {
	log := p.logger.With(
		"command_id", cmd.ID,
		"kind", cmd.Kind,
		"op", cmd.Call.Op,
		"campaign_id", cmd.Call.CampaignID,
		"accounts", len(cmd.AccountIDs()),
	)

	// Once issued, the confirm call runs to completion; the client timeout bounds it
	err := p.confirm(context.WithoutCancel(ctx), cmd.Call)

	p.mu.Lock()
	if err == nil {
		p.board.Commit(cmd)
		p.mu.Unlock()
		log.Info("board command confirmed")
		return nil
	}
	p.board.Rollback(cmd)
	p.mu.Unlock()

	log.Warn("board command rolled back", "error", err)
	p.record(ctx, cmd, err)

	msg := ToggleFailedMessage
	if cmd.Kind == service.CommandMove {
		msg = MoveFailedMessage
	}
	return &MutationError{Message: msg, CommandID: cmd.ID, Err: err}
}

func (p *Policy) confirm(ctx context.Context, call service.RemoteCall) error {
	switch call.Op {
	case service.OpAssign:
		return p.campaigns.Assign(ctx, call.AccountID, call.CampaignID)
	case service.OpBulkAssign:
		return p.campaigns.BulkAssign(ctx, call.AccountIDs, call.CampaignID)
	case service.OpStart:
		return p.campaigns.StartAccount(ctx, call.CampaignID, call.AccountID, call.DisplayName)
	case service.OpPause:
		return p.campaigns.PauseAccount(ctx, call.CampaignID, call.AccountID)
	case service.OpStartAll:
		return p.campaigns.StartAllAccounts(ctx, call.CampaignID)
	case service.OpPauseAll:
		return p.campaigns.PauseAllAccounts(ctx, call.CampaignID)
	default:
		return fmt.Errorf("unknown remote operation %q", call.Op)
	}
}

func (p *Policy) record(ctx context.Context, cmd *service.Command, cause error) {
	if p.recorder == nil {
		return
	}
	err := p.recorder.RecordRollback(context.WithoutCancel(ctx), RollbackIncident{
		CommandID:  cmd.ID,
		Kind:       cmd.Kind,
		Op:         cmd.Call.Op,
		CampaignID: cmd.Call.CampaignID,
		AccountIDs: cmd.AccountIDs(),
		Error:      cause.Error(),
		Previous:   cmd.Previous,
		Attempted:  cmd.Next,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Error("failed to archive rollback", "command_id", cmd.ID, "error", err)
	}
}
