package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// SessionsConfig tunes the session registry
type SessionsConfig struct {
	// Concurrency bounds parallel refreshes in RefreshIdle
	Concurrency int
	// IdleTTL evicts sessions not used for this long. Zero keeps sessions until closed.
	IdleTTL time.Duration
}

type session struct {
	board    *Policy
	lastSeen time.Time
}

// Sessions keeps one board per operator session
type Sessions struct {
	mu     sync.RWMutex
	boards map[string]*session

	campaigns CampaignService
	logger    *slog.Logger
	opts      []Option
	cfg       SessionsConfig
	now       func() time.Time
}

// NewSessions creates an empty session registry. Options apply to every board it opens.
func NewSessions(campaigns CampaignService, logger *slog.Logger, cfg SessionsConfig, opts ...Option) *Sessions {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Sessions{
		boards:    make(map[string]*session),
		campaigns: campaigns,
		logger:    logger,
		opts:      opts,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Open creates a board and loads its overview. The session is registered
// only once the first load succeeded.
func (s *Sessions) Open(ctx context.Context, platform entity.Platform) (string, *Policy, error) {
	opts := append([]Option{}, s.opts...)
	if platform != "" {
		if _, err := entity.ParsePlatform(string(platform)); err != nil {
			return "", nil, err
		}
		opts = append(opts, WithPlatform(platform))
	}

	id := uuid.New().String()
	board := New(s.campaigns, s.logger.With("session_id", id), opts...)
	if err := board.Refresh(ctx); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.evictLocked()
	s.boards[id] = &session{board: board, lastSeen: s.now()}
	s.mu.Unlock()

	return id, board, nil
}

// Get returns the board of a session and marks it as used
func (s *Sessions) Get(id string) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.boards[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.board, nil
}

// Close drops a session
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(s.boards, id)
	return nil
}

// Len returns the number of open sessions
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}

// evictLocked drops sessions idle for longer than the TTL. Boards with a command in flight stay.
func (s *Sessions) evictLocked() {
	if s.cfg.IdleTTL <= 0 {
		return
	}
	cutoff := s.now().Add(-s.cfg.IdleTTL)
	for id, sess := range s.boards {
		if sess.lastSeen.Before(cutoff) && !sess.board.Busy() {
			delete(s.boards, id)
			s.logger.Info("board session expired", "session_id", id, "last_seen", sess.lastSeen)
		}
	}
}

// RefreshIdle evicts expired sessions, then re-fetches the overview of every
// session that has no command in flight
func (s *Sessions) RefreshIdle(ctx context.Context) error {
	s.mu.Lock()
	s.evictLocked()
	boards := make(map[string]*Policy, len(s.boards))
	for id, sess := range s.boards {
		boards[id] = sess.board
	}
	s.mu.Unlock()

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for id, board := range boards {
		if board.Busy() {
			continue
		}
		g.Go(func() error {
			err := board.Refresh(gctx)
			if err == nil || errors.Is(err, entity.ErrBusy) {
				return nil
			}
			mu.Lock()
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
