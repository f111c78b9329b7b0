package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

func TestSessionsLifecycle(t *testing.T) {
	f := &fakeCampaigns{overview: scenarioStore()}
	sessions := NewSessions(f, discardLogger(), SessionsConfig{Concurrency: 2})

	id, board, err := sessions.Open(context.Background(), entity.PlatformX)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := sessions.Get(id)
	require.NoError(t, err)
	assert.Same(t, board, got)

	view, err := got.View()
	require.NoError(t, err)
	assert.Equal(t, entity.PlatformX, view.Platform)

	require.NoError(t, sessions.Close(id))
	_, err = sessions.Get(id)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.ErrorIs(t, sessions.Close(id), entity.ErrSessionNotFound)

	_, _, err = sessions.Open(context.Background(), "friendster")
	assert.ErrorIs(t, err, entity.ErrInvalidPlatform)
}

func TestSessionsOpenDropsSessionOnLoadFailure(t *testing.T) {
	f := &fakeCampaigns{fetchErr: errors.New("down")}
	sessions := NewSessions(f, discardLogger(), SessionsConfig{Concurrency: 1})

	for range 3 {
		id, board, err := sessions.Open(context.Background(), "")
		require.Error(t, err)
		assert.Empty(t, id)
		assert.Nil(t, board)
	}
	assert.Zero(t, sessions.Len())

	f.mu.Lock()
	f.fetchErr = nil
	f.overview = scenarioStore()
	f.mu.Unlock()

	id, _, err := sessions.Open(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())
	_, err = sessions.Get(id)
	assert.NoError(t, err)
}

func TestSessionsEvictIdle(t *testing.T) {
	f := &fakeCampaigns{overview: scenarioStore()}
	sessions := NewSessions(f, discardLogger(), SessionsConfig{Concurrency: 1, IdleTTL: time.Hour})
	now := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }
	ctx := context.Background()

	stale, _, err := sessions.Open(ctx, "")
	require.NoError(t, err)
	used, _, err := sessions.Open(ctx, "")
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = sessions.Get(used)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	require.NoError(t, sessions.RefreshIdle(ctx))

	assert.Equal(t, 1, sessions.Len())
	_, err = sessions.Get(stale)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	_, err = sessions.Get(used)
	assert.NoError(t, err)

	// opening a new board also sweeps expired ones
	now = now.Add(2 * time.Hour)
	_, _, err = sessions.Open(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())
}

func TestRefreshIdle(t *testing.T) {
	f := &fakeCampaigns{overview: scenarioStore()}
	sessions := NewSessions(f, discardLogger(), SessionsConfig{Concurrency: 4})
	ctx := context.Background()

	for range 3 {
		_, _, err := sessions.Open(ctx, entity.PlatformInstagram)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.fetches)

	require.NoError(t, sessions.RefreshIdle(ctx))
	assert.Equal(t, 6, f.fetches)

	f.mu.Lock()
	f.fetchErr = errors.New("down")
	f.mu.Unlock()
	err := sessions.RefreshIdle(ctx)
	assert.ErrorContains(t, err, "down")
}
