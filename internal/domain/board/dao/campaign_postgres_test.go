package dao

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-outreach/internal/config"
	"github.com/vadim/neo-outreach/internal/database"
	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

const schema = `
CREATE TEMP TABLE campaigns (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	platform   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at TIMESTAMPTZ
);
CREATE TEMP TABLE outreach_accounts (
	id                  TEXT PRIMARY KEY,
	display_name        TEXT NOT NULL,
	platform            TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'ready',
	pending_leads_count INT NOT NULL DEFAULT 0,
	campaign_id         TEXT,
	position            INT NOT NULL DEFAULT 0,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at          TIMESTAMPTZ
);
INSERT INTO campaigns (id, name, platform, created_at) VALUES
	('C1', 'Spring', 'instagram', NOW() - INTERVAL '2 days'),
	('C2', 'Summer', 'instagram', NOW() - INTERVAL '1 day');
INSERT INTO outreach_accounts (id, display_name, platform, status, pending_leads_count, campaign_id, position) VALUES
	('a1', '@a1', 'instagram', 'active', 4, 'C1', 0),
	('a3', '@a3', 'instagram', 'paused', 0, 'C1', 1),
	('a2', '@a2', 'instagram', 'ready', 0, NULL, 0),
	('x1', '@x1', 'x', 'ready', 0, NULL, 1);
`

// newTestRepo connects to TEST_DATABASE_URL with a single connection so the
// temporary tables stay visible to every query.
func newTestRepo(t *testing.T) *CampaignPostgres {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, config.Database{PostgresDSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)
	return NewCampaignPostgres(pool)
}

func accountIDs(t *testing.T, store entity.Store, columnID string) []string {
	t.Helper()
	col, err := store.Column(columnID)
	require.NoError(t, err)
	ids := make([]string, 0, len(col.Accounts))
	for _, a := range col.Accounts {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestCampaignPostgresOverview(t *testing.T) {
	repo := newTestRepo(t)

	store, err := repo.GetOverview(context.Background())
	require.NoError(t, err)

	require.Len(t, store.Columns, 3)
	assert.Equal(t, []string{"a2", "x1"}, accountIDs(t, store, entity.UnassignedColumnID))
	assert.Equal(t, []string{"a1", "a3"}, accountIDs(t, store, "C1"))
	assert.Empty(t, accountIDs(t, store, "C2"))

	c1, err := store.Column("C1")
	require.NoError(t, err)
	assert.Equal(t, entity.ColumnStatusActive, c1.Status)
	assert.Equal(t, 4, c1.Accounts[0].PendingLeadsCount)
}

func TestCampaignPostgresAssign(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Assign(ctx, "a2", "C2"))
	require.NoError(t, repo.BulkAssign(ctx, []string{"a3", "x1"}, ""))
	assert.ErrorIs(t, repo.Assign(ctx, "nope", "C2"), entity.ErrAccountNotFound)

	// a partial bulk assign writes nothing
	err := repo.BulkAssign(ctx, []string{"a2", "nope"}, "C1")
	assert.ErrorIs(t, err, entity.ErrAccountNotFound)

	store, err := repo.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "x1"}, accountIDs(t, store, entity.UnassignedColumnID))
	assert.Equal(t, []string{"a1"}, accountIDs(t, store, "C1"))
	assert.Equal(t, []string{"a2"}, accountIDs(t, store, "C2"))
}

func TestCampaignPostgresActivation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PauseAccount(ctx, "C1", "a1"))
	store, err := repo.GetOverview(ctx)
	require.NoError(t, err)
	c1, _ := store.Column("C1")
	assert.Equal(t, entity.AccountStatusPaused, c1.Accounts[0].Status)
	assert.Zero(t, c1.Accounts[0].PendingLeadsCount)
	assert.Equal(t, entity.ColumnStatusPaused, c1.Status)

	require.NoError(t, repo.StartAllAccounts(ctx, "C1"))
	store, err = repo.GetOverview(ctx)
	require.NoError(t, err)
	c1, _ = store.Column("C1")
	for _, a := range c1.Accounts {
		assert.Equal(t, entity.AccountStatusActive, a.Status, a.ID)
	}

	assert.ErrorIs(t, repo.StartAccount(ctx, "C2", "a1", "@a1"), entity.ErrAccountNotFound)
	assert.ErrorIs(t, repo.PauseAllAccounts(ctx, "C9"), entity.ErrColumnNotFound)
}

