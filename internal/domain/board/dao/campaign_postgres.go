package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
)

// CampaignPostgres implements the campaign service contract directly on the
// dashboard tables (campaigns, outreach_accounts). An empty campaign id maps to NULL.
type CampaignPostgres struct {
	pool *pgxpool.Pool
}

// NewCampaignPostgres creates a new PostgreSQL campaign repository
func NewCampaignPostgres(pool *pgxpool.Pool) *CampaignPostgres {
	return &CampaignPostgres{pool: pool}
}

// GetOverview loads every campaign with its accounts plus the unassigned bucket
func (r *CampaignPostgres) GetOverview(ctx context.Context) (entity.Store, error) {
	campaignsQuery := `
		SELECT id, name, platform
		FROM campaigns
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, campaignsQuery)
	if err != nil {
		return entity.Store{}, fmt.Errorf("querying campaigns: %w", err)
	}
	defer rows.Close()

	columns := []entity.Column{{ID: entity.UnassignedColumnID, Name: "Unassigned"}}
	index := map[string]int{"": 0}
	for rows.Next() {
		var c entity.Column
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform); err != nil {
			return entity.Store{}, fmt.Errorf("scanning campaign: %w", err)
		}
		index[c.ID] = len(columns)
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return entity.Store{}, fmt.Errorf("iterating campaigns: %w", err)
	}

	accountsQuery := `
		SELECT id, display_name, platform, status, pending_leads_count, COALESCE(campaign_id, '')
		FROM outreach_accounts
		WHERE deleted_at IS NULL
		ORDER BY position, id
	`

	accRows, err := r.pool.Query(ctx, accountsQuery)
	if err != nil {
		return entity.Store{}, fmt.Errorf("querying accounts: %w", err)
	}
	defer accRows.Close()

	for accRows.Next() {
		var (
			a          entity.Account
			campaignID string
		)
		if err := accRows.Scan(&a.ID, &a.DisplayName, &a.Platform, &a.Status, &a.PendingLeadsCount, &campaignID); err != nil {
			return entity.Store{}, fmt.Errorf("scanning account: %w", err)
		}
		// accounts of deleted campaigns fall back to the unassigned bucket
		i, ok := index[campaignID]
		if !ok {
			i = 0
		}
		columns[i].Accounts = append(columns[i].Accounts, a)
	}
	if err := accRows.Err(); err != nil {
		return entity.Store{}, fmt.Errorf("iterating accounts: %w", err)
	}

	return entity.NewStore(columns), nil
}

// Assign moves one account to a campaign
func (r *CampaignPostgres) Assign(ctx context.Context, accountID, campaignID string) error {
	query := `
		UPDATE outreach_accounts
		SET campaign_id = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, accountID, campaignID)
	if err != nil {
		return fmt.Errorf("assigning account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAccountNotFound
	}
	return nil
}

// BulkAssign moves several accounts in one transaction. Nothing is written unless every account exists.
func (r *CampaignPostgres) BulkAssign(ctx context.Context, accountIDs []string, campaignID string) error {
	query := `
		UPDATE outreach_accounts
		SET campaign_id = NULLIF($2, ''), updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, accountIDs, campaignID)
	if err != nil {
		return fmt.Errorf("bulk assigning accounts: %w", err)
	}
	if tag.RowsAffected() != int64(len(accountIDs)) {
		return fmt.Errorf("bulk assign matched %d of %d accounts: %w", tag.RowsAffected(), len(accountIDs), entity.ErrAccountNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing bulk assign: %w", err)
	}
	return nil
}

// StartAccount activates one account of a campaign
func (r *CampaignPostgres) StartAccount(ctx context.Context, campaignID, accountID, _ string) error {
	return r.setAccountStatus(ctx, campaignID, accountID, entity.AccountStatusActive, false)
}

// PauseAccount pauses one account of a campaign and drops its pending leads
func (r *CampaignPostgres) PauseAccount(ctx context.Context, campaignID, accountID string) error {
	return r.setAccountStatus(ctx, campaignID, accountID, entity.AccountStatusPaused, true)
}

func (r *CampaignPostgres) setAccountStatus(ctx context.Context, campaignID, accountID string, status entity.AccountStatus, resetLeads bool) error {
	query := `
		UPDATE outreach_accounts
		SET status = $3,
			pending_leads_count = CASE WHEN $4 THEN 0 ELSE pending_leads_count END,
			updated_at = NOW()
		WHERE id = $2 AND campaign_id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, campaignID, accountID, status, resetLeads)
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAccountNotFound
	}
	return nil
}

// StartAllAccounts activates every account of a campaign
func (r *CampaignPostgres) StartAllAccounts(ctx context.Context, campaignID string) error {
	return r.setCampaignStatus(ctx, campaignID, entity.AccountStatusActive)
}

// PauseAllAccounts pauses every account of a campaign
func (r *CampaignPostgres) PauseAllAccounts(ctx context.Context, campaignID string) error {
	return r.setCampaignStatus(ctx, campaignID, entity.AccountStatusPaused)
}

func (r *CampaignPostgres) setCampaignStatus(ctx context.Context, campaignID string, status entity.AccountStatus) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT true FROM campaigns WHERE id = $1 AND deleted_at IS NULL`, campaignID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrColumnNotFound
	}
	if err != nil {
		return fmt.Errorf("querying campaign: %w", err)
	}

	query := `
		UPDATE outreach_accounts
		SET status = $2, updated_at = NOW()
		WHERE campaign_id = $1 AND deleted_at IS NULL
	`
	if _, err := r.pool.Exec(ctx, query, campaignID, status); err != nil {
		return fmt.Errorf("updating campaign accounts: %w", err)
	}
	return nil
}
