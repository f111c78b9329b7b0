package app

import (
	"context"
	"log/slog"

	"github.com/vadim/neo-outreach/internal/domain/board/entity"
	"github.com/vadim/neo-outreach/internal/domain/board/policy"
	"github.com/vadim/neo-outreach/internal/httpx/upstream/campaigns"
	"github.com/vadim/neo-outreach/internal/storage"
)

// campaignClientAdapter adapts campaigns.Client to policy.CampaignService
type campaignClientAdapter struct {
	client *campaigns.Client
	logger *slog.Logger
}

func (a *campaignClientAdapter) GetOverview(ctx context.Context) (entity.Store, error) {
	out, err := a.client.GetOverview(ctx)
	if err != nil {
		return entity.Store{}, err
	}
	return overviewToStore(out, a.logger), nil
}

func (a *campaignClientAdapter) Assign(ctx context.Context, accountID, campaignID string) error {
	return a.client.Assign(ctx, accountID, campaignID)
}

func (a *campaignClientAdapter) BulkAssign(ctx context.Context, accountIDs []string, campaignID string) error {
	return a.client.BulkAssign(ctx, accountIDs, campaignID)
}

func (a *campaignClientAdapter) StartAccount(ctx context.Context, campaignID, accountID, displayName string) error {
	return a.client.StartAccount(ctx, campaignID, accountID, displayName)
}

func (a *campaignClientAdapter) PauseAccount(ctx context.Context, campaignID, accountID string) error {
	return a.client.PauseAccount(ctx, campaignID, accountID)
}

func (a *campaignClientAdapter) StartAllAccounts(ctx context.Context, campaignID string) error {
	return a.client.StartAllAccounts(ctx, campaignID)
}

func (a *campaignClientAdapter) PauseAllAccounts(ctx context.Context, campaignID string) error {
	return a.client.PauseAllAccounts(ctx, campaignID)
}

// overviewToStore converts the wire overview into a board store.
// Accounts or campaigns on unknown platforms cannot be shown on any tab and are dropped.
func overviewToStore(out *campaigns.OverviewOutput, logger *slog.Logger) entity.Store {
	columns := make([]entity.Column, 0, len(out.Campaigns)+1)
	columns = append(columns, entity.Column{
		ID:       entity.UnassignedColumnID,
		Name:     "Unassigned",
		Accounts: toAccounts(out.Unassigned, logger),
	})

	for _, c := range out.Campaigns {
		platform, err := entity.ParsePlatform(c.Platform)
		if err != nil {
			logger.Warn("skipping campaign with unknown platform", "campaign_id", c.ID, "platform", c.Platform)
			continue
		}
		columns = append(columns, entity.Column{
			ID:       c.ID,
			Name:     c.Name,
			Platform: platform,
			Accounts: toAccounts(c.Accounts, logger),
		})
	}

	return entity.NewStore(columns)
}

func toAccounts(in []campaigns.AccountData, logger *slog.Logger) []entity.Account {
	out := make([]entity.Account, 0, len(in))
	for _, a := range in {
		platform, err := entity.ParsePlatform(a.Platform)
		if err != nil {
			logger.Warn("skipping account with unknown platform", "account_id", a.ID, "platform", a.Platform)
			continue
		}
		out = append(out, entity.Account{
			ID:                a.ID,
			DisplayName:       a.DisplayName,
			Platform:          platform,
			Status:            toStatus(a.Status),
			PendingLeadsCount: a.PendingLeadsCount,
		})
	}
	return out
}

func toStatus(s string) entity.AccountStatus {
	switch entity.AccountStatus(s) {
	case entity.AccountStatusActive:
		return entity.AccountStatusActive
	case entity.AccountStatusPaused:
		return entity.AccountStatusPaused
	default:
		return entity.AccountStatusReady
	}
}

// rollbackArchiveAdapter adapts storage.S3Storage to policy.RollbackRecorder
type rollbackArchiveAdapter struct {
	archive *storage.S3Storage
}

func (a *rollbackArchiveAdapter) RecordRollback(ctx context.Context, in policy.RollbackIncident) error {
	_, err := a.archive.PutJSON(ctx, in)
	return err
}
