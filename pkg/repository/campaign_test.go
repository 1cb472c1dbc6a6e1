package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

func runCampaignRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		campaign := &model.Campaign{
			Name:   "Q3 outbound",
			Type:   types.CampaignTypeMixed,
			Status: types.CampaignStatusDraft,
			Leads:  []model.LeadID{model.NewLeadID(), model.NewLeadID()},
			Team:   []model.UserID{model.NewUserID()},
			Metrics: model.CampaignMetrics{
				TotalLeads: 2,
				EmailsSent: 5,
			},
		}

		created, err := repo.Campaign().Create(ctx, campaign)
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.CampaignID(""))

		retrieved, err := repo.Campaign().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Name).Equal("Q3 outbound")
		gt.Value(t, retrieved.Type).Equal(types.CampaignTypeMixed)
		gt.Array(t, retrieved.Leads).Length(2)
		gt.Array(t, retrieved.Team).Length(1)
		gt.Number(t, retrieved.Metrics.EmailsSent).Equal(5)
	})

	t.Run("Get returns ErrNotFound for unknown campaign", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Campaign().Get(context.Background(), model.NewCampaignID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Update persists metrics and membership", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Campaign().Create(ctx, &model.Campaign{
			Name:   "Calls",
			Type:   types.CampaignTypeCall,
			Status: types.CampaignStatusActive,
		})
		gt.NoError(t, err).Required()

		created.AddLeads(model.NewLeadID())
		created.RecordOutreach(types.OutreachTypeCall)
		created.Status = types.CampaignStatusPaused

		updated, err := repo.Campaign().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()

		retrieved, err := repo.Campaign().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.CampaignStatusPaused)
		gt.Array(t, retrieved.Leads).Length(1)
		gt.Number(t, retrieved.Metrics.CallsMade).Equal(1)
		gt.Number(t, retrieved.Metrics.TotalLeads).Equal(1)
	})

	t.Run("List filters by status and type", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, c := range []*model.Campaign{
			{Name: "a", Type: types.CampaignTypeEmail, Status: types.CampaignStatusActive},
			{Name: "b", Type: types.CampaignTypeEmail, Status: types.CampaignStatusDraft},
			{Name: "c", Type: types.CampaignTypeLinkedIn, Status: types.CampaignStatusActive},
		} {
			_, err := repo.Campaign().Create(ctx, c)
			gt.NoError(t, err).Required()
		}

		active, err := repo.Campaign().List(ctx, interfaces.WithCampaignStatus(types.CampaignStatusActive))
		gt.NoError(t, err).Required()
		gt.Array(t, active).Length(2)

		activeEmail, err := repo.Campaign().List(ctx,
			interfaces.WithCampaignStatus(types.CampaignStatusActive),
			interfaces.WithCampaignType(types.CampaignTypeEmail))
		gt.NoError(t, err).Required()
		gt.Array(t, activeEmail).Length(1)
		gt.Value(t, activeEmail[0].Name).Equal("a")
	})

	t.Run("FindByName matches the exact name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		name := "Launch " + string(model.NewCampaignID())

		created, err := repo.Campaign().Create(ctx, &model.Campaign{Name: name, Type: types.CampaignTypeEmail, Status: types.CampaignStatusDraft})
		gt.NoError(t, err).Required()

		found, err := repo.Campaign().FindByName(ctx, name)
		gt.NoError(t, err).Required()
		gt.Value(t, found).NotNil()
		gt.Value(t, found.ID).Equal(created.ID)

		missing, err := repo.Campaign().FindByName(ctx, name+" ")
		gt.NoError(t, err)
		gt.Value(t, missing).Nil()
	})

	t.Run("Delete removes campaign", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Campaign().Create(ctx, &model.Campaign{Name: "tmp", Type: types.CampaignTypeEmail, Status: types.CampaignStatusDraft})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Campaign().Delete(ctx, created.ID)).Required()
		_, err = repo.Campaign().Get(ctx, created.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestMemoryCampaignRepository(t *testing.T) {
	runCampaignRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreCampaignRepository(t *testing.T) {
	runCampaignRepositoryTest(t, newFirestoreRepository)
}
