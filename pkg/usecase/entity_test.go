package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func ptr[T any](v T) *T {
	return &v
}

func TestLeadUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("create normalizes and rejects duplicates", func(t *testing.T) {
		f := newFixture(t)
		lead, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "  Ada@Example.com ", Company: " Acme "})
		gt.NoError(t, err).Required()
		gt.String(t, lead.Email).Equal("ada@example.com")
		gt.String(t, lead.Company).Equal("Acme")
		gt.Value(t, lead.Status).Equal(types.LeadStatusNew)
		gt.Value(t, lead.CreatedBy).Equal(f.user.ID)

		_, err = f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "ada@example.com", Company: "Acme"})
		gt.Bool(t, errors.Is(err, interfaces.ErrConflict)).True()

		_, err = f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "ada@example.com", Company: "Globex"})
		gt.Bool(t, errors.Is(err, interfaces.ErrConflict)).True()

		_, err = f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "not-an-email"})
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		f := newFixture(t)
		lead, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "grace@example.com", FirstName: "Grace", Phone: "555"})
		gt.NoError(t, err).Required()

		updated, err := f.uc.Lead.Update(ctx, lead.ID, &usecase.LeadUpdate{
			Status: ptr(types.LeadStatusQualified),
			Tags:   ptr([]string{"vip", "vip", "east"}),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.LeadStatusQualified)
		gt.String(t, updated.FirstName).Equal("Grace")
		gt.String(t, updated.Phone).Equal("555")
		gt.Array(t, updated.Tags).Equal([]string{"vip", "east"})

		_, err = f.uc.Lead.Update(ctx, model.NewLeadID(), &usecase.LeadUpdate{})
		gt.Bool(t, errors.Is(err, usecase.ErrLeadNotFound)).True()
	})

	t.Run("list filters and counts", func(t *testing.T) {
		f := newFixture(t)
		for _, email := range []string{"l1@example.com", "l2@example.com", "l3@example.com"} {
			_, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: email, Tags: []string{"batch"}})
			gt.NoError(t, err).Required()
		}
		_, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "other@example.com"})
		gt.NoError(t, err).Required()

		list, err := f.uc.Lead.List(ctx, usecase.LeadFilter{Tag: ptr("batch"), Limit: 2})
		gt.NoError(t, err).Required()
		gt.Number(t, list.Total).Equal(3)
		gt.Array(t, list.Items).Length(2)
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		lead, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "bye@example.com"})
		gt.NoError(t, err).Required()

		gt.NoError(t, f.uc.Lead.Delete(ctx, lead.ID))
		err = f.uc.Lead.Delete(ctx, lead.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrLeadNotFound)).True()
	})

	t.Run("import skips existing and reports invalid rows", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.Lead.Create(ctx, f.user.ID, &model.Lead{Email: "exists@example.com", Company: "Acme"})
		gt.NoError(t, err).Required()

		result, err := f.uc.Lead.Import(ctx, f.user.ID, []*model.Lead{
			{Email: "new1@example.com", Company: "Acme"},
			{Email: "EXISTS@example.com", Company: "Acme"},
			{Email: "broken"},
			{Email: "new2@example.com"},
			{Email: "new2@example.com"},
			{Email: "exists@example.com", Company: "Globex"},
		})
		gt.NoError(t, err).Required()
		gt.Number(t, result.Created).Equal(2)
		gt.Number(t, result.Skipped).Equal(3)
		gt.Number(t, result.Failed).Equal(1)
		gt.Array(t, result.Failures).Length(1).Required()
		gt.Number(t, result.Failures[0].Row).Equal(3)

		imported, err := f.repo.Lead().FindByEmailCompany(ctx, "new1@example.com", "Acme")
		gt.NoError(t, err).Required()
		gt.Value(t, imported.Source).Equal(types.LeadSourceImport)
	})
}

func TestCampaignUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("creator joins the team", func(t *testing.T) {
		f := newFixture(t)
		campaign, err := f.uc.Campaign.Create(ctx, f.user.ID, &model.Campaign{Name: " Launch ", Type: types.CampaignTypeMixed})
		gt.NoError(t, err).Required()
		gt.String(t, campaign.Name).Equal("Launch")
		gt.Value(t, campaign.Status).Equal(types.CampaignStatusDraft)
		gt.Array(t, campaign.Team).Equal([]model.UserID{f.user.ID})
	})

	t.Run("leads must exist", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "member@example.com"})
		campaign, err := f.uc.Campaign.Create(ctx, f.user.ID, &model.Campaign{Name: "Leads", Type: types.CampaignTypeEmail})
		gt.NoError(t, err).Required()

		updated, err := f.uc.Campaign.AddLeads(ctx, campaign.ID, []model.LeadID{lead.ID, lead.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Leads).Equal([]model.LeadID{lead.ID})
		gt.Number(t, updated.Metrics.TotalLeads).Equal(1)

		_, err = f.uc.Campaign.AddLeads(ctx, campaign.ID, []model.LeadID{model.NewLeadID()})
		gt.Bool(t, errors.Is(err, usecase.ErrLeadNotFound)).True()

		updated, err = f.uc.Campaign.RemoveLead(ctx, campaign.ID, lead.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Leads).Length(0)
		gt.Number(t, updated.Metrics.TotalLeads).Equal(0)
	})

	t.Run("team membership", func(t *testing.T) {
		f := newFixture(t)
		other, err := f.uc.User.Create(ctx, &model.User{Email: "manager@example.com", Role: types.UserRoleManager})
		gt.NoError(t, err).Required()
		campaign, err := f.uc.Campaign.Create(ctx, f.user.ID, &model.Campaign{Name: "Team", Type: types.CampaignTypeCall})
		gt.NoError(t, err).Required()

		updated, err := f.uc.Campaign.AddTeamMember(ctx, campaign.ID, other.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Team).Length(2)

		_, err = f.uc.Campaign.AddTeamMember(ctx, campaign.ID, model.NewUserID())
		gt.Bool(t, errors.Is(err, usecase.ErrUserNotFound)).True()

		updated, err = f.uc.Campaign.RemoveTeamMember(ctx, campaign.ID, f.user.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Team).Equal([]model.UserID{other.ID})
	})

	t.Run("status and filters", func(t *testing.T) {
		f := newFixture(t)
		a, err := f.uc.Campaign.Create(ctx, f.user.ID, &model.Campaign{Name: "A", Type: types.CampaignTypeEmail})
		gt.NoError(t, err).Required()
		_, err = f.uc.Campaign.Create(ctx, f.user.ID, &model.Campaign{Name: "B", Type: types.CampaignTypeCall})
		gt.NoError(t, err).Required()

		_, err = f.uc.Campaign.UpdateStatus(ctx, a.ID, types.CampaignStatusActive)
		gt.NoError(t, err).Required()

		active, err := f.uc.Campaign.List(ctx, usecase.CampaignFilter{Status: ptr(types.CampaignStatusActive)})
		gt.NoError(t, err).Required()
		gt.Array(t, active).Length(1).Required()
		gt.Value(t, active[0].ID).Equal(a.ID)

		_, err = f.uc.Campaign.UpdateStatus(ctx, a.ID, types.CampaignStatus("Bogus"))
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()

		gt.NoError(t, f.uc.Campaign.Delete(ctx, a.ID))
		_, err = f.uc.Campaign.Get(ctx, a.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrCampaignNotFound)).True()
	})
}

func TestSequenceUseCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	campaign := f.createCampaign(t, "Drip", types.CampaignTypeMixed)

	seq, err := f.uc.Sequence.Create(ctx, f.user.ID, campaign.ID, &model.Sequence{
		Name: "Three touch",
		Steps: []model.Step{
			{Order: 2, Channel: types.ChannelSalesfinity, DelayDays: 2},
			{Order: 1, Channel: types.ChannelInstantly, Content: model.StepContent{Subject: "Hi"}},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, seq.CampaignID).Equal(campaign.ID)
	gt.Value(t, seq.Steps[0].Channel).Equal(types.ChannelInstantly)

	_, err = f.uc.Sequence.Create(ctx, f.user.ID, model.NewCampaignID(), &model.Sequence{Name: "Orphan"})
	gt.Bool(t, errors.Is(err, usecase.ErrCampaignNotFound)).True()

	updated, err := f.uc.Sequence.Update(ctx, seq.ID, &usecase.SequenceUpdate{Active: ptr(true)})
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.Active).True()
	gt.Array(t, updated.Steps).Length(2)

	_, err = f.uc.Sequence.Update(ctx, seq.ID, &usecase.SequenceUpdate{Steps: ptr([]model.Step{
		{Order: 1, Channel: types.ChannelInstantly},
		{Order: 1, Channel: types.ChannelLinkedIn},
	})})
	gt.Bool(t, errors.Is(err, model.ErrValidation)).True()

	list, err := f.uc.Sequence.ListByCampaign(ctx, campaign.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(1)

	gt.NoError(t, f.uc.Sequence.Delete(ctx, seq.ID))
	err = f.uc.Sequence.Delete(ctx, seq.ID)
	gt.Bool(t, errors.Is(err, usecase.ErrSequenceNotFound)).True()
}

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()

	validFactory := func(valid bool) usecase.AdapterFactory {
		result := func(ctx context.Context) *provider.ConnectionResult {
			if valid {
				return provider.Valid("acct")
			}
			return provider.Invalid(errors.New("invalid API key"))
		}
		return usecase.AdapterFactory{
			Instantly: func(cfg *model.InstantlyIntegration) (instantly.Service, error) {
				return &mockInstantly{validateFn: result}, nil
			},
			Salesfinity: func(cfg *model.SalesfinityIntegration) (salesfinity.Service, error) {
				return &mockSalesfinity{validateFn: result}, nil
			},
			PhantomBuster: func(cfg *model.PhantomBusterIntegration) (phantombuster.Service, error) {
				return &mockPhantom{validateFn: result}, nil
			},
		}
	}

	t.Run("create clears integrations and rejects duplicate email", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.uc.User.Create(ctx, &model.User{
			Email:        "New@Example.com",
			Integrations: model.Integrations{Instantly: &model.InstantlyIntegration{APIKey: "smuggled", Enabled: true}},
		})
		gt.NoError(t, err).Required()
		gt.String(t, user.Email).Equal("new@example.com")
		gt.Value(t, user.Role).Equal(types.UserRoleSalesRep)
		gt.Value(t, user.Integrations.Instantly).Nil()

		_, err = f.uc.User.Create(ctx, &model.User{Email: "new@example.com"})
		gt.Bool(t, errors.Is(err, interfaces.ErrConflict)).True()
	})

	t.Run("update rejects an email taken by another user", func(t *testing.T) {
		f := newFixture(t)
		other, err := f.uc.User.Create(ctx, &model.User{Email: "other@example.com"})
		gt.NoError(t, err).Required()

		_, err = f.uc.User.Update(ctx, other.ID, &usecase.UserUpdate{Email: ptr("rep@example.com")})
		gt.Bool(t, errors.Is(err, interfaces.ErrConflict)).True()

		updated, err := f.uc.User.Update(ctx, other.ID, &usecase.UserUpdate{Name: ptr("Other"), Role: ptr(types.UserRoleAdmin)})
		gt.NoError(t, err).Required()
		gt.String(t, updated.Name).Equal("Other")
		gt.Value(t, updated.Role).Equal(types.UserRoleAdmin)
	})

	t.Run("integration is stored after a successful check", func(t *testing.T) {
		f := newFixture(t, withoutDefaults(), withRegistryOption(usecase.WithAdapterFactory(validFactory(true))))

		user, err := f.uc.User.SetIntegration(ctx, f.user.ID, types.ChannelLinkedIn, usecase.IntegrationInput{
			APIKey:            "pb-key",
			ConnectionAgentID: "agent-1",
			SessionCookie:     "li_at",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, user.Integrations.HasEnabled(types.ChannelLinkedIn)).True()
		gt.String(t, user.Integrations.PhantomBuster.ConnectionAgentID).Equal("agent-1")
		gt.Bool(t, f.uc.Registry().HasChannelAccess(user, types.ChannelLinkedIn)).True()

		disabled, err := f.uc.User.DisableIntegration(ctx, f.user.ID, types.ChannelLinkedIn)
		gt.NoError(t, err).Required()
		gt.Bool(t, disabled.Integrations.HasEnabled(types.ChannelLinkedIn)).False()
		gt.String(t, disabled.Integrations.PhantomBuster.APIKey).Equal("pb-key")
	})

	t.Run("rejected check leaves the user untouched", func(t *testing.T) {
		f := newFixture(t, withoutDefaults(), withRegistryOption(usecase.WithAdapterFactory(validFactory(false))))

		_, err := f.uc.User.SetIntegration(ctx, f.user.ID, types.ChannelInstantly, usecase.IntegrationInput{APIKey: "bad"})
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
		gt.String(t, err.Error()).Contains("invalid API key")

		stored, err := f.uc.User.Get(ctx, f.user.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Integrations.Instantly).Nil()
	})

	t.Run("input errors", func(t *testing.T) {
		f := newFixture(t, withRegistryOption(usecase.WithAdapterFactory(validFactory(true))))

		_, err := f.uc.User.SetIntegration(ctx, f.user.ID, types.ChannelInstantly, usecase.IntegrationInput{})
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()

		_, err = f.uc.User.SetIntegration(ctx, f.user.ID, types.ChannelPersonalEmail, usecase.IntegrationInput{APIKey: "x"})
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()

		_, err = f.uc.User.SetIntegration(ctx, model.NewUserID(), types.ChannelInstantly, usecase.IntegrationInput{APIKey: "x"})
		gt.Bool(t, errors.Is(err, usecase.ErrUserNotFound)).True()
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		gt.NoError(t, f.uc.User.Delete(ctx, f.user.ID))
		_, err := f.uc.User.Get(ctx, f.user.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrUserNotFound)).True()
	})
}
