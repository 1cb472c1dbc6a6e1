package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

func TestLead_Validate(t *testing.T) {
	tests := []struct {
		name    string
		lead    model.Lead
		wantErr bool
	}{
		{
			name: "valid",
			lead: model.Lead{Email: "test.lead@example.com", Status: types.LeadStatusNew, Source: types.LeadSourceManual},
		},
		{
			name:    "missing email",
			lead:    model.Lead{Status: types.LeadStatusNew, Source: types.LeadSourceManual},
			wantErr: true,
		},
		{
			name:    "malformed email",
			lead:    model.Lead{Email: "not-an-email", Status: types.LeadStatusNew, Source: types.LeadSourceManual},
			wantErr: true,
		},
		{
			name:    "invalid status",
			lead:    model.Lead{Email: "a@example.com", Status: "Warm", Source: types.LeadSourceManual},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if tt.wantErr {
				gt.Error(t, err).Is(model.ErrValidation)
				return
			}
			gt.NoError(t, err)
		})
	}
}

func TestLead_NormalizeAndMarkContacted(t *testing.T) {
	lead := &model.Lead{Email: "  Test.Lead@Example.COM ", Tags: []string{"vip", "vip", " ", "fintech"}}
	lead.Normalize()

	gt.Value(t, lead.Email).Equal("test.lead@example.com")
	gt.Value(t, lead.Status).Equal(types.LeadStatusNew)
	gt.Value(t, lead.Source).Equal(types.LeadSourceManual)
	gt.Array(t, lead.Tags).Length(2)

	now := time.Now()
	lead.MarkContacted(types.ChannelSalesfinity, now)
	gt.Value(t, lead.Status).Equal(types.LeadStatusContacted)
	gt.Value(t, lead.Source).Equal(types.LeadSourceSalesfinity)
	gt.Value(t, lead.LastContactedDate).NotNil()

	lead.Status = types.LeadStatusQualified
	lead.MarkContacted(types.ChannelInstantly, now)
	gt.Value(t, lead.Status).Equal(types.LeadStatusQualified)
	gt.Value(t, lead.Source).Equal(types.LeadSourceInstantly)
}

func TestCampaign_SetSemantics(t *testing.T) {
	c := &model.Campaign{Name: "Test Integration Campaign", Type: types.CampaignTypeMixed}
	c.Normalize()
	gt.Value(t, c.Status).Equal(types.CampaignStatusDraft)

	l1, l2 := model.NewLeadID(), model.NewLeadID()
	gt.Value(t, c.AddLeads(l1, l2, l1)).Equal(2)
	gt.Value(t, c.AddLeads(l1)).Equal(0)
	gt.Array(t, c.Leads).Length(2)
	gt.Value(t, c.Metrics.TotalLeads).Equal(2)

	gt.Bool(t, c.RemoveLead(l1)).True()
	gt.Bool(t, c.RemoveLead(l1)).False()
	gt.Value(t, c.Metrics.TotalLeads).Equal(1)

	u := model.NewUserID()
	gt.Bool(t, c.AddTeamMember(u)).True()
	gt.Bool(t, c.AddTeamMember(u)).False()
	gt.Array(t, c.Team).Length(1)
	gt.Bool(t, c.RemoveTeamMember(u)).True()
	gt.Array(t, c.Team).Length(0)

	gt.NoError(t, c.Validate())
}

func TestSequence_Validate(t *testing.T) {
	valid := model.Sequence{
		CampaignID: model.NewCampaignID(),
		Name:       "Cold intro",
		Steps: []model.Step{
			{Order: 2, Channel: types.ChannelSalesfinity, DelayDays: 2, ActiveHours: &model.HourWindow{Start: 9, End: 17}},
			{Order: 1, Channel: types.ChannelInstantly, Content: model.StepContent{Subject: "Hello"}},
		},
	}
	gt.NoError(t, valid.Validate())

	valid.SortSteps()
	gt.Value(t, valid.Steps[0].Order).Equal(1)
	gt.Value(t, valid.Steps[1].Delay()).Equal(48 * time.Hour)

	t.Run("duplicate order", func(t *testing.T) {
		s := valid
		s.Steps = []model.Step{
			{Order: 1, Channel: types.ChannelInstantly},
			{Order: 1, Channel: types.ChannelLinkedIn},
		}
		gt.Error(t, s.Validate()).Is(model.ErrValidation)
	})

	t.Run("inverted window", func(t *testing.T) {
		s := valid
		s.Steps = []model.Step{
			{Order: 1, Channel: types.ChannelInstantly, ActiveHours: &model.HourWindow{Start: 18, End: 9}},
		}
		gt.Error(t, s.Validate()).Is(model.ErrValidation)
	})

	t.Run("unknown skip condition", func(t *testing.T) {
		s := valid
		s.Steps = []model.Step{
			{Order: 1, Channel: types.ChannelInstantly, SkipConditions: []model.SkipCondition{"angry"}},
		}
		gt.Error(t, s.Validate()).Is(model.ErrValidation)
	})
}

func TestIntegrations_HasEnabled(t *testing.T) {
	i := model.Integrations{
		Instantly:   &model.InstantlyIntegration{APIKey: "k", Enabled: true},
		Salesfinity: &model.SalesfinityIntegration{APIKey: "", Enabled: true},
	}
	gt.Bool(t, i.HasEnabled(types.ChannelInstantly)).True()
	gt.Bool(t, i.HasEnabled(types.ChannelSalesfinity)).False()
	gt.Bool(t, i.HasEnabled(types.ChannelLinkedIn)).False()
	gt.Bool(t, i.HasEnabled(types.ChannelPersonalEmail)).False()

	gt.Bool(t, i.Disable(types.ChannelInstantly)).True()
	gt.Bool(t, i.HasEnabled(types.ChannelInstantly)).False()
	gt.Value(t, i.Instantly.APIKey).Equal("k")
}
