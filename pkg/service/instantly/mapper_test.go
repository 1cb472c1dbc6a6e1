package instantly_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
)

func TestMapLeadToProviderLead(t *testing.T) {
	lead := &model.Lead{
		ID:          model.NewLeadID(),
		Email:       "test.lead@example.com",
		FirstName:   "Test",
		LastName:    "Lead",
		Company:     "Example",
		JobTitle:    "CTO",
		LinkedInURL: "https://www.linkedin.com/in/test-lead",
	}

	out := instantly.MapLeadToProviderLead(lead)
	gt.Value(t, out.Email).Equal("test.lead@example.com")
	gt.Value(t, out.FirstName).Equal("Test")
	gt.Value(t, out.LastName).Equal("Lead")
	gt.Value(t, out.CompanyName).Equal("Example")
	gt.Value(t, out.Website).Equal("example.com")
	gt.Value(t, out.Personalization).Equal("CTO at Example")
	gt.Value(t, out.CustomVariables[instantly.VarLeadID]).Equal(string(lead.ID))
	gt.Value(t, out.CustomVariables[instantly.VarJobTitle]).Equal("CTO")
	gt.Value(t, out.CustomVariables[instantly.VarLinkedInURL]).Equal(lead.LinkedInURL)

	free := instantly.MapLeadToProviderLead(&model.Lead{Email: "someone@gmail.com"})
	gt.Value(t, free.Website).Equal("")
	_, hasTitle := free.CustomVariables[instantly.VarJobTitle]
	gt.Bool(t, hasTitle).False()
}

func TestLeadStateToStatus(t *testing.T) {
	cases := map[instantly.LeadState]types.OutreachStatus{
		"not_yet_contacted": types.OutreachStatusScheduled,
		"active":            types.OutreachStatusSent,
		"completed":         types.OutreachStatusCompleted,
		"bounced":           types.OutreachStatusBounced,
		"skipped":           types.OutreachStatusFailed,
		"something_new":     types.OutreachStatusSent,
		"":                  types.OutreachStatusSent,
	}
	for state, want := range cases {
		gt.Value(t, instantly.LeadStateToStatus(state)).Equal(want)
	}
}

func TestMapLeadStatusToOutreach(t *testing.T) {
	leadID := model.NewLeadID()
	replied := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("counters raise status", func(t *testing.T) {
		out := instantly.MapLeadStatusToOutreach(&instantly.LeadRecord{
			Email: "a@example.com", CampaignID: "c1", Status: "active", OpenCount: 3, ClickCount: 1,
		}, leadID)
		gt.Value(t, out.Status).Equal(types.OutreachStatusClicked)
		gt.Number(t, out.Email.OpenCount).Equal(3)
		gt.Bool(t, out.Response.Received).False()
	})

	t.Run("reply beats completed and carries sentiment", func(t *testing.T) {
		out := instantly.MapLeadStatusToOutreach(&instantly.LeadRecord{
			Email: "a@example.com", CampaignID: "c1", Status: "completed",
			ReplyCount: 1, RepliedAt: &replied, ReplyText: "Sounds good", Interest: instantly.InterestInterested,
		}, leadID)
		gt.Value(t, out.Status).Equal(types.OutreachStatusReplied)
		gt.Bool(t, out.Response.Received).True()
		gt.Value(t, out.Response.Sentiment).Equal(types.SentimentPositive)
		gt.Value(t, out.Response.Text).Equal("Sounds good")
	})

	t.Run("bounced is terminal", func(t *testing.T) {
		out := instantly.MapLeadStatusToOutreach(&instantly.LeadRecord{
			Email: "a@example.com", Status: "bounced", OpenCount: 5, ReplyCount: 1, UpdatedAt: &replied,
		}, leadID)
		gt.Value(t, out.Status).Equal(types.OutreachStatusBounced)
		gt.Value(t, out.Email.BouncedAt).NotNil()
	})

	t.Run("not interested is negative", func(t *testing.T) {
		out := instantly.MapLeadStatusToOutreach(&instantly.LeadRecord{
			Email: "a@example.com", Status: "active", ReplyCount: 1, Interest: instantly.InterestNotInterested,
		}, leadID)
		gt.Value(t, out.Response.Sentiment).Equal(types.SentimentNegative)
	})
}

func TestLeadLinkageRoundTrip(t *testing.T) {
	fake := &fakeInstantly{}
	svc := newService(t, fake, "k")
	ctx := context.Background()

	lead := &model.Lead{ID: model.NewLeadID(), Email: "test.lead@example.com", FirstName: "Test", LastName: "Lead"}
	_, err := svc.AddLeadsToCampaign(ctx, "c1", []*instantly.Lead{instantly.MapLeadToProviderLead(lead)})
	gt.NoError(t, err).Required()

	record, err := svc.GetLeadStatus(ctx, "c1", lead.Email)
	gt.NoError(t, err).Required()
	gt.Value(t, record.InternalLeadID()).Equal(lead.ID)

	out := instantly.MapLeadStatusToOutreach(record, lead.ID)
	gt.Value(t, out.LeadID).Equal(lead.ID)
	gt.Value(t, out.Channel).Equal(types.ChannelInstantly)
	gt.Value(t, out.ExternalIDs.InstantlyID).Equal(lead.Email)
	gt.Value(t, out.ExternalIDs.InstantlyCampaignID).Equal("c1")
	gt.Value(t, out.ExternalID()).Equal(lead.Email)
	gt.Value(t, out.Status).Equal(types.OutreachStatusOpened)
}
