package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

func TestSyncOutreachStatus(t *testing.T) {
	ctx := context.Background()
	calledAt := time.Date(2026, 10, 1, 14, 30, 0, 0, time.UTC)

	t.Run("interested call is idempotent across syncs", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "call@example.com", Phone: "5551234567"})
		campaign := f.createCampaign(t, "Dial", types.CampaignTypeCall)

		scheduled, err := f.uc.Outreach.ScheduleCall(ctx, f.user.ID, campaign.ID, lead.ID, usecase.CallInput{Notes: "local notes"})
		gt.NoError(t, err).Required()

		f.call.findLatestFn = func(ctx context.Context, contactID string) (*salesfinity.CallLog, error) {
			gt.String(t, contactID).Equal(scheduled.ExternalIDs.SalesfinityID)
			return &salesfinity.CallLog{
				ID:          "call-1",
				Contact:     salesfinity.Contact{ID: contactID},
				Disposition: salesfinity.Disposition{ExternalName: "Interested"},
				Duration:    95,
				Notes:       "wants a demo",
				CreatedAt:   &calledAt,
			}, nil
		}

		first, err := f.uc.Outreach.SyncOutreachStatus(ctx, scheduled.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, first.Status).Equal(types.OutreachStatusCompleted)
		gt.Value(t, first.Call.Outcome).Equal(types.CallOutcomeInterested)
		gt.Number(t, first.Call.DurationSeconds).Equal(95)
		gt.String(t, first.Call.Notes).Equal("local notes")
		gt.Bool(t, first.Response.Received).True()
		gt.Value(t, first.Response.Sentiment).Equal(types.SentimentPositive)

		second, err := f.uc.Outreach.SyncOutreachStatus(ctx, scheduled.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, second.Call.Outcome).Equal(types.CallOutcomeInterested)
		gt.Bool(t, second.UpdatedAt.Equal(first.UpdatedAt)).True()

		gt.Array(t, f.notifier.replies).Equal([]model.OutreachID{scheduled.ID})

		storedCampaign, err := f.repo.Campaign().Get(ctx, campaign.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, storedCampaign.Metrics.Replies).Equal(1)
		gt.Number(t, storedCampaign.Metrics.Meetings).Equal(0)
	})

	t.Run("meeting scheduled bumps meetings", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "meet@example.com"})
		campaign := f.createCampaign(t, "Meetings", types.CampaignTypeCall)
		scheduled, err := f.uc.Outreach.ScheduleCall(ctx, f.user.ID, campaign.ID, lead.ID, usecase.CallInput{})
		gt.NoError(t, err).Required()

		f.call.findLatestFn = func(ctx context.Context, contactID string) (*salesfinity.CallLog, error) {
			return &salesfinity.CallLog{
				Contact:     salesfinity.Contact{ID: contactID},
				Disposition: salesfinity.Disposition{ExternalName: "Meeting Scheduled"},
				CreatedAt:   &calledAt,
			}, nil
		}

		_, err = f.uc.Outreach.SyncOutreachStatus(ctx, scheduled.ID)
		gt.NoError(t, err).Required()

		storedCampaign, err := f.repo.Campaign().Get(ctx, campaign.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, storedCampaign.Metrics.Replies).Equal(1)
		gt.Number(t, storedCampaign.Metrics.Meetings).Equal(1)
	})

	t.Run("email reply updates status and response", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "reply@example.com"})
		campaign := f.createCampaign(t, "Replies", types.CampaignTypeEmail)
		sent, err := f.uc.Outreach.SendEmail(ctx, f.user.ID, campaign.ID, lead.ID, usecase.EmailInput{Subject: "Intro", Body: "local body"})
		gt.NoError(t, err).Required()

		repliedAt := calledAt.Add(time.Hour)
		f.email.getLeadStatusFn = func(ctx context.Context, campaignID, leadID string) (*instantly.LeadRecord, error) {
			gt.String(t, campaignID).Equal(sent.ExternalIDs.InstantlyCampaignID)
			gt.String(t, leadID).Equal("reply@example.com")
			return &instantly.LeadRecord{
				Email:       leadID,
				CampaignID:  campaignID,
				Status:      "active",
				Interest:    instantly.InterestInterested,
				OpenCount:   2,
				ReplyCount:  1,
				ContactedAt: &calledAt,
				RepliedAt:   &repliedAt,
				ReplyText:   "Sounds good",
			}, nil
		}

		synced, err := f.uc.Outreach.SyncOutreachStatus(ctx, sent.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, synced.Status).Equal(types.OutreachStatusReplied)
		gt.String(t, synced.Email.Body).Equal("local body")
		gt.Number(t, synced.Email.OpenCount).Equal(2)
		gt.String(t, synced.Response.Text).Equal("Sounds good")
		gt.Value(t, synced.Response.Sentiment).Equal(types.SentimentPositive)
		gt.Array(t, f.notifier.replies).Length(1)
	})

	t.Run("LinkedIn acceptance is recorded", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "accept@example.com", LinkedInURL: "https://www.linkedin.com/in/accept"})
		sent, err := f.uc.Outreach.SendLinkedInConnection(ctx, f.user.ID, lead.ID, usecase.LinkedInInput{Message: "Hi"})
		gt.NoError(t, err).Required()

		ended := calledAt
		f.linkedIn.outputFn = func(ctx context.Context, containerID string) (*phantombuster.ContainerOutput, error) {
			return &phantombuster.ContainerOutput{
				ContainerID: containerID,
				Status:      "finished",
				Output:      "Invitation accepted by Accept",
				EndedAt:     &ended,
			}, nil
		}

		synced, err := f.uc.Outreach.SyncOutreachStatus(ctx, sent.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, synced.Status).Equal(types.OutreachStatusSent)
		gt.Value(t, synced.LinkedIn.AcceptedAt).NotNil()
		gt.Bool(t, synced.Response.Received).False()
	})

	t.Run("outreach without external id is returned unchanged", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "local@example.com"})
		local, err := f.uc.Outreach.SendPersonalEmail(ctx, f.user.ID, lead.ID, usecase.EmailInput{Subject: "Hi"})
		gt.NoError(t, err).Required()

		synced, err := f.uc.Outreach.SyncOutreachStatus(ctx, local.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, synced.Status).Equal(local.Status)
		gt.Bool(t, synced.UpdatedAt.Equal(local.UpdatedAt)).True()
	})

	t.Run("provider failure is returned", func(t *testing.T) {
		f := newFixture(t)
		lead := f.createLead(t, &model.Lead{Email: "down@example.com"})
		campaign := f.createCampaign(t, "Down", types.CampaignTypeCall)
		scheduled, err := f.uc.Outreach.ScheduleCall(ctx, f.user.ID, campaign.ID, lead.ID, usecase.CallInput{})
		gt.NoError(t, err).Required()

		f.call.findLatestFn = func(ctx context.Context, contactID string) (*salesfinity.CallLog, error) {
			return nil, provider.NewError(salesfinity.Name, "service unavailable", nil)
		}
		_, err = f.uc.Outreach.SyncOutreachStatus(ctx, scheduled.ID)
		gt.Error(t, err)
		_, ok := provider.AsError(err)
		gt.Bool(t, ok).True()
	})
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	emailLead := f.createLead(t, &model.Lead{Email: "batch-email@example.com"})
	callLead := f.createLead(t, &model.Lead{Email: "batch-call@example.com"})
	linkedInLead := f.createLead(t, &model.Lead{Email: "batch-li@example.com", LinkedInURL: "https://www.linkedin.com/in/batch"})
	localLead := f.createLead(t, &model.Lead{Email: "batch-local@example.com"})
	campaign := f.createCampaign(t, "Batch", types.CampaignTypeMixed)

	_, err := f.uc.Outreach.SendEmail(ctx, f.user.ID, campaign.ID, emailLead.ID, usecase.EmailInput{Subject: "Hi"})
	gt.NoError(t, err).Required()
	_, err = f.uc.Outreach.ScheduleCall(ctx, f.user.ID, campaign.ID, callLead.ID, usecase.CallInput{})
	gt.NoError(t, err).Required()
	_, err = f.uc.Outreach.SendLinkedInConnection(ctx, f.user.ID, linkedInLead.ID, usecase.LinkedInInput{Message: "Hi"})
	gt.NoError(t, err).Required()
	_, err = f.uc.Outreach.SendPersonalEmail(ctx, f.user.ID, localLead.ID, usecase.EmailInput{Subject: "Hi"})
	gt.NoError(t, err).Required()

	// email moves to Sent, the call has no log yet, LinkedIn fails
	f.linkedIn.outputFn = func(ctx context.Context, containerID string) (*phantombuster.ContainerOutput, error) {
		return nil, provider.NewError(phantombuster.Name, "container not found", nil)
	}

	t.Run("single channel", func(t *testing.T) {
		channel := types.ChannelSalesfinity
		result, err := f.uc.Outreach.SyncAll(ctx, usecase.SyncOptions{Channel: &channel})
		gt.NoError(t, err).Required()
		gt.Value(t, *result).Equal(usecase.SyncResult{Total: 1, Unchanged: 1})
	})

	t.Run("all channels", func(t *testing.T) {
		result, err := f.uc.Outreach.SyncAll(ctx, usecase.SyncOptions{Concurrency: 2})
		gt.NoError(t, err).Required()
		gt.Value(t, *result).Equal(usecase.SyncResult{Total: 3, Synced: 1, Unchanged: 1, Failed: 1})

		history, err := f.uc.Outreach.GetLeadOutreachHistory(ctx, emailLead.ID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1).Required()
		gt.Value(t, history[0].Status).Equal(types.OutreachStatusSent)
	})
}
