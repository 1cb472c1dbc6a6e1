package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// FollowUpInput is the content of a follow-up. Only the fields of the parent's channel are used.
type FollowUpInput struct {
	Subject     string
	Body        string
	Message     string
	Notes       string
	ScheduledAt *time.Time
}

// CreateFollowUp sends a new outreach on the parent's channel, linked to the parent, and
// appends it to the parent's follow-ups. LinkedIn follow-ups are direct messages.
func (uc *OutreachUseCase) CreateFollowUp(ctx context.Context, userID model.UserID, parentID model.OutreachID, input FollowUpInput) (*model.Outreach, error) {
	parent, err := loadOutreach(ctx, uc.repo, parentID)
	if err != nil {
		return nil, err
	}

	if parent.FollowUpCount+1 > uc.cfg.MaxFollowUpDepth {
		return nil, model.NewValidationError("outreach", "follow_up_count",
			fmt.Sprintf("exceeds the maximum follow-up depth of %d", uc.cfg.MaxFollowUpDepth))
	}

	var child *model.Outreach
	switch parent.Channel {
	case types.ChannelInstantly:
		if parent.CampaignID == "" {
			return nil, model.NewValidationError("outreach", "campaign_id", "is required to follow up through Instantly")
		}
		child, err = uc.SendEmail(ctx, userID, parent.CampaignID, parent.LeadID, EmailInput{
			Subject: input.Subject,
			Body:    input.Body,
			parent:  parent,
		})

	case types.ChannelPersonalEmail:
		child, err = uc.SendPersonalEmail(ctx, userID, parent.LeadID, EmailInput{
			Subject: input.Subject,
			Body:    input.Body,
			parent:  parent,
		})

	case types.ChannelSalesfinity:
		if parent.CampaignID == "" {
			return nil, model.NewValidationError("outreach", "campaign_id", "is required to follow up through Salesfinity")
		}
		child, err = uc.ScheduleCall(ctx, userID, parent.CampaignID, parent.LeadID, CallInput{
			ScheduledAt: input.ScheduledAt,
			Notes:       input.Notes,
			parent:      parent,
		})

	case types.ChannelLinkedIn:
		child, err = uc.SendLinkedInMessage(ctx, userID, parent.LeadID, LinkedInInput{
			Message: input.Message,
			parent:  parent,
		})

	default:
		return nil, model.NewValidationError("outreach", "channel", parent.Channel.String()+" does not support follow-ups")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send follow-up", goerr.V(model.OutreachIDKey, parent.ID))
	}

	parent.FollowUps = append(parent.FollowUps, child.ID)
	if _, err := uc.repo.Outreach().Update(ctx, parent); err != nil {
		return nil, goerr.Wrap(err, "failed to link follow-up to parent",
			goerr.V(model.OutreachIDKey, parent.ID),
			goerr.V("follow_up_id", child.ID))
	}

	return child, nil
}
