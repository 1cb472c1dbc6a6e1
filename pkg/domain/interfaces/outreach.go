package interfaces

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

// OutreachRepository defines the interface for Outreach data persistence.
// Outreach history is append-only; there is no Delete.
type OutreachRepository interface {
	Create(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error)
	Get(ctx context.Context, id model.OutreachID) (*model.Outreach, error)
	Update(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error)

	// ListByLead returns at most limit outreaches for the lead, newest first
	ListByLead(ctx context.Context, leadID model.LeadID, limit int) ([]*model.Outreach, error)

	// ListByCampaign returns outreaches for the campaign, newest first
	ListByCampaign(ctx context.Context, campaignID model.CampaignID, opts ...ListOption) ([]*model.Outreach, error)

	// ListSyncable returns outreaches that carry an external id and are not terminal, oldest first
	ListSyncable(ctx context.Context, opts ...ListOption) ([]*model.Outreach, error)
}
