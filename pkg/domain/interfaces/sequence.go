package interfaces

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

// SequenceRepository defines the interface for Sequence data persistence
type SequenceRepository interface {
	Create(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error)
	Get(ctx context.Context, id model.SequenceID) (*model.Sequence, error)
	Update(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error)
	Delete(ctx context.Context, id model.SequenceID) error

	// ListByCampaign returns the campaign's sequences oldest first
	ListByCampaign(ctx context.Context, campaignID model.CampaignID) ([]*model.Sequence, error)
}
