package interfaces

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

// CampaignRepository defines the interface for Campaign data persistence
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error)
	Get(ctx context.Context, id model.CampaignID) (*model.Campaign, error)
	Update(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error)
	Delete(ctx context.Context, id model.CampaignID) error
	// FindByName returns nil without error when no campaign has exactly this name
	FindByName(ctx context.Context, name string) (*model.Campaign, error)

	// List returns campaigns newest first
	List(ctx context.Context, opts ...ListOption) ([]*model.Campaign, error)
}
