package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
)

type campaignRepository struct {
	mu        sync.RWMutex
	campaigns map[model.CampaignID]*model.Campaign
}

func newCampaignRepository() *campaignRepository {
	return &campaignRepository{
		campaigns: make(map[model.CampaignID]*model.Campaign),
	}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCampaign(campaign)
	if created.ID == "" {
		created.ID = model.NewCampaignID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.campaigns[created.ID] = created
	return copyCampaign(created), nil
}

func (r *campaignRepository) Get(ctx context.Context, id model.CampaignID) (*model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	campaign, exists := r.campaigns[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "campaign not found", goerr.V(model.CampaignIDKey, id))
	}
	return copyCampaign(campaign), nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.campaigns[campaign.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "campaign not found", goerr.V(model.CampaignIDKey, campaign.ID))
	}

	updated := copyCampaign(campaign)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.campaigns[updated.ID] = updated
	return copyCampaign(updated), nil
}

func (r *campaignRepository) Delete(ctx context.Context, id model.CampaignID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.campaigns[id]; !exists {
		return goerr.Wrap(ErrNotFound, "campaign not found", goerr.V(model.CampaignIDKey, id))
	}
	delete(r.campaigns, id)
	return nil
}

func (r *campaignRepository) FindByName(ctx context.Context, name string) (*model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *model.Campaign
	for _, campaign := range r.campaigns {
		if campaign.Name != name {
			continue
		}
		if found == nil || campaign.CreatedAt.Before(found.CreatedAt) {
			found = campaign
		}
	}
	if found == nil {
		return nil, nil
	}
	return copyCampaign(found), nil
}

func (r *campaignRepository) List(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Campaign, error) {
	cfg := interfaces.BuildListConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	campaigns := make([]*model.Campaign, 0, len(r.campaigns))
	for _, campaign := range r.campaigns {
		if cfg.MatchCampaign(campaign) {
			campaigns = append(campaigns, copyCampaign(campaign))
		}
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return paginate(campaigns, cfg.Offset(), cfg.Limit()), nil
}
