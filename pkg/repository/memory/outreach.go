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

type outreachRepository struct {
	mu         sync.RWMutex
	outreaches map[model.OutreachID]*model.Outreach
}

func newOutreachRepository() *outreachRepository {
	return &outreachRepository{
		outreaches: make(map[model.OutreachID]*model.Outreach),
	}
}

func (r *outreachRepository) Create(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyOutreach(outreach)
	if created.ID == "" {
		created.ID = model.NewOutreachID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.outreaches[created.ID] = created
	return copyOutreach(created), nil
}

func (r *outreachRepository) Get(ctx context.Context, id model.OutreachID) (*model.Outreach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outreach, exists := r.outreaches[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "outreach not found", goerr.V(model.OutreachIDKey, id))
	}
	return copyOutreach(outreach), nil
}

func (r *outreachRepository) Update(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.outreaches[outreach.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "outreach not found", goerr.V(model.OutreachIDKey, outreach.ID))
	}

	updated := copyOutreach(outreach)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.outreaches[updated.ID] = updated
	return copyOutreach(updated), nil
}

// collect returns matching outreaches sorted by creation time
func (r *outreachRepository) collect(match func(*model.Outreach) bool, newestFirst bool) []*model.Outreach {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*model.Outreach
	for _, outreach := range r.outreaches {
		if match(outreach) {
			results = append(results, copyOutreach(outreach))
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if newestFirst {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results
}

func (r *outreachRepository) ListByLead(ctx context.Context, leadID model.LeadID, limit int) ([]*model.Outreach, error) {
	results := r.collect(func(o *model.Outreach) bool {
		return o.LeadID == leadID
	}, true)
	return paginate(results, 0, limit), nil
}

func (r *outreachRepository) ListByCampaign(ctx context.Context, campaignID model.CampaignID, opts ...interfaces.ListOption) ([]*model.Outreach, error) {
	cfg := interfaces.BuildListConfig(opts...)
	results := r.collect(func(o *model.Outreach) bool {
		return o.CampaignID == campaignID && cfg.MatchOutreach(o)
	}, true)
	return paginate(results, cfg.Offset(), cfg.Limit()), nil
}

func (r *outreachRepository) ListSyncable(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Outreach, error) {
	cfg := interfaces.BuildListConfig(opts...)
	results := r.collect(func(o *model.Outreach) bool {
		return o.IsSyncable() && cfg.MatchOutreach(o)
	}, false)
	return paginate(results, cfg.Offset(), cfg.Limit()), nil
}
