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

type leadRepository struct {
	mu    sync.RWMutex
	leads map[model.LeadID]*model.Lead
}

func newLeadRepository() *leadRepository {
	return &leadRepository{
		leads: make(map[model.LeadID]*model.Lead),
	}
}

// findEmailLocked returns the lead holding email. Caller must hold mu.
func (r *leadRepository) findEmailLocked(email string) *model.Lead {
	for _, lead := range r.leads {
		if lead.Email == email {
			return lead
		}
	}
	return nil
}

// findPairLocked returns the lead holding the (email, company) pair. Caller must hold mu.
func (r *leadRepository) findPairLocked(email, company string) *model.Lead {
	for _, lead := range r.leads {
		if lead.Email == email && lead.Company == company {
			return lead
		}
	}
	return nil
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findPairLocked(lead.Email, lead.Company); existing != nil {
		return nil, goerr.Wrap(ErrConflict, "lead already exists",
			goerr.V(model.EmailKey, lead.Email),
			goerr.V(model.CompanyKey, lead.Company),
			goerr.V(model.LeadIDKey, existing.ID))
	}
	if existing := r.findEmailLocked(lead.Email); existing != nil {
		return nil, goerr.Wrap(ErrConflict, "email is already used by another lead",
			goerr.V(model.EmailKey, lead.Email),
			goerr.V(model.LeadIDKey, existing.ID))
	}

	now := time.Now().UTC()
	created := copyLead(lead)
	if created.ID == "" {
		created.ID = model.NewLeadID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.leads[created.ID] = created
	return copyLead(created), nil
}

func (r *leadRepository) Get(ctx context.Context, id model.LeadID) (*model.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, exists := r.leads[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, id))
	}
	return copyLead(lead), nil
}

func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.leads[lead.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, lead.ID))
	}
	if other := r.findPairLocked(lead.Email, lead.Company); other != nil && other.ID != lead.ID {
		return nil, goerr.Wrap(ErrConflict, "another lead has the same email and company",
			goerr.V(model.LeadIDKey, lead.ID),
			goerr.V(model.EmailKey, lead.Email),
			goerr.V(model.CompanyKey, lead.Company))
	}
	if other := r.findEmailLocked(lead.Email); other != nil && other.ID != lead.ID {
		return nil, goerr.Wrap(ErrConflict, "email is already used by another lead",
			goerr.V(model.LeadIDKey, lead.ID),
			goerr.V(model.EmailKey, lead.Email))
	}

	updated := copyLead(lead)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.leads[updated.ID] = updated
	return copyLead(updated), nil
}

func (r *leadRepository) Delete(ctx context.Context, id model.LeadID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leads[id]; !exists {
		return goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, id))
	}
	delete(r.leads, id)
	return nil
}

func (r *leadRepository) FindByEmailCompany(ctx context.Context, email, company string) (*model.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lead := r.findPairLocked(email, company); lead != nil {
		return copyLead(lead), nil
	}
	return nil, nil
}

func (r *leadRepository) FindByEmail(ctx context.Context, email string) (*model.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lead := r.findEmailLocked(email); lead != nil {
		return copyLead(lead), nil
	}
	return nil, nil
}

func (r *leadRepository) filtered(opts ...interfaces.ListOption) []*model.Lead {
	cfg := interfaces.BuildListConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	leads := make([]*model.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if cfg.MatchLead(lead) {
			leads = append(leads, copyLead(lead))
		}
	}

	sort.Slice(leads, func(i, j int) bool {
		if leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].ID > leads[j].ID
		}
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads
}

func (r *leadRepository) List(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Lead, error) {
	cfg := interfaces.BuildListConfig(opts...)
	return paginate(r.filtered(opts...), cfg.Offset(), cfg.Limit()), nil
}

func (r *leadRepository) Count(ctx context.Context, opts ...interfaces.ListOption) (int, error) {
	return len(r.filtered(opts...)), nil
}
