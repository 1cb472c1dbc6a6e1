package interfaces

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

// LeadRepository defines the interface for Lead data persistence
type LeadRepository interface {
	// Create stores a new lead. It fails with ErrConflict when the email or the
	// (email, company) pair is already taken.
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)

	Get(ctx context.Context, id model.LeadID) (*model.Lead, error)

	// Update replaces a lead. It fails with ErrConflict when the new email belongs to
	// another lead.
	Update(ctx context.Context, lead *model.Lead) (*model.Lead, error)

	Delete(ctx context.Context, id model.LeadID) error

	// FindByEmail returns nil without error when no lead matches
	FindByEmail(ctx context.Context, email string) (*model.Lead, error)

	// FindByEmailCompany returns nil without error when no lead matches
	FindByEmailCompany(ctx context.Context, email, company string) (*model.Lead, error)

	// List returns leads newest first
	List(ctx context.Context, opts ...ListOption) ([]*model.Lead, error)

	// Count returns the number of leads matching the filters, ignoring limit and offset
	Count(ctx context.Context, opts ...ListOption) (int, error)
}
