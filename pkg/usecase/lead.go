package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
)

type LeadUseCase struct {
	repo interfaces.Repository
}

func NewLeadUseCase(repo interfaces.Repository) *LeadUseCase {
	return &LeadUseCase{repo: repo}
}

// LeadUpdate is a partial lead update. Nil fields are left as they are.
type LeadUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Phone       *string
	Company     *string
	JobTitle    *string
	LinkedInURL *string
	Status      *types.LeadStatus
	Source      *types.LeadSource
	Tags        *[]string
	AssignedTo  *model.UserID
	Notes       *string
}

// LeadFilter selects leads for List
type LeadFilter struct {
	Status     *types.LeadStatus
	Source     *types.LeadSource
	AssignedTo *model.UserID
	Tag        *string
	Limit      int
	Offset     int
}

// LeadList is one page of leads and the total matching the filter
type LeadList struct {
	Items []*model.Lead `json:"items"`
	Total int           `json:"total"`
}

func (uc *LeadUseCase) Create(ctx context.Context, userID model.UserID, lead *model.Lead) (*model.Lead, error) {
	lead.ID = ""
	lead.CreatedBy = userID
	lead.Normalize()
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Lead().Create(ctx, lead)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create lead",
			goerr.V(model.EmailKey, lead.Email),
			goerr.V(model.CompanyKey, lead.Company))
	}
	return created, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, id model.LeadID) (*model.Lead, error) {
	return loadLead(ctx, uc.repo, id)
}

func (uc *LeadUseCase) Update(ctx context.Context, id model.LeadID, update *LeadUpdate) (*model.Lead, error) {
	lead, err := loadLead(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	setIf(&lead.Email, update.Email)
	setIf(&lead.FirstName, update.FirstName)
	setIf(&lead.LastName, update.LastName)
	setIf(&lead.Phone, update.Phone)
	setIf(&lead.Company, update.Company)
	setIf(&lead.JobTitle, update.JobTitle)
	setIf(&lead.LinkedInURL, update.LinkedInURL)
	setIf(&lead.Status, update.Status)
	setIf(&lead.Source, update.Source)
	setIf(&lead.Tags, update.Tags)
	setIf(&lead.AssignedTo, update.AssignedTo)
	setIf(&lead.Notes, update.Notes)

	lead.Normalize()
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Lead().Update(ctx, lead)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update lead", goerr.V(model.LeadIDKey, id))
	}
	return updated, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, id model.LeadID) error {
	err := uc.repo.Lead().Delete(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrLeadNotFound, "failed to delete lead", goerr.V(model.LeadIDKey, id))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete lead", goerr.V(model.LeadIDKey, id))
	}
	return nil
}

func (uc *LeadUseCase) List(ctx context.Context, filter LeadFilter) (*LeadList, error) {
	var opts []interfaces.ListOption
	if filter.Status != nil {
		opts = append(opts, interfaces.WithLeadStatus(*filter.Status))
	}
	if filter.Source != nil {
		opts = append(opts, interfaces.WithLeadSource(*filter.Source))
	}
	if filter.AssignedTo != nil {
		opts = append(opts, interfaces.WithAssignedTo(*filter.AssignedTo))
	}
	if filter.Tag != nil {
		opts = append(opts, interfaces.WithTag(*filter.Tag))
	}

	total, err := uc.repo.Lead().Count(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count leads")
	}

	opts = append(opts, interfaces.WithLimit(filter.Limit), interfaces.WithOffset(filter.Offset))
	leads, err := uc.repo.Lead().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list leads")
	}

	return &LeadList{Items: leads, Total: total}, nil
}

// ImportFailure describes a lead that could not be imported
type ImportFailure struct {
	Row   int    `json:"row"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// ImportResult counts the outcome of a bulk import
type ImportResult struct {
	Created  int             `json:"created"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Failures []ImportFailure `json:"failures,omitempty"`
}

// Import creates leads in bulk. Leads whose email exists are skipped and
// invalid ones are reported; neither stops the import.
func (uc *LeadUseCase) Import(ctx context.Context, userID model.UserID, leads []*model.Lead) (*ImportResult, error) {
	result := &ImportResult{}

	for i, lead := range leads {
		row := i + 1
		lead.ID = ""
		lead.CreatedBy = userID
		if lead.Source == "" {
			lead.Source = types.LeadSourceImport
		}
		lead.Normalize()

		if err := lead.Validate(); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, ImportFailure{Row: row, Email: lead.Email, Error: err.Error()})
			continue
		}

		existing, err := uc.repo.Lead().FindByEmail(ctx, lead.Email)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to look up lead", goerr.V(model.EmailKey, lead.Email))
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		if _, err := uc.repo.Lead().Create(ctx, lead); err != nil {
			if errors.Is(err, interfaces.ErrConflict) {
				result.Skipped++
				continue
			}
			return nil, goerr.Wrap(err, "failed to create lead", goerr.V(model.EmailKey, lead.Email), goerr.V("row", row))
		}
		result.Created++
	}

	logging.From(ctx).Info("lead import finished",
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed)
	return result, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
