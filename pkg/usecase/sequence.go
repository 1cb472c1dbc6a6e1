package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
)

type SequenceUseCase struct {
	repo interfaces.Repository
}

func NewSequenceUseCase(repo interfaces.Repository) *SequenceUseCase {
	return &SequenceUseCase{repo: repo}
}

// SequenceUpdate is a partial sequence update. Steps replaces the whole step list.
type SequenceUpdate struct {
	Name        *string
	Description *string
	Active      *bool
	Steps       *[]model.Step
}

func (uc *SequenceUseCase) Create(ctx context.Context, userID model.UserID, campaignID model.CampaignID, sequence *model.Sequence) (*model.Sequence, error) {
	if _, err := loadCampaign(ctx, uc.repo, campaignID); err != nil {
		return nil, err
	}

	sequence.ID = ""
	sequence.CampaignID = campaignID
	sequence.CreatedBy = userID
	sequence.SortSteps()
	if err := sequence.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Sequence().Create(ctx, sequence)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create sequence", goerr.V(model.CampaignIDKey, campaignID))
	}
	return created, nil
}

func (uc *SequenceUseCase) Get(ctx context.Context, id model.SequenceID) (*model.Sequence, error) {
	return loadSequence(ctx, uc.repo, id)
}

func (uc *SequenceUseCase) Update(ctx context.Context, id model.SequenceID, update *SequenceUpdate) (*model.Sequence, error) {
	sequence, err := loadSequence(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	setIf(&sequence.Name, update.Name)
	setIf(&sequence.Description, update.Description)
	setIf(&sequence.Active, update.Active)
	setIf(&sequence.Steps, update.Steps)

	sequence.SortSteps()
	if err := sequence.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Sequence().Update(ctx, sequence)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update sequence", goerr.V(model.SequenceIDKey, id))
	}
	return updated, nil
}

func (uc *SequenceUseCase) Delete(ctx context.Context, id model.SequenceID) error {
	err := uc.repo.Sequence().Delete(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrSequenceNotFound, "failed to delete sequence", goerr.V(model.SequenceIDKey, id))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete sequence", goerr.V(model.SequenceIDKey, id))
	}
	return nil
}

func (uc *SequenceUseCase) ListByCampaign(ctx context.Context, campaignID model.CampaignID) ([]*model.Sequence, error) {
	if _, err := loadCampaign(ctx, uc.repo, campaignID); err != nil {
		return nil, err
	}
	sequences, err := uc.repo.Sequence().ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sequences", goerr.V(model.CampaignIDKey, campaignID))
	}
	return sequences, nil
}
