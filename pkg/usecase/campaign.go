package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

type CampaignUseCase struct {
	repo interfaces.Repository
}

func NewCampaignUseCase(repo interfaces.Repository) *CampaignUseCase {
	return &CampaignUseCase{repo: repo}
}

// CampaignUpdate is a partial campaign update
type CampaignUpdate struct {
	Name        *string
	Description *string
	Type        *types.CampaignType
	Status      *types.CampaignStatus
}

// CampaignFilter selects campaigns for List
type CampaignFilter struct {
	Status *types.CampaignStatus
	Type   *types.CampaignType
	Limit  int
	Offset int
}

// Create stores a campaign. The creator joins its team.
func (uc *CampaignUseCase) Create(ctx context.Context, userID model.UserID, campaign *model.Campaign) (*model.Campaign, error) {
	campaign.ID = ""
	campaign.CreatedBy = userID
	campaign.Metrics = model.CampaignMetrics{}
	if userID != "" {
		campaign.AddTeamMember(userID)
	}
	campaign.Normalize()
	if err := campaign.Validate(); err != nil {
		return nil, err
	}
	if err := uc.verifyLeads(ctx, campaign.Leads); err != nil {
		return nil, err
	}

	created, err := uc.repo.Campaign().Create(ctx, campaign)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create campaign")
	}
	return created, nil
}

func (uc *CampaignUseCase) Get(ctx context.Context, id model.CampaignID) (*model.Campaign, error) {
	return loadCampaign(ctx, uc.repo, id)
}

func (uc *CampaignUseCase) Update(ctx context.Context, id model.CampaignID, update *CampaignUpdate) (*model.Campaign, error) {
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		setIf(&c.Name, update.Name)
		setIf(&c.Description, update.Description)
		setIf(&c.Type, update.Type)
		setIf(&c.Status, update.Status)
		return nil
	})
}

func (uc *CampaignUseCase) Delete(ctx context.Context, id model.CampaignID) error {
	err := uc.repo.Campaign().Delete(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrCampaignNotFound, "failed to delete campaign", goerr.V(model.CampaignIDKey, id))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete campaign", goerr.V(model.CampaignIDKey, id))
	}
	return nil
}

func (uc *CampaignUseCase) List(ctx context.Context, filter CampaignFilter) ([]*model.Campaign, error) {
	opts := []interfaces.ListOption{
		interfaces.WithLimit(filter.Limit),
		interfaces.WithOffset(filter.Offset),
	}
	if filter.Status != nil {
		opts = append(opts, interfaces.WithCampaignStatus(*filter.Status))
	}
	if filter.Type != nil {
		opts = append(opts, interfaces.WithCampaignType(*filter.Type))
	}

	campaigns, err := uc.repo.Campaign().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list campaigns")
	}
	return campaigns, nil
}

// AddLeads adds existing leads to the campaign. Leads already present are ignored.
func (uc *CampaignUseCase) AddLeads(ctx context.Context, id model.CampaignID, leadIDs []model.LeadID) (*model.Campaign, error) {
	if err := uc.verifyLeads(ctx, leadIDs); err != nil {
		return nil, err
	}
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		c.AddLeads(leadIDs...)
		return nil
	})
}

func (uc *CampaignUseCase) RemoveLead(ctx context.Context, id model.CampaignID, leadID model.LeadID) (*model.Campaign, error) {
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		c.RemoveLead(leadID)
		return nil
	})
}

// AddTeamMember adds an existing user to the campaign team
func (uc *CampaignUseCase) AddTeamMember(ctx context.Context, id model.CampaignID, userID model.UserID) (*model.Campaign, error) {
	if _, err := loadUser(ctx, uc.repo, userID); err != nil {
		return nil, err
	}
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		c.AddTeamMember(userID)
		return nil
	})
}

func (uc *CampaignUseCase) RemoveTeamMember(ctx context.Context, id model.CampaignID, userID model.UserID) (*model.Campaign, error) {
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		c.RemoveTeamMember(userID)
		return nil
	})
}

func (uc *CampaignUseCase) UpdateStatus(ctx context.Context, id model.CampaignID, status types.CampaignStatus) (*model.Campaign, error) {
	return uc.modify(ctx, id, func(c *model.Campaign) error {
		c.Status = status
		return nil
	})
}

func (uc *CampaignUseCase) modify(ctx context.Context, id model.CampaignID, fn func(*model.Campaign) error) (*model.Campaign, error) {
	campaign, err := loadCampaign(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if err := fn(campaign); err != nil {
		return nil, err
	}
	campaign.Normalize()
	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Campaign().Update(ctx, campaign)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update campaign", goerr.V(model.CampaignIDKey, id))
	}
	return updated, nil
}

func (uc *CampaignUseCase) verifyLeads(ctx context.Context, ids []model.LeadID) error {
	for _, id := range ids {
		if _, err := loadLead(ctx, uc.repo, id); err != nil {
			return err
		}
	}
	return nil
}
