package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
)

func loadLead(ctx context.Context, repo interfaces.Repository, id model.LeadID) (*model.Lead, error) {
	lead, err := repo.Lead().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrLeadNotFound, "failed to load lead", goerr.V(model.LeadIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get lead", goerr.V(model.LeadIDKey, id))
	}
	return lead, nil
}

func loadCampaign(ctx context.Context, repo interfaces.Repository, id model.CampaignID) (*model.Campaign, error) {
	campaign, err := repo.Campaign().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrCampaignNotFound, "failed to load campaign", goerr.V(model.CampaignIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get campaign", goerr.V(model.CampaignIDKey, id))
	}
	return campaign, nil
}

func loadSequence(ctx context.Context, repo interfaces.Repository, id model.SequenceID) (*model.Sequence, error) {
	sequence, err := repo.Sequence().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrSequenceNotFound, "failed to load sequence", goerr.V(model.SequenceIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sequence", goerr.V(model.SequenceIDKey, id))
	}
	return sequence, nil
}

func loadOutreach(ctx context.Context, repo interfaces.Repository, id model.OutreachID) (*model.Outreach, error) {
	outreach, err := repo.Outreach().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrOutreachNotFound, "failed to load outreach", goerr.V(model.OutreachIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get outreach", goerr.V(model.OutreachIDKey, id))
	}
	return outreach, nil
}

func loadUser(ctx context.Context, repo interfaces.Repository, id model.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrUserNotFound, "acting user is required")
	}
	user, err := repo.User().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrUserNotFound, "failed to load user", goerr.V(model.UserIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}
	return user, nil
}
