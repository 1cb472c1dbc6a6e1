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

type UserUseCase struct {
	repo     interfaces.Repository
	registry *AdapterRegistry
}

func NewUserUseCase(repo interfaces.Repository, registry *AdapterRegistry) *UserUseCase {
	return &UserUseCase{repo: repo, registry: registry}
}

// UserUpdate is a partial user update. Integrations are changed through SetIntegration.
type UserUpdate struct {
	Email *string
	Name  *string
	Role  *types.UserRole
}

// IntegrationInput carries the credentials for one channel. Fields that do not apply to the
// channel are ignored.
type IntegrationInput struct {
	APIKey            string `masq:"secret"`
	APIVersion        string
	ConnectionAgentID string
	MessageAgentID    string
	SessionCookie     string `masq:"secret"`
}

func (uc *UserUseCase) Create(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = ""
	user.Integrations = model.Integrations{}
	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.User().Create(ctx, user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V(model.EmailKey, user.Email))
	}
	return created, nil
}

func (uc *UserUseCase) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return loadUser(ctx, uc.repo, id)
}

func (uc *UserUseCase) Update(ctx context.Context, id model.UserID, update *UserUpdate) (*model.User, error) {
	user, err := loadUser(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	setIf(&user.Email, update.Email)
	setIf(&user.Name, update.Name)
	setIf(&user.Role, update.Role)

	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if update.Email != nil {
		other, err := uc.repo.User().GetByEmail(ctx, user.Email)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to look up user by email", goerr.V(model.EmailKey, user.Email))
		}
		if other != nil && other.ID != user.ID {
			return nil, goerr.Wrap(interfaces.ErrConflict, "email is used by another user", goerr.V(model.EmailKey, user.Email))
		}
	}

	return uc.save(ctx, user)
}

func (uc *UserUseCase) Delete(ctx context.Context, id model.UserID) error {
	err := uc.repo.User().Delete(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrUserNotFound, "failed to delete user", goerr.V(model.UserIDKey, id))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V(model.UserIDKey, id))
	}
	uc.registry.Invalidate(id)
	return nil
}

func (uc *UserUseCase) List(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}
	return users, nil
}

// SetIntegration stores the user's credentials for channel after a live connection check.
// A rejected check is a validation error carrying the provider's message.
func (uc *UserUseCase) SetIntegration(ctx context.Context, id model.UserID, channel types.Channel, input IntegrationInput) (*model.User, error) {
	user, err := loadUser(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if input.APIKey == "" {
		return nil, model.NewValidationError("integration", "api_key", "is required")
	}

	candidate := user.Integrations
	switch channel {
	case types.ChannelInstantly:
		candidate.Instantly = &model.InstantlyIntegration{
			APIKey:     input.APIKey,
			APIVersion: input.APIVersion,
			Enabled:    true,
		}
	case types.ChannelSalesfinity:
		candidate.Salesfinity = &model.SalesfinityIntegration{
			APIKey:  input.APIKey,
			Enabled: true,
		}
	case types.ChannelLinkedIn:
		candidate.PhantomBuster = &model.PhantomBusterIntegration{
			APIKey:            input.APIKey,
			ConnectionAgentID: input.ConnectionAgentID,
			MessageAgentID:    input.MessageAgentID,
			SessionCookie:     input.SessionCookie,
			Enabled:           true,
		}
	default:
		return nil, model.NewValidationError("integration", "channel", channel.String()+" has no provider integration")
	}

	result, err := uc.registry.CheckIntegration(ctx, channel, &candidate)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, model.NewValidationError("integration", "api_key", "connection check failed: "+result.Error)
	}

	user.Integrations = candidate
	saved, err := uc.save(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.registry.Invalidate(user.ID)

	logging.From(ctx).Info("integration configured",
		"user_id", user.ID,
		"channel", channel,
		"account", result.Account)
	return saved, nil
}

// DisableIntegration turns off the user's integration for channel. Credentials are kept.
func (uc *UserUseCase) DisableIntegration(ctx context.Context, id model.UserID, channel types.Channel) (*model.User, error) {
	user, err := loadUser(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if !user.Integrations.Disable(channel) {
		return user, nil
	}

	saved, err := uc.save(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.registry.Invalidate(user.ID)
	return saved, nil
}

func (uc *UserUseCase) save(ctx context.Context, user *model.User) (*model.User, error) {
	saved, err := uc.repo.User().Update(ctx, user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V(model.UserIDKey, user.ID))
	}
	return saved, nil
}
