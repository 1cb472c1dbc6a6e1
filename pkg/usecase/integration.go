package usecase

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

// IntegrationHealth is the connection state of one channel
type IntegrationHealth struct {
	Channel types.Channel              `json:"channel"`
	Source  string                     `json:"source"`
	Result  *provider.ConnectionResult `json:"result"`
}

// Where a channel's adapter comes from
const (
	SourceUser    = "user"
	SourceDefault = "default"
	SourceNone    = "none"
)

var providerChannels = []types.Channel{
	types.ChannelInstantly,
	types.ChannelSalesfinity,
	types.ChannelLinkedIn,
}

// CheckIntegrations validates the adapter the user would get on each provider channel
func (uc *OutreachUseCase) CheckIntegrations(ctx context.Context, userID model.UserID) ([]*IntegrationHealth, error) {
	user, err := loadUser(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	return CheckAdapters(ctx, uc.registry, user), nil
}

// CheckAdapters validates the adapter selected for user on each provider channel. user may be
// nil to check the process defaults only.
func CheckAdapters(ctx context.Context, registry *AdapterRegistry, user *model.User) []*IntegrationHealth {
	results := make([]*IntegrationHealth, 0, len(providerChannels))
	for _, channel := range providerChannels {
		health := &IntegrationHealth{Channel: channel, Source: SourceNone}

		if !registry.HasChannelAccess(user, channel) {
			health.Result = &provider.ConnectionResult{Valid: false, Error: "not configured"}
			results = append(results, health)
			continue
		}

		health.Source = SourceDefault
		if user != nil && user.Integrations.HasEnabled(channel) {
			health.Source = SourceUser
		}

		adapter, err := registry.Select(user, channel)
		if err != nil {
			health.Result = provider.Invalid(err)
		} else {
			health.Result = adapter.ValidateConnection(ctx)
		}
		results = append(results, health)
	}
	return results
}
