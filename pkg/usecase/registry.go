package usecase

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
)

// LinkedInAgents are the PhantomBuster agents used for each LinkedIn action
type LinkedInAgents struct {
	ConnectionAgentID string
	MessageAgentID    string
}

// AgentFor returns the agent id configured for action
func (a LinkedInAgents) AgentFor(action types.LinkedInAction) string {
	if action == types.LinkedInActionMessage {
		return a.MessageAgentID
	}
	return a.ConnectionAgentID
}

// LinkedInClient is a LinkedIn adapter bound to its agents
type LinkedInClient struct {
	phantombuster.Service
	Agents LinkedInAgents
}

// AdapterFactory builds adapters from per-user credentials. Tests replace it with fakes.
type AdapterFactory struct {
	Instantly     func(cfg *model.InstantlyIntegration) (instantly.Service, error)
	Salesfinity   func(cfg *model.SalesfinityIntegration) (salesfinity.Service, error)
	PhantomBuster func(cfg *model.PhantomBusterIntegration) (phantombuster.Service, error)
}

type factoryConfig struct {
	instantly     []instantly.Option
	salesfinity   []salesfinity.Option
	phantombuster []phantombuster.Option
}

// FactoryOption adds process-level options to every adapter the factory builds
type FactoryOption func(*factoryConfig)

// WithInstantlyOptions applies opts to per-user Instantly adapters. The user's API version
// still wins.
func WithInstantlyOptions(opts ...instantly.Option) FactoryOption {
	return func(c *factoryConfig) {
		c.instantly = append(c.instantly, opts...)
	}
}

// WithSalesfinityOptions applies opts, such as the account capabilities, to per-user
// Salesfinity adapters
func WithSalesfinityOptions(opts ...salesfinity.Option) FactoryOption {
	return func(c *factoryConfig) {
		c.salesfinity = append(c.salesfinity, opts...)
	}
}

// WithPhantomBusterOptions applies opts to per-user PhantomBuster adapters. The user's
// session cookie still wins.
func WithPhantomBusterOptions(opts ...phantombuster.Option) FactoryOption {
	return func(c *factoryConfig) {
		c.phantombuster = append(c.phantombuster, opts...)
	}
}

// DefaultAdapterFactory builds adapters from per-user credentials plus the process-level
// options
func DefaultAdapterFactory(opts ...FactoryOption) AdapterFactory {
	var cfg factoryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return AdapterFactory{
		Instantly: func(in *model.InstantlyIntegration) (instantly.Service, error) {
			version, ok := instantly.ParseAPIVersion(in.APIVersion)
			if !ok {
				return nil, model.NewValidationError("integration", "api_version", "must be v1 or v2")
			}
			return instantly.New(in.APIKey, append(slices.Clone(cfg.instantly), instantly.WithAPIVersion(version))...)
		},
		Salesfinity: func(in *model.SalesfinityIntegration) (salesfinity.Service, error) {
			return salesfinity.New(in.APIKey, slices.Clone(cfg.salesfinity)...)
		},
		PhantomBuster: func(in *model.PhantomBusterIntegration) (phantombuster.Service, error) {
			return phantombuster.New(in.APIKey, append(slices.Clone(cfg.phantombuster), phantombuster.WithSessionCookie(in.SessionCookie))...)
		},
	}
}

// AdapterRegistry hands out provider adapters per user and channel. Per-user adapters are
// built lazily from the user's integrations and cached until Invalidate. Two requests racing
// on an empty slot may both build an adapter; the last store wins and both are equivalent.
type AdapterRegistry struct {
	factory AdapterFactory

	defaultEmail    instantly.Service
	defaultCall     salesfinity.Service
	defaultLinkedIn *LinkedInClient

	email    sync.Map // model.UserID -> instantly.Service
	call     sync.Map // model.UserID -> salesfinity.Service
	linkedIn sync.Map // model.UserID -> *LinkedInClient
}

// RegistryOption configures an AdapterRegistry
type RegistryOption func(*AdapterRegistry)

// WithAdapterFactory replaces the per-user adapter factory
func WithAdapterFactory(f AdapterFactory) RegistryOption {
	return func(r *AdapterRegistry) {
		r.factory = f
	}
}

// WithDefaultEmail sets the process-wide email adapter
func WithDefaultEmail(svc instantly.Service) RegistryOption {
	return func(r *AdapterRegistry) {
		r.defaultEmail = svc
	}
}

// WithDefaultCall sets the process-wide call adapter
func WithDefaultCall(svc salesfinity.Service) RegistryOption {
	return func(r *AdapterRegistry) {
		r.defaultCall = svc
	}
}

// WithDefaultLinkedIn sets the process-wide LinkedIn adapter and its agents
func WithDefaultLinkedIn(svc phantombuster.Service, agents LinkedInAgents) RegistryOption {
	return func(r *AdapterRegistry) {
		r.defaultLinkedIn = &LinkedInClient{Service: svc, Agents: agents}
	}
}

// NewAdapterRegistry creates a registry. It is built once per process and shared.
func NewAdapterRegistry(opts ...RegistryOption) *AdapterRegistry {
	r := &AdapterRegistry{factory: DefaultAdapterFactory()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// selectAdapter returns the user's cached adapter when the user has the channel enabled,
// otherwise the process default, otherwise ErrChannelNotConfigured.
func selectAdapter[T any](cache *sync.Map, user *model.User, channel types.Channel, build func(*model.User) (T, error), fallback T, hasFallback bool) (T, error) {
	var zero T

	if user != nil && user.Integrations.HasEnabled(channel) {
		if cached, ok := cache.Load(user.ID); ok {
			return cached.(T), nil
		}
		adapter, err := build(user)
		if err != nil {
			return zero, goerr.Wrap(err, "failed to build provider adapter",
				goerr.V(model.UserIDKey, user.ID),
				goerr.V(model.ChannelKey, channel))
		}
		cache.Store(user.ID, adapter)
		return adapter, nil
	}

	if hasFallback {
		return fallback, nil
	}

	var userID model.UserID
	if user != nil {
		userID = user.ID
	}
	return zero, goerr.Wrap(ErrChannelNotConfigured, "no adapter available",
		goerr.V(model.UserIDKey, userID),
		goerr.V(model.ChannelKey, channel))
}

// Email returns the email adapter for user. user may be nil to get the default.
func (r *AdapterRegistry) Email(user *model.User) (instantly.Service, error) {
	return selectAdapter(&r.email, user, types.ChannelInstantly, func(u *model.User) (instantly.Service, error) {
		return r.factory.Instantly(u.Integrations.Instantly)
	}, r.defaultEmail, r.defaultEmail != nil)
}

// Call returns the call adapter for user
func (r *AdapterRegistry) Call(user *model.User) (salesfinity.Service, error) {
	return selectAdapter(&r.call, user, types.ChannelSalesfinity, func(u *model.User) (salesfinity.Service, error) {
		return r.factory.Salesfinity(u.Integrations.Salesfinity)
	}, r.defaultCall, r.defaultCall != nil)
}

// LinkedIn returns the LinkedIn adapter for user together with the agents to launch
func (r *AdapterRegistry) LinkedIn(user *model.User) (*LinkedInClient, error) {
	return selectAdapter(&r.linkedIn, user, types.ChannelLinkedIn, func(u *model.User) (*LinkedInClient, error) {
		cfg := u.Integrations.PhantomBuster
		svc, err := r.factory.PhantomBuster(cfg)
		if err != nil {
			return nil, err
		}
		return &LinkedInClient{
			Service: svc,
			Agents:  LinkedInAgents{ConnectionAgentID: cfg.ConnectionAgentID, MessageAgentID: cfg.MessageAgentID},
		}, nil
	}, r.defaultLinkedIn, r.defaultLinkedIn != nil)
}

// Select returns the adapter behind channel as the common provider contract
func (r *AdapterRegistry) Select(user *model.User, channel types.Channel) (provider.Adapter, error) {
	switch channel {
	case types.ChannelInstantly:
		return r.Email(user)
	case types.ChannelSalesfinity:
		return r.Call(user)
	case types.ChannelLinkedIn:
		client, err := r.LinkedIn(user)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, goerr.Wrap(ErrChannelNotConfigured, "channel has no provider adapter", goerr.V(model.ChannelKey, channel))
	}
}

// HasChannelAccess reports whether user may act on channel. Personal Email is always allowed.
func (r *AdapterRegistry) HasChannelAccess(user *model.User, channel types.Channel) bool {
	if channel == types.ChannelPersonalEmail {
		return true
	}
	if user != nil && user.Integrations.HasEnabled(channel) {
		return true
	}
	switch channel {
	case types.ChannelInstantly:
		return r.defaultEmail != nil
	case types.ChannelSalesfinity:
		return r.defaultCall != nil
	case types.ChannelLinkedIn:
		return r.defaultLinkedIn != nil
	default:
		return false
	}
}

// Invalidate drops the cached adapters of userID so the next call rebuilds them
func (r *AdapterRegistry) Invalidate(userID model.UserID) {
	r.email.Delete(userID)
	r.call.Delete(userID)
	r.linkedIn.Delete(userID)
}

// CheckIntegration builds a throwaway adapter from integrations and checks its connection. The cache is
// not touched.
func (r *AdapterRegistry) CheckIntegration(ctx context.Context, channel types.Channel, integrations *model.Integrations) (*provider.ConnectionResult, error) {
	var (
		adapter provider.Adapter
		err     error
	)

	switch channel {
	case types.ChannelInstantly:
		if integrations.Instantly == nil {
			return nil, model.NewValidationError("integration", "instantly", "is required")
		}
		adapter, err = r.factory.Instantly(integrations.Instantly)
	case types.ChannelSalesfinity:
		if integrations.Salesfinity == nil {
			return nil, model.NewValidationError("integration", "salesfinity", "is required")
		}
		adapter, err = r.factory.Salesfinity(integrations.Salesfinity)
	case types.ChannelLinkedIn:
		if integrations.PhantomBuster == nil {
			return nil, model.NewValidationError("integration", "phantombuster", "is required")
		}
		adapter, err = r.factory.PhantomBuster(integrations.PhantomBuster)
	default:
		return nil, model.NewValidationError("integration", "channel", channel.String()+" has no provider integration")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build provider adapter", goerr.V(model.ChannelKey, channel))
	}

	return adapter.ValidateConnection(ctx), nil
}
