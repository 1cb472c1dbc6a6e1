package usecase

import (
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/service/mailer"
	"github.com/secmon-lab/reachout/pkg/service/notifier"
)

type UseCases struct {
	repo           interfaces.Repository
	registry       *AdapterRegistry
	mailer         mailer.Service
	notifier       notifier.Service
	outreachConfig OutreachConfig

	Lead     *LeadUseCase
	Campaign *CampaignUseCase
	Sequence *SequenceUseCase
	Outreach *OutreachUseCase
	User     *UserUseCase
}

type Option func(*UseCases)

// WithRegistry injects the shared adapter registry
func WithRegistry(registry *AdapterRegistry) Option {
	return func(uc *UseCases) {
		uc.registry = registry
	}
}

// WithMailer enables SMTP delivery on the Personal Email channel
func WithMailer(m mailer.Service) Option {
	return func(uc *UseCases) {
		uc.mailer = m
	}
}

// WithNotifier enables reply notifications during sync
func WithNotifier(n notifier.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func WithOutreachConfig(cfg OutreachConfig) Option {
	return func(uc *UseCases) {
		uc.outreachConfig = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.registry == nil {
		uc.registry = NewAdapterRegistry()
	}

	uc.Lead = NewLeadUseCase(repo)
	uc.Campaign = NewCampaignUseCase(repo)
	uc.Sequence = NewSequenceUseCase(repo)
	uc.Outreach = NewOutreachUseCase(repo, uc.registry, uc.outreachConfig, uc.mailer, uc.notifier)
	uc.User = NewUserUseCase(repo, uc.registry)

	return uc
}

// Registry returns the adapter registry shared by the use cases
func (uc *UseCases) Registry() *AdapterRegistry {
	return uc.registry
}
