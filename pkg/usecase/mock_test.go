package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/repository/memory"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/mailer"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

type mockInstantly struct {
	validateFn       func(ctx context.Context) *provider.ConnectionResult
	findCampaignFn   func(ctx context.Context, name string) (*instantly.Campaign, error)
	createCampaignFn func(ctx context.Context, input *instantly.CreateCampaignInput) (*instantly.Campaign, error)
	startCampaignFn  func(ctx context.Context, id string) error
	addLeadsFn       func(ctx context.Context, campaignID string, leads []*instantly.Lead) (*instantly.AddLeadsResult, error)
	getLeadStatusFn  func(ctx context.Context, campaignID, leadID string) (*instantly.LeadRecord, error)

	mu      sync.Mutex
	started []string
	created []string
	added   []*instantly.Lead
}

var _ instantly.Service = &mockInstantly{}

func (m *mockInstantly) Provider() string { return instantly.Name }

func (m *mockInstantly) Capabilities() provider.Capabilities {
	return provider.Capabilities{Campaigns: true}
}

func (m *mockInstantly) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	if m.validateFn != nil {
		return m.validateFn(ctx)
	}
	return provider.Valid("acme-org")
}

func (m *mockInstantly) ListCampaigns(ctx context.Context, limit int) ([]*instantly.Campaign, error) {
	return nil, nil
}

func (m *mockInstantly) GetCampaign(ctx context.Context, id string) (*instantly.Campaign, error) {
	return &instantly.Campaign{ID: id}, nil
}

func (m *mockInstantly) CreateCampaign(ctx context.Context, input *instantly.CreateCampaignInput) (*instantly.Campaign, error) {
	m.mu.Lock()
	m.created = append(m.created, input.Name)
	m.mu.Unlock()
	if m.createCampaignFn != nil {
		return m.createCampaignFn(ctx, input)
	}
	return &instantly.Campaign{ID: "remote-" + input.Name, Name: input.Name, Status: instantly.CampaignStatusDraft}, nil
}

func (m *mockInstantly) StartCampaign(ctx context.Context, id string) error {
	m.mu.Lock()
	m.started = append(m.started, id)
	m.mu.Unlock()
	if m.startCampaignFn != nil {
		return m.startCampaignFn(ctx, id)
	}
	return nil
}

func (m *mockInstantly) PauseCampaign(ctx context.Context, id string) error {
	return nil
}

func (m *mockInstantly) FindCampaignByName(ctx context.Context, name string) (*instantly.Campaign, error) {
	if m.findCampaignFn != nil {
		return m.findCampaignFn(ctx, name)
	}
	return nil, nil
}

func (m *mockInstantly) AddLeadsToCampaign(ctx context.Context, campaignID string, leads []*instantly.Lead) (*instantly.AddLeadsResult, error) {
	m.mu.Lock()
	m.added = append(m.added, leads...)
	m.mu.Unlock()
	if m.addLeadsFn != nil {
		return m.addLeadsFn(ctx, campaignID, leads)
	}
	return &instantly.AddLeadsResult{Uploaded: len(leads)}, nil
}

func (m *mockInstantly) GetLeadStatus(ctx context.Context, campaignID, leadID string) (*instantly.LeadRecord, error) {
	if m.getLeadStatusFn != nil {
		return m.getLeadStatusFn(ctx, campaignID, leadID)
	}
	return &instantly.LeadRecord{Email: leadID, CampaignID: campaignID}, nil
}

type mockSalesfinity struct {
	scheduling bool

	validateFn      func(ctx context.Context) *provider.ConnectionResult
	addContactFn    func(ctx context.Context, listID string, contact *salesfinity.Contact) (*salesfinity.Contact, error)
	findLatestFn    func(ctx context.Context, contactID string) (*salesfinity.CallLog, error)
	scheduleCallFn  func(ctx context.Context, input *salesfinity.ScheduleCallInput) (*salesfinity.ScheduledCall, error)
	findListByNameF func(ctx context.Context, name string) (*salesfinity.ContactList, error)

	mu       sync.Mutex
	lists    []*salesfinity.ContactList
	contacts []*salesfinity.Contact
}

var _ salesfinity.Service = &mockSalesfinity{}

func (m *mockSalesfinity) Provider() string { return salesfinity.Name }

func (m *mockSalesfinity) Capabilities() provider.Capabilities {
	return provider.Capabilities{Campaigns: true, Scheduling: m.scheduling}
}

func (m *mockSalesfinity) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	if m.validateFn != nil {
		return m.validateFn(ctx)
	}
	return provider.Valid("Acme Sales")
}

func (m *mockSalesfinity) ListContactLists(ctx context.Context, page int) (*provider.Page[*salesfinity.ContactList], error) {
	return &provider.Page[*salesfinity.ContactList]{Items: m.lists}, nil
}

func (m *mockSalesfinity) FindContactListByName(ctx context.Context, name string) (*salesfinity.ContactList, error) {
	if m.findListByNameF != nil {
		return m.findListByNameF(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lists {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (m *mockSalesfinity) CreateContactList(ctx context.Context, name string) (*salesfinity.ContactList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := &salesfinity.ContactList{ID: "list-" + name, Name: name}
	m.lists = append(m.lists, list)
	return list, nil
}

func (m *mockSalesfinity) AddContact(ctx context.Context, listID string, contact *salesfinity.Contact) (*salesfinity.Contact, error) {
	if m.addContactFn != nil {
		return m.addContactFn(ctx, listID, contact)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	added := *contact
	added.ID = "contact-" + contact.ExternalID
	m.contacts = append(m.contacts, &added)
	return &added, nil
}

func (m *mockSalesfinity) DeleteContactList(ctx context.Context, id string) error   { return nil }
func (m *mockSalesfinity) ReimportContactList(ctx context.Context, id string) error { return nil }

func (m *mockSalesfinity) ListCallLogs(ctx context.Context, page int) (*provider.Page[*salesfinity.CallLog], error) {
	return &provider.Page[*salesfinity.CallLog]{}, nil
}

func (m *mockSalesfinity) FindLatestCall(ctx context.Context, contactID string) (*salesfinity.CallLog, error) {
	if m.findLatestFn != nil {
		return m.findLatestFn(ctx, contactID)
	}
	return nil, nil
}

func (m *mockSalesfinity) ScheduleCall(ctx context.Context, input *salesfinity.ScheduleCallInput) (*salesfinity.ScheduledCall, error) {
	if m.scheduleCallFn != nil {
		return m.scheduleCallFn(ctx, input)
	}
	if !m.scheduling {
		return nil, provider.NewTierUnsupported(salesfinity.Name, "call scheduling")
	}
	return &salesfinity.ScheduledCall{ID: "sched-1", ScheduledAt: input.ScheduledAt}, nil
}

func (m *mockSalesfinity) GetListContacts(ctx context.Context, listID string) ([]*salesfinity.Contact, error) {
	return nil, provider.NewTierUnsupported(salesfinity.Name, "contact retrieval")
}

type launchCall struct {
	agentID  string
	profiles []string
	message  string
	action   types.LinkedInAction
}

type mockPhantom struct {
	validateFn func(ctx context.Context) *provider.ConnectionResult
	launchFn   func(ctx context.Context, agentID string) (*phantombuster.Launch, error)
	outputFn   func(ctx context.Context, containerID string) (*phantombuster.ContainerOutput, error)

	mu       sync.Mutex
	launches []launchCall
}

var _ phantombuster.Service = &mockPhantom{}

func (m *mockPhantom) Provider() string { return phantombuster.Name }

func (m *mockPhantom) Capabilities() provider.Capabilities {
	return provider.Capabilities{Campaigns: true, Messaging: true}
}

func (m *mockPhantom) ValidateConnection(ctx context.Context) *provider.ConnectionResult {
	if m.validateFn != nil {
		return m.validateFn(ctx)
	}
	return provider.Valid("growth@example.com")
}

func (m *mockPhantom) ListAgents(ctx context.Context) ([]*phantombuster.Agent, error) {
	return nil, nil
}

func (m *mockPhantom) launch(ctx context.Context, call launchCall) (*phantombuster.Launch, error) {
	m.mu.Lock()
	m.launches = append(m.launches, call)
	n := len(m.launches)
	m.mu.Unlock()
	if m.launchFn != nil {
		return m.launchFn(ctx, call.agentID)
	}
	return &phantombuster.Launch{ContainerID: fmt.Sprintf("container-%d", n), AgentID: call.agentID}, nil
}

func (m *mockPhantom) LaunchConnectionCampaign(ctx context.Context, agentID string, profiles []string, message string) (*phantombuster.Launch, error) {
	return m.launch(ctx, launchCall{agentID: agentID, profiles: profiles, message: message, action: types.LinkedInActionConnection})
}

func (m *mockPhantom) LaunchMessagingCampaign(ctx context.Context, agentID string, profiles []string, message string) (*phantombuster.Launch, error) {
	return m.launch(ctx, launchCall{agentID: agentID, profiles: profiles, message: message, action: types.LinkedInActionMessage})
}

func (m *mockPhantom) GetContainerOutput(ctx context.Context, containerID string) (*phantombuster.ContainerOutput, error) {
	if m.outputFn != nil {
		return m.outputFn(ctx, containerID)
	}
	return &phantombuster.ContainerOutput{ContainerID: containerID, Status: "running"}, nil
}

func (m *mockPhantom) StopAgent(ctx context.Context, agentID string) error {
	return nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, msg *mailer.Message) error
	sent   []*mailer.Message
}

func (m *mockMailer) Send(ctx context.Context, msg *mailer.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockNotifier struct {
	mu      sync.Mutex
	replies []model.OutreachID
}

func (m *mockNotifier) NotifyReply(ctx context.Context, outreach *model.Outreach, lead *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, outreach.ID)
	return nil
}

// fixture wires the use cases over the memory repository with mock providers as defaults
type fixture struct {
	repo     *memory.Memory
	uc       *usecase.UseCases
	email    *mockInstantly
	call     *mockSalesfinity
	linkedIn *mockPhantom
	notifier *mockNotifier
	user     *model.User
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	registryOpts []usecase.RegistryOption
	ucOpts       []usecase.Option
	noDefaults   bool
}

func withoutDefaults() fixtureOption {
	return func(c *fixtureConfig) { c.noDefaults = true }
}

func withRegistryOption(opt usecase.RegistryOption) fixtureOption {
	return func(c *fixtureConfig) { c.registryOpts = append(c.registryOpts, opt) }
}

func withUseCaseOption(opt usecase.Option) fixtureOption {
	return func(c *fixtureConfig) { c.ucOpts = append(c.ucOpts, opt) }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := &fixtureConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &fixture{
		repo:     memory.New(),
		email:    &mockInstantly{},
		call:     &mockSalesfinity{},
		linkedIn: &mockPhantom{},
		notifier: &mockNotifier{},
	}

	var registryOpts []usecase.RegistryOption
	if !cfg.noDefaults {
		registryOpts = append(registryOpts,
			usecase.WithDefaultEmail(f.email),
			usecase.WithDefaultCall(f.call),
			usecase.WithDefaultLinkedIn(f.linkedIn, usecase.LinkedInAgents{ConnectionAgentID: "agent-connect", MessageAgentID: "agent-message"}),
		)
	}
	registryOpts = append(registryOpts, cfg.registryOpts...)

	ucOpts := append([]usecase.Option{
		usecase.WithRegistry(usecase.NewAdapterRegistry(registryOpts...)),
		usecase.WithNotifier(f.notifier),
	}, cfg.ucOpts...)
	f.uc = usecase.New(f.repo, ucOpts...)

	user, err := f.repo.User().Create(context.Background(), &model.User{
		Email: "rep@example.com",
		Name:  "Sales Rep",
		Role:  types.UserRoleSalesRep,
	})
	gt.NoError(t, err).Required()
	f.user = user
	return f
}

func (f *fixture) createLead(t *testing.T, lead *model.Lead) *model.Lead {
	t.Helper()
	lead.Normalize()
	created, err := f.repo.Lead().Create(context.Background(), lead)
	gt.NoError(t, err).Required()
	return created
}

func (f *fixture) createCampaign(t *testing.T, name string, typ types.CampaignType) *model.Campaign {
	t.Helper()
	campaign := &model.Campaign{Name: name, Type: typ}
	campaign.Normalize()
	created, err := f.repo.Campaign().Create(context.Background(), campaign)
	gt.NoError(t, err).Required()
	return created
}

func (f *fixture) outreachCount(t *testing.T, leadID model.LeadID) int {
	t.Helper()
	list, err := f.repo.Outreach().ListByLead(context.Background(), leadID, 0)
	gt.NoError(t, err).Required()
	return len(list)
}
