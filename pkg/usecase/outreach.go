package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/service/instantly"
	"github.com/secmon-lab/reachout/pkg/service/mailer"
	"github.com/secmon-lab/reachout/pkg/service/notifier"
	"github.com/secmon-lab/reachout/pkg/service/phantombuster"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/service/salesfinity"
	"github.com/secmon-lab/reachout/pkg/utils/errutil"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
)

const (
	DefaultHistoryLimit     = 50
	MaxHistoryLimit         = 200
	DefaultMaxFollowUpDepth = 5
	DefaultSyncConcurrency  = 4
)

// OutreachConfig tunes the orchestrator. Zero values take the defaults above.
type OutreachConfig struct {
	HistoryLimit     int
	MaxFollowUpDepth int
	SyncConcurrency  int

	// Templates used when a LinkedIn request carries no message
	ConnectionTemplate string
	MessageTemplate    string

	// Signatures are appended to personal email bodies by the sender's role
	Signatures map[types.UserRole]string
}

func (c OutreachConfig) withDefaults() OutreachConfig {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.HistoryLimit > MaxHistoryLimit {
		c.HistoryLimit = MaxHistoryLimit
	}
	if c.MaxFollowUpDepth <= 0 {
		c.MaxFollowUpDepth = DefaultMaxFollowUpDepth
	}
	if c.SyncConcurrency <= 0 {
		c.SyncConcurrency = DefaultSyncConcurrency
	}
	return c
}

// EmailInput is the content of an email outreach
type EmailInput struct {
	Subject    string
	Body       string
	From       string
	SequenceID model.SequenceID

	parent *model.Outreach
}

// CallInput describes a call to schedule
type CallInput struct {
	ScheduledAt *time.Time
	Notes       string
	SequenceID  model.SequenceID

	parent *model.Outreach
}

// LinkedInInput describes a LinkedIn action. An empty Message uses the configured template.
type LinkedInInput struct {
	Message    string
	CampaignID model.CampaignID
	SequenceID model.SequenceID

	parent *model.Outreach
}

// OutreachUseCase turns send, schedule and connect requests into Outreach records and keeps
// them in sync with the providers.
type OutreachUseCase struct {
	repo     interfaces.Repository
	registry *AdapterRegistry
	mailer   mailer.Service
	notifier notifier.Service
	cfg      OutreachConfig
}

func NewOutreachUseCase(repo interfaces.Repository, registry *AdapterRegistry, cfg OutreachConfig, m mailer.Service, n notifier.Service) *OutreachUseCase {
	return &OutreachUseCase{
		repo:     repo,
		registry: registry,
		mailer:   m,
		notifier: n,
		cfg:      cfg.withDefaults(),
	}
}

// bestEffort logs a failed step that does not abort the operation. Steps the provider does
// not offer at the account's tier are logged as skipped.
func bestEffort(ctx context.Context, err error, step string) {
	if err == nil {
		return
	}
	if provider.IsTierUnsupported(err) {
		logging.From(ctx).Warn("step skipped, not available at this access tier",
			"step", step,
			"error", err.Error())
		return
	}
	_ = errutil.Handle(ctx, err, step+" failed, continuing")
}

// newOutreach starts a record on channel, linked to parent when this is a follow-up
func newOutreach(parent *model.Outreach, channel types.Channel, leadID model.LeadID, campaignID model.CampaignID, sequenceID model.SequenceID) *model.Outreach {
	var o *model.Outreach
	if parent != nil {
		o = model.NewFollowUp(parent)
	} else {
		o = &model.Outreach{LeadID: leadID, CampaignID: campaignID}
	}
	o.Channel = channel
	o.Type = channel.OutreachType()
	o.Status = types.OutreachStatusScheduled
	if sequenceID != "" {
		o.SequenceID = sequenceID
	}
	return o
}

func (uc *OutreachUseCase) persist(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error) {
	if err := outreach.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid outreach", goerr.V(model.LeadIDKey, outreach.LeadID))
	}
	created, err := uc.repo.Outreach().Create(ctx, outreach)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save outreach",
			goerr.V(model.LeadIDKey, outreach.LeadID),
			goerr.V(model.ChannelKey, outreach.Channel))
	}
	return created, nil
}

// applySideEffects updates the lead and the campaign after an outreach was recorded. Both are
// best-effort.
func (uc *OutreachUseCase) applySideEffects(ctx context.Context, lead *model.Lead, outreach *model.Outreach) {
	lead.MarkContacted(outreach.Channel, outreach.CreatedAt)
	if _, err := uc.repo.Lead().Update(ctx, lead); err != nil {
		bestEffort(ctx, goerr.Wrap(err, "failed to update lead", goerr.V(model.LeadIDKey, lead.ID)), "lead update")
	}

	if outreach.CampaignID == "" {
		return
	}
	campaign, err := uc.repo.Campaign().Get(ctx, outreach.CampaignID)
	if err != nil {
		bestEffort(ctx, goerr.Wrap(err, "failed to get campaign", goerr.V(model.CampaignIDKey, outreach.CampaignID)), "campaign metrics")
		return
	}
	campaign.RecordOutreach(outreach.Type)
	if _, err := uc.repo.Campaign().Update(ctx, campaign); err != nil {
		bestEffort(ctx, goerr.Wrap(err, "failed to update campaign", goerr.V(model.CampaignIDKey, campaign.ID)), "campaign metrics")
	}
}

// SendEmail records an email outreach through the email provider. The remote campaign named
// after the local one is created when missing. Uploading the lead and starting the campaign
// are best-effort; the saved Outreach is the result.
func (uc *OutreachUseCase) SendEmail(ctx context.Context, userID model.UserID, campaignID model.CampaignID, leadID model.LeadID, input EmailInput) (*model.Outreach, error) {
	user, err := loadUser(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	lead, err := loadLead(ctx, uc.repo, leadID)
	if err != nil {
		return nil, err
	}
	campaign, err := loadCampaign(ctx, uc.repo, campaignID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.registry.Email(user)
	if err != nil {
		return nil, err
	}

	if result := svc.ValidateConnection(ctx); !result.Valid {
		return nil, goerr.Wrap(provider.NewError(svc.Provider(), "connection check failed: "+result.Error, nil),
			"email provider is not reachable", goerr.V(model.UserIDKey, user.ID))
	}

	remote, err := svc.FindCampaignByName(ctx, campaign.Name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up remote campaign", goerr.V(model.CampaignIDKey, campaign.ID))
	}
	if remote == nil {
		remote, err = svc.CreateCampaign(ctx, &instantly.CreateCampaignInput{Name: campaign.Name, StopOnReply: true})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create remote campaign", goerr.V(model.CampaignIDKey, campaign.ID))
		}
		logging.From(ctx).Info("remote campaign created",
			"campaign_id", campaign.ID,
			"remote_campaign_id", remote.ID)
	}

	if _, err := svc.AddLeadsToCampaign(ctx, remote.ID, []*instantly.Lead{instantly.MapLeadToProviderLead(lead)}); err != nil {
		bestEffort(ctx, goerr.Wrap(err, "failed to add lead to remote campaign",
			goerr.V(model.LeadIDKey, lead.ID),
			goerr.V(RemoteCampaignIDKey, remote.ID)), "lead upload")
	}

	from := input.From
	if from == "" {
		from = user.Email
	}

	outreach := newOutreach(input.parent, types.ChannelInstantly, lead.ID, campaign.ID, input.SequenceID)
	outreach.Email = &model.EmailPayload{
		Subject: input.Subject,
		Body:    input.Body,
		From:    from,
		To:      lead.Email,
	}
	outreach.ExternalIDs = model.ExternalIDs{
		InstantlyID:         lead.Email,
		InstantlyCampaignID: remote.ID,
	}
	outreach.PerformedBy = user.ID

	created, err := uc.persist(ctx, outreach)
	if err != nil {
		return nil, err
	}

	if !remote.Status.IsActive() {
		if err := svc.StartCampaign(ctx, remote.ID); err != nil {
			bestEffort(ctx, goerr.Wrap(err, "failed to start remote campaign", goerr.V(RemoteCampaignIDKey, remote.ID)), "campaign start")
		}
	}

	uc.applySideEffects(ctx, lead, created)
	return created, nil
}

// SendPersonalEmail records an email sent from the user's own mailbox. It is always permitted.
// Without SMTP configured the record is kept with no delivery.
func (uc *OutreachUseCase) SendPersonalEmail(ctx context.Context, userID model.UserID, leadID model.LeadID, input EmailInput) (*model.Outreach, error) {
	user, err := loadUser(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	lead, err := loadLead(ctx, uc.repo, leadID)
	if err != nil {
		return nil, err
	}

	from := input.From
	if from == "" {
		from = user.Email
	}
	body := input.Body
	if sig := uc.cfg.Signatures[user.Role]; sig != "" {
		body = strings.TrimRight(body, "\n") + "\n\n" + sig
	}

	var campaignID model.CampaignID
	if input.parent != nil {
		campaignID = input.parent.CampaignID
	}
	outreach := newOutreach(input.parent, types.ChannelPersonalEmail, lead.ID, campaignID, input.SequenceID)
	outreach.Email = &model.EmailPayload{
		Subject: input.Subject,
		Body:    body,
		From:    from,
		To:      lead.Email,
	}
	outreach.PerformedBy = user.ID

	if uc.mailer != nil {
		err := uc.mailer.Send(ctx, &mailer.Message{From: from, To: lead.Email, Subject: input.Subject, Body: body})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to deliver personal email", goerr.V(model.LeadIDKey, lead.ID))
		}
		sent := time.Now().UTC()
		outreach.Email.SentAt = &sent
	} else {
		logging.From(ctx).Info("SMTP is not configured, personal email recorded without delivery",
			"lead_id", lead.ID,
			"user_id", user.ID)
	}

	created, err := uc.persist(ctx, outreach)
	if err != nil {
		return nil, err
	}
	uc.applySideEffects(ctx, lead, created)
	return created, nil
}

// ScheduleCall adds the lead to the dialing list named after the campaign and records a
// scheduled call. The call is booked remotely only when the provider supports scheduling;
// RemoteScheduled tells which happened.
func (uc *OutreachUseCase) ScheduleCall(ctx context.Context, userID model.UserID, campaignID model.CampaignID, leadID model.LeadID, input CallInput) (*model.Outreach, error) {
	user, err := loadUser(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	lead, err := loadLead(ctx, uc.repo, leadID)
	if err != nil {
		return nil, err
	}
	campaign, err := loadCampaign(ctx, uc.repo, campaignID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.registry.Call(user)
	if err != nil {
		return nil, err
	}

	contact := salesfinity.MapLeadToContact(lead)

	list, err := svc.FindContactListByName(ctx, campaign.Name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up contact list", goerr.V(model.CampaignIDKey, campaign.ID))
	}
	if list == nil {
		list, err = svc.CreateContactList(ctx, campaign.Name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create contact list", goerr.V(model.CampaignIDKey, campaign.ID))
		}
	}

	added, err := svc.AddContact(ctx, list.ID, contact)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add contact to list",
			goerr.V(model.LeadIDKey, lead.ID),
			goerr.V(ContactListIDKey, list.ID))
	}

	call := &model.CallPayload{
		DialedNumber: contact.Phone,
		ScheduledAt:  input.ScheduledAt,
		Outcome:      types.CallOutcomeNoAnswer,
		Notes:        input.Notes,
	}

	if svc.Capabilities().Scheduling {
		at := time.Now().UTC()
		if input.ScheduledAt != nil {
			at = input.ScheduledAt.UTC()
		}
		scheduled, err := svc.ScheduleCall(ctx, &salesfinity.ScheduleCallInput{
			ListID:      list.ID,
			ContactID:   added.Key(),
			ScheduledAt: at,
			Notes:       input.Notes,
		})
		if err != nil {
			bestEffort(ctx, goerr.Wrap(err, "failed to schedule call", goerr.V(ContactListIDKey, list.ID)), "call scheduling")
		} else {
			call.RemoteScheduled = true
			scheduledAt := scheduled.ScheduledAt.UTC()
			call.ScheduledAt = &scheduledAt
		}
	} else {
		logging.From(ctx).Info("provider does not support call scheduling, call recorded locally",
			"provider", svc.Provider(),
			"lead_id", lead.ID)
	}

	outreach := newOutreach(input.parent, types.ChannelSalesfinity, lead.ID, campaign.ID, input.SequenceID)
	outreach.Call = call
	outreach.ExternalIDs = model.ExternalIDs{
		SalesfinityID:     added.Key(),
		SalesfinityListID: list.ID,
	}
	outreach.PerformedBy = user.ID

	created, err := uc.persist(ctx, outreach)
	if err != nil {
		return nil, err
	}
	uc.applySideEffects(ctx, lead, created)
	return created, nil
}

// SendLinkedInConnection launches a connection request with a note of at most 300 characters
func (uc *OutreachUseCase) SendLinkedInConnection(ctx context.Context, userID model.UserID, leadID model.LeadID, input LinkedInInput) (*model.Outreach, error) {
	return uc.sendLinkedIn(ctx, userID, leadID, input, types.LinkedInActionConnection)
}

// SendLinkedInMessage launches a direct message to a connected lead
func (uc *OutreachUseCase) SendLinkedInMessage(ctx context.Context, userID model.UserID, leadID model.LeadID, input LinkedInInput) (*model.Outreach, error) {
	return uc.sendLinkedIn(ctx, userID, leadID, input, types.LinkedInActionMessage)
}

func (uc *OutreachUseCase) sendLinkedIn(ctx context.Context, userID model.UserID, leadID model.LeadID, input LinkedInInput, action types.LinkedInAction) (*model.Outreach, error) {
	user, err := loadUser(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	lead, err := loadLead(ctx, uc.repo, leadID)
	if err != nil {
		return nil, err
	}
	if !lead.HasLinkedInProfile() {
		return nil, goerr.Wrap(ErrMissingLinkedInProfile, "cannot send LinkedIn action", goerr.V(model.LeadIDKey, lead.ID))
	}

	campaignID := input.CampaignID
	if campaignID == "" && input.parent != nil {
		campaignID = input.parent.CampaignID
	}
	if campaignID != "" {
		if _, err := loadCampaign(ctx, uc.repo, campaignID); err != nil {
			return nil, err
		}
	}

	client, err := uc.registry.LinkedIn(user)
	if err != nil {
		return nil, err
	}
	agentID := client.Agents.AgentFor(action)
	if agentID == "" {
		return nil, goerr.Wrap(ErrChannelNotConfigured, "no PhantomBuster agent for LinkedIn action",
			goerr.V(model.UserIDKey, user.ID),
			goerr.V("action", action))
	}

	template, limit := input.Message, phantombuster.ConnectionMessageLimit
	if template == "" {
		template = uc.cfg.ConnectionTemplate
	}
	if action == types.LinkedInActionMessage {
		limit = phantombuster.MessageLimit
		if input.Message == "" {
			template = uc.cfg.MessageTemplate
		}
	}
	message := phantombuster.RenderMessage(template, lead, limit)
	if action == types.LinkedInActionMessage && message == "" {
		return nil, model.NewValidationError("outreach", "message", "is required for a LinkedIn message")
	}

	profiles := []string{lead.LinkedInURL}
	var launch *phantombuster.Launch
	if action == types.LinkedInActionMessage {
		launch, err = client.LaunchMessagingCampaign(ctx, agentID, profiles, message)
	} else {
		launch, err = client.LaunchConnectionCampaign(ctx, agentID, profiles, message)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to launch LinkedIn agent",
			goerr.V(model.LeadIDKey, lead.ID),
			goerr.V(AgentIDKey, agentID))
	}

	outreach := newOutreach(input.parent, types.ChannelLinkedIn, lead.ID, campaignID, input.SequenceID)
	outreach.LinkedIn = &model.LinkedInPayload{
		ProfileURL: lead.LinkedInURL,
		Action:     action,
		Message:    message,
		AgentID:    agentID,
	}
	outreach.ExternalIDs = model.ExternalIDs{LinkedInActivityID: launch.ContainerID}
	outreach.PerformedBy = user.ID

	created, err := uc.persist(ctx, outreach)
	if err != nil {
		return nil, err
	}
	uc.applySideEffects(ctx, lead, created)
	return created, nil
}

// GetOutreach returns one outreach record
func (uc *OutreachUseCase) GetOutreach(ctx context.Context, id model.OutreachID) (*model.Outreach, error) {
	return loadOutreach(ctx, uc.repo, id)
}

// GetLeadOutreachHistory returns the lead's outreaches newest first. A non-positive limit uses
// the configured default; the limit is capped at MaxHistoryLimit.
func (uc *OutreachUseCase) GetLeadOutreachHistory(ctx context.Context, leadID model.LeadID, limit int) ([]*model.Outreach, error) {
	if _, err := loadLead(ctx, uc.repo, leadID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = uc.cfg.HistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	history, err := uc.repo.Outreach().ListByLead(ctx, leadID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list outreach history", goerr.V(model.LeadIDKey, leadID))
	}
	return history, nil
}
