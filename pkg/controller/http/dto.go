package http

import (
	"time"

	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/usecase"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func toList[S any, T any](items []S, conv func(S) T) listResponse[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return listResponse[T]{Items: out, Total: len(out)}
}

// Lead

type leadRequest struct {
	Email       string           `json:"email"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Phone       string           `json:"phone"`
	Company     string           `json:"company"`
	JobTitle    string           `json:"jobTitle"`
	LinkedInURL string           `json:"linkedInUrl"`
	Status      types.LeadStatus `json:"status"`
	Source      types.LeadSource `json:"source"`
	Tags        []string         `json:"tags"`
	AssignedTo  model.UserID     `json:"assignedTo"`
	Notes       string           `json:"notes"`
}

func (r *leadRequest) toModel() *model.Lead {
	return &model.Lead{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Company:     r.Company,
		JobTitle:    r.JobTitle,
		LinkedInURL: r.LinkedInURL,
		Status:      r.Status,
		Source:      r.Source,
		Tags:        r.Tags,
		AssignedTo:  r.AssignedTo,
		Notes:       r.Notes,
	}
}

type leadPatch struct {
	Email       *string           `json:"email"`
	FirstName   *string           `json:"firstName"`
	LastName    *string           `json:"lastName"`
	Phone       *string           `json:"phone"`
	Company     *string           `json:"company"`
	JobTitle    *string           `json:"jobTitle"`
	LinkedInURL *string           `json:"linkedInUrl"`
	Status      *types.LeadStatus `json:"status"`
	Source      *types.LeadSource `json:"source"`
	Tags        *[]string         `json:"tags"`
	AssignedTo  *model.UserID     `json:"assignedTo"`
	Notes       *string           `json:"notes"`
}

func (p *leadPatch) toUpdate() *usecase.LeadUpdate {
	return &usecase.LeadUpdate{
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		Company:     p.Company,
		JobTitle:    p.JobTitle,
		LinkedInURL: p.LinkedInURL,
		Status:      p.Status,
		Source:      p.Source,
		Tags:        p.Tags,
		AssignedTo:  p.AssignedTo,
		Notes:       p.Notes,
	}
}

type leadResponse struct {
	ID                model.LeadID     `json:"id"`
	Email             string           `json:"email"`
	FirstName         string           `json:"firstName,omitempty"`
	LastName          string           `json:"lastName,omitempty"`
	Phone             string           `json:"phone,omitempty"`
	Company           string           `json:"company,omitempty"`
	JobTitle          string           `json:"jobTitle,omitempty"`
	LinkedInURL       string           `json:"linkedInUrl,omitempty"`
	Status            types.LeadStatus `json:"status"`
	Source            types.LeadSource `json:"source"`
	Tags              []string         `json:"tags"`
	CreatedBy         model.UserID     `json:"createdBy,omitempty"`
	AssignedTo        model.UserID     `json:"assignedTo,omitempty"`
	LastContactedDate *time.Time       `json:"lastContactedDate,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func toLeadResponse(l *model.Lead) leadResponse {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	return leadResponse{
		ID:                l.ID,
		Email:             l.Email,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Phone:             l.Phone,
		Company:           l.Company,
		JobTitle:          l.JobTitle,
		LinkedInURL:       l.LinkedInURL,
		Status:            l.Status,
		Source:            l.Source,
		Tags:              tags,
		CreatedBy:         l.CreatedBy,
		AssignedTo:        l.AssignedTo,
		LastContactedDate: l.LastContactedDate,
		Notes:             l.Notes,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// Campaign

type campaignRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Type        types.CampaignType   `json:"type"`
	Status      types.CampaignStatus `json:"status"`
	Leads       []model.LeadID       `json:"leads"`
}

type campaignPatch struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Type        *types.CampaignType   `json:"type"`
	Status      *types.CampaignStatus `json:"status"`
}

type campaignLeadsRequest struct {
	LeadIDs []model.LeadID `json:"leadIds"`
}

type teamMemberRequest struct {
	UserID model.UserID `json:"userId"`
}

type campaignStatusRequest struct {
	Status types.CampaignStatus `json:"status"`
}

type campaignMetrics struct {
	TotalLeads      int `json:"totalLeads"`
	EmailsSent      int `json:"emailsSent"`
	CallsMade       int `json:"callsMade"`
	LinkedInActions int `json:"linkedInActions"`
	Replies         int `json:"replies"`
	Meetings        int `json:"meetings"`
}

type campaignResponse struct {
	ID          model.CampaignID     `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Type        types.CampaignType   `json:"type"`
	Status      types.CampaignStatus `json:"status"`
	Leads       []model.LeadID       `json:"leads"`
	Team        []model.UserID       `json:"team"`
	Metrics     campaignMetrics      `json:"metrics"`
	CreatedBy   model.UserID         `json:"createdBy,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func toCampaignResponse(c *model.Campaign) campaignResponse {
	leads, team := c.Leads, c.Team
	if leads == nil {
		leads = []model.LeadID{}
	}
	if team == nil {
		team = []model.UserID{}
	}
	return campaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		Status:      c.Status,
		Leads:       leads,
		Team:        team,
		Metrics:     campaignMetrics(c.Metrics),
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Sequence

type hourWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type stepContent struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
	Script  string `json:"script,omitempty"`
	Message string `json:"message,omitempty"`
}

type stepDTO struct {
	Order          int                   `json:"order"`
	Channel        types.Channel         `json:"channel"`
	Content        stepContent           `json:"content"`
	DelayDays      int                   `json:"delayDays"`
	DelayHours     int                   `json:"delayHours"`
	ActiveHours    *hourWindow           `json:"activeHours,omitempty"`
	ActiveDays     []time.Weekday        `json:"activeDays,omitempty"`
	SkipConditions []model.SkipCondition `json:"skipConditions,omitempty"`
}

func (s stepDTO) toModel() model.Step {
	step := model.Step{
		Order:          s.Order,
		Channel:        s.Channel,
		Content:        model.StepContent(s.Content),
		DelayDays:      s.DelayDays,
		DelayHours:     s.DelayHours,
		ActiveDays:     s.ActiveDays,
		SkipConditions: s.SkipConditions,
	}
	if s.ActiveHours != nil {
		step.ActiveHours = &model.HourWindow{Start: s.ActiveHours.Start, End: s.ActiveHours.End}
	}
	return step
}

func toStepDTO(s model.Step) stepDTO {
	dto := stepDTO{
		Order:          s.Order,
		Channel:        s.Channel,
		Content:        stepContent(s.Content),
		DelayDays:      s.DelayDays,
		DelayHours:     s.DelayHours,
		ActiveDays:     s.ActiveDays,
		SkipConditions: s.SkipConditions,
	}
	if s.ActiveHours != nil {
		dto.ActiveHours = &hourWindow{Start: s.ActiveHours.Start, End: s.ActiveHours.End}
	}
	return dto
}

func toSteps(in []stepDTO) []model.Step {
	steps := make([]model.Step, 0, len(in))
	for _, s := range in {
		steps = append(steps, s.toModel())
	}
	return steps
}

type sequenceRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Steps       []stepDTO `json:"steps"`
}

type sequencePatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Active      *bool      `json:"active"`
	Steps       *[]stepDTO `json:"steps"`
}

func (p *sequencePatch) toUpdate() *usecase.SequenceUpdate {
	update := &usecase.SequenceUpdate{
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
	if p.Steps != nil {
		steps := toSteps(*p.Steps)
		update.Steps = &steps
	}
	return update
}

type sequenceResponse struct {
	ID          model.SequenceID `json:"id"`
	CampaignID  model.CampaignID `json:"campaignId"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Active      bool             `json:"active"`
	Steps       []stepDTO        `json:"steps"`
	CreatedBy   model.UserID     `json:"createdBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func toSequenceResponse(s *model.Sequence) sequenceResponse {
	steps := make([]stepDTO, 0, len(s.Steps))
	for _, step := range s.Steps {
		steps = append(steps, toStepDTO(step))
	}
	return sequenceResponse{
		ID:          s.ID,
		CampaignID:  s.CampaignID,
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
		Steps:       steps,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Outreach

type emailOutreachRequest struct {
	CampaignID model.CampaignID `json:"campaignId"`
	LeadID     model.LeadID     `json:"leadId"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	From       string           `json:"from"`
	SequenceID model.SequenceID `json:"sequenceId"`
}

func (r *emailOutreachRequest) input() usecase.EmailInput {
	return usecase.EmailInput{Subject: r.Subject, Body: r.Body, From: r.From, SequenceID: r.SequenceID}
}

type callOutreachRequest struct {
	CampaignID  model.CampaignID `json:"campaignId"`
	LeadID      model.LeadID     `json:"leadId"`
	ScheduledAt *time.Time       `json:"scheduledAt"`
	Notes       string           `json:"notes"`
	SequenceID  model.SequenceID `json:"sequenceId"`
}

type linkedInOutreachRequest struct {
	LeadID     model.LeadID     `json:"leadId"`
	CampaignID model.CampaignID `json:"campaignId"`
	Message    string           `json:"message"`
	SequenceID model.SequenceID `json:"sequenceId"`
}

type followUpRequest struct {
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Message     string     `json:"message"`
	Notes       string     `json:"notes"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type emailPayload struct {
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	From       string     `json:"from,omitempty"`
	To         string     `json:"to,omitempty"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	OpenedAt   *time.Time `json:"openedAt,omitempty"`
	ClickedAt  *time.Time `json:"clickedAt,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
	BouncedAt  *time.Time `json:"bouncedAt,omitempty"`
	OpenCount  int        `json:"openCount"`
	ClickCount int        `json:"clickCount"`
}

type callPayload struct {
	DialedNumber    string            `json:"dialedNumber"`
	ScheduledAt     *time.Time        `json:"scheduledAt,omitempty"`
	CalledAt        *time.Time        `json:"calledAt,omitempty"`
	DurationSeconds int               `json:"durationSeconds"`
	Outcome         types.CallOutcome `json:"outcome,omitempty"`
	RecordingURL    string            `json:"recordingUrl,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	RemoteScheduled bool              `json:"remoteScheduled"`
}

type linkedInPayload struct {
	ProfileURL string               `json:"profileUrl"`
	Action     types.LinkedInAction `json:"action"`
	Message    string               `json:"message,omitempty"`
	AgentID    string               `json:"agentId,omitempty"`
	SentAt     *time.Time           `json:"sentAt,omitempty"`
	AcceptedAt *time.Time           `json:"acceptedAt,omitempty"`
	RepliedAt  *time.Time           `json:"repliedAt,omitempty"`
}

type responseDTO struct {
	Received  bool            `json:"received"`
	Text      string          `json:"text,omitempty"`
	Date      *time.Time      `json:"date,omitempty"`
	Sentiment types.Sentiment `json:"sentiment,omitempty"`
}

type externalIDs struct {
	InstantlyID         string `json:"instantlyId,omitempty"`
	InstantlyCampaignID string `json:"instantlyCampaignId,omitempty"`
	SalesfinityID       string `json:"salesfinityId,omitempty"`
	SalesfinityListID   string `json:"salesfinityListId,omitempty"`
	LinkedInActivityID  string `json:"linkedInActivityId,omitempty"`
}

type outreachResponse struct {
	ID             model.OutreachID     `json:"id"`
	LeadID         model.LeadID         `json:"leadId"`
	CampaignID     model.CampaignID     `json:"campaignId,omitempty"`
	SequenceID     model.SequenceID     `json:"sequenceId,omitempty"`
	Type           types.OutreachType   `json:"type"`
	Channel        types.Channel        `json:"channel"`
	Status         types.OutreachStatus `json:"status"`
	Email          *emailPayload        `json:"email,omitempty"`
	Call           *callPayload         `json:"call,omitempty"`
	LinkedIn       *linkedInPayload     `json:"linkedIn,omitempty"`
	Response       responseDTO          `json:"response"`
	ExternalIDs    externalIDs          `json:"externalIds"`
	FollowUps      []model.OutreachID   `json:"followUps"`
	ParentOutreach model.OutreachID     `json:"parentOutreach,omitempty"`
	FollowUpCount  int                  `json:"followUpCount"`
	PerformedBy    model.UserID         `json:"performedBy,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func toOutreachResponse(o *model.Outreach) outreachResponse {
	followUps := o.FollowUps
	if followUps == nil {
		followUps = []model.OutreachID{}
	}
	resp := outreachResponse{
		ID:             o.ID,
		LeadID:         o.LeadID,
		CampaignID:     o.CampaignID,
		SequenceID:     o.SequenceID,
		Type:           o.Type,
		Channel:        o.Channel,
		Status:         o.Status,
		Response:       responseDTO(o.Response),
		ExternalIDs:    externalIDs(o.ExternalIDs),
		FollowUps:      followUps,
		ParentOutreach: o.ParentOutreach,
		FollowUpCount:  o.FollowUpCount,
		PerformedBy:    o.PerformedBy,
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.Email != nil {
		e := emailPayload(*o.Email)
		resp.Email = &e
	}
	if o.Call != nil {
		c := callPayload(*o.Call)
		resp.Call = &c
	}
	if o.LinkedIn != nil {
		l := linkedInPayload(*o.LinkedIn)
		resp.LinkedIn = &l
	}
	return resp
}

// User

type userRequest struct {
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  types.UserRole `json:"role"`
}

type userPatch struct {
	Email *string         `json:"email"`
	Name  *string         `json:"name"`
	Role  *types.UserRole `json:"role"`
}

type integrationRequest struct {
	APIKey            string `json:"apiKey" masq:"secret"`
	APIVersion        string `json:"apiVersion"`
	ConnectionAgentID string `json:"connectionAgentId"`
	MessageAgentID    string `json:"messageAgentId"`
	SessionCookie     string `json:"sessionCookie" masq:"secret"`
}

// integrationStatus describes an integration without its credentials
type integrationStatus struct {
	Enabled           bool   `json:"enabled"`
	HasAPIKey         bool   `json:"hasApiKey"`
	APIVersion        string `json:"apiVersion,omitempty"`
	ConnectionAgentID string `json:"connectionAgentId,omitempty"`
	MessageAgentID    string `json:"messageAgentId,omitempty"`
	HasSessionCookie  bool   `json:"hasSessionCookie,omitempty"`
}

type userIntegrations struct {
	Instantly     *integrationStatus `json:"instantly,omitempty"`
	Salesfinity   *integrationStatus `json:"salesfinity,omitempty"`
	PhantomBuster *integrationStatus `json:"phantombuster,omitempty"`
}

type userResponse struct {
	ID           model.UserID     `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name,omitempty"`
	Role         types.UserRole   `json:"role"`
	Integrations userIntegrations `json:"integrations"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func toUserResponse(u *model.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if i := u.Integrations.Instantly; i != nil {
		resp.Integrations.Instantly = &integrationStatus{
			Enabled:    i.Enabled,
			HasAPIKey:  i.APIKey != "",
			APIVersion: i.APIVersion,
		}
	}
	if s := u.Integrations.Salesfinity; s != nil {
		resp.Integrations.Salesfinity = &integrationStatus{
			Enabled:   s.Enabled,
			HasAPIKey: s.APIKey != "",
		}
	}
	if p := u.Integrations.PhantomBuster; p != nil {
		resp.Integrations.PhantomBuster = &integrationStatus{
			Enabled:           p.Enabled,
			HasAPIKey:         p.APIKey != "",
			ConnectionAgentID: p.ConnectionAgentID,
			MessageAgentID:    p.MessageAgentID,
			HasSessionCookie:  p.SessionCookie != "",
		}
	}
	return resp
}
