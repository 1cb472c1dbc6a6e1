package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// OutreachID is a UUID-based identifier for Outreach
type OutreachID string

// NewOutreachID generates a new UUID v4 OutreachID
func NewOutreachID() OutreachID {
	return OutreachID(uuid.New().String())
}

// Outreach records one attempt to contact a lead
type Outreach struct {
	ID         OutreachID
	LeadID     LeadID
	CampaignID CampaignID
	SequenceID SequenceID
	Type       types.OutreachType
	Channel    types.Channel
	Status     types.OutreachStatus

	Email    *EmailPayload
	Call     *CallPayload
	LinkedIn *LinkedInPayload

	Response    Response
	ExternalIDs ExternalIDs

	FollowUps      []OutreachID
	ParentOutreach OutreachID
	FollowUpCount  int

	PerformedBy UserID
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmailPayload is the email-specific part of an outreach
type EmailPayload struct {
	Subject    string
	Body       string
	From       string
	To         string
	SentAt     *time.Time
	OpenedAt   *time.Time
	ClickedAt  *time.Time
	RepliedAt  *time.Time
	BouncedAt  *time.Time
	OpenCount  int
	ClickCount int
}

// CallPayload is the call-specific part of an outreach
type CallPayload struct {
	DialedNumber    string
	ScheduledAt     *time.Time
	CalledAt        *time.Time
	DurationSeconds int
	Outcome         types.CallOutcome
	RecordingURL    string
	Notes           string
	// RemoteScheduled is false when the provider could not schedule the call and only the
	// local record exists.
	RemoteScheduled bool
}

// LinkedInPayload is the LinkedIn-specific part of an outreach
type LinkedInPayload struct {
	ProfileURL string
	Action     types.LinkedInAction
	Message    string
	AgentID    string
	SentAt     *time.Time
	AcceptedAt *time.Time
	RepliedAt  *time.Time
}

// Response is the lead's reaction to an outreach
type Response struct {
	Received  bool
	Text      string
	Date      *time.Time
	Sentiment types.Sentiment
}

// ExternalIDs are provider-side foreign keys
type ExternalIDs struct {
	InstantlyID         string
	InstantlyCampaignID string
	SalesfinityID       string
	SalesfinityListID   string
	LinkedInActivityID  string
}

// ExternalID returns the key used to look up the outreach at the provider bound to channel
func (o *Outreach) ExternalID() string {
	switch o.Channel {
	case types.ChannelInstantly:
		if o.ExternalIDs.InstantlyCampaignID == "" {
			return ""
		}
		return o.ExternalIDs.InstantlyID
	case types.ChannelSalesfinity:
		return o.ExternalIDs.SalesfinityID
	case types.ChannelLinkedIn:
		return o.ExternalIDs.LinkedInActivityID
	default:
		return ""
	}
}

// Payload returns the outreach type whose payload is populated, or OutreachTypeOther when none is
func (o *Outreach) Payload() types.OutreachType {
	switch {
	case o.Email != nil:
		return types.OutreachTypeEmail
	case o.Call != nil:
		return types.OutreachTypeCall
	case o.LinkedIn != nil:
		return types.OutreachTypeLinkedIn
	default:
		return types.OutreachTypeOther
	}
}

// IsSyncable reports whether a status sync can change this outreach
func (o *Outreach) IsSyncable() bool {
	return o.ExternalID() != "" && !o.Status.IsTerminal()
}

// Validate checks the outreach before it is written. Exactly the payload matching the
// channel's outreach type must be set.
func (o *Outreach) Validate() error {
	v := newValidator("outreach")
	v.check(o.LeadID != "", "lead_id", "is required")
	v.check(o.Type.IsValid(), "type", "is not a valid outreach type")
	v.check(o.Channel.IsValid(), "channel", "is not a valid channel")
	v.check(o.Status.IsValid(), "status", "is not a valid outreach status")
	if o.Channel.IsValid() {
		v.check(o.Channel.OutreachType() == o.Type, "type", "does not match channel "+o.Channel.String())
	}

	populated := 0
	for _, set := range []bool{o.Email != nil, o.Call != nil, o.LinkedIn != nil} {
		if set {
			populated++
		}
	}

	switch o.Type {
	case types.OutreachTypeEmail:
		v.check(populated == 1 && o.Email != nil, "email", "must be the only payload for email outreach")
	case types.OutreachTypeCall:
		v.check(populated == 1 && o.Call != nil, "call", "must be the only payload for call outreach")
		if o.Call != nil && o.Call.Outcome != "" {
			v.check(o.Call.Outcome.IsValid(), "call.outcome", "is not a valid call outcome")
		}
	case types.OutreachTypeLinkedIn:
		v.check(populated == 1 && o.LinkedIn != nil, "linkedin", "must be the only payload for LinkedIn outreach")
		if o.LinkedIn != nil {
			v.check(o.LinkedIn.Action.IsValid(), "linkedin.action", "is not a valid LinkedIn action")
		}
	case types.OutreachTypeOther:
		v.check(populated == 0, "payload", "must be empty for other outreach")
	}

	if o.Response.Sentiment != "" {
		v.check(o.Response.Sentiment.IsValid(), "response.sentiment", "is not a valid sentiment")
	}

	return v.err()
}

// NewFollowUp creates a scheduled child of parent on the same channel. The caller fills the payload.
func NewFollowUp(parent *Outreach) *Outreach {
	return &Outreach{
		LeadID:         parent.LeadID,
		CampaignID:     parent.CampaignID,
		SequenceID:     parent.SequenceID,
		Type:           parent.Type,
		Channel:        parent.Channel,
		Status:         types.OutreachStatusScheduled,
		ParentOutreach: parent.ID,
		FollowUpCount:  parent.FollowUpCount + 1,
	}
}
