package instantly

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/secmon-lab/reachout/pkg/service/provider"
)

// Name identifies the provider in errors and logs
const Name = "instantly"

// DefaultTimeout bounds every request to the API
const DefaultTimeout = 15 * time.Second

// APIVersion selects the API generation. v2 wraps lists in an items envelope.
type APIVersion string

const (
	V1 APIVersion = "v1"
	V2 APIVersion = "v2"
)

const (
	DefaultBaseURLV1 = "https://api.instantly.ai/api/v1"
	DefaultBaseURLV2 = "https://api.instantly.ai/api/v2"
)

// ParseAPIVersion accepts "v1", "v2" and the empty string, which means v1
func ParseAPIVersion(s string) (APIVersion, bool) {
	switch APIVersion(strings.ToLower(strings.TrimSpace(s))) {
	case "", V1:
		return V1, true
	case V2:
		return V2, true
	default:
		return "", false
	}
}

// Service is the Instantly email-provider adapter
type Service interface {
	provider.Adapter

	ListCampaigns(ctx context.Context, limit int) ([]*Campaign, error)
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*Campaign, error)
	StartCampaign(ctx context.Context, id string) error
	PauseCampaign(ctx context.Context, id string) error

	// FindCampaignByName returns the campaign whose name equals name exactly, or nil
	FindCampaignByName(ctx context.Context, name string) (*Campaign, error)

	// AddLeadsToCampaign uploads leads. Accounts without lead upload get a tier-unsupported error.
	AddLeadsToCampaign(ctx context.Context, campaignID string, leads []*Lead) (*AddLeadsResult, error)

	// GetLeadStatus fetches the campaign-level state of one lead, keyed by its email
	GetLeadStatus(ctx context.Context, campaignID, leadID string) (*LeadRecord, error)
}

// CampaignStatus is a campaign's state. v1 reports strings and v2 reports integers; both are
// normalized to lower-case names.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

var campaignStatusCodes = map[int]CampaignStatus{
	0: CampaignStatusDraft,
	1: CampaignStatusActive,
	2: CampaignStatusPaused,
	3: CampaignStatusCompleted,
}

func (s *CampaignStatus) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if named, ok := campaignStatusCodes[code]; ok {
			*s = named
		} else {
			*s = CampaignStatus(strconv.Itoa(code))
		}
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = CampaignStatus(strings.ToLower(name))
	return nil
}

// IsActive reports whether the campaign is sending
func (s CampaignStatus) IsActive() bool {
	return s == CampaignStatusActive
}

// Campaign is a remote email campaign
type Campaign struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status,omitempty"`
	CreatedAt *time.Time     `json:"timestamp_created,omitempty"`
}

// CreateCampaignInput is the body of a campaign creation
type CreateCampaignInput struct {
	Name        string    `json:"name"`
	Schedule    *Schedule `json:"campaign_schedule,omitempty"`
	DailyCap    int       `json:"daily_limit,omitempty"`
	StopOnReply bool      `json:"stop_on_reply"`
}

// Schedule is the sending window of a campaign
type Schedule struct {
	Schedules []ScheduleWindow `json:"schedules"`
}

// ScheduleWindow is one named sending window
type ScheduleWindow struct {
	Name     string          `json:"name"`
	Timing   ScheduleTiming  `json:"timing"`
	Days     map[string]bool `json:"days"`
	Timezone string          `json:"timezone"`
}

// ScheduleTiming is the HH:MM range of a window
type ScheduleTiming struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DefaultSchedule sends on weekdays during business hours
func DefaultSchedule(timezone string) *Schedule {
	if timezone == "" {
		timezone = "America/New_York"
	}
	return &Schedule{
		Schedules: []ScheduleWindow{{
			Name:   "Business hours",
			Timing: ScheduleTiming{From: "09:00", To: "17:00"},
			Days: map[string]bool{
				"1": true, "2": true, "3": true, "4": true, "5": true,
			},
			Timezone: timezone,
		}},
	}
}

// Lead is a lead in the provider's upload schema
type Lead struct {
	Email           string            `json:"email"`
	FirstName       string            `json:"first_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	CompanyName     string            `json:"company_name,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Website         string            `json:"website,omitempty"`
	Personalization string            `json:"personalization,omitempty"`
	CustomVariables map[string]string `json:"custom_variables,omitempty"`
}

// Custom variable keys set on uploaded leads
const (
	VarLeadID      = "reachout_lead_id"
	VarJobTitle    = "job_title"
	VarLinkedInURL = "linkedin_url"
)

// AddLeadsResult summarizes a lead upload
type AddLeadsResult struct {
	Uploaded          int `json:"leads_uploaded"`
	AlreadyInCampaign int `json:"already_in_campaign"`
	Invalid           int `json:"invalid_email_count"`
}

// LeadState is a lead's state within a campaign. v2 reports integers, which are normalized to
// the v1 names.
type LeadState string

var leadStateCodes = map[int]LeadState{
	0:  "not_yet_contacted",
	1:  "active",
	2:  "paused",
	3:  "completed",
	-1: "bounced",
	-2: "unsubscribed",
	-3: "skipped",
}

func (s *LeadState) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if named, ok := leadStateCodes[code]; ok {
			*s = named
		} else {
			*s = LeadState(strconv.Itoa(code))
		}
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = LeadState(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")))
	return nil
}

// Interest is the provider's classification of a reply
type Interest int

const (
	InterestNotInterested Interest = -1
	InterestNeutral       Interest = 0
	InterestInterested    Interest = 1
	InterestMeetingBooked Interest = 2
)

// LeadRecord is the provider's view of one lead in one campaign
type LeadRecord struct {
	ID              string         `json:"id,omitempty"`
	Email           string         `json:"email"`
	CampaignID      string         `json:"campaign,omitempty"`
	Status          LeadState      `json:"status"`
	Interest        Interest       `json:"lt_interest_status,omitempty"`
	OpenCount       int            `json:"email_open_count,omitempty"`
	ClickCount      int            `json:"email_click_count,omitempty"`
	ReplyCount      int            `json:"email_reply_count,omitempty"`
	ContactedAt     *time.Time     `json:"timestamp_last_contact,omitempty"`
	OpenedAt        *time.Time     `json:"timestamp_last_open,omitempty"`
	ClickedAt       *time.Time     `json:"timestamp_last_click,omitempty"`
	RepliedAt       *time.Time     `json:"timestamp_last_reply,omitempty"`
	UpdatedAt       *time.Time     `json:"timestamp_updated,omitempty"`
	ReplyText       string         `json:"reply_text,omitempty"`
	CustomVariables map[string]any `json:"payload,omitempty"`
}
