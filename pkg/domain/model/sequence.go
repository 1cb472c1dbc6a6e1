package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// SequenceID is a UUID-based identifier for Sequence
type SequenceID string

// NewSequenceID generates a new UUID v4 SequenceID
func NewSequenceID() SequenceID {
	return SequenceID(uuid.New().String())
}

// SkipCondition names a lead state that causes a step to be skipped
type SkipCondition string

const (
	SkipIfReplied          SkipCondition = "replied"
	SkipIfBounced          SkipCondition = "bounced"
	SkipIfMeetingScheduled SkipCondition = "meeting_scheduled"
	SkipIfUnsubscribed     SkipCondition = "unsubscribed"
)

// IsValid checks if the skip condition is known
func (c SkipCondition) IsValid() bool {
	switch c {
	case SkipIfReplied, SkipIfBounced, SkipIfMeetingScheduled, SkipIfUnsubscribed:
		return true
	default:
		return false
	}
}

// Sequence is an ordered cadence of outreach steps belonging to a campaign.
// It is stored and edited only; the send path does not read it.
type Sequence struct {
	ID          SequenceID
	CampaignID  CampaignID
	Name        string
	Description string
	Active      bool
	Steps       []Step
	CreatedBy   UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Step is one touch in a sequence
type Step struct {
	Order          int
	Channel        types.Channel
	Content        StepContent
	DelayDays      int
	DelayHours     int
	ActiveHours    *HourWindow
	ActiveDays     []time.Weekday
	SkipConditions []SkipCondition
}

// StepContent holds the content for whichever channel the step uses
type StepContent struct {
	Subject string
	Body    string
	Script  string
	Message string
}

// HourWindow is a daily sending window in hours, [Start, End)
type HourWindow struct {
	Start int
	End   int
}

// Delay returns the wait before the step fires
func (s *Step) Delay() time.Duration {
	return time.Duration(s.DelayDays)*24*time.Hour + time.Duration(s.DelayHours)*time.Hour
}

// SortSteps orders steps by Order
func (s *Sequence) SortSteps() {
	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		return a.Order - b.Order
	})
}

// Validate checks the sequence before it is written
func (s *Sequence) Validate() error {
	v := newValidator("sequence")
	v.check(strings.TrimSpace(s.Name) != "", "name", "is required")
	v.check(s.CampaignID != "", "campaign_id", "is required")

	orders := make(map[int]struct{}, len(s.Steps))
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		v.check(step.Channel.IsValid(), field+".channel", "is not a valid channel")
		v.check(step.DelayDays >= 0 && step.DelayHours >= 0, field+".delay", "must not be negative")

		_, dup := orders[step.Order]
		v.check(!dup, field+".order", "is duplicated")
		orders[step.Order] = struct{}{}

		if w := step.ActiveHours; w != nil {
			v.check(w.Start >= 0 && w.Start <= 23 && w.End >= 1 && w.End <= 24 && w.Start < w.End,
				field+".active_hours", "must satisfy 0 <= start < end <= 24")
		}
		for _, d := range step.ActiveDays {
			v.check(d >= time.Sunday && d <= time.Saturday, field+".active_days", "contains an invalid weekday")
		}
		for _, c := range step.SkipConditions {
			v.check(c.IsValid(), field+".skip_conditions", "contains an unknown condition")
		}
	}

	return v.err()
}
