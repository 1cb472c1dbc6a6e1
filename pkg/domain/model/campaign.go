package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// CampaignID is a UUID-based identifier for Campaign
type CampaignID string

// NewCampaignID generates a new UUID v4 CampaignID
func NewCampaignID() CampaignID {
	return CampaignID(uuid.New().String())
}

// Campaign groups leads and team members around a shared outreach effort
type Campaign struct {
	ID          CampaignID
	Name        string
	Description string
	Type        types.CampaignType
	Status      types.CampaignStatus
	Leads       []LeadID
	Team        []UserID
	Metrics     CampaignMetrics
	CreatedBy   UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignMetrics holds aggregate counters. They are incremented best-effort and are not
// derived from outreach records.
type CampaignMetrics struct {
	TotalLeads      int
	EmailsSent      int
	CallsMade       int
	LinkedInActions int
	Replies         int
	Meetings        int
}

// Validate checks the campaign before it is written
func (c *Campaign) Validate() error {
	v := newValidator("campaign")
	v.check(strings.TrimSpace(c.Name) != "", "name", "is required")
	v.check(c.Type.IsValid(), "type", "is not a valid campaign type")
	v.check(c.Status.IsValid(), "status", "is not a valid campaign status")
	return v.err()
}

// Normalize fills the default status and collapses duplicate members
func (c *Campaign) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Status == "" {
		c.Status = types.CampaignStatusDraft
	}
	c.Leads = uniqueIDs(c.Leads)
	c.Team = uniqueIDs(c.Team)
	c.Metrics.TotalLeads = len(c.Leads)
}

// AddLeads adds ids not already present and returns how many were added
func (c *Campaign) AddLeads(ids ...LeadID) int {
	before := len(c.Leads)
	c.Leads = uniqueIDs(append(c.Leads, ids...))
	c.Metrics.TotalLeads = len(c.Leads)
	return len(c.Leads) - before
}

// RemoveLead removes id and reports whether it was present
func (c *Campaign) RemoveLead(id LeadID) bool {
	idx := slices.Index(c.Leads, id)
	if idx < 0 {
		return false
	}
	c.Leads = slices.Delete(c.Leads, idx, idx+1)
	c.Metrics.TotalLeads = len(c.Leads)
	return true
}

// HasLead reports whether id is a member of the campaign
func (c *Campaign) HasLead(id LeadID) bool {
	return slices.Contains(c.Leads, id)
}

// AddTeamMember adds id unless present and reports whether it was added
func (c *Campaign) AddTeamMember(id UserID) bool {
	if slices.Contains(c.Team, id) {
		return false
	}
	c.Team = append(c.Team, id)
	return true
}

// RemoveTeamMember removes id and reports whether it was present
func (c *Campaign) RemoveTeamMember(id UserID) bool {
	idx := slices.Index(c.Team, id)
	if idx < 0 {
		return false
	}
	c.Team = slices.Delete(c.Team, idx, idx+1)
	return true
}

// RecordOutreach bumps the counter matching the outreach type
func (c *Campaign) RecordOutreach(t types.OutreachType) {
	switch t {
	case types.OutreachTypeEmail:
		c.Metrics.EmailsSent++
	case types.OutreachTypeCall:
		c.Metrics.CallsMade++
	case types.OutreachTypeLinkedIn:
		c.Metrics.LinkedInActions++
	}
}

func uniqueIDs[T ~string](in []T) []T {
	if len(in) == 0 {
		return in
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, id := range in {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
