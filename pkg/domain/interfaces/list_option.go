package interfaces

import (
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// ListOption is a functional option for filtering and paginating List calls.
// Each repository applies the filters that make sense for its entity and ignores the rest.
type ListOption func(*listConfig)

type listConfig struct {
	limit          int
	offset         int
	leadStatus     *types.LeadStatus
	leadSource     *types.LeadSource
	assignedTo     *model.UserID
	tag            *string
	campaignStatus *types.CampaignStatus
	campaignType   *types.CampaignType
	channel        *types.Channel
}

// WithLimit caps the number of results. Zero or negative means no cap.
func WithLimit(limit int) ListOption {
	return func(c *listConfig) {
		c.limit = limit
	}
}

// WithOffset skips the first offset results
func WithOffset(offset int) ListOption {
	return func(c *listConfig) {
		c.offset = offset
	}
}

// WithLeadStatus filters leads by status
func WithLeadStatus(status types.LeadStatus) ListOption {
	return func(c *listConfig) {
		c.leadStatus = &status
	}
}

// WithLeadSource filters leads by source
func WithLeadSource(source types.LeadSource) ListOption {
	return func(c *listConfig) {
		c.leadSource = &source
	}
}

// WithAssignedTo filters leads by owner
func WithAssignedTo(userID model.UserID) ListOption {
	return func(c *listConfig) {
		c.assignedTo = &userID
	}
}

// WithTag filters leads carrying tag
func WithTag(tag string) ListOption {
	return func(c *listConfig) {
		c.tag = &tag
	}
}

// WithCampaignStatus filters campaigns by status
func WithCampaignStatus(status types.CampaignStatus) ListOption {
	return func(c *listConfig) {
		c.campaignStatus = &status
	}
}

// WithCampaignType filters campaigns by type
func WithCampaignType(t types.CampaignType) ListOption {
	return func(c *listConfig) {
		c.campaignType = &t
	}
}

// WithChannel filters outreaches by channel
func WithChannel(channel types.Channel) ListOption {
	return func(c *listConfig) {
		c.channel = &channel
	}
}

// BuildListConfig builds a listConfig from options
func BuildListConfig(opts ...ListOption) *listConfig {
	cfg := &listConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *listConfig) Limit() int                            { return c.limit }
func (c *listConfig) Offset() int                           { return c.offset }
func (c *listConfig) LeadStatus() *types.LeadStatus         { return c.leadStatus }
func (c *listConfig) LeadSource() *types.LeadSource         { return c.leadSource }
func (c *listConfig) AssignedTo() *model.UserID             { return c.assignedTo }
func (c *listConfig) Tag() *string                          { return c.tag }
func (c *listConfig) CampaignStatus() *types.CampaignStatus { return c.campaignStatus }
func (c *listConfig) CampaignType() *types.CampaignType     { return c.campaignType }
func (c *listConfig) Channel() *types.Channel               { return c.channel }

// MatchLead reports whether lead passes the lead filters
func (c *listConfig) MatchLead(lead *model.Lead) bool {
	if c.leadStatus != nil && lead.Status != *c.leadStatus {
		return false
	}
	if c.leadSource != nil && lead.Source != *c.leadSource {
		return false
	}
	if c.assignedTo != nil && lead.AssignedTo != *c.assignedTo {
		return false
	}
	if c.tag != nil {
		found := false
		for _, t := range lead.Tags {
			if t == *c.tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchCampaign reports whether campaign passes the campaign filters
func (c *listConfig) MatchCampaign(campaign *model.Campaign) bool {
	if c.campaignStatus != nil && campaign.Status != *c.campaignStatus {
		return false
	}
	if c.campaignType != nil && campaign.Type != *c.campaignType {
		return false
	}
	return true
}

// MatchOutreach reports whether outreach passes the outreach filters
func (c *listConfig) MatchOutreach(outreach *model.Outreach) bool {
	if c.channel != nil && outreach.Channel != *c.channel {
		return false
	}
	return true
}
