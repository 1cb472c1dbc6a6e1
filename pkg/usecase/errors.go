package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors for use case layer
var (
	// ErrNotFound is matched by every entity not-found error
	ErrNotFound         = errors.New("not found")
	ErrLeadNotFound     = fmt.Errorf("lead %w", ErrNotFound)
	ErrCampaignNotFound = fmt.Errorf("campaign %w", ErrNotFound)
	ErrSequenceNotFound = fmt.Errorf("sequence %w", ErrNotFound)
	ErrOutreachNotFound = fmt.Errorf("outreach %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	// ErrChannelNotConfigured means neither the user nor the process has an adapter for the channel
	ErrChannelNotConfigured = errors.New("channel is not configured")

	// ErrMissingLinkedInProfile means a LinkedIn action targeted a lead without a profile URL
	ErrMissingLinkedInProfile = errors.New("lead has no LinkedIn profile")
)

// Context keys for error values
const (
	RemoteCampaignIDKey = "remote_campaign_id"
	ContactListIDKey    = "contact_list_id"
	ContainerIDKey      = "container_id"
	AgentIDKey          = "agent_id"
)
