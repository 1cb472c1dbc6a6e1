package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// UserID is a UUID-based identifier for User
type UserID string

// NewUserID generates a new UUID v4 UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// User is a member of the sales team. Integrations hold the user's own provider credentials.
type User struct {
	ID           UserID
	Email        string
	Name         string
	Role         types.UserRole
	Integrations Integrations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Integrations is per-user provider configuration
type Integrations struct {
	Instantly     *InstantlyIntegration
	Salesfinity   *SalesfinityIntegration
	PhantomBuster *PhantomBusterIntegration
}

// InstantlyIntegration holds email-provider credentials
type InstantlyIntegration struct {
	APIKey     string `masq:"secret"`
	APIVersion string
	Enabled    bool
}

// SalesfinityIntegration holds call-provider credentials
type SalesfinityIntegration struct {
	APIKey  string `masq:"secret"`
	Enabled bool
}

// PhantomBusterIntegration holds LinkedIn-automation credentials and agent ids
type PhantomBusterIntegration struct {
	APIKey            string `masq:"secret"`
	ConnectionAgentID string
	MessageAgentID    string
	SessionCookie     string `masq:"secret"`
	Enabled           bool
}

// HasEnabled reports whether the user has configured and enabled the provider for channel
func (i *Integrations) HasEnabled(channel types.Channel) bool {
	switch channel {
	case types.ChannelInstantly:
		return i.Instantly != nil && i.Instantly.Enabled && i.Instantly.APIKey != ""
	case types.ChannelSalesfinity:
		return i.Salesfinity != nil && i.Salesfinity.Enabled && i.Salesfinity.APIKey != ""
	case types.ChannelLinkedIn:
		return i.PhantomBuster != nil && i.PhantomBuster.Enabled && i.PhantomBuster.APIKey != ""
	default:
		return false
	}
}

// Disable turns off the integration for channel, keeping stored credentials
func (i *Integrations) Disable(channel types.Channel) bool {
	switch channel {
	case types.ChannelInstantly:
		if i.Instantly != nil && i.Instantly.Enabled {
			i.Instantly.Enabled = false
			return true
		}
	case types.ChannelSalesfinity:
		if i.Salesfinity != nil && i.Salesfinity.Enabled {
			i.Salesfinity.Enabled = false
			return true
		}
	case types.ChannelLinkedIn:
		if i.PhantomBuster != nil && i.PhantomBuster.Enabled {
			i.PhantomBuster.Enabled = false
			return true
		}
	}
	return false
}

// Normalize lowercases the email and fills the default role
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = types.UserRoleSalesRep
	}
}

// Validate checks the user before it is written
func (u *User) Validate() error {
	v := newValidator("user")
	v.check(u.Email != "", "email", "is required")
	if u.Email != "" {
		_, err := mail.ParseAddress(u.Email)
		v.check(err == nil, "email", "is not a valid address")
	}
	v.check(u.Role.IsValid(), "role", "is not a valid role")
	return v.err()
}
