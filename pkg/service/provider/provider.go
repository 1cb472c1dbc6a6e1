package provider

import (
	"context"
)

// Adapter is the surface shared by every outreach provider
type Adapter interface {
	// Provider returns the provider name used in errors and logs
	Provider() string

	// ValidateConnection performs a lightweight authenticated request. It never returns an
	// error; failures are reported in the result.
	ValidateConnection(ctx context.Context) *ConnectionResult

	// Capabilities reports which optional features the provider supports for this account
	Capabilities() Capabilities
}

// ConnectionResult is the outcome of a connectivity check
type ConnectionResult struct {
	Valid   bool   `json:"valid"`
	Account string `json:"account,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Valid returns a successful result for account
func Valid(account string) *ConnectionResult {
	return &ConnectionResult{Valid: true, Account: account}
}

// Invalid returns a failed result carrying err's message
func Invalid(err error) *ConnectionResult {
	result := &ConnectionResult{Valid: false}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Capabilities flags the optional features of a provider. Callers check them instead of
// relying on the provider to fabricate data for endpoints it does not offer.
type Capabilities struct {
	Campaigns        bool `json:"campaigns"`
	Scheduling       bool `json:"scheduling"`
	ContactRetrieval bool `json:"contact_retrieval"`
	Messaging        bool `json:"messaging"`
}
