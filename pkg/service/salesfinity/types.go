package salesfinity

import (
	"context"
	"time"

	"github.com/secmon-lab/reachout/pkg/service/provider"
)

// Name identifies the provider in errors and logs
const Name = "salesfinity"

const (
	DefaultBaseURL = "https://client-api.salesfinity.co/v1"
	DefaultTimeout = 10 * time.Second

	// DefaultCountryCode is prepended to national phone numbers
	DefaultCountryCode = "1"
)

// Service is the Salesfinity call-provider adapter
type Service interface {
	provider.Adapter

	ListContactLists(ctx context.Context, page int) (*provider.Page[*ContactList], error)
	// FindContactListByName returns the list whose name equals name exactly, or nil
	FindContactListByName(ctx context.Context, name string) (*ContactList, error)
	CreateContactList(ctx context.Context, name string) (*ContactList, error)
	AddContact(ctx context.Context, listID string, contact *Contact) (*Contact, error)
	DeleteContactList(ctx context.Context, id string) error
	ReimportContactList(ctx context.Context, id string) error

	ListCallLogs(ctx context.Context, page int) (*provider.Page[*CallLog], error)
	// FindLatestCall returns the newest call to contactID within the most recent call-log
	// pages, or nil when none is found
	FindLatestCall(ctx context.Context, contactID string) (*CallLog, error)

	// ScheduleCall books a call. Without the Scheduling capability it returns a
	// tier-unsupported error.
	ScheduleCall(ctx context.Context, input *ScheduleCallInput) (*ScheduledCall, error)
	// GetListContacts returns a list's contacts. Without the ContactRetrieval capability it
	// returns a tier-unsupported error.
	GetListContacts(ctx context.Context, listID string) ([]*Contact, error)
}

// ContactList is a dialing list
type ContactList struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	ContactsCount int        `json:"contacts_count,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// Contact is a dialable person in a contact list
type Contact struct {
	ID         string `json:"_id,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Company    string `json:"company,omitempty"`
	Title      string `json:"title,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// Key returns the id used to match the contact in call logs
func (c *Contact) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.ExternalID
}

// Disposition is the result a rep logged for a call
type Disposition struct {
	ExternalName string `json:"external_name"`
	Name         string `json:"name,omitempty"`
}

// CallLog is one dialed call
type CallLog struct {
	ID           string      `json:"_id"`
	Contact      Contact     `json:"contact"`
	ToNumber     string      `json:"to,omitempty"`
	Disposition  Disposition `json:"disposition"`
	Duration     int         `json:"duration,omitempty"`
	RecordingURL string      `json:"recording_url,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
}

// ScheduleCallInput requests a call to a contact at a time
type ScheduleCallInput struct {
	ListID      string    `json:"list_id"`
	ContactID   string    `json:"contact_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
}

// ScheduledCall is the provider's confirmation of a booked call
type ScheduledCall struct {
	ID          string    `json:"_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Team is the account the API key belongs to
type Team struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
