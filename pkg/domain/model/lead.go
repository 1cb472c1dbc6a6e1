package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// LeadID is a UUID-based identifier for Lead
type LeadID string

// NewLeadID generates a new UUID v4 LeadID
func NewLeadID() LeadID {
	return LeadID(uuid.New().String())
}

// Lead is a prospective customer contact
type Lead struct {
	ID                LeadID
	Email             string
	FirstName         string
	LastName          string
	Phone             string
	Company           string
	JobTitle          string
	LinkedInURL       string
	Status            types.LeadStatus
	Source            types.LeadSource
	Tags              []string
	CreatedBy         UserID
	AssignedTo        UserID
	LastContactedDate *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName joins first and last name
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// HasLinkedInProfile reports whether LinkedIn actions can target this lead
func (l *Lead) HasLinkedInProfile() bool {
	return strings.TrimSpace(l.LinkedInURL) != ""
}

// Normalize lowercases the email, fills default status/source and removes duplicate tags
func (l *Lead) Normalize() {
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Company = strings.TrimSpace(l.Company)
	if l.Status == "" {
		l.Status = types.LeadStatusNew
	}
	if l.Source == "" {
		l.Source = types.LeadSourceManual
	}
	l.Tags = uniqueStrings(l.Tags)
}

// Validate checks the lead before it is written
func (l *Lead) Validate() error {
	v := newValidator("lead")
	v.check(l.Email != "", "email", "is required")
	if l.Email != "" {
		_, err := mail.ParseAddress(l.Email)
		v.check(err == nil, "email", "is not a valid address")
	}
	v.check(l.Status.IsValid(), "status", "is not a valid lead status")
	v.check(l.Source.IsValid(), "source", "is not a valid lead source")
	return v.err()
}

// MarkContacted applies the side effects of an outreach sent through channel
func (l *Lead) MarkContacted(channel types.Channel, at time.Time) {
	contacted := at.UTC()
	l.LastContactedDate = &contacted
	l.Source = channel.LeadSource()
	if l.Status == types.LeadStatusNew {
		l.Status = types.LeadStatusContacted
	}
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
