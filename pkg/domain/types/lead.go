package types

import "fmt"

// LeadStatus is the qualification stage of a lead
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "New"
	LeadStatusContacted   LeadStatus = "Contacted"
	LeadStatusQualified   LeadStatus = "Qualified"
	LeadStatusUnqualified LeadStatus = "Unqualified"
	LeadStatusConverted   LeadStatus = "Converted"
	LeadStatusLost        LeadStatus = "Lost"
)

// AllLeadStatuses returns all valid lead statuses
func AllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		LeadStatusNew,
		LeadStatusContacted,
		LeadStatusQualified,
		LeadStatusUnqualified,
		LeadStatusConverted,
		LeadStatusLost,
	}
}

// IsValid checks if the lead status is valid
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew,
		LeadStatusContacted,
		LeadStatusQualified,
		LeadStatusUnqualified,
		LeadStatusConverted,
		LeadStatusLost:
		return true
	default:
		return false
	}
}

func (s LeadStatus) String() string {
	return string(s)
}

// ParseLeadStatus parses a string into a LeadStatus
func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid lead status: %s", s)
	}
	return status, nil
}

// LeadSource records where a lead came from, or which channel last touched it
type LeadSource string

const (
	LeadSourceManual        LeadSource = "Manual"
	LeadSourceImport        LeadSource = "Import"
	LeadSourceInstantly     LeadSource = "Instantly"
	LeadSourceSalesfinity   LeadSource = "Salesfinity"
	LeadSourceLinkedIn      LeadSource = "LinkedIn"
	LeadSourcePersonalEmail LeadSource = "Personal Email"
	LeadSourceOther         LeadSource = "Other"
)

// AllLeadSources returns all valid lead sources
func AllLeadSources() []LeadSource {
	return []LeadSource{
		LeadSourceManual,
		LeadSourceImport,
		LeadSourceInstantly,
		LeadSourceSalesfinity,
		LeadSourceLinkedIn,
		LeadSourcePersonalEmail,
		LeadSourceOther,
	}
}

// IsValid checks if the lead source is valid
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceManual,
		LeadSourceImport,
		LeadSourceInstantly,
		LeadSourceSalesfinity,
		LeadSourceLinkedIn,
		LeadSourcePersonalEmail,
		LeadSourceOther:
		return true
	default:
		return false
	}
}

func (s LeadSource) String() string {
	return string(s)
}

// ParseLeadSource parses a string into a LeadSource
func ParseLeadSource(s string) (LeadSource, error) {
	source := LeadSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid lead source: %s", s)
	}
	return source, nil
}
