package types

import "fmt"

// CampaignType is the primary channel mix of a campaign
type CampaignType string

const (
	CampaignTypeEmail    CampaignType = "Email"
	CampaignTypeCall     CampaignType = "Call"
	CampaignTypeLinkedIn CampaignType = "LinkedIn"
	CampaignTypeMixed    CampaignType = "Mixed"
)

// AllCampaignTypes returns all valid campaign types
func AllCampaignTypes() []CampaignType {
	return []CampaignType{
		CampaignTypeEmail,
		CampaignTypeCall,
		CampaignTypeLinkedIn,
		CampaignTypeMixed,
	}
}

// IsValid checks if the campaign type is valid
func (t CampaignType) IsValid() bool {
	switch t {
	case CampaignTypeEmail, CampaignTypeCall, CampaignTypeLinkedIn, CampaignTypeMixed:
		return true
	default:
		return false
	}
}

func (t CampaignType) String() string {
	return string(t)
}

// ParseCampaignType parses a string into a CampaignType
func ParseCampaignType(s string) (CampaignType, error) {
	t := CampaignType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid campaign type: %s", s)
	}
	return t, nil
}

// CampaignStatus is the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "Draft"
	CampaignStatusActive    CampaignStatus = "Active"
	CampaignStatusPaused    CampaignStatus = "Paused"
	CampaignStatusCompleted CampaignStatus = "Completed"
	CampaignStatusArchived  CampaignStatus = "Archived"
)

// AllCampaignStatuses returns all valid campaign statuses
func AllCampaignStatuses() []CampaignStatus {
	return []CampaignStatus{
		CampaignStatusDraft,
		CampaignStatusActive,
		CampaignStatusPaused,
		CampaignStatusCompleted,
		CampaignStatusArchived,
	}
}

// IsValid checks if the campaign status is valid
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusDraft,
		CampaignStatusActive,
		CampaignStatusPaused,
		CampaignStatusCompleted,
		CampaignStatusArchived:
		return true
	default:
		return false
	}
}

func (s CampaignStatus) String() string {
	return string(s)
}

// ParseCampaignStatus parses a string into a CampaignStatus
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	status := CampaignStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid campaign status: %s", s)
	}
	return status, nil
}
