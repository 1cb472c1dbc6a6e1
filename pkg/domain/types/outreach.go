package types

import "fmt"

// OutreachType is the medium of an outreach attempt
type OutreachType string

const (
	OutreachTypeEmail    OutreachType = "Email"
	OutreachTypeCall     OutreachType = "Call"
	OutreachTypeLinkedIn OutreachType = "LinkedIn"
	OutreachTypeOther    OutreachType = "Other"
)

// AllOutreachTypes returns all valid outreach types
func AllOutreachTypes() []OutreachType {
	return []OutreachType{
		OutreachTypeEmail,
		OutreachTypeCall,
		OutreachTypeLinkedIn,
		OutreachTypeOther,
	}
}

// IsValid checks if the outreach type is valid
func (t OutreachType) IsValid() bool {
	switch t {
	case OutreachTypeEmail, OutreachTypeCall, OutreachTypeLinkedIn, OutreachTypeOther:
		return true
	default:
		return false
	}
}

func (t OutreachType) String() string {
	return string(t)
}

// ParseOutreachType parses a string into an OutreachType
func ParseOutreachType(s string) (OutreachType, error) {
	t := OutreachType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid outreach type: %s", s)
	}
	return t, nil
}

// OutreachStatus is the lifecycle status of an outreach record
type OutreachStatus string

const (
	OutreachStatusScheduled OutreachStatus = "Scheduled"
	OutreachStatusSent      OutreachStatus = "Sent"
	OutreachStatusDelivered OutreachStatus = "Delivered"
	OutreachStatusOpened    OutreachStatus = "Opened"
	OutreachStatusClicked   OutreachStatus = "Clicked"
	OutreachStatusReplied   OutreachStatus = "Replied"
	OutreachStatusBounced   OutreachStatus = "Bounced"
	OutreachStatusFailed    OutreachStatus = "Failed"
	OutreachStatusCompleted OutreachStatus = "Completed"
)

// AllOutreachStatuses returns all valid outreach statuses
func AllOutreachStatuses() []OutreachStatus {
	return []OutreachStatus{
		OutreachStatusScheduled,
		OutreachStatusSent,
		OutreachStatusDelivered,
		OutreachStatusOpened,
		OutreachStatusClicked,
		OutreachStatusReplied,
		OutreachStatusBounced,
		OutreachStatusFailed,
		OutreachStatusCompleted,
	}
}

// IsValid checks if the outreach status is valid
func (s OutreachStatus) IsValid() bool {
	switch s {
	case OutreachStatusScheduled,
		OutreachStatusSent,
		OutreachStatusDelivered,
		OutreachStatusOpened,
		OutreachStatusClicked,
		OutreachStatusReplied,
		OutreachStatusBounced,
		OutreachStatusFailed,
		OutreachStatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further remote state change is expected
func (s OutreachStatus) IsTerminal() bool {
	switch s {
	case OutreachStatusReplied, OutreachStatusBounced, OutreachStatusFailed, OutreachStatusCompleted:
		return true
	default:
		return false
	}
}

func (s OutreachStatus) String() string {
	return string(s)
}

// ParseOutreachStatus parses a string into an OutreachStatus
func ParseOutreachStatus(s string) (OutreachStatus, error) {
	status := OutreachStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid outreach status: %s", s)
	}
	return status, nil
}

// Sentiment classifies a lead's response
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// IsValid checks if the sentiment is valid
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

func (s Sentiment) String() string {
	return string(s)
}

// LinkedInAction distinguishes connection requests from direct messages
type LinkedInAction string

const (
	LinkedInActionConnection LinkedInAction = "connection"
	LinkedInActionMessage    LinkedInAction = "message"
)

// IsValid checks if the LinkedIn action is valid
func (a LinkedInAction) IsValid() bool {
	return a == LinkedInActionConnection || a == LinkedInActionMessage
}

func (a LinkedInAction) String() string {
	return string(a)
}
