package types

import "fmt"

// CallOutcome is the result of a dialed call
type CallOutcome string

const (
	CallOutcomeAnswered         CallOutcome = "Answered"
	CallOutcomeVoicemail        CallOutcome = "Voicemail"
	CallOutcomeNoAnswer         CallOutcome = "No Answer"
	CallOutcomeBusy             CallOutcome = "Busy"
	CallOutcomeWrongNumber      CallOutcome = "Wrong Number"
	CallOutcomeNotInterested    CallOutcome = "Not Interested"
	CallOutcomeInterested       CallOutcome = "Interested"
	CallOutcomeMeetingScheduled CallOutcome = "Meeting Scheduled"
)

// AllCallOutcomes returns all valid call outcomes
func AllCallOutcomes() []CallOutcome {
	return []CallOutcome{
		CallOutcomeAnswered,
		CallOutcomeVoicemail,
		CallOutcomeNoAnswer,
		CallOutcomeBusy,
		CallOutcomeWrongNumber,
		CallOutcomeNotInterested,
		CallOutcomeInterested,
		CallOutcomeMeetingScheduled,
	}
}

// IsValid checks if the call outcome is valid
func (o CallOutcome) IsValid() bool {
	switch o {
	case CallOutcomeAnswered,
		CallOutcomeVoicemail,
		CallOutcomeNoAnswer,
		CallOutcomeBusy,
		CallOutcomeWrongNumber,
		CallOutcomeNotInterested,
		CallOutcomeInterested,
		CallOutcomeMeetingScheduled:
		return true
	default:
		return false
	}
}

func (o CallOutcome) String() string {
	return string(o)
}

// ParseCallOutcome parses a string into a CallOutcome
func ParseCallOutcome(s string) (CallOutcome, error) {
	o := CallOutcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid call outcome: %s", s)
	}
	return o, nil
}
