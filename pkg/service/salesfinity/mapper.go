package salesfinity

import (
	"strings"

	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// FormatPhone normalizes a phone number to E.164. National numbers get countryCode; an empty
// or digit-less input yields "".
func FormatPhone(raw, countryCode string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "+"):
		return "+" + d
	case strings.HasPrefix(d, "00"):
		return "+" + d[2:]
	case countryCode == DefaultCountryCode && len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	default:
		return "+" + countryCode + strings.TrimLeft(d, "0")
	}
}

// MapLeadToContact converts a lead into a dialable contact. The lead id is the contact's
// external id so call logs can be traced back.
func MapLeadToContact(lead *model.Lead) *Contact {
	return &Contact{
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		Email:      lead.Email,
		Phone:      FormatPhone(lead.Phone, DefaultCountryCode),
		Company:    lead.Company,
		Title:      lead.JobTitle,
		LinkedIn:   lead.LinkedInURL,
		ExternalID: string(lead.ID),
	}
}

var dispositionTable = map[string]types.CallOutcome{
	"answered":          types.CallOutcomeAnswered,
	"voicemail":         types.CallOutcomeVoicemail,
	"no_answer":         types.CallOutcomeNoAnswer,
	"busy":              types.CallOutcomeBusy,
	"wrong_number":      types.CallOutcomeWrongNumber,
	"not_interested":    types.CallOutcomeNotInterested,
	"interested":        types.CallOutcomeInterested,
	"meeting_scheduled": types.CallOutcomeMeetingScheduled,
}

// DispositionToOutcome maps a disposition name to a call outcome. Unknown names are Answered.
func DispositionToOutcome(externalName string) types.CallOutcome {
	key := strings.ToLower(strings.TrimSpace(externalName))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if outcome, ok := dispositionTable[key]; ok {
		return outcome
	}
	return types.CallOutcomeAnswered
}

// MapCallToOutreach translates a call log into the outreach it describes
func MapCallToOutreach(call *CallLog, leadID model.LeadID) *model.Outreach {
	outcome := DispositionToOutcome(call.Disposition.ExternalName)

	dialed := call.ToNumber
	if dialed == "" {
		dialed = call.Contact.Phone
	}

	out := &model.Outreach{
		LeadID:  leadID,
		Type:    types.OutreachTypeCall,
		Channel: types.ChannelSalesfinity,
		Status:  types.OutreachStatusCompleted,
		Call: &model.CallPayload{
			DialedNumber:    dialed,
			CalledAt:        call.CreatedAt,
			DurationSeconds: call.Duration,
			Outcome:         outcome,
			RecordingURL:    call.RecordingURL,
			Notes:           call.Notes,
		},
		ExternalIDs: model.ExternalIDs{
			SalesfinityID: call.Contact.Key(),
		},
	}

	switch outcome {
	case types.CallOutcomeInterested, types.CallOutcomeMeetingScheduled:
		out.Response = model.Response{
			Received:  true,
			Text:      call.Notes,
			Date:      call.CreatedAt,
			Sentiment: types.SentimentPositive,
		}
	case types.CallOutcomeNotInterested:
		out.Response = model.Response{
			Received:  true,
			Text:      call.Notes,
			Date:      call.CreatedAt,
			Sentiment: types.SentimentNegative,
		}
	}
	return out
}
