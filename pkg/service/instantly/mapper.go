package instantly

import (
	"strings"

	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

var freeMailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"icloud.com":  true,
	"aol.com":     true,
	"proton.me":   true,
}

// MapLeadToProviderLead converts a lead into the upload schema. The internal lead id travels
// in the custom variables so provider records can be traced back.
func MapLeadToProviderLead(lead *model.Lead) *Lead {
	vars := map[string]string{
		VarLeadID: string(lead.ID),
	}
	if lead.JobTitle != "" {
		vars[VarJobTitle] = lead.JobTitle
	}
	if lead.LinkedInURL != "" {
		vars[VarLinkedInURL] = lead.LinkedInURL
	}

	out := &Lead{
		Email:           lead.Email,
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		CompanyName:     lead.Company,
		Phone:           lead.Phone,
		Website:         websiteFromEmail(lead.Email),
		CustomVariables: vars,
	}
	if lead.JobTitle != "" && lead.Company != "" {
		out.Personalization = lead.JobTitle + " at " + lead.Company
	}
	return out
}

func websiteFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	if freeMailDomains[domain] {
		return ""
	}
	return domain
}

var leadStateTable = map[LeadState]types.OutreachStatus{
	"not_yet_contacted": types.OutreachStatusScheduled,
	"scheduled":         types.OutreachStatusScheduled,
	"active":            types.OutreachStatusSent,
	"contacted":         types.OutreachStatusSent,
	"paused":            types.OutreachStatusSent,
	"sent":              types.OutreachStatusSent,
	"delivered":         types.OutreachStatusDelivered,
	"opened":            types.OutreachStatusOpened,
	"clicked":           types.OutreachStatusClicked,
	"replied":           types.OutreachStatusReplied,
	"completed":         types.OutreachStatusCompleted,
	"unsubscribed":      types.OutreachStatusCompleted,
	"bounced":           types.OutreachStatusBounced,
	"skipped":           types.OutreachStatusFailed,
	"error":             types.OutreachStatusFailed,
}

var engagementRank = map[types.OutreachStatus]int{
	types.OutreachStatusScheduled: 1,
	types.OutreachStatusSent:      2,
	types.OutreachStatusDelivered: 3,
	types.OutreachStatusOpened:    4,
	types.OutreachStatusClicked:   5,
	types.OutreachStatusReplied:   6,
}

// LeadStateToStatus looks a lead state up in the status table. Unknown states are Sent.
func LeadStateToStatus(state LeadState) types.OutreachStatus {
	if status, ok := leadStateTable[state]; ok {
		return status
	}
	return types.OutreachStatusSent
}

func engagementStatus(record *LeadRecord) types.OutreachStatus {
	switch {
	case record.ReplyCount > 0 || record.RepliedAt != nil:
		return types.OutreachStatusReplied
	case record.ClickCount > 0 || record.ClickedAt != nil:
		return types.OutreachStatusClicked
	case record.OpenCount > 0 || record.OpenedAt != nil:
		return types.OutreachStatusOpened
	default:
		return ""
	}
}

// raise lifts status to the engagement the counters show. Bounced and Failed are final, and a
// completed sequence is only overridden by a reply.
func raise(status, engagement types.OutreachStatus) types.OutreachStatus {
	switch status {
	case types.OutreachStatusBounced, types.OutreachStatusFailed:
		return status
	}
	if engagement == "" {
		return status
	}
	if engagement == types.OutreachStatusReplied {
		return engagement
	}
	if status == types.OutreachStatusCompleted {
		return status
	}
	if engagementRank[engagement] > engagementRank[status] {
		return engagement
	}
	return status
}

func interestSentiment(i Interest) types.Sentiment {
	switch i {
	case InterestInterested, InterestMeetingBooked:
		return types.SentimentPositive
	case InterestNotInterested:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// MapLeadStatusToOutreach translates a provider lead record into the outreach it describes
func MapLeadStatusToOutreach(record *LeadRecord, leadID model.LeadID) *model.Outreach {
	status := raise(LeadStateToStatus(record.Status), engagementStatus(record))

	email := &model.EmailPayload{
		To:         record.Email,
		SentAt:     record.ContactedAt,
		OpenedAt:   record.OpenedAt,
		ClickedAt:  record.ClickedAt,
		RepliedAt:  record.RepliedAt,
		OpenCount:  record.OpenCount,
		ClickCount: record.ClickCount,
	}
	if status == types.OutreachStatusBounced {
		email.BouncedAt = record.UpdatedAt
	}

	instantlyID := record.Email
	if instantlyID == "" {
		instantlyID = record.ID
	}

	out := &model.Outreach{
		LeadID:  leadID,
		Type:    types.OutreachTypeEmail,
		Channel: types.ChannelInstantly,
		Status:  status,
		Email:   email,
		ExternalIDs: model.ExternalIDs{
			InstantlyID:         instantlyID,
			InstantlyCampaignID: record.CampaignID,
		},
	}

	if status == types.OutreachStatusReplied {
		out.Response = model.Response{
			Received:  true,
			Text:      record.ReplyText,
			Date:      record.RepliedAt,
			Sentiment: interestSentiment(record.Interest),
		}
	}
	return out
}

// InternalLeadID returns the lead id carried in the record's custom variables, if any
func (r *LeadRecord) InternalLeadID() model.LeadID {
	if v, ok := r.CustomVariables[VarLeadID].(string); ok {
		return model.LeadID(v)
	}
	return ""
}
