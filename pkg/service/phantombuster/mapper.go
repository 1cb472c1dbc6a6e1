package phantombuster

import (
	"strings"

	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// RenderMessage fills the lead placeholders in template and truncates the result to limit
// runes. A non-positive limit disables truncation.
func RenderMessage(template string, lead *model.Lead, limit int) string {
	r := strings.NewReplacer(
		"{{firstName}}", lead.FirstName,
		"{{lastName}}", lead.LastName,
		"{{fullName}}", lead.FullName(),
		"{{company}}", lead.Company,
		"{{jobTitle}}", lead.JobTitle,
	)
	return Truncate(strings.TrimSpace(r.Replace(template)), limit)
}

// Truncate cuts s to at most limit runes
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

var containerStatusTable = map[string]types.OutreachStatus{
	"queued":   types.OutreachStatusScheduled,
	"starting": types.OutreachStatusScheduled,
	"running":  types.OutreachStatusScheduled,
	"finished": types.OutreachStatusSent,
	"success":  types.OutreachStatusSent,
	"error":    types.OutreachStatusFailed,
	"failed":   types.OutreachStatusFailed,
	"timeout":  types.OutreachStatusFailed,
}

// ContainerStatusToStatus maps a container status. Unknown statuses are Scheduled.
func ContainerStatusToStatus(status string) types.OutreachStatus {
	if s, ok := containerStatusTable[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s
	}
	return types.OutreachStatusScheduled
}

var (
	acceptedMarkers = []string{"invitation accepted", "connection accepted", "already connected"}
	repliedMarkers  = []string{"reply received", "has replied", "new message from"}
)

func hasMarker(output string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(output, m) {
			return true
		}
	}
	return false
}

// MapContainerToOutreach translates an agent run into the outreach it describes
func MapContainerToOutreach(output *ContainerOutput, leadID model.LeadID) *model.Outreach {
	status := ContainerStatusToStatus(output.Status)
	console := strings.ToLower(output.Output)

	payload := &model.LinkedInPayload{
		AgentID: output.AgentID,
	}
	if status == types.OutreachStatusSent {
		payload.SentAt = output.EndedAt
	}

	out := &model.Outreach{
		LeadID:   leadID,
		Type:     types.OutreachTypeLinkedIn,
		Channel:  types.ChannelLinkedIn,
		Status:   status,
		LinkedIn: payload,
		ExternalIDs: model.ExternalIDs{
			LinkedInActivityID: output.ContainerID,
		},
	}

	if status == types.OutreachStatusFailed {
		return out
	}
	if hasMarker(console, acceptedMarkers) {
		payload.AcceptedAt = output.EndedAt
	}
	if hasMarker(console, repliedMarkers) {
		out.Status = types.OutreachStatusReplied
		payload.RepliedAt = output.EndedAt
		out.Response = model.Response{
			Received:  true,
			Date:      output.EndedAt,
			Sentiment: types.SentimentNeutral,
		}
	}
	return out
}
