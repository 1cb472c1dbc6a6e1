package model

import (
	"time"

	"github.com/secmon-lab/reachout/pkg/domain/types"
)

// OutreachUpdate is the partial state of an outreach as reported by a provider. Zero fields
// mean the provider said nothing about them.
type OutreachUpdate struct {
	Status      types.OutreachStatus
	Email       *EmailPayload
	Call        *CallPayload
	LinkedIn    *LinkedInPayload
	Response    *Response
	ExternalIDs ExternalIDs
}

// Merge overlays a provider update onto the outreach and reports whether anything changed.
//
// Remote status, timestamps, counters and call outcome always win. Local free text (Notes,
// email subject and body, call notes, response text) is never overwritten; it is only filled
// when empty. Applying the same update twice yields the same state.
func (o *Outreach) Merge(u *OutreachUpdate) bool {
	if u == nil {
		return false
	}

	changed := false
	if u.Status != "" && u.Status.IsValid() && o.Status != u.Status {
		o.Status = u.Status
		changed = true
	}

	if u.Email != nil && o.Type == types.OutreachTypeEmail {
		if o.Email == nil {
			o.Email = &EmailPayload{}
		}
		changed = mergeEmail(o.Email, u.Email) || changed
	}
	if u.Call != nil && o.Type == types.OutreachTypeCall {
		if o.Call == nil {
			o.Call = &CallPayload{}
		}
		changed = mergeCall(o.Call, u.Call) || changed
	}
	if u.LinkedIn != nil && o.Type == types.OutreachTypeLinkedIn {
		if o.LinkedIn == nil {
			o.LinkedIn = &LinkedInPayload{Action: types.LinkedInActionConnection}
		}
		changed = mergeLinkedIn(o.LinkedIn, u.LinkedIn) || changed
	}
	if u.Response != nil {
		changed = mergeResponse(&o.Response, u.Response) || changed
	}

	changed = fillString(&o.ExternalIDs.InstantlyID, u.ExternalIDs.InstantlyID) || changed
	changed = fillString(&o.ExternalIDs.InstantlyCampaignID, u.ExternalIDs.InstantlyCampaignID) || changed
	changed = fillString(&o.ExternalIDs.SalesfinityID, u.ExternalIDs.SalesfinityID) || changed
	changed = fillString(&o.ExternalIDs.SalesfinityListID, u.ExternalIDs.SalesfinityListID) || changed
	changed = fillString(&o.ExternalIDs.LinkedInActivityID, u.ExternalIDs.LinkedInActivityID) || changed

	return changed
}

func mergeEmail(dst, src *EmailPayload) bool {
	changed := fillString(&dst.From, src.From)
	changed = fillString(&dst.To, src.To) || changed
	changed = overlayTime(&dst.SentAt, src.SentAt) || changed
	changed = overlayTime(&dst.OpenedAt, src.OpenedAt) || changed
	changed = overlayTime(&dst.ClickedAt, src.ClickedAt) || changed
	changed = overlayTime(&dst.RepliedAt, src.RepliedAt) || changed
	changed = overlayTime(&dst.BouncedAt, src.BouncedAt) || changed
	changed = overlayInt(&dst.OpenCount, src.OpenCount) || changed
	changed = overlayInt(&dst.ClickCount, src.ClickCount) || changed
	return changed
}

func mergeCall(dst, src *CallPayload) bool {
	changed := fillString(&dst.DialedNumber, src.DialedNumber)
	changed = overlayTime(&dst.ScheduledAt, src.ScheduledAt) || changed
	changed = overlayTime(&dst.CalledAt, src.CalledAt) || changed
	changed = overlayInt(&dst.DurationSeconds, src.DurationSeconds) || changed
	if src.Outcome != "" && src.Outcome.IsValid() && dst.Outcome != src.Outcome {
		dst.Outcome = src.Outcome
		changed = true
	}
	if src.RecordingURL != "" && dst.RecordingURL != src.RecordingURL {
		dst.RecordingURL = src.RecordingURL
		changed = true
	}
	changed = fillString(&dst.Notes, src.Notes) || changed
	return changed
}

func mergeLinkedIn(dst, src *LinkedInPayload) bool {
	changed := fillString(&dst.ProfileURL, src.ProfileURL)
	changed = fillString(&dst.AgentID, src.AgentID) || changed
	changed = overlayTime(&dst.SentAt, src.SentAt) || changed
	changed = overlayTime(&dst.AcceptedAt, src.AcceptedAt) || changed
	changed = overlayTime(&dst.RepliedAt, src.RepliedAt) || changed
	return changed
}

func mergeResponse(dst, src *Response) bool {
	if !src.Received {
		return false
	}
	changed := false
	if !dst.Received {
		dst.Received = true
		changed = true
	}
	changed = overlayTime(&dst.Date, src.Date) || changed
	if src.Sentiment != "" && src.Sentiment.IsValid() && dst.Sentiment != src.Sentiment {
		dst.Sentiment = src.Sentiment
		changed = true
	}
	changed = fillString(&dst.Text, src.Text) || changed
	return changed
}

// fillString sets *dst to src only when *dst is empty
func fillString(dst *string, src string) bool {
	if src == "" || *dst != "" {
		return false
	}
	*dst = src
	return true
}

func overlayTime(dst **time.Time, src *time.Time) bool {
	if src == nil {
		return false
	}
	if *dst != nil && (*dst).Equal(*src) {
		return false
	}
	t := src.UTC()
	*dst = &t
	return true
}

func overlayInt(dst *int, src int) bool {
	if src == 0 || *dst == src {
		return false
	}
	*dst = src
	return true
}

// AsUpdate converts a provider-mapped outreach into the update merged by a sync. The response
// is carried only when the provider reported one.
func (o *Outreach) AsUpdate() *OutreachUpdate {
	u := &OutreachUpdate{
		Status:      o.Status,
		Email:       o.Email,
		Call:        o.Call,
		LinkedIn:    o.LinkedIn,
		ExternalIDs: o.ExternalIDs,
	}
	if o.Response.Received {
		resp := o.Response
		u.Response = &resp
	}
	return u
}
