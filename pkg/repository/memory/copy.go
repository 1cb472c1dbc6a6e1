package memory

import (
	"slices"
	"time"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func copyLead(lead *model.Lead) *model.Lead {
	copied := *lead
	copied.Tags = slices.Clone(lead.Tags)
	copied.LastContactedDate = copyTime(lead.LastContactedDate)
	return &copied
}

func copyCampaign(campaign *model.Campaign) *model.Campaign {
	copied := *campaign
	copied.Leads = slices.Clone(campaign.Leads)
	copied.Team = slices.Clone(campaign.Team)
	return &copied
}

func copySequence(sequence *model.Sequence) *model.Sequence {
	copied := *sequence
	if sequence.Steps != nil {
		copied.Steps = make([]model.Step, len(sequence.Steps))
		for i, step := range sequence.Steps {
			s := step
			if step.ActiveHours != nil {
				w := *step.ActiveHours
				s.ActiveHours = &w
			}
			s.ActiveDays = slices.Clone(step.ActiveDays)
			s.SkipConditions = slices.Clone(step.SkipConditions)
			copied.Steps[i] = s
		}
	}
	return &copied
}

func copyOutreach(outreach *model.Outreach) *model.Outreach {
	copied := *outreach
	copied.FollowUps = slices.Clone(outreach.FollowUps)
	copied.Response.Date = copyTime(outreach.Response.Date)

	if e := outreach.Email; e != nil {
		email := *e
		email.SentAt = copyTime(e.SentAt)
		email.OpenedAt = copyTime(e.OpenedAt)
		email.ClickedAt = copyTime(e.ClickedAt)
		email.RepliedAt = copyTime(e.RepliedAt)
		email.BouncedAt = copyTime(e.BouncedAt)
		copied.Email = &email
	}
	if c := outreach.Call; c != nil {
		call := *c
		call.ScheduledAt = copyTime(c.ScheduledAt)
		call.CalledAt = copyTime(c.CalledAt)
		copied.Call = &call
	}
	if l := outreach.LinkedIn; l != nil {
		linkedin := *l
		linkedin.SentAt = copyTime(l.SentAt)
		linkedin.AcceptedAt = copyTime(l.AcceptedAt)
		linkedin.RepliedAt = copyTime(l.RepliedAt)
		copied.LinkedIn = &linkedin
	}
	return &copied
}

func copyUser(user *model.User) *model.User {
	copied := *user
	if i := user.Integrations.Instantly; i != nil {
		v := *i
		copied.Integrations.Instantly = &v
	}
	if i := user.Integrations.Salesfinity; i != nil {
		v := *i
		copied.Integrations.Salesfinity = &v
	}
	if i := user.Integrations.PhantomBuster; i != nil {
		v := *i
		copied.Integrations.PhantomBuster = &v
	}
	return &copied
}

// paginate applies offset and limit to an already ordered slice
func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
