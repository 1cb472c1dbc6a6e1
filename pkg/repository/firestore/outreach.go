package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type outreachDocument struct {
	ID             string            `firestore:"id"`
	LeadID         string            `firestore:"lead_id"`
	CampaignID     string            `firestore:"campaign_id"`
	SequenceID     string            `firestore:"sequence_id"`
	Type           string            `firestore:"type"`
	Channel        string            `firestore:"channel"`
	Status         string            `firestore:"status"`
	Email          *emailDocument    `firestore:"email,omitempty"`
	Call           *callDocument     `firestore:"call,omitempty"`
	LinkedIn       *linkedInDocument `firestore:"linkedin,omitempty"`
	Response       responseDocument  `firestore:"response"`
	ExternalIDs    externalIDsDoc    `firestore:"external_ids"`
	FollowUps      []string          `firestore:"follow_ups"`
	ParentOutreach string            `firestore:"parent_outreach"`
	FollowUpCount  int               `firestore:"follow_up_count"`
	PerformedBy    string            `firestore:"performed_by"`
	Notes          string            `firestore:"notes"`
	// Syncable is derived on write so pending syncs can be queried with one equality filter
	Syncable  bool      `firestore:"syncable"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type emailDocument struct {
	Subject    string     `firestore:"subject"`
	Body       string     `firestore:"body"`
	From       string     `firestore:"from"`
	To         string     `firestore:"to"`
	SentAt     *time.Time `firestore:"sent_at"`
	OpenedAt   *time.Time `firestore:"opened_at"`
	ClickedAt  *time.Time `firestore:"clicked_at"`
	RepliedAt  *time.Time `firestore:"replied_at"`
	BouncedAt  *time.Time `firestore:"bounced_at"`
	OpenCount  int        `firestore:"open_count"`
	ClickCount int        `firestore:"click_count"`
}

type callDocument struct {
	DialedNumber    string     `firestore:"dialed_number"`
	ScheduledAt     *time.Time `firestore:"scheduled_at"`
	CalledAt        *time.Time `firestore:"called_at"`
	DurationSeconds int        `firestore:"duration_seconds"`
	Outcome         string     `firestore:"outcome"`
	RecordingURL    string     `firestore:"recording_url"`
	Notes           string     `firestore:"notes"`
	RemoteScheduled bool       `firestore:"remote_scheduled"`
}

type linkedInDocument struct {
	ProfileURL string     `firestore:"profile_url"`
	Action     string     `firestore:"action"`
	Message    string     `firestore:"message"`
	AgentID    string     `firestore:"agent_id"`
	SentAt     *time.Time `firestore:"sent_at"`
	AcceptedAt *time.Time `firestore:"accepted_at"`
	RepliedAt  *time.Time `firestore:"replied_at"`
}

type responseDocument struct {
	Received  bool       `firestore:"received"`
	Text      string     `firestore:"text"`
	Date      *time.Time `firestore:"date"`
	Sentiment string     `firestore:"sentiment"`
}

type externalIDsDoc struct {
	InstantlyID         string `firestore:"instantly_id"`
	InstantlyCampaignID string `firestore:"instantly_campaign_id"`
	SalesfinityID       string `firestore:"salesfinity_id"`
	SalesfinityListID   string `firestore:"salesfinity_list_id"`
	LinkedInActivityID  string `firestore:"linkedin_activity_id"`
}

type outreachRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *outreachRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "outreaches"))
}

func outreachToDocument(o *model.Outreach) *outreachDocument {
	doc := &outreachDocument{
		ID:         string(o.ID),
		LeadID:     string(o.LeadID),
		CampaignID: string(o.CampaignID),
		SequenceID: string(o.SequenceID),
		Type:       string(o.Type),
		Channel:    string(o.Channel),
		Status:     string(o.Status),
		Response: responseDocument{
			Received:  o.Response.Received,
			Text:      o.Response.Text,
			Date:      o.Response.Date,
			Sentiment: string(o.Response.Sentiment),
		},
		ExternalIDs: externalIDsDoc{
			InstantlyID:         o.ExternalIDs.InstantlyID,
			InstantlyCampaignID: o.ExternalIDs.InstantlyCampaignID,
			SalesfinityID:       o.ExternalIDs.SalesfinityID,
			SalesfinityListID:   o.ExternalIDs.SalesfinityListID,
			LinkedInActivityID:  o.ExternalIDs.LinkedInActivityID,
		},
		FollowUps:      toStrings(o.FollowUps),
		ParentOutreach: string(o.ParentOutreach),
		FollowUpCount:  o.FollowUpCount,
		PerformedBy:    string(o.PerformedBy),
		Notes:          o.Notes,
		Syncable:       o.IsSyncable(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	if e := o.Email; e != nil {
		doc.Email = &emailDocument{
			Subject:    e.Subject,
			Body:       e.Body,
			From:       e.From,
			To:         e.To,
			SentAt:     e.SentAt,
			OpenedAt:   e.OpenedAt,
			ClickedAt:  e.ClickedAt,
			RepliedAt:  e.RepliedAt,
			BouncedAt:  e.BouncedAt,
			OpenCount:  e.OpenCount,
			ClickCount: e.ClickCount,
		}
	}
	if c := o.Call; c != nil {
		doc.Call = &callDocument{
			DialedNumber:    c.DialedNumber,
			ScheduledAt:     c.ScheduledAt,
			CalledAt:        c.CalledAt,
			DurationSeconds: c.DurationSeconds,
			Outcome:         string(c.Outcome),
			RecordingURL:    c.RecordingURL,
			Notes:           c.Notes,
			RemoteScheduled: c.RemoteScheduled,
		}
	}
	if l := o.LinkedIn; l != nil {
		doc.LinkedIn = &linkedInDocument{
			ProfileURL: l.ProfileURL,
			Action:     string(l.Action),
			Message:    l.Message,
			AgentID:    l.AgentID,
			SentAt:     l.SentAt,
			AcceptedAt: l.AcceptedAt,
			RepliedAt:  l.RepliedAt,
		}
	}
	return doc
}

func outreachToModel(doc *outreachDocument) *model.Outreach {
	o := &model.Outreach{
		ID:         model.OutreachID(doc.ID),
		LeadID:     model.LeadID(doc.LeadID),
		CampaignID: model.CampaignID(doc.CampaignID),
		SequenceID: model.SequenceID(doc.SequenceID),
		Type:       types.OutreachType(doc.Type),
		Channel:    types.Channel(doc.Channel),
		Status:     types.OutreachStatus(doc.Status),
		Response: model.Response{
			Received:  doc.Response.Received,
			Text:      doc.Response.Text,
			Date:      doc.Response.Date,
			Sentiment: types.Sentiment(doc.Response.Sentiment),
		},
		ExternalIDs: model.ExternalIDs{
			InstantlyID:         doc.ExternalIDs.InstantlyID,
			InstantlyCampaignID: doc.ExternalIDs.InstantlyCampaignID,
			SalesfinityID:       doc.ExternalIDs.SalesfinityID,
			SalesfinityListID:   doc.ExternalIDs.SalesfinityListID,
			LinkedInActivityID:  doc.ExternalIDs.LinkedInActivityID,
		},
		FollowUps:      fromStrings[model.OutreachID](doc.FollowUps),
		ParentOutreach: model.OutreachID(doc.ParentOutreach),
		FollowUpCount:  doc.FollowUpCount,
		PerformedBy:    model.UserID(doc.PerformedBy),
		Notes:          doc.Notes,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	if e := doc.Email; e != nil {
		o.Email = &model.EmailPayload{
			Subject:    e.Subject,
			Body:       e.Body,
			From:       e.From,
			To:         e.To,
			SentAt:     e.SentAt,
			OpenedAt:   e.OpenedAt,
			ClickedAt:  e.ClickedAt,
			RepliedAt:  e.RepliedAt,
			BouncedAt:  e.BouncedAt,
			OpenCount:  e.OpenCount,
			ClickCount: e.ClickCount,
		}
	}
	if c := doc.Call; c != nil {
		o.Call = &model.CallPayload{
			DialedNumber:    c.DialedNumber,
			ScheduledAt:     c.ScheduledAt,
			CalledAt:        c.CalledAt,
			DurationSeconds: c.DurationSeconds,
			Outcome:         types.CallOutcome(c.Outcome),
			RecordingURL:    c.RecordingURL,
			Notes:           c.Notes,
			RemoteScheduled: c.RemoteScheduled,
		}
	}
	if l := doc.LinkedIn; l != nil {
		o.LinkedIn = &model.LinkedInPayload{
			ProfileURL: l.ProfileURL,
			Action:     types.LinkedInAction(l.Action),
			Message:    l.Message,
			AgentID:    l.AgentID,
			SentAt:     l.SentAt,
			AcceptedAt: l.AcceptedAt,
			RepliedAt:  l.RepliedAt,
		}
	}
	return o
}

func (r *outreachRepository) Create(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error) {
	now := timestamp()
	if outreach.ID == "" {
		outreach.ID = model.NewOutreachID()
	}
	outreach.CreatedAt = now
	outreach.UpdatedAt = now

	doc := outreachToDocument(outreach)
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create outreach", goerr.V(model.OutreachIDKey, outreach.ID))
	}
	return outreachToModel(doc), nil
}

func (r *outreachRepository) get(ctx context.Context, id model.OutreachID) (*outreachDocument, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "outreach not found", goerr.V(model.OutreachIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get outreach", goerr.V(model.OutreachIDKey, id))
	}

	var doc outreachDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal outreach", goerr.V(model.OutreachIDKey, id))
	}
	return &doc, nil
}

func (r *outreachRepository) Get(ctx context.Context, id model.OutreachID) (*model.Outreach, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return outreachToModel(doc), nil
}

func (r *outreachRepository) Update(ctx context.Context, outreach *model.Outreach) (*model.Outreach, error) {
	existing, err := r.get(ctx, outreach.ID)
	if err != nil {
		return nil, err
	}

	outreach.CreatedAt = existing.CreatedAt
	outreach.UpdatedAt = timestamp()

	doc := outreachToDocument(outreach)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update outreach", goerr.V(model.OutreachIDKey, outreach.ID))
	}
	return outreachToModel(doc), nil
}

func (r *outreachRepository) list(ctx context.Context, q firestore.Query, match func(*model.Outreach) bool) ([]*model.Outreach, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var results []*model.Outreach
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate outreaches")
		}

		var doc outreachDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal outreach", goerr.V(model.OutreachIDKey, snap.Ref.ID))
		}
		o := outreachToModel(&doc)
		if match == nil || match(o) {
			results = append(results, o)
		}
	}
	return results, nil
}

func (r *outreachRepository) ListByLead(ctx context.Context, leadID model.LeadID, limit int) ([]*model.Outreach, error) {
	q := r.collection().
		Where("lead_id", "==", string(leadID)).
		OrderBy("created_at", firestore.Desc)
	return r.list(ctx, paginate(q, 0, limit), nil)
}

func (r *outreachRepository) ListByCampaign(ctx context.Context, campaignID model.CampaignID, opts ...interfaces.ListOption) ([]*model.Outreach, error) {
	cfg := interfaces.BuildListConfig(opts...)
	q := r.collection().Where("campaign_id", "==", string(campaignID))
	if ch := cfg.Channel(); ch != nil {
		q = q.Where("channel", "==", string(*ch))
	}
	q = paginate(q.OrderBy("created_at", firestore.Desc), cfg.Offset(), cfg.Limit())
	return r.list(ctx, q, nil)
}

func (r *outreachRepository) ListSyncable(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Outreach, error) {
	cfg := interfaces.BuildListConfig(opts...)
	q := r.collection().Where("syncable", "==", true)
	if ch := cfg.Channel(); ch != nil {
		q = q.Where("channel", "==", string(*ch))
	}
	q = paginate(q.OrderBy("created_at", firestore.Asc), cfg.Offset(), cfg.Limit())
	return r.list(ctx, q, nil)
}
