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

type campaignDocument struct {
	ID          string          `firestore:"id"`
	Name        string          `firestore:"name"`
	Description string          `firestore:"description"`
	Type        string          `firestore:"type"`
	Status      string          `firestore:"status"`
	Leads       []string        `firestore:"leads"`
	Team        []string        `firestore:"team"`
	Metrics     metricsDocument `firestore:"metrics"`
	CreatedBy   string          `firestore:"created_by"`
	CreatedAt   time.Time       `firestore:"created_at"`
	UpdatedAt   time.Time       `firestore:"updated_at"`
}

type metricsDocument struct {
	TotalLeads      int `firestore:"total_leads"`
	EmailsSent      int `firestore:"emails_sent"`
	CallsMade       int `firestore:"calls_made"`
	LinkedInActions int `firestore:"linkedin_actions"`
	Replies         int `firestore:"replies"`
	Meetings        int `firestore:"meetings"`
}

type campaignRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *campaignRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "campaigns"))
}

func campaignToDocument(c *model.Campaign) *campaignDocument {
	return &campaignDocument{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		Status:      string(c.Status),
		Leads:       toStrings(c.Leads),
		Team:        toStrings(c.Team),
		Metrics: metricsDocument{
			TotalLeads:      c.Metrics.TotalLeads,
			EmailsSent:      c.Metrics.EmailsSent,
			CallsMade:       c.Metrics.CallsMade,
			LinkedInActions: c.Metrics.LinkedInActions,
			Replies:         c.Metrics.Replies,
			Meetings:        c.Metrics.Meetings,
		},
		CreatedBy: string(c.CreatedBy),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func campaignToModel(doc *campaignDocument) *model.Campaign {
	return &model.Campaign{
		ID:          model.CampaignID(doc.ID),
		Name:        doc.Name,
		Description: doc.Description,
		Type:        types.CampaignType(doc.Type),
		Status:      types.CampaignStatus(doc.Status),
		Leads:       fromStrings[model.LeadID](doc.Leads),
		Team:        fromStrings[model.UserID](doc.Team),
		Metrics: model.CampaignMetrics{
			TotalLeads:      doc.Metrics.TotalLeads,
			EmailsSent:      doc.Metrics.EmailsSent,
			CallsMade:       doc.Metrics.CallsMade,
			LinkedInActions: doc.Metrics.LinkedInActions,
			Replies:         doc.Metrics.Replies,
			Meetings:        doc.Metrics.Meetings,
		},
		CreatedBy: model.UserID(doc.CreatedBy),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	now := timestamp()
	if campaign.ID == "" {
		campaign.ID = model.NewCampaignID()
	}
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	doc := campaignToDocument(campaign)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create campaign", goerr.V(model.CampaignIDKey, campaign.ID))
	}
	return campaignToModel(doc), nil
}

func (r *campaignRepository) get(ctx context.Context, id model.CampaignID) (*campaignDocument, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "campaign not found", goerr.V(model.CampaignIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get campaign", goerr.V(model.CampaignIDKey, id))
	}

	var doc campaignDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal campaign", goerr.V(model.CampaignIDKey, id))
	}
	return &doc, nil
}

func (r *campaignRepository) Get(ctx context.Context, id model.CampaignID) (*model.Campaign, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return campaignToModel(doc), nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	existing, err := r.get(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	campaign.CreatedAt = existing.CreatedAt
	campaign.UpdatedAt = timestamp()

	doc := campaignToDocument(campaign)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update campaign", goerr.V(model.CampaignIDKey, campaign.ID))
	}
	return campaignToModel(doc), nil
}

func (r *campaignRepository) Delete(ctx context.Context, id model.CampaignID) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete campaign", goerr.V(model.CampaignIDKey, id))
	}
	return nil
}

func (r *campaignRepository) FindByName(ctx context.Context, name string) (*model.Campaign, error) {
	iter := r.collection().
		Where("name", "==", name).
		OrderBy("created_at", firestore.Asc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query campaign by name", goerr.V("name", name))
	}

	var doc campaignDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal campaign", goerr.V(model.CampaignIDKey, snap.Ref.ID))
	}
	return campaignToModel(&doc), nil
}

func (r *campaignRepository) List(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Campaign, error) {
	cfg := interfaces.BuildListConfig(opts...)
	q := r.collection().Query
	if s := cfg.CampaignStatus(); s != nil {
		q = q.Where("status", "==", string(*s))
	}
	if t := cfg.CampaignType(); t != nil {
		q = q.Where("type", "==", string(*t))
	}
	q = paginate(q.OrderBy("created_at", firestore.Desc), cfg.Offset(), cfg.Limit())

	iter := q.Documents(ctx)
	defer iter.Stop()

	var campaigns []*model.Campaign
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate campaigns")
		}

		var doc campaignDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal campaign", goerr.V(model.CampaignIDKey, snap.Ref.ID))
		}
		campaigns = append(campaigns, campaignToModel(&doc))
	}
	return campaigns, nil
}
