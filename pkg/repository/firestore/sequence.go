package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type sequenceDocument struct {
	ID          string         `firestore:"id"`
	CampaignID  string         `firestore:"campaign_id"`
	Name        string         `firestore:"name"`
	Description string         `firestore:"description"`
	Active      bool           `firestore:"active"`
	Steps       []stepDocument `firestore:"steps"`
	CreatedBy   string         `firestore:"created_by"`
	CreatedAt   time.Time      `firestore:"created_at"`
	UpdatedAt   time.Time      `firestore:"updated_at"`
}

type stepDocument struct {
	Order          int      `firestore:"order"`
	Channel        string   `firestore:"channel"`
	Subject        string   `firestore:"subject"`
	Body           string   `firestore:"body"`
	Script         string   `firestore:"script"`
	Message        string   `firestore:"message"`
	DelayDays      int      `firestore:"delay_days"`
	DelayHours     int      `firestore:"delay_hours"`
	HasWindow      bool     `firestore:"has_window"`
	WindowStart    int      `firestore:"window_start"`
	WindowEnd      int      `firestore:"window_end"`
	ActiveDays     []int    `firestore:"active_days"`
	SkipConditions []string `firestore:"skip_conditions"`
}

type sequenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *sequenceRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "sequences"))
}

func sequenceToDocument(s *model.Sequence) *sequenceDocument {
	doc := &sequenceDocument{
		ID:          string(s.ID),
		CampaignID:  string(s.CampaignID),
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
		CreatedBy:   string(s.CreatedBy),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	for _, step := range s.Steps {
		sd := stepDocument{
			Order:          step.Order,
			Channel:        string(step.Channel),
			Subject:        step.Content.Subject,
			Body:           step.Content.Body,
			Script:         step.Content.Script,
			Message:        step.Content.Message,
			DelayDays:      step.DelayDays,
			DelayHours:     step.DelayHours,
			SkipConditions: toStrings(step.SkipConditions),
		}
		if step.ActiveHours != nil {
			sd.HasWindow = true
			sd.WindowStart = step.ActiveHours.Start
			sd.WindowEnd = step.ActiveHours.End
		}
		for _, d := range step.ActiveDays {
			sd.ActiveDays = append(sd.ActiveDays, int(d))
		}
		doc.Steps = append(doc.Steps, sd)
	}
	return doc
}

func sequenceToModel(doc *sequenceDocument) *model.Sequence {
	s := &model.Sequence{
		ID:          model.SequenceID(doc.ID),
		CampaignID:  model.CampaignID(doc.CampaignID),
		Name:        doc.Name,
		Description: doc.Description,
		Active:      doc.Active,
		CreatedBy:   model.UserID(doc.CreatedBy),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	for _, sd := range doc.Steps {
		step := model.Step{
			Order:   sd.Order,
			Channel: types.Channel(sd.Channel),
			Content: model.StepContent{
				Subject: sd.Subject,
				Body:    sd.Body,
				Script:  sd.Script,
				Message: sd.Message,
			},
			DelayDays:      sd.DelayDays,
			DelayHours:     sd.DelayHours,
			SkipConditions: fromStrings[model.SkipCondition](sd.SkipConditions),
		}
		if sd.HasWindow {
			step.ActiveHours = &model.HourWindow{Start: sd.WindowStart, End: sd.WindowEnd}
		}
		for _, d := range sd.ActiveDays {
			step.ActiveDays = append(step.ActiveDays, time.Weekday(d))
		}
		s.Steps = append(s.Steps, step)
	}
	return s
}

func (r *sequenceRepository) Create(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error) {
	now := timestamp()
	if sequence.ID == "" {
		sequence.ID = model.NewSequenceID()
	}
	sequence.CreatedAt = now
	sequence.UpdatedAt = now

	doc := sequenceToDocument(sequence)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create sequence", goerr.V(model.SequenceIDKey, sequence.ID))
	}
	return sequenceToModel(doc), nil
}

func (r *sequenceRepository) get(ctx context.Context, id model.SequenceID) (*sequenceDocument, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "sequence not found", goerr.V(model.SequenceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get sequence", goerr.V(model.SequenceIDKey, id))
	}

	var doc sequenceDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal sequence", goerr.V(model.SequenceIDKey, id))
	}
	return &doc, nil
}

func (r *sequenceRepository) Get(ctx context.Context, id model.SequenceID) (*model.Sequence, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sequenceToModel(doc), nil
}

func (r *sequenceRepository) Update(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error) {
	existing, err := r.get(ctx, sequence.ID)
	if err != nil {
		return nil, err
	}

	sequence.CreatedAt = existing.CreatedAt
	sequence.UpdatedAt = timestamp()

	doc := sequenceToDocument(sequence)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update sequence", goerr.V(model.SequenceIDKey, sequence.ID))
	}
	return sequenceToModel(doc), nil
}

func (r *sequenceRepository) Delete(ctx context.Context, id model.SequenceID) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete sequence", goerr.V(model.SequenceIDKey, id))
	}
	return nil
}

func (r *sequenceRepository) ListByCampaign(ctx context.Context, campaignID model.CampaignID) ([]*model.Sequence, error) {
	iter := r.collection().
		Where("campaign_id", "==", string(campaignID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var sequences []*model.Sequence
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sequences", goerr.V(model.CampaignIDKey, campaignID))
		}

		var doc sequenceDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal sequence", goerr.V(model.SequenceIDKey, snap.Ref.ID))
		}
		sequences = append(sequences, sequenceToModel(&doc))
	}
	return sequences, nil
}
