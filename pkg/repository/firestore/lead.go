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

type leadDocument struct {
	ID                string     `firestore:"id"`
	Email             string     `firestore:"email"`
	FirstName         string     `firestore:"first_name"`
	LastName          string     `firestore:"last_name"`
	Phone             string     `firestore:"phone"`
	Company           string     `firestore:"company"`
	JobTitle          string     `firestore:"job_title"`
	LinkedInURL       string     `firestore:"linkedin_url"`
	Status            string     `firestore:"status"`
	Source            string     `firestore:"source"`
	Tags              []string   `firestore:"tags"`
	CreatedBy         string     `firestore:"created_by"`
	AssignedTo        string     `firestore:"assigned_to"`
	LastContactedDate *time.Time `firestore:"last_contacted_date"`
	Notes             string     `firestore:"notes"`
	CreatedAt         time.Time  `firestore:"created_at"`
	UpdatedAt         time.Time  `firestore:"updated_at"`
}

type leadRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *leadRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "leads"))
}

func leadToDocument(lead *model.Lead) *leadDocument {
	return &leadDocument{
		ID:                string(lead.ID),
		Email:             lead.Email,
		FirstName:         lead.FirstName,
		LastName:          lead.LastName,
		Phone:             lead.Phone,
		Company:           lead.Company,
		JobTitle:          lead.JobTitle,
		LinkedInURL:       lead.LinkedInURL,
		Status:            string(lead.Status),
		Source:            string(lead.Source),
		Tags:              lead.Tags,
		CreatedBy:         string(lead.CreatedBy),
		AssignedTo:        string(lead.AssignedTo),
		LastContactedDate: lead.LastContactedDate,
		Notes:             lead.Notes,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}

func leadToModel(doc *leadDocument) *model.Lead {
	return &model.Lead{
		ID:                model.LeadID(doc.ID),
		Email:             doc.Email,
		FirstName:         doc.FirstName,
		LastName:          doc.LastName,
		Phone:             doc.Phone,
		Company:           doc.Company,
		JobTitle:          doc.JobTitle,
		LinkedInURL:       doc.LinkedInURL,
		Status:            types.LeadStatus(doc.Status),
		Source:            types.LeadSource(doc.Source),
		Tags:              doc.Tags,
		CreatedBy:         model.UserID(doc.CreatedBy),
		AssignedTo:        model.UserID(doc.AssignedTo),
		LastContactedDate: doc.LastContactedDate,
		Notes:             doc.Notes,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

func (r *leadRepository) pairQuery(email, company string) firestore.Query {
	return r.collection().
		Where("email", "==", email).
		Where("company", "==", company).
		Limit(2)
}

func (r *leadRepository) emailQuery(email string) firestore.Query {
	return r.collection().Where("email", "==", email).Limit(2)
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	now := timestamp()
	if lead.ID == "" {
		lead.ID = model.NewLeadID()
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now

	doc := leadToDocument(lead)
	docRef := r.collection().Doc(doc.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.pairQuery(lead.Email, lead.Company)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query lead by email and company")
		}
		if len(existing) > 0 {
			return goerr.Wrap(ErrConflict, "lead already exists",
				goerr.V(model.EmailKey, lead.Email),
				goerr.V(model.CompanyKey, lead.Company),
				goerr.V(model.LeadIDKey, existing[0].Ref.ID))
		}
		sameEmail, err := tx.Documents(r.emailQuery(lead.Email)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query lead by email")
		}
		if len(sameEmail) > 0 {
			return goerr.Wrap(ErrConflict, "email is already used by another lead",
				goerr.V(model.EmailKey, lead.Email),
				goerr.V(model.LeadIDKey, sameEmail[0].Ref.ID))
		}
		return tx.Create(docRef, doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create lead", goerr.V(model.LeadIDKey, lead.ID))
	}

	return leadToModel(doc), nil
}

func (r *leadRepository) Get(ctx context.Context, id model.LeadID) (*model.Lead, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get lead", goerr.V(model.LeadIDKey, id))
	}

	var doc leadDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal lead", goerr.V(model.LeadIDKey, id))
	}
	return leadToModel(&doc), nil
}

func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	docRef := r.collection().Doc(string(lead.ID))
	var updated *leadDocument

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, lead.ID))
			}
			return goerr.Wrap(err, "failed to get lead", goerr.V(model.LeadIDKey, lead.ID))
		}

		var existing leadDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal lead", goerr.V(model.LeadIDKey, lead.ID))
		}

		others, err := tx.Documents(r.pairQuery(lead.Email, lead.Company)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query lead by email and company")
		}
		for _, other := range others {
			if other.Ref.ID != string(lead.ID) {
				return goerr.Wrap(ErrConflict, "another lead has the same email and company",
					goerr.V(model.LeadIDKey, lead.ID),
					goerr.V(model.EmailKey, lead.Email),
					goerr.V(model.CompanyKey, lead.Company))
			}
		}

		sameEmail, err := tx.Documents(r.emailQuery(lead.Email)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query lead by email")
		}
		for _, other := range sameEmail {
			if other.Ref.ID != string(lead.ID) {
				return goerr.Wrap(ErrConflict, "email is already used by another lead",
					goerr.V(model.LeadIDKey, lead.ID),
					goerr.V(model.EmailKey, lead.Email))
			}
		}

		lead.CreatedAt = existing.CreatedAt
		lead.UpdatedAt = timestamp()
		updated = leadToDocument(lead)
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update lead", goerr.V(model.LeadIDKey, lead.ID))
	}

	return leadToModel(updated), nil
}

func (r *leadRepository) Delete(ctx context.Context, id model.LeadID) error {
	docRef := r.collection().Doc(string(id))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrNotFound, "lead not found", goerr.V(model.LeadIDKey, id))
		}
		return goerr.Wrap(err, "failed to get lead", goerr.V(model.LeadIDKey, id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete lead", goerr.V(model.LeadIDKey, id))
	}
	return nil
}

func (r *leadRepository) FindByEmailCompany(ctx context.Context, email, company string) (*model.Lead, error) {
	lead, err := r.first(ctx, r.pairQuery(email, company))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query lead by email and company",
			goerr.V(model.EmailKey, email), goerr.V(model.CompanyKey, company))
	}
	return lead, nil
}

func (r *leadRepository) FindByEmail(ctx context.Context, email string) (*model.Lead, error) {
	lead, err := r.first(ctx, r.emailQuery(email))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query lead by email", goerr.V(model.EmailKey, email))
	}
	return lead, nil
}

// first returns the first lead matched by q, or nil
func (r *leadRepository) first(ctx context.Context, q firestore.Query) (*model.Lead, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc leadDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal lead")
	}
	return leadToModel(&doc), nil
}

func (r *leadRepository) query(opts ...interfaces.ListOption) firestore.Query {
	cfg := interfaces.BuildListConfig(opts...)
	q := r.collection().Query

	if s := cfg.LeadStatus(); s != nil {
		q = q.Where("status", "==", string(*s))
	}
	if s := cfg.LeadSource(); s != nil {
		q = q.Where("source", "==", string(*s))
	}
	if u := cfg.AssignedTo(); u != nil {
		q = q.Where("assigned_to", "==", string(*u))
	}
	if tag := cfg.Tag(); tag != nil {
		q = q.Where("tags", "array-contains", *tag)
	}
	return q
}

func (r *leadRepository) List(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Lead, error) {
	cfg := interfaces.BuildListConfig(opts...)
	q := paginate(r.query(opts...).OrderBy("created_at", firestore.Desc), cfg.Offset(), cfg.Limit())

	iter := q.Documents(ctx)
	defer iter.Stop()

	var leads []*model.Lead
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate leads")
		}

		var doc leadDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal lead", goerr.V(model.LeadIDKey, snap.Ref.ID))
		}
		leads = append(leads, leadToModel(&doc))
	}

	return leads, nil
}

func (r *leadRepository) Count(ctx context.Context, opts ...interfaces.ListOption) (int, error) {
	iter := r.query(opts...).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count leads")
		}
		count++
	}
	return count, nil
}
