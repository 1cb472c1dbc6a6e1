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

type userDocument struct {
	ID           string               `firestore:"id"`
	Email        string               `firestore:"email"`
	Name         string               `firestore:"name"`
	Role         string               `firestore:"role"`
	Integrations integrationsDocument `firestore:"integrations"`
	CreatedAt    time.Time            `firestore:"created_at"`
	UpdatedAt    time.Time            `firestore:"updated_at"`
}

type integrationsDocument struct {
	Instantly     *instantlyDocument     `firestore:"instantly,omitempty"`
	Salesfinity   *salesfinityDocument   `firestore:"salesfinity,omitempty"`
	PhantomBuster *phantomBusterDocument `firestore:"phantombuster,omitempty"`
}

type instantlyDocument struct {
	APIKey     string `firestore:"api_key"`
	APIVersion string `firestore:"api_version"`
	Enabled    bool   `firestore:"enabled"`
}

type salesfinityDocument struct {
	APIKey  string `firestore:"api_key"`
	Enabled bool   `firestore:"enabled"`
}

type phantomBusterDocument struct {
	APIKey            string `firestore:"api_key"`
	ConnectionAgentID string `firestore:"connection_agent_id"`
	MessageAgentID    string `firestore:"message_agent_id"`
	SessionCookie     string `firestore:"session_cookie"`
	Enabled           bool   `firestore:"enabled"`
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "users"))
}

func userToDocument(u *model.User) *userDocument {
	doc := &userDocument{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if i := u.Integrations.Instantly; i != nil {
		doc.Integrations.Instantly = &instantlyDocument{APIKey: i.APIKey, APIVersion: i.APIVersion, Enabled: i.Enabled}
	}
	if i := u.Integrations.Salesfinity; i != nil {
		doc.Integrations.Salesfinity = &salesfinityDocument{APIKey: i.APIKey, Enabled: i.Enabled}
	}
	if i := u.Integrations.PhantomBuster; i != nil {
		doc.Integrations.PhantomBuster = &phantomBusterDocument{
			APIKey:            i.APIKey,
			ConnectionAgentID: i.ConnectionAgentID,
			MessageAgentID:    i.MessageAgentID,
			SessionCookie:     i.SessionCookie,
			Enabled:           i.Enabled,
		}
	}
	return doc
}

func userToModel(doc *userDocument) *model.User {
	u := &model.User{
		ID:        model.UserID(doc.ID),
		Email:     doc.Email,
		Name:      doc.Name,
		Role:      types.UserRole(doc.Role),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if i := doc.Integrations.Instantly; i != nil {
		u.Integrations.Instantly = &model.InstantlyIntegration{APIKey: i.APIKey, APIVersion: i.APIVersion, Enabled: i.Enabled}
	}
	if i := doc.Integrations.Salesfinity; i != nil {
		u.Integrations.Salesfinity = &model.SalesfinityIntegration{APIKey: i.APIKey, Enabled: i.Enabled}
	}
	if i := doc.Integrations.PhantomBuster; i != nil {
		u.Integrations.PhantomBuster = &model.PhantomBusterIntegration{
			APIKey:            i.APIKey,
			ConnectionAgentID: i.ConnectionAgentID,
			MessageAgentID:    i.MessageAgentID,
			SessionCookie:     i.SessionCookie,
			Enabled:           i.Enabled,
		}
	}
	return u
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, goerr.Wrap(ErrConflict, "user already exists", goerr.V(model.EmailKey, user.Email))
	}

	now := timestamp()
	if user.ID == "" {
		user.ID = model.NewUserID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := userToDocument(user)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, user.ID))
	}
	return userToModel(doc), nil
}

func (r *userRepository) get(ctx context.Context, id model.UserID) (*userDocument, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V(model.UserIDKey, id))
	}
	return &doc, nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return userToModel(doc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.collection().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email", goerr.V(model.EmailKey, email))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user")
	}
	return userToModel(&doc), nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	existing, err := r.get(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = timestamp()

	doc := userToDocument(user)
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V(model.UserIDKey, user.ID))
	}
	return userToModel(doc), nil
}

func (r *userRepository) Delete(ctx context.Context, id model.UserID) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V(model.UserIDKey, id))
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V(model.UserIDKey, snap.Ref.ID))
		}
		users = append(users, userToModel(&doc))
	}
	return users, nil
}
