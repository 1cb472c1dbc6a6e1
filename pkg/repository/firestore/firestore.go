package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound and ErrConflict are shared with the other backends so callers can match either
var (
	ErrNotFound = interfaces.ErrNotFound
	ErrConflict = interfaces.ErrConflict
)

type Firestore struct {
	client   *firestore.Client
	lead     *leadRepository
	campaign *campaignRepository
	sequence *sequenceRepository
	outreach *outreachRepository
	user     *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. for isolated test runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.lead.collectionPrefix = prefix
		f.campaign.collectionPrefix = prefix
		f.sequence.collectionPrefix = prefix
		f.outreach.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
	}
}

// New connects to the Firestore database. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		lead:     &leadRepository{client: client},
		campaign: &campaignRepository{client: client},
		sequence: &sequenceRepository{client: client},
		outreach: &outreachRepository{client: client},
		user:     &userRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Lead() interfaces.LeadRepository {
	return f.lead
}

func (f *Firestore) Campaign() interfaces.CampaignRepository {
	return f.campaign
}

func (f *Firestore) Sequence() interfaces.SequenceRepository {
	return f.sequence
}

func (f *Firestore) Outreach() interfaces.OutreachRepository {
	return f.outreach
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// CollectionName returns the Firestore collection name for name under prefix
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func toStrings[T ~string](ids []T) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func fromStrings[T ~string](ss []string) []T {
	if ss == nil {
		return nil
	}
	out := make([]T, len(ss))
	for i, s := range ss {
		out[i] = T(s)
	}
	return out
}

// paginate applies offset and limit to a query
func paginate(q firestore.Query, offset, limit int) firestore.Query {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// timestamp returns the current UTC time at the precision Firestore stores
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
