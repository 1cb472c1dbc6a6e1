package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
)

type sequenceRepository struct {
	mu        sync.RWMutex
	sequences map[model.SequenceID]*model.Sequence
}

func newSequenceRepository() *sequenceRepository {
	return &sequenceRepository{
		sequences: make(map[model.SequenceID]*model.Sequence),
	}
}

func (r *sequenceRepository) Create(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copySequence(sequence)
	if created.ID == "" {
		created.ID = model.NewSequenceID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.sequences[created.ID] = created
	return copySequence(created), nil
}

func (r *sequenceRepository) Get(ctx context.Context, id model.SequenceID) (*model.Sequence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sequence, exists := r.sequences[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "sequence not found", goerr.V(model.SequenceIDKey, id))
	}
	return copySequence(sequence), nil
}

func (r *sequenceRepository) Update(ctx context.Context, sequence *model.Sequence) (*model.Sequence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sequences[sequence.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "sequence not found", goerr.V(model.SequenceIDKey, sequence.ID))
	}

	updated := copySequence(sequence)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.sequences[updated.ID] = updated
	return copySequence(updated), nil
}

func (r *sequenceRepository) Delete(ctx context.Context, id model.SequenceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sequences[id]; !exists {
		return goerr.Wrap(ErrNotFound, "sequence not found", goerr.V(model.SequenceIDKey, id))
	}
	delete(r.sequences, id)
	return nil
}

func (r *sequenceRepository) ListByCampaign(ctx context.Context, campaignID model.CampaignID) ([]*model.Sequence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sequences []*model.Sequence
	for _, sequence := range r.sequences {
		if sequence.CampaignID == campaignID {
			sequences = append(sequences, copySequence(sequence))
		}
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].CreatedAt.Before(sequences[j].CreatedAt)
	})
	return sequences, nil
}
