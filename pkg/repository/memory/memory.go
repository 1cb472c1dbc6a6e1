package memory

import (
	"github.com/secmon-lab/reachout/pkg/domain/interfaces"
)

// ErrNotFound and ErrConflict are shared with the other backends so callers can match either
var (
	ErrNotFound = interfaces.ErrNotFound
	ErrConflict = interfaces.ErrConflict
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository backend for development and tests
type Memory struct {
	lead     *leadRepository
	campaign *campaignRepository
	sequence *sequenceRepository
	outreach *outreachRepository
	user     *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		lead:     newLeadRepository(),
		campaign: newCampaignRepository(),
		sequence: newSequenceRepository(),
		outreach: newOutreachRepository(),
		user:     newUserRepository(),
	}
}

func (m *Memory) Lead() interfaces.LeadRepository {
	return m.lead
}

func (m *Memory) Campaign() interfaces.CampaignRepository {
	return m.campaign
}

func (m *Memory) Sequence() interfaces.SequenceRepository {
	return m.sequence
}

func (m *Memory) Outreach() interfaces.OutreachRepository {
	return m.outreach
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
