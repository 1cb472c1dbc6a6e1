package interfaces

import "github.com/m-mizutani/goerr/v2"

// Errors shared by every repository backend
var (
	ErrNotFound = goerr.New("not found")
	ErrConflict = goerr.New("conflict")
)

// Repository defines the interface for data persistence
type Repository interface {
	Lead() LeadRepository
	Campaign() CampaignRepository
	Sequence() SequenceRepository
	Outreach() OutreachRepository
	User() UserRepository

	Close() error
}
