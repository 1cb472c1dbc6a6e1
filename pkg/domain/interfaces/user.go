package interfaces

import (
	"context"

	"github.com/secmon-lab/reachout/pkg/domain/model"
)

// UserRepository defines the interface for User data persistence
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Get(ctx context.Context, id model.UserID) (*model.User, error)

	// GetByEmail returns nil without error when no user matches
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	Update(ctx context.Context, user *model.User) (*model.User, error)
	Delete(ctx context.Context, id model.UserID) error
	List(ctx context.Context) ([]*model.User, error)
}
