package pickup

import (
	"context"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 200
	MaxListLimit     = 500
)

// ListFilter narrows an admin listing. Zero values mean no filter.
type ListFilter struct {
	Query  string
	Status Status
	Limit  int
}

type Store interface {
	Create(ctx context.Context, r Request) (Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, error)
	Update(ctx context.Context, id uuid.UUID, status Status, memo *string) error
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status Status) (int64, error)
}
