package game

import "context"

// Repository exposes game persistence for pool and playoff fixtures.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Create(ctx context.Context, items ...Game) error
	Update(ctx context.Context, item Game) error
}
