package entries

import (
	"context"

	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

// Repository stores journal entries. Every method that addresses an existing
// entry takes the owner as well as the id, and treats an entry owned by
// someone else exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetForOwner(ctx context.Context, owner, id string) (*models.Entry, error)
	UpdateForOwner(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	DeleteForOwner(ctx context.Context, owner, id string) error
	ListByOwner(ctx context.Context, owner string, limit int) ([]*models.Entry, error)
}
