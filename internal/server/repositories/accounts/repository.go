package accounts

import (
	"context"

	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdateFocusAreas(ctx context.Context, id string, focusAreas []string) (*models.Account, error)
}
