// Package accounts provides PostgreSQL-backed storage for journal accounts.
package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const accountColumns = `id, display_name, email, secret_hash, focus_areas, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts account and fills in its id and timestamps. A duplicate email
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	focus, err := json.Marshal(account.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("encode focus areas: %w", err)
	}

	query :=
		`INSERT INTO accounts (display_name, email, secret_hash, focus_areas)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		account.DisplayName, account.Email, account.SecretHash, string(focus)).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// UpdateFocusAreas replaces the account's focus-area list wholesale.
func (r *PostgresRepository) UpdateFocusAreas(ctx context.Context, id string, focusAreas []string) (*models.Account, error) {
	focus, err := json.Marshal(focusAreas)
	if err != nil {
		return nil, fmt.Errorf("encode focus areas: %w", err)
	}

	query :=
		`UPDATE accounts SET focus_areas = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, id, string(focus)))
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var focus []byte

	err := row.Scan(&a.ID, &a.DisplayName, &a.Email, &a.SecretHash, &focus, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(focus, &a.FocusAreas); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	if a.FocusAreas == nil {
		a.FocusAreas = []string{}
	}
	return a, nil
}
