// Package entries provides PostgreSQL-backed storage for journal entries.
// All statements are scoped by owner.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
)

const entryColumns = `id, user_id, entry_date, top3_goals, focus_areas, intention, midday, evening, stuck_to_plan, created_at, updated_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// jsonColumns holds the JSONB-encoded parts of an entry.
type jsonColumns struct {
	goals, focus, midday, evening string
}

func encodeColumns(e *models.Entry) (jsonColumns, error) {
	var c jsonColumns
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&c.goals, e.Top3Goals},
		{&c.focus, e.FocusAreas},
		{&c.midday, e.Midday},
		{&c.evening, e.Evening},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return c, fmt.Errorf("encode entry: %w", err)
		}
		*f.dst = string(b)
	}
	return c, nil
}

// Create inserts entry and fills in its id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	c, err := encodeColumns(entry)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO journal_entries (user_id, entry_date, top3_goals, focus_areas, intention, midday, evening, stuck_to_plan)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		entry.Owner, entry.Date, c.goals, c.focus, entry.Intention, c.midday, c.evening, entry.StuckToPlan).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) GetForOwner(ctx context.Context, owner, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1 AND user_id = $2`
	return scanEntry(r.db.QueryRowContext(ctx, query, id, owner))
}

// UpdateForOwner replaces the mutable fields of the entry identified by
// entry.ID and entry.Owner. id, owner and created_at are never written.
func (r *PostgresRepository) UpdateForOwner(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	c, err := encodeColumns(entry)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE journal_entries
		 SET entry_date = $3, top3_goals = $4, focus_areas = $5, intention = $6,
		     midday = $7, evening = $8, stuck_to_plan = $9, updated_at = clock_timestamp()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + entryColumns

	return scanEntry(r.db.QueryRowContext(ctx, query,
		entry.ID, entry.Owner, entry.Date, c.goals, c.focus, entry.Intention, c.midday, c.evening, entry.StuckToPlan))
}

func (r *PostgresRepository) DeleteForOwner(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListByOwner returns the owner's entries, newest date first and, within a
// date, most recently created first. id breaks the remaining ties. A limit
// <= 0 returns every entry.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		 WHERE user_id = $1
		 ORDER BY entry_date DESC, created_at DESC, id DESC`
	args := []any{owner}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	e := &models.Entry{}
	var goals, focus, midday, evening []byte

	err := row.Scan(&e.ID, &e.Owner, &e.Date, &goals, &focus, &e.Intention,
		&midday, &evening, &e.StuckToPlan, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, f := range []struct {
		src []byte
		dst any
	}{
		{goals, &e.Top3Goals},
		{focus, &e.FocusAreas},
		{midday, &e.Midday},
		{evening, &e.Evening},
	} {
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", e.ID, err)
		}
	}
	if e.FocusAreas == nil {
		e.FocusAreas = []string{}
	}
	if e.Evening.Learnings == nil {
		e.Evening.Learnings = []string{}
	}
	return e, nil
}
