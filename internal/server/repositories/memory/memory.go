// Package memory is an in-process RepositoryManager. It keeps everything in
// maps guarded by a mutex, ignores the DBTX it is handed and therefore has no
// transactional rollback. It backs service and HTTP tests and local
// experiments without PostgreSQL.
package memory

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/entries"
	"github.com/google/uuid"
)

type store struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	entries  map[string]storedEntry
	seq      int64
	now      func() time.Time
}

type storedEntry struct {
	entry models.Entry
	seq   int64
}

// Manager implements repomanager.RepositoryManager in memory.
type Manager struct {
	s *store
}

func NewManager() *Manager {
	return &Manager{s: &store{
		accounts: make(map[string]models.Account),
		entries:  make(map[string]storedEntry),
		now:      func() time.Time { return time.Now().UTC() },
	}}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Accounts(dbx.DBTX) accounts.Repository { return (*accountRepo)(m.s) }

func (m *Manager) Entries(dbx.DBTX) entries.Repository { return (*entryRepo)(m.s) }

type accountRepo store

func (r *accountRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt
	a.FocusAreas = slices.Clone(a.FocusAreas)
	r.accounts[a.ID] = *a
	return cloneAccount(*a), nil
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneAccount(a), nil
}

func (r *accountRepo) UpdateFocusAreas(_ context.Context, id string, focusAreas []string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.FocusAreas = slices.Clone(focusAreas)
	a.UpdatedAt = r.now()
	r.accounts[id] = a
	return cloneAccount(a), nil
}

func cloneAccount(a models.Account) *models.Account {
	a.FocusAreas = slices.Clone(a.FocusAreas)
	if a.FocusAreas == nil {
		a.FocusAreas = []string{}
	}
	return &a
}

type entryRepo store

func (r *entryRepo) Create(_ context.Context, e *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[e.Owner]; !ok {
		return nil, common.ErrorNotFound
	}
	r.seq++
	e.ID = uuid.NewString()
	e.CreatedAt = r.now()
	e.UpdatedAt = e.CreatedAt
	r.entries[e.ID] = storedEntry{entry: *cloneEntry(*e), seq: r.seq}
	return cloneEntry(*e), nil
}

func (r *entryRepo) GetForOwner(_ context.Context, owner, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	se, ok := r.entries[id]
	if !ok || se.entry.Owner != owner {
		return nil, common.ErrorNotFound
	}
	return cloneEntry(se.entry), nil
}

func (r *entryRepo) UpdateForOwner(_ context.Context, e *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	se, ok := r.entries[e.ID]
	if !ok || se.entry.Owner != e.Owner {
		return nil, common.ErrorNotFound
	}
	updated := *cloneEntry(*e)
	updated.CreatedAt = se.entry.CreatedAt
	updated.UpdatedAt = r.now()
	se.entry = updated
	r.entries[e.ID] = se
	return cloneEntry(updated), nil
}

func (r *entryRepo) DeleteForOwner(_ context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	se, ok := r.entries[id]
	if !ok || se.entry.Owner != owner {
		return common.ErrorNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *entryRepo) ListByOwner(_ context.Context, owner string, limit int) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []storedEntry
	for _, se := range r.entries {
		if se.entry.Owner == owner {
			owned = append(owned, se)
		}
	}
	slices.SortFunc(owned, func(a, b storedEntry) int {
		if c := b.entry.Date.Time().Compare(a.entry.Date.Time()); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})
	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}

	out := make([]*models.Entry, 0, len(owned))
	for _, se := range owned {
		out = append(out, cloneEntry(se.entry))
	}
	return out, nil
}

func cloneEntry(e models.Entry) *models.Entry {
	e.FocusAreas = slices.Clone(e.FocusAreas)
	e.Evening.Learnings = slices.Clone(e.Evening.Learnings)
	if e.FocusAreas == nil {
		e.FocusAreas = []string{}
	}
	if e.Evening.Learnings == nil {
		e.Evening.Learnings = []string{}
	}
	return &e
}
