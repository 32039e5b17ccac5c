package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dailyjournal/internal/server/auth"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
)

var testArgon2 = auth.Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	repos    *memory.Manager
	cfg      *config.Config
	tokens   *auth.TokenManager
	accounts *AccountService
	entries  *EntryService
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	for _, m := range mutate {
		m(cfg)
	}

	hasher, err := auth.NewHasher(nil, testArgon2)
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		mock:   mock,
		repos:  memory.NewManager(),
		cfg:    cfg,
		tokens: auth.NewTokenManager([]byte(cfg.SecretKey), time.Hour, nil),
	}
	f.accounts = NewAccountService(db, f.repos, hasher, f.tokens, cfg)
	f.entries, err = NewEntryService(db, f.repos, cfg, nil)
	require.NoError(t, err)
	return f
}
