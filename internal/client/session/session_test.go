package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
	"github.com/dmitrijs2005/dailyjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyjournal/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	token    string
	loadErr  error
	clearErr error
}

func (m *memStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.loadErr
}

func (m *memStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.token = ""
	return nil
}

func (m *memStore) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

type fakeAuth struct {
	meErr     error
	loginErr  error
	beforeRet func()
	token     string
}

func (f *fakeAuth) result() *models.AuthResult {
	if f.beforeRet != nil {
		f.beforeRet()
	}
	tok := f.token
	if tok == "" {
		tok = "fresh-token"
	}
	return &models.AuthResult{Account: models.Account{ID: "acc-1", Email: "a@b.c"}, Token: tok}
}

func (f *fakeAuth) Register(context.Context, string, string, []byte) (*models.AuthResult, error) {
	return f.result(), nil
}

func (f *fakeAuth) Login(context.Context, string, []byte) (*models.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.result(), nil
}

func (f *fakeAuth) Me(context.Context, string) (*models.Account, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &models.Account{ID: "acc-1", Email: "a@b.c"}, nil
}

func TestNew_StartsLoading(t *testing.T) {
	s := New(&memStore{}, nil)
	assert.Equal(t, StateLoading, s.Snapshot().State)

	tok, _ := s.Token()
	assert.Empty(t, tok)
	assert.Equal(t, "loading", StateLoading.String())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token", func(t *testing.T) {
		s := New(&memStore{}, nil)
		require.NoError(t, s.Restore(ctx, &fakeAuth{}))
		assert.Equal(t, StateAnonymous, s.Snapshot().State)
	})

	t.Run("valid token", func(t *testing.T) {
		s := New(&memStore{token: "stored"}, nil)
		require.NoError(t, s.Restore(ctx, &fakeAuth{}))

		snap := s.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		assert.Equal(t, "acc-1", snap.Account.ID)
		tok, _ := s.Token()
		assert.Equal(t, "stored", tok)
	})

	t.Run("rejected token is discarded", func(t *testing.T) {
		store := &memStore{token: "stale"}
		s := New(store, nil)
		require.NoError(t, s.Restore(ctx, &fakeAuth{meErr: &client.APIError{Status: http.StatusUnauthorized}}))

		assert.Equal(t, StateAnonymous, s.Snapshot().State)
		assert.Empty(t, store.get())
	})

	t.Run("server unreachable keeps token", func(t *testing.T) {
		store := &memStore{token: "maybe"}
		s := New(store, nil)
		err := s.Restore(ctx, &fakeAuth{meErr: client.ErrUnavailable})

		assert.ErrorIs(t, err, client.ErrUnavailable)
		assert.Equal(t, StateAnonymous, s.Snapshot().State)
		assert.Equal(t, "maybe", store.get())
	})

	t.Run("store failure", func(t *testing.T) {
		s := New(&memStore{loadErr: errors.New("disk")}, nil)
		assert.Error(t, s.Restore(ctx, &fakeAuth{}))
		assert.Equal(t, StateAnonymous, s.Snapshot().State)
	})
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)
	require.NoError(t, s.Restore(ctx, &fakeAuth{}))

	require.NoError(t, s.Login(ctx, &fakeAuth{}, "a@b.c", []byte("pw")))
	assert.Equal(t, StateAuthenticated, s.Snapshot().State)
	assert.Equal(t, "fresh-token", store.get())

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, store.get())
	tok, _ := s.Token()
	assert.Empty(t, tok)
}

func TestLogout_StoreFailureStillEndsSession(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)
	require.NoError(t, s.Login(ctx, &fakeAuth{}, "a@b.c", []byte("pw")))
	before := s.Snapshot().Generation

	store.clearErr = errors.New("disk full")
	err := s.Logout(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	snap := s.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.Account)
	assert.Greater(t, snap.Generation, before)
	tok, _ := s.Token()
	assert.Empty(t, tok)
}

func TestLogin_FailureLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	s := New(&memStore{}, nil)
	require.NoError(t, s.Restore(ctx, &fakeAuth{}))
	before := s.Snapshot()

	err := s.Login(ctx, &fakeAuth{loginErr: client.ErrUnauthorized}, "a@b.c", []byte("bad"))
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, before, s.Snapshot())
}

func TestRegister_Authenticates(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)

	require.NoError(t, s.Register(ctx, &fakeAuth{token: "reg-token"}, "Alice", "a@b.c", []byte("pw")))
	assert.Equal(t, StateAuthenticated, s.Snapshot().State)
	assert.Equal(t, "reg-token", store.get())
}

func TestInvalidate_OnlyCurrentGeneration(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)

	require.NoError(t, s.Login(ctx, &fakeAuth{token: "first"}, "a@b.c", nil))
	_, oldGen := s.Token()

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Login(ctx, &fakeAuth{token: "second"}, "a@b.c", nil))

	// a late 401 from the first session
	s.Invalidate(ctx, oldGen)
	tok, gen := s.Token()
	assert.Equal(t, "second", tok)
	assert.Equal(t, StateAuthenticated, s.Snapshot().State)

	s.Invalidate(ctx, gen)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, store.get())
}

func TestLogin_SupersededByLogout(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)
	require.NoError(t, s.Login(ctx, &fakeAuth{token: "first"}, "a@b.c", nil))

	// logout lands while the second login is in flight
	auth := &fakeAuth{token: "late", beforeRet: func() { require.NoError(t, s.Logout(ctx)) }}
	err := s.Login(ctx, auth, "a@b.c", nil)

	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, store.get())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New(&memStore{}, nil)

	ch, unsubscribe := s.Subscribe()
	require.NoError(t, s.Restore(ctx, &fakeAuth{}))
	require.NoError(t, s.Login(ctx, &fakeAuth{}, "a@b.c", nil))

	// only the latest snapshot is buffered
	select {
	case snap := <-ch:
		assert.Equal(t, StateAuthenticated, snap.State)
		assert.Equal(t, uint64(2), snap.Generation)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, s.Logout(ctx))
}

func TestSnapshot_AccountIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New(&memStore{}, nil)
	require.NoError(t, s.Login(ctx, &fakeAuth{}, "a@b.c", nil))

	snap := s.Snapshot()
	snap.Account.Email = "changed"
	assert.Equal(t, "a@b.c", s.Snapshot().Account.Email)

	s.SetAccount(snap.Generation, &models.Account{ID: "acc-1", Email: "new@b.c"})
	assert.Equal(t, "new@b.c", s.Snapshot().Account.Email)

	s.SetAccount(snap.Generation+1, &models.Account{ID: "acc-1", Email: "ignored"})
	assert.Equal(t, "new@b.c", s.Snapshot().Account.Email)
}

func TestServerRejection_ForcesAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/auth/login" {
			_, _ = w.Write([]byte(`{"account":{"id":"acc-1"},"token":"tok"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := &memStore{}
	s := New(store, nil)
	api, err := client.New(srv.URL+"/api", time.Second, s, nil)
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, api, "a@b.c", []byte("pw")))
	require.Equal(t, StateAuthenticated, s.Snapshot().State)

	_, err = api.ListEntries(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, store.get())
}

func TestMetadataTokenStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ts := NewMetadataTokenStore(metadata.NewSQLiteRepository(db))

	tok, err := ts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.Save(ctx, "abc"))
	tok, err = ts.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, ts.Clear(ctx))
	tok, err = ts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}
