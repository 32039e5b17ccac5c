package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu          sync.Mutex
	token       string
	generation  uint64
	invalidated []uint64
}

func (s *fakeSession) Token() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.generation
}

func (s *fakeSession) Invalidate(_ context.Context, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, generation)
}

type recorded struct {
	method, path, auth, body string
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), seen...)
	}
}

func newClient(t *testing.T, srv *httptest.Server, s Session) *Client {
	t.Helper()
	c, err := New(srv.URL+"/api", 2*time.Second, s, nil)
	require.NoError(t, err)
	return c
}

func TestLogin_SendsCredentialsWithoutToken(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"account":{"id":"acc-1","email":"a@b.c"},"token":"tok"}`)
	c := newClient(t, srv, &fakeSession{token: "old"})

	res, err := c.Login(context.Background(), "a@b.c", []byte("pw123456"))
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "acc-1", res.Account.ID)

	require.Len(t, seen(), 1)
	got := seen()[0]
	assert.Equal(t, "/api/auth/login", got.path)
	assert.Empty(t, got.auth)
	assert.JSONEq(t, `{"email":"a@b.c","password":"pw123456"}`, got.body)
}

func TestProtectedCall_UsesSessionToken(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `[{"id":"e1","date":"2024-05-01","top3Goals":["a","",""]}]`)
	c := newClient(t, srv, &fakeSession{token: "tok-7", generation: 7})

	list, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-05-01", list[0].Date)

	assert.Equal(t, "Bearer tok-7", seen()[0].auth)
	assert.Equal(t, "/api/entries", seen()[0].path)
}

func TestProtectedCall_NoTokenSkipsRequest(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `[]`)
	c := newClient(t, srv, &fakeSession{})

	_, err := c.ListEntries(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, seen())
}

func TestProtectedCall_401InvalidatesObservedGeneration(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"error":"unauthenticated"}`)
	s := &fakeSession{token: "tok", generation: 3}
	c := newClient(t, srv, s)

	_, err := c.GetEntry(context.Background(), "e1")
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unauthenticated", apiErr.Message)
	assert.Equal(t, []uint64{3}, s.invalidated)
}

func TestMe_DoesNotInvalidateSession(t *testing.T) {
	srv, seen := newServer(t, http.StatusUnauthorized, `{"error":"unauthenticated"}`)
	s := &fakeSession{token: "tok", generation: 1}
	c := newClient(t, srv, s)

	_, err := c.Me(context.Background(), "stored-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, s.invalidated)
	assert.Equal(t, "Bearer stored-token", seen()[0].auth)
}

func TestErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusNotFound, `{"error":"not found"}`, ErrNotFound},
		{http.StatusConflict, `{"error":"email already registered"}`, ErrConflict},
		{http.StatusBadRequest, `{"error":"validation error","fields":{"date":"is required"}}`, ErrInvalidInput},
		{http.StatusServiceUnavailable, `{"error":"export archive not configured"}`, ErrUnavailable},
	} {
		srv, _ := newServer(t, tc.status, tc.body)
		c := newClient(t, srv, &fakeSession{token: "tok"})

		_, err := c.CreateEntry(context.Background(), &models.EntryInput{Date: "2024-01-01"})
		assert.ErrorIs(t, err, tc.want, tc.status)
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  map[string]string{"top3Goals": "is required", "date": "is required"},
	}
	assert.Equal(t, "400: validation error (date: is required, top3Goals: is required)", err.Error())

	bulk := &APIError{Status: 400, Message: "validation error", Items: []ItemError{{Index: 2, Fields: map[string]string{"date": "bad"}}}}
	assert.Equal(t, "400: validation error; item 2: date: bad", bulk.Error())

	assert.Equal(t, "500: Internal Server Error", (&APIError{Status: 500}).Error())
	assert.Nil(t, (&APIError{Status: 500}).Unwrap())
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(addr+"/api", time.Second, &fakeSession{token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@b.c", []byte("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_HitsServerRoot(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"status":"ok"}`)
	c := newClient(t, srv, nil)

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, "/healthz", seen()[0].path)
}

func TestImportExportArchive(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"insertedCount":1,"insertedIds":["n1"]}`)
	c := newClient(t, srv, &fakeSession{token: "tok"})

	res, err := c.Import(context.Background(), json.RawMessage(`[{"date":"2024-01-01","top3Goals":[]}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.InsertedCount)
	assert.Equal(t, "/api/entries/import", seen()[0].path)
	assert.JSONEq(t, `[{"date":"2024-01-01","top3Goals":[]}]`, seen()[0].body)

	srv2, seen2 := newServer(t, http.StatusOK, `[{"id":"e1"}]`)
	c2 := newClient(t, srv2, &fakeSession{token: "tok"})
	raw, err := c2.Export(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e1"}]`, string(raw))
	assert.Equal(t, "/api/entries/export", seen2()[0].path)

	srv3, seen3 := newServer(t, http.StatusCreated, `{"key":"users/a/exports/x.json","url":"http://s3/x"}`)
	c3 := newClient(t, srv3, &fakeSession{token: "tok"})
	arc, err := c3.ArchiveExport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://s3/x", arc.URL)
	assert.Equal(t, http.MethodPost, seen3()[0].method)
	assert.Equal(t, "/api/entries/export/archive", seen3()[0].path)
}

func TestDeleteAndUpdateEntry(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"success":true}`)
	c := newClient(t, srv, &fakeSession{token: "tok"})

	require.NoError(t, c.DeleteEntry(context.Background(), "e1"))
	assert.Equal(t, recorded{http.MethodDelete, "/api/entries/e1", "Bearer tok", ""}, seen()[0])

	srv2, seen2 := newServer(t, http.StatusOK, `{"id":"e1","date":"2024-01-02"}`)
	c2 := newClient(t, srv2, &fakeSession{token: "tok"})
	e, err := c2.UpdateEntry(context.Background(), "e1", &models.EntryInput{Date: "2024-01-02", Top3Goals: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", e.Date)
	assert.Equal(t, http.MethodPut, seen2()[0].method)
}
