package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/client/config"
	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
	"github.com/dmitrijs2005/dailyjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyjournal/internal/client/session"
	"github.com/dmitrijs2005/dailyjournal/internal/client/storage"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
)

// API is the part of the journal API the CLI uses.
type API interface {
	session.Authenticator
	Ping(ctx context.Context) error
	UpdateFocusAreas(ctx context.Context, labels []string) (*models.Account, error)
	ListEntries(ctx context.Context) ([]models.Entry, error)
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	CreateEntry(ctx context.Context, in *models.EntryInput) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id string, in *models.EntryInput) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	Export(ctx context.Context) (json.RawMessage, error)
	Import(ctx context.Context, data json.RawMessage) (*models.ImportResult, error)
	ArchiveExport(ctx context.Context) (*models.ArchiveResult, error)
}

type App struct {
	config  *config.Config
	db      *sql.DB
	session *session.Session
	api     API
	http    *http.Client
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	// set while a user-initiated logout runs, so the session watcher stays quiet
	loggingOut atomic.Bool
}

// NewApp opens the local state database and wires the session and API client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, c.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing state database: %w", err)
	}

	sess := session.New(session.NewMetadataTokenStore(metadata.NewSQLiteRepository(db)), log)
	api, err := client.New(c.ServerEndpointAddr, c.RequestTimeout, sess, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := newApp(c, sess, api, log, in, out)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, sess *session.Session, api API, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config:  c,
		session: sess,
		api:     api,
		http:    &http.Client{Timeout: c.RequestTimeout},
		log:     log.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     &lockedWriter{w: out},
	}
}

// Run restores the saved session and serves commands until EOF, "exit" or
// ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.db != nil {
		defer a.db.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Daily journal CLI (type 'help' for commands)")
	a.restore(ctx)

	updates, unsubscribe := a.session.Subscribe()
	defer unsubscribe()
	go a.watchSession(ctx, updates, a.session.Snapshot().State)

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) restore(ctx context.Context) {
	err := a.session.Restore(ctx, a.api)
	switch {
	case err == nil:
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server unavailable; your saved login was kept. Use 'reconnect' to retry.")
	default:
		a.println("Could not restore session:", describe(err))
	}
	if snap := a.session.Snapshot(); snap.State == session.StateAuthenticated {
		a.println("Welcome back,", displayName(snap.Account))
	}
}

// watchSession reports sessions that end without a logout command, i.e. when
// the server rejects the token mid-use.
func (a *App) watchSession(ctx context.Context, updates <-chan session.Snapshot, prev session.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if prev == session.StateAuthenticated && snap.State == session.StateAnonymous && !a.loggingOut.Load() {
				a.println("Your session has ended. Please log in again.")
			}
			prev = snap.State
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == session.StateAuthenticated
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	if snap.State == session.StateAuthenticated {
		return displayName(snap.Account)
	}
	return snap.State.String()
}

func displayName(acc *models.Account) string {
	switch {
	case acc == nil:
		return ""
	case acc.DisplayName != "":
		return acc.DisplayName
	}
	return acc.Email
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// lockedWriter serialises writes from the REPL and the session watcher.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// describe turns an API error into a message for the terminal.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, session.ErrSuperseded):
		return "the session changed while the request was running; try again"
	case errors.Is(err, client.ErrUnavailable) && !errors.As(err, &apiErr):
		return "server unavailable"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrUnauthorized):
		return "not logged in; use 'login'"
	}
	return err.Error()
}
