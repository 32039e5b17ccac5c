// Package httpapi exposes the journal over HTTP with JSON bodies. Routes are
// served both at the root and under /api.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/services"
	"github.com/gorilla/mux"
)

type AccountService interface {
	Register(ctx context.Context, displayName, email, secret string) (*services.AuthResult, error)
	Login(ctx context.Context, email, secret string) (*services.AuthResult, error)
	Resolve(ctx context.Context, accountID string) (*models.Account, error)
	UpdateFocusAreas(ctx context.Context, accountID string, labels []string) (*models.Account, error)
}

type EntryService interface {
	Create(ctx context.Context, owner string, in *models.EntryInput) (*models.Entry, error)
	Get(ctx context.Context, owner, id string) (*models.Entry, error)
	Update(ctx context.Context, owner, id string, in *models.EntryInput) (*models.Entry, error)
	Delete(ctx context.Context, owner, id string) error
	List(ctx context.Context, owner string) ([]*models.Entry, error)
	Export(ctx context.Context, owner string) ([]*models.Entry, error)
	Import(ctx context.Context, owner string, items []json.RawMessage) (*services.ImportResult, error)
	ArchiveExport(ctx context.Context, owner string) (*services.ArchiveResult, error)
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Options struct {
	Accounts    AccountService
	Entries     EntryService
	Tokens      TokenVerifier
	Logger      logging.Logger
	Metrics     *Metrics
	CORSOrigins []string
}

type API struct {
	accounts    AccountService
	entries     EntryService
	tokens      TokenVerifier
	log         logging.Logger
	metrics     *Metrics
	corsOrigins []string
}

func New(o Options) *API {
	log := o.Logger
	if log == nil {
		log = logging.Nop()
	}
	m := o.Metrics
	if m == nil {
		m = NewMetrics()
	}
	return &API{
		accounts:    o.Accounts,
		entries:     o.Entries,
		tokens:      o.Tokens,
		log:         log.With("module", "httpapi"),
		metrics:     m,
		corsOrigins: o.CORSOrigins,
	}
}

// Handler builds the complete HTTP handler: routing plus the request id,
// panic recovery, access log and CORS layers around it.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(a.metrics.Middleware)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	a.mount(r)
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	a.mount(api)

	var h http.Handler = r
	h = a.cors(h)
	h = a.logRequests(h)
	h = a.recoverPanics(h)
	h = requestID(h)
	return h
}

// mount registers the journal routes on r. Everything except register and
// login sits on a subrouter guarded by authenticate.
func (a *API) mount(r *mux.Router) {
	r.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(a.authenticate)

	protected.HandleFunc("/auth/me", a.me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/focus-areas", a.updateFocusAreas).Methods(http.MethodPut)

	// fixed paths before /entries/{id}
	protected.HandleFunc("/entries/export", a.exportEntries).Methods(http.MethodGet)
	protected.HandleFunc("/entries/export/archive", a.archiveExport).Methods(http.MethodPost)
	protected.HandleFunc("/entries/import", a.importEntries).Methods(http.MethodPost)
	protected.HandleFunc("/entries", a.listEntries).Methods(http.MethodGet)
	protected.HandleFunc("/entries", a.createEntry).Methods(http.MethodPost)
	protected.HandleFunc("/entries/{id}", a.getEntry).Methods(http.MethodGet)
	protected.HandleFunc("/entries/{id}", a.updateEntry).Methods(http.MethodPut)
	protected.HandleFunc("/entries/{id}", a.deleteEntry).Methods(http.MethodDelete)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
