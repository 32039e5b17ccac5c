package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
)

const userAgent = "journal-cli"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// Session supplies the bearer token for protected calls.
type Session interface {
	// Token returns the current token ("" when signed out) and the session
	// generation it belongs to.
	Token() (token string, generation uint64)
	// Invalidate ends the session of the given generation after the server
	// rejected its token. Calls for an older generation are ignored.
	Invalidate(ctx context.Context, generation uint64)
}

type Client struct {
	base    *url.URL
	http    *http.Client
	session Session
	log     logging.Logger
}

// New returns a Client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:5000/api". timeout bounds every request.
func New(baseURL string, timeout time.Duration, session Session, log logging.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		base:    u,
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log.With("module", "api_client"),
	}, nil
}

// Ping checks that the server answers its health probe. The probe lives at
// the server root, outside the API prefix.
func (c *Client) Ping(ctx context.Context) error {
	u := c.base.ResolveReference(&url.URL{Path: "/healthz"})
	return c.send(ctx, http.MethodGet, u, "", nil, nil)
}

func (c *Client) Register(ctx context.Context, displayName, email string, password []byte) (*models.AuthResult, error) {
	body := map[string]string{"displayName": displayName, "email": email, "password": string(password)}
	var res models.AuthResult
	if err := c.send(ctx, http.MethodPost, c.endpoint("auth", "register"), "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email string, password []byte) (*models.AuthResult, error) {
	body := map[string]string{"email": email, "password": string(password)}
	var res models.AuthResult
	if err := c.send(ctx, http.MethodPost, c.endpoint("auth", "login"), "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me resolves token to its account. It uses token as given rather than the
// session's, so it can validate a token before the session adopts it.
func (c *Client) Me(ctx context.Context, token string) (*models.Account, error) {
	var res struct {
		Account models.Account `json:"account"`
	}
	if err := c.send(ctx, http.MethodGet, c.endpoint("auth", "me"), token, nil, &res); err != nil {
		return nil, err
	}
	return &res.Account, nil
}

func (c *Client) UpdateFocusAreas(ctx context.Context, labels []string) (*models.Account, error) {
	var res struct {
		Account models.Account `json:"account"`
	}
	body := map[string][]string{"focusAreas": labels}
	if err := c.call(ctx, http.MethodPut, c.endpoint("auth", "focus-areas"), body, &res); err != nil {
		return nil, err
	}
	return &res.Account, nil
}

func (c *Client) ListEntries(ctx context.Context) ([]models.Entry, error) {
	var res []models.Entry
	if err := c.call(ctx, http.MethodGet, c.endpoint("entries"), nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var res models.Entry
	if err := c.call(ctx, http.MethodGet, c.endpoint("entries", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateEntry(ctx context.Context, in *models.EntryInput) (*models.Entry, error) {
	var res models.Entry
	if err := c.call(ctx, http.MethodPost, c.endpoint("entries"), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id string, in *models.EntryInput) (*models.Entry, error) {
	var res models.Entry
	if err := c.call(ctx, http.MethodPut, c.endpoint("entries", id), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, c.endpoint("entries", id), nil, nil)
}

// Export returns the raw JSON array of every entry of the signed-in account.
func (c *Client) Export(ctx context.Context) (json.RawMessage, error) {
	var res json.RawMessage
	if err := c.call(ctx, http.MethodGet, c.endpoint("entries", "export"), nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Import sends data, a JSON array of entries or {"entries": [...]}, as is.
func (c *Client) Import(ctx context.Context, data json.RawMessage) (*models.ImportResult, error) {
	var res models.ImportResult
	if err := c.call(ctx, http.MethodPost, c.endpoint("entries", "import"), data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ArchiveExport(ctx context.Context) (*models.ArchiveResult, error) {
	var res models.ArchiveResult
	if err := c.call(ctx, http.MethodPost, c.endpoint("entries", "export", "archive"), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) endpoint(elem ...string) *url.URL {
	return c.base.JoinPath(elem...)
}

// call performs a protected request with the session's current token. A 401
// invalidates the generation the token was read from.
func (c *Client) call(ctx context.Context, method string, u *url.URL, in, out any) error {
	if c.session == nil {
		return ErrUnauthorized
	}
	token, generation := c.session.Token()
	if token == "" {
		return ErrUnauthorized
	}

	err := c.send(ctx, method, u, token, in, out)
	if errors.Is(err, ErrUnauthorized) {
		c.log.Info(ctx, "token rejected by server", "generation", generation)
		c.session.Invalidate(ctx, generation)
	}
	return err
}

func (c *Client) send(ctx context.Context, method string, u *url.URL, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "url", u.Redacted(), "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
