// Package session holds the CLI's authentication state: Loading until the
// persisted token has been checked, then Anonymous or Authenticated.
//
// Every transition bumps a generation counter. Work that started under one
// generation (a login, a restore, a protected request) can only affect the
// session if the generation is unchanged when it completes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dailyjournal/internal/client/client"
	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrSuperseded is returned when the session changed while a login, register
// or restore was in flight; its result was discarded.
var ErrSuperseded = errors.New("session changed during request")

// Snapshot is a consistent view of the session.
type Snapshot struct {
	State      State
	Account    *models.Account
	Generation uint64
}

// Authenticator is the part of the API the session drives itself.
type Authenticator interface {
	Register(ctx context.Context, displayName, email string, password []byte) (*models.AuthResult, error)
	Login(ctx context.Context, email string, password []byte) (*models.AuthResult, error)
	Me(ctx context.Context, token string) (*models.Account, error)
}

// TokenStore persists the bearer token between runs. Load returns "" when
// nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type Session struct {
	mu          sync.Mutex
	state       State
	token       string
	account     *models.Account
	generation  uint64
	store       TokenStore
	log         logging.Logger
	subscribers map[chan Snapshot]struct{}
}

func New(store TokenStore, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		state:       StateLoading,
		store:       store,
		log:         log.With("module", "session"),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var acc *models.Account
	if s.account != nil {
		cp := *s.account
		acc = &cp
	}
	return Snapshot{State: s.state, Account: acc, Generation: s.generation}
}

// Token returns the bearer token while Authenticated, "" otherwise, along with
// the current generation.
func (s *Session) Token() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return "", s.generation
	}
	return s.token, s.generation
}

// Restore checks the persisted token with the server. A rejected token is
// deleted. When the server cannot be reached the session becomes Anonymous but
// the token is kept, so a later Restore can retry it.
func (s *Session) Restore(ctx context.Context, a Authenticator) error {
	gen := s.currentGeneration()

	token, err := s.store.Load(ctx)
	if err != nil {
		s.becomeAnonymous(gen)
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		s.becomeAnonymous(gen)
		return nil
	}

	account, err := a.Me(ctx, token)
	switch {
	case err == nil:
		return s.becomeAuthenticated(ctx, gen, token, account, false)
	case errors.Is(err, client.ErrUnauthorized):
		s.log.Info(ctx, "stored token rejected")
		if s.becomeAnonymous(gen) {
			if cerr := s.store.Clear(ctx); cerr != nil {
				return fmt.Errorf("clear token: %w", cerr)
			}
		}
		return nil
	default:
		s.log.Warn(ctx, "could not restore session", "error", err)
		s.becomeAnonymous(gen)
		return err
	}
}

func (s *Session) Register(ctx context.Context, a Authenticator, displayName, email string, password []byte) error {
	gen := s.currentGeneration()
	res, err := a.Register(ctx, displayName, email, password)
	if err != nil {
		return err
	}
	return s.becomeAuthenticated(ctx, gen, res.Token, &res.Account, true)
}

func (s *Session) Login(ctx context.Context, a Authenticator, email string, password []byte) error {
	gen := s.currentGeneration()
	res, err := a.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.becomeAuthenticated(ctx, gen, res.Token, &res.Account, true)
}

// Logout forgets the token locally. The token itself stays valid on the
// server until it expires. The session is Anonymous afterwards even when the
// persisted copy could not be removed; that failure is returned.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transitionLocked(StateAnonymous, "", nil)
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Invalidate ends the session after the server rejected its token, provided
// the session is still the one of the given generation.
func (s *Session) Invalidate(ctx context.Context, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateAuthenticated {
		return
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "could not clear token", "error", err)
	}
	s.transitionLocked(StateAnonymous, "", nil)
}

// SetAccount replaces the cached profile, e.g. after its focus areas changed.
func (s *Session) SetAccount(generation uint64, account *models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.state != StateAuthenticated || account == nil {
		return
	}
	cp := *account
	s.account = &cp
}

// Subscribe returns a channel that receives the latest snapshot after every
// transition. Only the most recent undelivered snapshot is kept. The returned
// function unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Session) becomeAuthenticated(ctx context.Context, gen uint64, token string, account *models.Account, persist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return ErrSuperseded
	}
	if persist {
		if err := s.store.Save(ctx, token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
	}
	cp := *account
	s.transitionLocked(StateAuthenticated, token, &cp)
	return nil
}

// becomeAnonymous reports whether the transition happened.
func (s *Session) becomeAnonymous(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.transitionLocked(StateAnonymous, "", nil)
	return true
}

func (s *Session) transitionLocked(state State, token string, account *models.Account) {
	s.state = state
	s.token = token
	s.account = account
	s.generation++

	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
