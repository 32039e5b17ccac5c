package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/server/auth"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Account *models.Account `json:"account"`
	Token   string          `json:"token"`
}

// SecretHasher hashes and checks account secrets. *auth.Hasher implements it.
type SecretHasher interface {
	HashSecret(secret string) (string, error)
	Verify(secret, encoded string) bool
	VerifyDummy(secret string) bool
}

type AccountService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	hasher          SecretHasher
	tokens          *auth.TokenManager
	minSecretLength int
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher SecretHasher, tokens *auth.TokenManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:              db,
		repomanager:     m,
		hasher:          hasher,
		tokens:          tokens,
		minSecretLength: cfg.MinSecretLength,
	}
}

// Register creates an account and signs it in. New accounts start with the
// default focus-area vocabulary.
func (s *AccountService) Register(ctx context.Context, displayName, email, secret string) (*AuthResult, error) {
	displayName = strings.TrimSpace(displayName)
	email = models.NormalizeEmail(email)

	verr := common.NewValidationError()
	if displayName == "" {
		verr.Add("displayName", "is required")
	}
	if email == "" {
		verr.Add("email", "is required")
	} else if !strings.Contains(email, "@") {
		verr.Add("email", "must be an email address")
	}
	if utf8.RuneCountInString(secret) < s.minSecretLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", s.minSecretLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	account, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{
		DisplayName: displayName,
		Email:       email,
		SecretHash:  hash,
		FocusAreas:  slices.Clone(models.DefaultFocusAreas),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return s.signIn(account)
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password produce the same error, and both run one hash derivation.
func (s *AccountService) Login(ctx context.Context, email, secret string) (*AuthResult, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(secret)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !s.hasher.Verify(secret, account.SecretHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.signIn(account)
}

func (s *AccountService) signIn(account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Account: account, Token: token}, nil
}

// Resolve returns the account with the given id.
func (s *AccountService) Resolve(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
}

// UpdateFocusAreas replaces the account's focus areas with the normalised
// form of labels.
func (s *AccountService) UpdateFocusAreas(ctx context.Context, accountID string, labels []string) (*models.Account, error) {
	if labels == nil {
		verr := common.NewValidationError()
		verr.Add("focusAreas", "is required")
		return nil, verr
	}
	return s.repomanager.Accounts(s.db).UpdateFocusAreas(ctx, accountID, models.NormalizeFocusAreas(labels))
}
