package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenManager issues and verifies stateless HS256 session tokens whose
// subject is an account id. Nothing is stored server-side, so there is no
// revocation: a token is valid until it expires.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager signing with secret. A nil now means
// time.Now; a non-positive ttl means DefaultTokenTTL.
func NewTokenManager(secret []byte, ttl time.Duration, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: secret, ttl: ttl, now: now}
}

// TTL reports the validity period of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue returns a signed token for accountID with iat=now and exp=now+TTL.
func (m *TokenManager) Issue(accountID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns its subject. Errors are one of common.ErrTokenMalformed,
// common.ErrInvalidSignature, common.ErrTokenExpired or common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "", common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
