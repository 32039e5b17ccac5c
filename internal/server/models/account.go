package models

import (
	"strings"
	"time"
)

// Account is a registered journal owner. SecretHash never leaves the server.
type Account struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	SecretHash  string    `json:"-"`
	FocusAreas  []string  `json:"focusAreas"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NormalizeEmail returns the login key for an email address: trimmed and
// lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeFocusAreas turns a list of labels into an ordered set: labels are
// trimmed, empty ones dropped and later duplicates removed. The result is
// never nil.
func NormalizeFocusAreas(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
