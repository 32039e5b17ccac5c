package migrations

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_AreEmbeddedInOrder(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_accounts.sql", "00002_journal_entries.sql"}, names)
}

// Rows inserted by one import transaction get distinct, ordered creation times.
func TestJournalEntries_PerRowTimestamps(t *testing.T) {
	raw, err := fs.ReadFile(Migrations, "00002_journal_entries.sql")
	require.NoError(t, err)
	ddl := string(raw)

	assert.Regexp(t, regexp.MustCompile(`created_at\s+TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp\(\)`), ddl)
	assert.Regexp(t, regexp.MustCompile(`\(user_id, entry_date DESC, created_at DESC, id DESC\)`), ddl)
	assert.Regexp(t, regexp.MustCompile(`REFERENCES accounts \(id\) ON DELETE CASCADE`), ddl)
}
