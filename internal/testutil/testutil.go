package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vytor/loginlab/internal/db"
)

// OpenTestDB creates a private in-memory SQLite database with all migrations
// applied. It is closed when the test ends.
func OpenTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// NewTestDB is OpenTestDB for code that takes a plain *sql.DB.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return OpenTestDB(t).DB
}
