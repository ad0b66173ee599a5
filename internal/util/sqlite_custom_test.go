package util

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestCaseFold(t *testing.T) {
	RegisterSQLiteFunctions()
	// Registering twice must not panic.
	RegisterSQLiteFunctions()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	t.Run("Unicode", func(t *testing.T) {
		var folded string
		require.NoError(t, db.QueryRow("SELECT casefold(?)", "ÉMILE Zola").Scan(&folded))
		assert.Equal(t, "émile zola", folded)
	})

	t.Run("Null", func(t *testing.T) {
		var folded sql.NullString
		require.NoError(t, db.QueryRow("SELECT casefold(NULL)").Scan(&folded))
		assert.False(t, folded.Valid)
	})

	t.Run("Integer", func(t *testing.T) {
		var folded string
		require.NoError(t, db.QueryRow("SELECT casefold(1815)").Scan(&folded))
		assert.Equal(t, "1815", folded)
	})

	t.Run("Substring", func(t *testing.T) {
		var found bool
		require.NoError(t, db.QueryRow("SELECT instr(casefold(?), casefold(?)) > 0", "Der Zauberberg", "ZAUBER").Scan(&found))
		assert.True(t, found)
	})
}
