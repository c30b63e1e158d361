package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "triply.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path)
	assert.Equal(t, uint(2), db.Version)

	for _, table := range []string{"trips", "llm_calls"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestNewDB_TimestampsGroupByDay(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "triply.db"))
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	_, err = db.SQL.Exec(`INSERT INTO llm_calls (operation, model, prompt_tokens, completion_tokens, latency_ms, created_at)
		VALUES ('itinerary', 'm', 1, 1, 1, ?)`, at)
	require.NoError(t, err)

	var day string
	require.NoError(t, db.SQL.QueryRow(`SELECT date(created_at) FROM llm_calls`).Scan(&day))
	assert.Equal(t, "2024-06-01", day)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triply.db")

	v1, err := Migrate(path)
	require.NoError(t, err)
	v2, err := Migrate(path)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}
