package services

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-be/internal/database"
)

// newTestDB opens an in-memory database with the full schema applied. A
// single connection keeps every statement on the same memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// insertTestUser seeds a user row directly and returns its id.
func insertTestUser(t *testing.T, db *sql.DB, name, email string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users(id, name, email, password_hash, verified) VALUES(?, ?, ?, ?, 1)",
		id, name, email, "x",
	)
	require.NoError(t, err)
	return id
}
