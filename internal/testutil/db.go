// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"

	"ctchen222/Prompt-Benchmark/internal/db"
)

var dbSeq atomic.Int64

// OpenInMemoryDB returns an initialized, seeded in-memory sqlite database
// private to the calling test. It is closed on test cleanup.
func OpenInMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	conn, err := db.Connect(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.InitializeDB(context.Background(), conn); err != nil {
		t.Fatalf("failed to initialize db: %v", err)
	}
	return conn
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *sqlx.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
