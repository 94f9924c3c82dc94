package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas are appended to every sqlite DSN so each pooled connection
// enforces foreign keys and waits on locks instead of failing.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SeedModelConfig is a model_configs row inserted into an empty table at startup.
type SeedModelConfig struct {
	Name string
	Type string
}

// DefaultModelConfigs mirror the models of registry.Default.
var DefaultModelConfigs = []SeedModelConfig{
	{Name: "Echo", Type: "echo"},
	{Name: "Reverse", Type: "reverse"},
}

// Connect opens a pool for driver and verifies it with a ping.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = withSQLitePragmas(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	pool, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// One writer at a time.
		pool.SetMaxOpenConns(1)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.InfoContext(ctx, "Connected to database", "db.driver", driver)
	return pool, nil
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func schema(driver string) []string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + id + `,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS model_configs (
			id ` + id + `,
			name TEXT NOT NULL,
			type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			id ` + id + `,
			user_id BIGINT REFERENCES users(id),
			prompt TEXT NOT NULL,
			model TEXT NOT NULL,
			response TEXT NOT NULL,
			score INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_user_id ON evaluations(user_id)`,
	}
}

// InitializeDB creates the tables when missing and seeds model_configs if empty.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	seeded, err := seedModelConfigs(ctx, db)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "DB schema verified.", "model_configs.seeded", seeded)
	return nil
}

func seedModelConfigs(ctx context.Context, db *sqlx.DB) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM model_configs"); err != nil {
		return false, fmt.Errorf("failed to count model configs: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	insert := tx.Rebind("INSERT INTO model_configs (name, type) VALUES (?, ?)")
	for _, mc := range DefaultModelConfigs {
		if _, err := tx.ExecContext(ctx, insert, mc.Name, mc.Type); err != nil {
			return false, fmt.Errorf("failed to seed model config %s: %w", mc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return true, nil
}
