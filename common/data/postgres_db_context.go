package data

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate"
	_ "github.com/golang-migrate/migrate/database/postgres"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryRunner is satisfied by a pool and by an open transaction.
type QueryRunner interface {
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

// DBPool is the subset of *pgxpool.Pool the stores use. pgxmock pools
// satisfy it in tests.
type DBPool interface {
	QueryRunner
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TxFn func(QueryRunner) error

type PgDbContext struct {
	*pgxpool.Pool
	connectionString string
}

// ConnectionString points databaseUrl at databaseName.
func ConnectionString(databaseUrl, databaseName string) (string, error) {
	u, err := url.Parse(databaseUrl)
	if err != nil {
		return "", err
	}

	if databaseName != "" {
		u.Path = "/" + databaseName
	}
	return u.String(), nil
}

// Migrate applies every pending migration from migrationsDir.
func Migrate(connectionString, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, connectionString)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func NewPgDbContext(ctx context.Context, connectionString string) (*PgDbContext, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return &PgDbContext{Pool: pool, connectionString: connectionString}, nil
}

// WithTransaction runs fn inside a transaction on db, committing on nil
// and rolling back on error or panic.
func WithTransaction(ctx context.Context, db DBPool, fn TxFn) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
