package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-push/pkg/simplepush"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Backend implements simplepush.ResourceStore on a Postgres table.
//
// Expected schema:
//
//	CREATE TABLE push_resource (
//	    name       TEXT PRIMARY KEY,
//	    data       BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Backend struct {
	db DBTX
}

// New creates a new PostgreSQL resource backend
func New(db DBTX) simplepush.ResourceStore {
	return &Backend{db: db}
}

// NewWithPool creates a new PostgreSQL resource backend with a connection pool
func NewWithPool(pool *pgxpool.Pool) simplepush.ResourceStore {
	return &Backend{db: pool}
}

// Open reads the named resource's bytes from the push_resource table
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var data []byte
	err := b.db.QueryRow(ctx,
		`SELECT data FROM push_resource WHERE name = $1`, name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplepush.ErrResourceNotFound
		}
		return nil, b.handlePostgresError("open", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Put stores the reader's bytes under the given name, replacing any previous row
func (b *Backend) Put(ctx context.Context, name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read resource data: %w", err)
	}

	_, err = b.db.Exec(ctx,
		`INSERT INTO push_resource (name, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, data,
	)
	if err != nil {
		return b.handlePostgresError("put", err)
	}
	return nil
}

// Delete removes the named resource row
func (b *Backend) Delete(ctx context.Context, name string) error {
	tag, err := b.db.Exec(ctx,
		`DELETE FROM push_resource WHERE name = $1`, name,
	)
	if err != nil {
		return b.handlePostgresError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return simplepush.ErrResourceNotFound
	}
	return nil
}

// Error handling helper
func (b *Backend) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}
