package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	_ "github.com/lib/pq"
)

type txContextKey struct{}

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run their queries against Querier so the same code works
// inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// IClient is the database client interface used by repositories
type IClient interface {
	Querier(ctx context.Context) Querier
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	TxFromContext(ctx context.Context) *sql.Tx
	LockKey(ctx context.Context, key string, timeout time.Duration) error
	TryLockKey(ctx context.Context, key string) (bool, error)
}

// Client wraps *sql.DB with transaction propagation through the context
type Client struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewClient opens a connection pool to postgres
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open postgres connection").
			Mark(ierr.ErrDatabase)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to ping postgres").
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName)

	return &Client{db: db, logger: log}, nil
}

// Querier returns the transaction bound to the context if present,
// otherwise the connection pool
func (c *Client) Querier(ctx context.Context) Querier {
	if tx := c.TxFromContext(ctx); tx != nil {
		return tx
	}
	return c.db
}

// TxFromContext returns the transaction bound to the context, or nil
func (c *Client) TxFromContext(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// WithTx runs fn inside a transaction. Nested calls reuse the transaction
// already bound to the context so a multi-repository operation commits or
// rolls back as one unit.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := c.TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}

	txCtx := context.WithValue(ctx, txContextKey{}, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Errorw("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.db.Close()
}
