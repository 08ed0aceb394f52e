package testutil

import (
	"context"
	"database/sql"
	"time"

	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
)

// noopDBClient satisfies postgres.IClient for service tests where the
// in-memory stores replace real persistence. WithTx runs the function
// directly, the in-memory stores are not transactional.
type noopDBClient struct{}

// NewNoopDBClient returns a postgres.IClient usable with in-memory stores
func NewNoopDBClient() pgclient.IClient {
	return &noopDBClient{}
}

func (c *noopDBClient) Querier(ctx context.Context) pgclient.Querier {
	return nil
}

func (c *noopDBClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (c *noopDBClient) TxFromContext(ctx context.Context) *sql.Tx {
	return nil
}

func (c *noopDBClient) LockKey(ctx context.Context, key string, timeout time.Duration) error {
	return nil
}

func (c *noopDBClient) TryLockKey(ctx context.Context, key string) (bool, error) {
	return true, nil
}
