// Package pools chooses between the process-wide pool and a pool scoped to one request.
package pools

import (
	"context"
	"fmt"

	"github.com/zeptools/gw-sqlfixture/db"
	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// OpenFunc opens and initializes a new client
type OpenFunc func(ctx context.Context) (sqldb.Client, error)

type Selector struct {
	shared sqldb.Client
	open   OpenFunc
}

func NewSelector(shared sqldb.Client, open OpenFunc) *Selector {
	return &Selector{shared: shared, open: open}
}

// Shared returns the handle of the pool created at startup
func (s *Selector) Shared() sqldb.Handle {
	return s.shared.GetHandle()
}

// WithEphemeral opens a dedicated pool, runs fn on it and closes the pool
// on every exit path, panics included. An open failure is a ConnectError
func (s *Selector) WithEphemeral(ctx context.Context, fn func(h sqldb.Handle) error) error {
	client, err := s.open(ctx)
	if err != nil {
		return sqldb.AsKind(sqldb.KindConnect, err)
	}
	defer db.CloseClient("ephemeral pool", client)
	return fn(client.GetHandle())
}

// FactoryOpener opens clients through the sqldb factory registry.
// Each pool gets a single connection since it serves one request
func FactoryOpener(conf *sqldb.Conf) OpenFunc {
	return func(ctx context.Context) (sqldb.Client, error) {
		cp := *conf
		cp.MaxConns = 1
		cp.MinConns = 1
		client, err := sqldb.Open(ctx, &cp)
		if err != nil {
			return nil, fmt.Errorf("ephemeral pool: %w", err)
		}
		return client, nil
	}
}
