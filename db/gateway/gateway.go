// Package gateway is the request-facing entry to the database.
//
// Every operation has one implementation and three deliveries: a blocking call,
// a callback (the `...Func` variants) and an awaitable Future (the `...Async`
// variants). They differ only in how the outcome reaches the caller.
package gateway

import (
	"context"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type Gateway struct {
	handle sqldb.Handle
}

func New(h sqldb.Handle) *Gateway {
	return &Gateway{handle: h}
}

func (g *Gateway) Handle() sqldb.Handle {
	return g.handle
}

// Query issues one round trip. Failures are QueryError; nothing is retried
func (g *Gateway) Query(ctx context.Context, query string, args ...sqldb.NamedArg) (*sqldb.Result, error) {
	result, err := g.handle.Query(ctx, query, args...)
	if err != nil {
		return nil, sqldb.AsKind(sqldb.KindQuery, err)
	}
	return result, nil
}

// QueryFunc runs Query and hands the outcome to cb exactly once
func (g *Gateway) QueryFunc(ctx context.Context, query string, cb Callback, args ...sqldb.NamedArg) {
	cb(g.Query(ctx, query, args...))
}

// QueryAsync starts Query and returns immediately
func (g *Gateway) QueryAsync(ctx context.Context, query string, args ...sqldb.NamedArg) *Future {
	return Go(ctx, func(ctx context.Context) (*sqldb.Result, error) {
		return g.Query(ctx, query, args...)
	})
}

// Prepared runs the whole prepare -> execute -> unprepare cycle
func (g *Gateway) Prepared(ctx context.Context, query string, params []sqldb.Param, args map[string]any) (*sqldb.Result, error) {
	return sqldb.RunPrepared(ctx, g.handle, query, params, args)
}

func (g *Gateway) PreparedFunc(ctx context.Context, query string, params []sqldb.Param, args map[string]any, cb Callback) {
	cb(g.Prepared(ctx, query, params, args))
}

func (g *Gateway) PreparedAsync(ctx context.Context, query string, params []sqldb.Param, args map[string]any) *Future {
	return Go(ctx, func(ctx context.Context) (*sqldb.Result, error) {
		return g.Prepared(ctx, query, params, args)
	})
}
