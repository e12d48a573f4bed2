package gateway

import (
	"context"
	"fmt"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// Callback receives either a result or an error, never both
type Callback func(result *sqldb.Result, err error)

// Future is the deferred outcome of a database operation
type Future struct {
	done   chan struct{}
	result *sqldb.Result
	err    error
}

// Go runs fn on its own goroutine. A panic in fn is turned into the Future's error
func Go(ctx context.Context, fn func(ctx context.Context) (*sqldb.Result, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if rec := recover(); rec != nil {
				f.result = nil
				f.err = &sqldb.Error{Code: sqldb.CodeUnknown, Message: fmt.Sprintf("panic: %v", rec)}
			}
		}()
		f.result, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the outcome is available
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the outcome is available or ctx ends.
// Giving up on ctx does not cancel the operation itself
func (f *Future) Await(ctx context.Context) (*sqldb.Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, sqldb.AsKind(sqldb.KindQuery, ctx.Err())
	}
}
