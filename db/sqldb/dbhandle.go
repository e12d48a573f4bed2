package sqldb

import "context"

// Handle is the query surface every backend offers.
// Named inputs are written as @name in the statement text and rewritten by the backend.
type Handle interface {
	// Query runs a single statement in one round trip.
	// Row-returning statements fill Result.RecordSets, others fill Result.RowsAffected.
	Query(ctx context.Context, query string, args ...NamedArg) (*Result, error)

	// Prepare compiles the statement server-side for the declared inputs.
	// The returned PreparedStmt pins its connection until Unprepare.
	Prepare(ctx context.Context, query string, params []Param) (PreparedStmt, error)
}
