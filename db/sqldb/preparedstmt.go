package sqldb

import "context"

// PreparedStmt is the driver-level half of a Statement.
type PreparedStmt interface {
	// Execute binds args (ordered like the declared params) and runs the statement
	Execute(ctx context.Context, args []NamedArg) (*Result, error)
	// Unprepare releases the server-side plan and the pinned connection
	Unprepare(ctx context.Context) error
}
