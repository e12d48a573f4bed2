package stdsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type PreparedStmt struct {
	conn        *sql.Conn
	stmt        *sql.Stmt
	dialect     Dialect
	names       []string
	returnsRows bool
}

// Ensure stdsql.PreparedStmt implements sqldb.PreparedStmt interface
var _ sqldb.PreparedStmt = (*PreparedStmt)(nil)

func (p *PreparedStmt) Execute(ctx context.Context, args []sqldb.NamedArg) (*sqldb.Result, error) {
	ordered, err := p.dialect.order(p.names, args)
	if err != nil {
		return nil, err
	}
	if p.returnsRows {
		rows, err := p.stmt.QueryContext(ctx, ordered...)
		if err != nil {
			return nil, p.dialect.convert(err)
		}
		result, err := collect(rows)
		if err != nil {
			return nil, p.dialect.convert(err)
		}
		return result, nil
	}
	res, err := p.stmt.ExecContext(ctx, ordered...)
	if err != nil {
		return nil, p.dialect.convert(err)
	}
	return execResult(res), nil
}

// Unprepare closes the stmt (server-side release) and hands the pinned conn back to the pool
func (p *PreparedStmt) Unprepare(_ context.Context) error {
	return p.dialect.convert(errors.Join(p.stmt.Close(), p.conn.Close()))
}
