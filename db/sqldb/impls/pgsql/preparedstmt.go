package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type PreparedStmt struct {
	conn        *pgxpool.Conn
	stmtName    string
	names       []string
	returnsRows bool
}

// Ensure pgsql.PreparedStmt implements sqldb.PreparedStmt interface
var _ sqldb.PreparedStmt = (*PreparedStmt)(nil)

func (p *PreparedStmt) Execute(ctx context.Context, args []sqldb.NamedArg) (*sqldb.Result, error) {
	ordered, err := sqldb.OrderArgs(p.names, args)
	if err != nil {
		return nil, err
	}
	if p.returnsRows {
		rows, err := p.conn.Query(ctx, p.stmtName, ordered...)
		if err != nil {
			return nil, convert(err)
		}
		set, err := collect(rows)
		if err != nil {
			return nil, convert(err)
		}
		return sqldb.NewRowsResult(set), nil
	}
	tag, err := p.conn.Exec(ctx, p.stmtName, ordered...)
	if err != nil {
		return nil, convert(err)
	}
	return sqldb.NewExecResult(tag.RowsAffected()), nil
}

// Unprepare deallocates the statement and releases the pinned connection.
// The connection goes back to the pool even when DEALLOCATE fails
func (p *PreparedStmt) Unprepare(ctx context.Context) error {
	defer p.conn.Release()
	return convert(p.conn.Conn().Deallocate(ctx, p.stmtName))
}
