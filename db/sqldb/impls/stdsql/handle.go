package stdsql

import (
	"context"
	"database/sql"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type Handle struct {
	DB      *sql.DB
	Dialect Dialect
}

// Ensure stdsql.Handle implements sqldb.Handle interface
var _ sqldb.Handle = (*Handle)(nil)

func (h *Handle) Query(ctx context.Context, query string, args ...sqldb.NamedArg) (*sqldb.Result, error) {
	bound, ordered, err := h.Dialect.bind(query, args)
	if err != nil {
		return nil, err
	}
	if sqldb.ReturnsRows(query) {
		rows, err := h.DB.QueryContext(ctx, bound, ordered...)
		if err != nil {
			return nil, h.Dialect.convert(err)
		}
		result, err := collect(rows)
		if err != nil {
			return nil, h.Dialect.convert(err)
		}
		return result, nil
	}
	res, err := h.DB.ExecContext(ctx, bound, ordered...)
	if err != nil {
		return nil, h.Dialect.convert(err)
	}
	return execResult(res), nil
}

func (h *Handle) Prepare(ctx context.Context, query string, params []sqldb.Param) (sqldb.PreparedStmt, error) {
	bound, names := sqldb.BindNamed(query, h.Dialect.Placeholder)
	// pin one connection so prepare, execute and unprepare hit the same session
	conn, err := h.DB.Conn(ctx)
	if err != nil {
		return nil, h.Dialect.convert(err)
	}
	stmt, err := conn.PrepareContext(ctx, bound)
	if err != nil {
		_ = conn.Close()
		return nil, h.Dialect.convert(err)
	}
	return &PreparedStmt{
		conn:        conn,
		stmt:        stmt,
		dialect:     h.Dialect,
		names:       names,
		returnsRows: sqldb.ReturnsRows(query),
	}, nil
}
