package pgsql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type Handle struct {
	*pgxpool.Pool // [Embedded]
}

var _ sqldb.Handle = (*Handle)(nil)

func (h *Handle) Query(ctx context.Context, query string, args ...sqldb.NamedArg) (*sqldb.Result, error) {
	bound, names := sqldb.BindNamed(query, sqldb.PlaceholderPrefixForDBType[DBType])
	ordered, err := sqldb.OrderArgs(names, args)
	if err != nil {
		return nil, err
	}
	if sqldb.ReturnsRows(query) {
		rows, err := h.Pool.Query(ctx, bound, ordered...)
		if err != nil {
			return nil, convert(err)
		}
		set, err := collect(rows)
		if err != nil {
			return nil, convert(err)
		}
		return sqldb.NewRowsResult(set), nil
	}
	tag, err := h.Pool.Exec(ctx, bound, ordered...)
	if err != nil {
		return nil, convert(err)
	}
	return sqldb.NewExecResult(tag.RowsAffected()), nil
}

func (h *Handle) Prepare(ctx context.Context, query string, _ []sqldb.Param) (sqldb.PreparedStmt, error) {
	bound, names := sqldb.BindNamed(query, sqldb.PlaceholderPrefixForDBType[DBType])
	conn, err := h.Pool.Acquire(ctx)
	if err != nil {
		return nil, convert(err)
	}
	stmtName := fmt.Sprintf("stmt_%s", uuid.New().String()[:8])
	if _, err = conn.Conn().Prepare(ctx, stmtName, bound); err != nil {
		conn.Release()
		return nil, convert(err)
	}
	return &PreparedStmt{
		conn:        conn,
		stmtName:    stmtName,
		names:       names,
		returnsRows: sqldb.ReturnsRows(query),
	}, nil
}
