package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// collect drains rows into a record set and closes rows
func collect(rows pgx.Rows) (sqldb.RecordSet, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	set := sqldb.RecordSet{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(sqldb.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		set = append(set, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// convert maps pgx failures to *sqldb.Error, keeping the SQLSTATE
func convert(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		code := sqldb.CodeRequest
		if pgErr.Code == "28P01" || pgErr.Code == "28000" {
			code = sqldb.CodeLogin
		}
		return sqldb.FromDriver(code, 0, pgErr.Code, err)
	case errors.Is(err, pgx.ErrNoRows):
		return sqldb.FromDriver(sqldb.CodeNoRows, 0, "", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return sqldb.FromDriver("", 0, "", err)
	case pgconn.SafeToRetry(err):
		return sqldb.FromDriver(sqldb.CodeConnClosed, 0, "", err)
	default:
		return sqldb.FromDriver("", 0, "", err)
	}
}
