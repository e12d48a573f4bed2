package stdsql

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// collect drains rows into record sets, one per result set, and closes rows
func collect(rows *sql.Rows) (*sqldb.Result, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("[WARN] rows.Close() failed: %v", err)
		}
	}()
	var sets []sqldb.RecordSet
	for {
		set, err := collectSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sqldb.NewRowsResult(sets...), nil
}

func collectSet(rows *sql.Rows) (sqldb.RecordSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	set := sqldb.RecordSet{}
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make(sqldb.Row, len(columns))
		for i, name := range columns {
			row[name] = normalize(values[i], types[i])
		}
		set = append(set, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during iterating rows: %w", err)
	}
	return set, nil
}

// normalize turns text-protocol bytes into the Go value the column type implies
func normalize(v any, ct *sql.ColumnType) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	if ct == nil {
		return s
	}
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "YEAR":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "UNSIGNED INT", "UNSIGNED BIGINT", "UNSIGNED SMALLINT", "UNSIGNED TINYINT", "UNSIGNED MEDIUMINT":
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case "FLOAT", "DOUBLE", "REAL", "DECIMAL", "NUMERIC":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "IMAGE":
		return b
	}
	return s
}

func execResult(res sql.Result) *sqldb.Result {
	n, err := res.RowsAffected()
	if err != nil {
		// not every driver reports it
		n = 0
	}
	return sqldb.NewExecResult(n)
}
