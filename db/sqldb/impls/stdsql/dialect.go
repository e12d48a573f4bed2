// Package stdsql is the database/sql backed core shared by the mssql and mysql backends.
package stdsql

import (
	"database/sql"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// Dialect tells the core how a driver wants its args and errors
type Dialect struct {
	Name        string // sqldb Conf.Type, for logs
	DriverName  string // database/sql driver name
	Placeholder byte   // see sqldb.BindNamed

	// ConvertError maps a driver error to a *sqldb.Error. Nil result = generic mapping
	ConvertError func(err error) *sqldb.Error
}

// bind rewrites query for the dialect and orders args to match it
func (d Dialect) bind(query string, args []sqldb.NamedArg) (string, []any, error) {
	bound, names := sqldb.BindNamed(query, d.Placeholder)
	ordered, err := d.order(names, args)
	if err != nil {
		return "", nil, err
	}
	return bound, ordered, nil
}

func (d Dialect) order(names []string, args []sqldb.NamedArg) ([]any, error) {
	ordered, err := sqldb.OrderArgs(names, args)
	if err != nil {
		return nil, err
	}
	if d.Placeholder != '@' {
		return ordered, nil
	}
	// driver binds by name
	for i, name := range names {
		ordered[i] = sql.Named(name, ordered[i])
	}
	return ordered, nil
}

func (d Dialect) convert(err error) error {
	if err == nil {
		return nil
	}
	if d.ConvertError != nil {
		if e := d.ConvertError(err); e != nil {
			return e
		}
	}
	return sqldb.FromDriver("", 0, "", err)
}
