package mysql

import (
	"errors"
	"fmt"
	"net/url"

	lowimpl "github.com/go-sql-driver/mysql" // registers the "mysql" driver

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/impls/stdsql"
)

const DBType = "mysql"

const (
	DefaultPort   = 3306
	MaintenanceDB = "mysql"
)

var Dialect = stdsql.Dialect{
	Name:         DBType,
	DriverName:   "mysql",
	Placeholder:  sqldb.PlaceholderPrefixForDBType[DBType],
	ConvertError: ConvertError,
}

func Register() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return NewClient(conf), nil
	})
}

func NewClient(conf *sqldb.Conf) *stdsql.Client {
	return stdsql.NewClient(conf, Dialect, BuildDSN)
}

// BuildDSN - strict sql_mode so an over-long value fails instead of being truncated
func BuildDSN(conf *sqldb.Conf) string {
	port := conf.Port
	if port == 0 {
		port = DefaultPort
	}
	tz := conf.TZ
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=%s",
		conf.User,
		conf.PW,
		conf.Host,
		port,
		conf.DB,
		url.QueryEscape(tz),
		url.QueryEscape("'STRICT_ALL_TABLES,ANSI_QUOTES'"),
	)
}

func ConvertError(err error) *sqldb.Error {
	var myErr *lowimpl.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}
	code := sqldb.CodeRequest
	if myErr.Number == 1045 { // access denied
		code = sqldb.CodeLogin
	}
	return sqldb.FromDriver(code, int(myErr.Number), string(myErr.SQLState[:]), err)
}
