package mssql

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	lowimpl "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/impls/stdsql"
)

const DBType = "mssql"

const (
	DefaultPort    = 1433
	MaintenanceDB  = "tempdb"
	errLoginFailed = 18456
)

var Dialect = stdsql.Dialect{
	Name:         DBType,
	DriverName:   "sqlserver",
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

// BuildDSN renders a sqlserver:// URL
func BuildDSN(conf *sqldb.Conf) string {
	port := conf.Port
	if port == 0 {
		port = DefaultPort
	}
	query := url.Values{}
	if conf.DB != "" {
		query.Set("database", conf.DB)
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(conf.User, conf.PW),
		Host:     fmt.Sprintf("%s:%s", conf.Host, strconv.Itoa(port)),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// ConvertError keeps the server's error number and class for the JSON payload
func ConvertError(err error) *sqldb.Error {
	var msErr lowimpl.Error
	if !errors.As(err, &msErr) {
		return nil
	}
	code := sqldb.CodeRequest
	if msErr.Number == errLoginFailed {
		code = sqldb.CodeLogin
	}
	return sqldb.FromDriver(code, int(msErr.Number), strconv.Itoa(int(msErr.State)), err)
}
