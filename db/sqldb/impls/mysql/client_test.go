package mysql

import (
	"errors"
	"testing"

	lowimpl "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(&sqldb.Conf{Host: "127.0.0.1", User: "root", PW: "pw", DB: "sqlsensor"})
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/sqlsensor?parseTime=true&loc=UTC&sql_mode=%27STRICT_ALL_TABLES%2CANSI_QUOTES%27", dsn)

	cfg, err := lowimpl.ParseDSN(BuildDSN(&sqldb.Conf{Host: "db", Port: 3307, User: "u", PW: "p", DB: "x", TZ: "Local"}))
	require.NoError(t, err)
	assert.Equal(t, "db:3307", cfg.Addr)
	assert.Equal(t, "x", cfg.DBName)
	assert.Equal(t, "Local", cfg.Loc.String())
	assert.Equal(t, "'STRICT_ALL_TABLES,ANSI_QUOTES'", cfg.Params["sql_mode"])
}

func TestConvertError(t *testing.T) {
	assert.Nil(t, ConvertError(errors.New("not a server error")))

	e := ConvertError(&lowimpl.MySQLError{Number: 1045, SQLState: [5]byte{'2', '8', '0', '0', '0'}, Message: "Access denied"})
	require.NotNil(t, e)
	assert.Equal(t, sqldb.CodeLogin, e.Code)
	assert.Equal(t, 1045, e.Number)
	assert.Equal(t, "28000", e.State)
}
