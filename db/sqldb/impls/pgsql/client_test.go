package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(&sqldb.Conf{Host: "127.0.0.1", User: "postgres", PW: "pw", DB: "sqlsensor"})
	assert.Equal(t, "host=127.0.0.1 port=5432 user=postgres password=pw dbname=sqlsensor sslmode=disable TimeZone=UTC", dsn)

	cfg, err := pgconn.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, uint16(5432), cfg.Port)
	assert.Equal(t, "sqlsensor", cfg.Database)
}

func TestConvert(t *testing.T) {
	assert.NoError(t, convert(nil))

	tests := []struct {
		name  string
		err   error
		code  string
		state string
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "non_existing_table" does not exist`}, sqldb.CodeRequest, "42P01"},
		{"bad password", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}, sqldb.CodeLogin, "28P01"},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), sqldb.CodeNoRows, ""},
		{"cancelled", context.Canceled, sqldb.CodeCancel, ""},
		{"other", errors.New("boom"), sqldb.CodeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *sqldb.Error
			require.ErrorAs(t, convert(tt.err), &e)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.state, e.State)
			assert.Empty(t, e.Kind)
		})
	}
}

func TestPingBeforeInit(t *testing.T) {
	c := &Client{Conf: &sqldb.Conf{Type: DBType}}
	var e *sqldb.Error
	require.ErrorAs(t, c.Ping(context.Background()), &e)
	assert.Equal(t, sqldb.CodeNotOpen, e.Code)
	assert.NoError(t, c.Close())
}
