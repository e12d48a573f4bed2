package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/sqldbtest"
)

const (
	dropMSSQL   = "IF EXISTS (SELECT * FROM sys.databases WHERE name = N'sqlsensor') DROP DATABASE sqlsensor"
	createDB    = "CREATE DATABASE sqlsensor"
	createTable = "CREATE TABLE UserTable (id INT IDENTITY(1,1), name VARCHAR(40) NOT NULL, email VARCHAR(40) NOT NULL)"
)

type fixture struct {
	admin, shared *sqldbtest.Client
	opened        []string
	p             *Provisioner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqldb.NewRawStore("mssql")
	require.NoError(t, store.Load(SQL))

	f := &fixture{
		admin:  sqldbtest.New().OnExec(dropMSSQL, 0).OnExec(createDB, 0),
		shared: sqldbtest.New().OnExec(createTable, 0),
	}
	f.p = &Provisioner{
		Store: store,
		Open: func(_ context.Context, conf *sqldb.Conf) (sqldb.Client, error) {
			f.opened = append(f.opened, conf.DB)
			if conf.DB == "tempdb" {
				return f.admin, nil
			}
			return f.shared, nil
		},
	}
	return f
}

var (
	target = &sqldb.Conf{Type: "mssql", DB: "sqlsensor"}
	admin  = target.WithDB("tempdb")
)

func TestProvision(t *testing.T) {
	f := newFixture(t)

	client, err := f.p.Provision(context.Background(), target, admin)
	require.NoError(t, err)
	assert.Same(t, f.shared, client)

	assert.Equal(t, []string{"tempdb", "sqlsensor"}, f.opened)
	adminCalls := f.admin.Calls()
	require.Len(t, adminCalls, 2)
	assert.Equal(t, dropMSSQL, adminCalls[0].Query)
	assert.Equal(t, createDB, adminCalls[1].Query)
	assert.EqualValues(t, 1, f.admin.Closes(), "admin client is released")

	sharedCalls := f.shared.Calls()
	require.Len(t, sharedCalls, 1)
	assert.Equal(t, createTable, sharedCalls[0].Query)
	assert.Zero(t, f.shared.Closes(), "shared client is handed over open")
}

func TestProvisionFailures(t *testing.T) {
	ctx := context.Background()

	requireConnectErr := func(t *testing.T, err error) {
		t.Helper()
		var e *sqldb.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, sqldb.KindConnect, e.Kind)
	}

	t.Run("invalid database name", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.p.Provision(ctx, &sqldb.Conf{Type: "mssql", DB: "x; DROP TABLE y"}, admin)
		requireConnectErr(t, err)
		assert.Empty(t, f.opened)
	})

	t.Run("admin unreachable", func(t *testing.T) {
		f := newFixture(t)
		f.p.Open = func(context.Context, *sqldb.Conf) (sqldb.Client, error) {
			return nil, errors.New("dial tcp 127.0.0.1:1433: connect: connection refused")
		}
		_, err := f.p.Provision(ctx, target, admin)
		requireConnectErr(t, err)
	})

	t.Run("create database fails", func(t *testing.T) {
		f := newFixture(t)
		f.admin.OnError(createDB, &sqldb.Error{Code: sqldb.CodeRequest, Number: 1801, Message: "Database 'sqlsensor' already exists."})
		_, err := f.p.Provision(ctx, target, admin)
		requireConnectErr(t, err)
		assert.EqualValues(t, 1, f.admin.Closes())
		assert.Equal(t, []string{"tempdb"}, f.opened)
	})

	t.Run("create table fails", func(t *testing.T) {
		f := newFixture(t)
		f.shared.OnError(createTable, errors.New("boom"))
		client, err := f.p.Provision(ctx, target, admin)
		assert.Nil(t, client)
		requireConnectErr(t, err)
		assert.EqualValues(t, 1, f.shared.Closes(), "no leaked shared client")
	})
}
