// Package bootstrap prepares a scratch database for the fixture service.
package bootstrap

import (
	"context"
	"embed"
	"fmt"
	"log"

	"github.com/zeptools/gw-sqlfixture/db"
	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

//go:embed sql
var sqlFS embed.FS

// SQL is the statement group holding the bootstrap DDL
var SQL = sqldb.GroupFS{Group: "bootstrap", FS: sqlFS}

var (
	stmtDropDatabase   = sqldb.StoreGroupedStmtKey{Group: "bootstrap", StmtName: "drop_database"}.String()
	stmtCreateDatabase = sqldb.StoreGroupedStmtKey{Group: "bootstrap", StmtName: "create_database"}.String()
	stmtCreateTable    = sqldb.StoreGroupedStmtKey{Group: "bootstrap", StmtName: "create_table"}.String()
)

// OpenFunc opens and initializes a client for conf
type OpenFunc func(ctx context.Context, conf *sqldb.Conf) (sqldb.Client, error)

type Provisioner struct {
	Store *sqldb.RawStore
	Open  OpenFunc // sqldb.Open when nil
}

// Provision drops and recreates target.DB through a short-lived admin client on
// admin, then opens the shared client on target and creates UserTable in it.
// Every failure is a ConnectError and nothing is left open
func (p *Provisioner) Provision(ctx context.Context, target *sqldb.Conf, admin *sqldb.Conf) (sqldb.Client, error) {
	dbName, err := sqldb.NewIdentifier(target.DB)
	if err != nil {
		return nil, connectErr("validate database name", err)
	}
	if err = p.recreateDatabase(ctx, admin, dbName); err != nil {
		return nil, err
	}

	client, err := p.open(ctx, target)
	if err != nil {
		return nil, connectErr("open "+dbName.Name(), err)
	}
	log.Printf("[INFO][BOOT] creating table UserTable in %s", dbName)
	if _, err = client.Query(ctx, p.Store.MustGet(stmtCreateTable)); err != nil {
		db.CloseClient("shared pool", client)
		return nil, connectErr("create table", err)
	}
	log.Printf("[INFO][BOOT] database %s provisioned", dbName)
	return client, nil
}

func (p *Provisioner) recreateDatabase(ctx context.Context, admin *sqldb.Conf, dbName sqldb.Identifier) error {
	client, err := p.open(ctx, admin)
	if err != nil {
		return connectErr("open admin database "+admin.DB, err)
	}
	defer db.CloseClient("admin pool", client)

	log.Printf("[INFO][BOOT] dropping database %s", dbName)
	if _, err = client.Query(ctx, fmt.Sprintf(p.Store.MustGet(stmtDropDatabase), dbName)); err != nil {
		return connectErr("drop database", err)
	}
	log.Printf("[INFO][BOOT] creating database %s", dbName)
	if _, err = client.Query(ctx, fmt.Sprintf(p.Store.MustGet(stmtCreateDatabase), dbName)); err != nil {
		return connectErr("create database", err)
	}
	return nil
}

func (p *Provisioner) open(ctx context.Context, conf *sqldb.Conf) (sqldb.Client, error) {
	if p.Open == nil {
		return sqldb.Open(ctx, conf)
	}
	return p.Open(ctx, conf)
}

func connectErr(step string, err error) *sqldb.Error {
	e := sqldb.AsKind(sqldb.KindConnect, err)
	e.Message = step + ": " + e.Message
	return e
}
