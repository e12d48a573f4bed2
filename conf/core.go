package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/impls/mssql"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/impls/mysql"
	"github.com/zeptools/gw-sqlfixture/db/sqldb/impls/pgsql"
)

const (
	DefaultAppName         = "sqlfixture"
	DefaultListen          = ":3000"
	DefaultDBType          = mssql.DBType
	DefaultDBHost          = "127.0.0.1"
	DefaultDBName          = "sqlsensor"
	DefaultShutdownTimeout = 10 * time.Second
)

// Core - app config
type Core struct {
	AppName            string     `json:"app_name"`
	Listen             string     `json:"listen"`   // HTTP Server Listen IP:PORT Address
	Verbose            bool       `json:"verbose"`  // access log to stdout
	AdminDB            string     `json:"admin_db"` // database used to drop/create the target. Default per type
	ShutdownTimeoutSec int        `json:"shutdown_timeout_sec"`
	SQLDB              sqldb.Conf `json:"sql_db"`

	AppRoot    string             `json:"-"` // config/.core.json and .env are looked up here
	RootCtx    context.Context    `json:"-"` // Global Context with RootCancel
	RootCancel context.CancelFunc `json:"-"` // CancelFunc for RootCtx
}

// LookupFunc reads one setting. os.LookupEnv fits
type LookupFunc func(key string) (string, bool)

// Load builds the config in increasing precedence:
// defaults, config/.core.json, .env, process environment.
// Missing files are skipped
func Load(appRoot string, lookupEnv LookupFunc) (*Core, error) {
	c := &Core{
		AppName: DefaultAppName,
		Listen:  DefaultListen,
		SQLDB: sqldb.Conf{
			Type: DefaultDBType,
			Host: DefaultDBHost,
			DB:   DefaultDBName,
		},
		AppRoot: appRoot,
	}
	confFilePath := filepath.Join(appRoot, "config", ".core.json")
	confBytes, err := os.ReadFile(confFilePath) // ([]byte, error)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err = json.Unmarshal(confBytes, c); err != nil {
			return nil, fmt.Errorf("%s: %w", confFilePath, err)
		}
	}

	dotEnv, err := godotenv.Read(filepath.Join(appRoot, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	}
	if err = c.applyEnv(lookup); err != nil {
		return nil, err
	}
	if c.SQLDB.User == "" && c.SQLDB.Type == mssql.DBType {
		c.SQLDB.User = "sa"
	}
	return c, nil
}

func (c *Core) applyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("DB_TYPE", &c.SQLDB.Type)
	str("DB_HOST", &c.SQLDB.Host)
	str("DB_USER", &c.SQLDB.User)
	str("DB_PW", &c.SQLDB.PW)
	str("DB_NAME", &c.SQLDB.DB)
	str("DB_DSN", &c.SQLDB.DSN)
	str("DB_TZ", &c.SQLDB.TZ)
	str("DB_ADMIN", &c.AdminDB)
	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.SQLDB.Port = port
	}
	if v, ok := lookup("APP_PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("APP_PORT: %w", err)
		}
		c.Listen = ":" + v
	}
	if v, ok := lookup("WITH_STDOUT"); ok && v != "" {
		// any value but an explicit false enables it
		verbose, err := strconv.ParseBool(v)
		c.Verbose = err != nil || verbose
	}
	c.SQLDB.Type = strings.ToLower(c.SQLDB.Type)
	return nil
}

// ShutdownTimeout with default applied
func (c *Core) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSec <= 0 {
		return DefaultShutdownTimeout
	}
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// AdminConf targets the maintenance database used to drop and create SQLDB.DB
func (c *Core) AdminConf() *sqldb.Conf {
	adminDB := c.AdminDB
	if adminDB == "" {
		switch c.SQLDB.Type {
		case pgsql.DBType:
			adminDB = pgsql.MaintenanceDB
		case mysql.DBType:
			adminDB = mysql.MaintenanceDB
		default:
			adminDB = mssql.MaintenanceDB
		}
	}
	return c.SQLDB.WithDB(adminDB)
}

// RegisterSQLBackends makes every supported type available to sqldb.New
func RegisterSQLBackends() {
	mssql.Register()
	mysql.Register()
	pgsql.Register()
}

// BaseInit attaches the root context and starts the shutdown signal listener
func (c *Core) BaseInit(rootCtx context.Context, rootCancel context.CancelFunc) {
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	c.startShutdownSignalListener()
}

var once sync.Once

func (c *Core) startShutdownSignalListener() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Printf("[INFO] got signal [%s]. shutting down app [%s] ...", sig, c.AppName)
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
	})
	log.Printf("[INFO][CORE] shutdown signal listener started")
}
