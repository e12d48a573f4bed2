package pgsql

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

const DBType = "pgsql"

const (
	DefaultPort   = 5432
	MaintenanceDB = "postgres"
)

type Client struct {
	Handle // [Embedded] for Promoted Methods
	Conf   *sqldb.Conf
	dsn    string
}

// Ensure pgsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func Register() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

// BuildDSN renders a keyword/value DSN
func BuildDSN(conf *sqldb.Conf) string {
	port := conf.Port
	if port == 0 {
		port = DefaultPort
	}
	tz := conf.TZ
	if tz == "" {
		tz = "UTC"
	}
	// NOTE: sslmode=disable is often used for local dev, adjust as needed.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		conf.Host,
		port,
		conf.User,
		conf.PW,
		conf.DB,
		tz,
	)
}

func (c *Client) Init(ctx context.Context) error {
	// DSN
	if c.Conf.DSN != "" {
		c.dsn = c.Conf.DSN
	} else {
		c.dsn = BuildDSN(c.Conf)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// Open
	err := c.Open(ctx)
	if err != nil {
		return err
	}
	// Ping
	if err = c.Ping(ctx); err != nil {
		c.Pool.Close()
		c.Pool = nil
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	log.Printf("[INFO] pgsql client initialized (db=%s)", c.Conf.DB)
	return nil
}

func (c *Client) GetHandle() sqldb.Handle {
	return &c.Handle
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) GetDSN() string {
	return c.dsn
}

func (c *Client) Open(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse pgx config: %w", err)
	}
	maxConns, minConns, lifetime := c.Conf.PoolSize()
	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = lifetime
	c.Pool, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect pgx Pool: %w", err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return &sqldb.Error{Code: sqldb.CodeNotOpen, Message: "connection is not open"}
	}
	return convert(c.Pool.Ping(ctx))
}

func (c *Client) Close() error {
	if c.Pool == nil {
		return nil
	}
	log.Println("[INFO] closing pgsql client")
	c.Pool.Close()
	log.Println("[INFO] pgsql client closed")
	return nil
}
