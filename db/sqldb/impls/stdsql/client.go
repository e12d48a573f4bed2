package stdsql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

type Client struct {
	Handle // [Embedded] for Promoted Methods
	Conf   *sqldb.Conf

	// BuildDSN renders the driver DSN when Conf.DSN is empty
	BuildDSN func(conf *sqldb.Conf) string

	dsn string
}

// Ensure stdsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func NewClient(conf *sqldb.Conf, dialect Dialect, buildDSN func(conf *sqldb.Conf) string) *Client {
	return &Client{
		Handle:   Handle{Dialect: dialect},
		Conf:     conf,
		BuildDSN: buildDSN,
	}
}

// NewClientFromDB wraps an already opened *sql.DB. Init only pings it
func NewClientFromDB(db *sql.DB, conf *sqldb.Conf, dialect Dialect) *Client {
	return &Client{
		Handle: Handle{DB: db, Dialect: dialect},
		Conf:   conf,
	}
}

func (c *Client) Init(ctx context.Context) error {
	if c.DB == nil {
		if c.Conf.DSN != "" {
			c.dsn = c.Conf.DSN
		} else {
			c.dsn = c.BuildDSN(c.Conf)
		}
		db, err := sql.Open(c.Dialect.DriverName, c.dsn)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.Dialect.Name, err)
		}
		maxConns, minConns, lifetime := c.Conf.PoolSize()
		db.SetConnMaxLifetime(lifetime)
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(minConns)
		c.DB = db
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.DB.Close()
		c.DB = nil
		return fmt.Errorf("%s ping failed: %w", c.Dialect.Name, err)
	}
	log.Printf("[INFO] %s client initialized (db=%s)", c.Dialect.Name, c.Conf.DB)
	return nil
}

func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	log.Printf("[INFO] closing %s client", c.Dialect.Name)
	if err := c.DB.Close(); err != nil {
		return err
	}
	log.Printf("[INFO] %s client closed", c.Dialect.Name)
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

func (c *Client) Ping(ctx context.Context) error {
	if c.DB == nil {
		return &sqldb.Error{Code: sqldb.CodeNotOpen, Message: "connection is not open"}
	}
	return c.Dialect.convert(c.DB.PingContext(ctx))
}
