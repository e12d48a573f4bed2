package sqldb

import "time"

type Conf struct {
	Type string `json:"type"` // mssql, pgsql, mysql
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`
	TZ   string `json:"tz"`  // Connection Timezone
	DSN  string `json:"dsn"` // To Overwrite Default DSN

	// Pool tuning. Zero values fall back to the backend defaults
	MaxConns           int `json:"max_conns"`
	MinConns           int `json:"min_conns"`
	ConnMaxLifetimeSec int `json:"conn_max_lifetime_sec"`
}

const (
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultConnMaxLifetime = 3 * time.Minute
)

// PoolSize returns MaxConns, MinConns, ConnMaxLifetime with defaults applied
func (c *Conf) PoolSize() (int, int, time.Duration) {
	maxConns, minConns := c.MaxConns, c.MinConns
	lifetime := time.Duration(c.ConnMaxLifetimeSec) * time.Second
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	if minConns <= 0 {
		minConns = DefaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	return maxConns, minConns, lifetime
}

// WithDB returns a copy of the Conf targeting another database.
// A DSN override is dropped because it pins the original database
func (c *Conf) WithDB(db string) *Conf {
	cp := *c
	cp.DB = db
	cp.DSN = ""
	return &cp
}
