package sqldb

import (
	"context"
)

type Client interface {
	Init(ctx context.Context) error
	Close() error
	GetHandle() Handle
	Handle // Methods required for Handle are also required, so, promote it
	GetConf() *Conf
	GetDSN() string
	Ping(ctx context.Context) error
}
