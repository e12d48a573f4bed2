package sqldb

import (
	"context"
	"fmt"
)

// ClientFactory is a callback that constructs a Client from Conf.
// It is registered with RegisterFactory and called by sqldb.New.
type ClientFactory func(conf *Conf) (Client, error)

var registry = map[string]ClientFactory{}

func RegisterFactory(dbType string, factory ClientFactory) {
	registry[dbType] = factory
}

func New(dbType string, conf *Conf) (Client, error) {
	factory, ok := registry[dbType]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	return factory(conf)
}

// Open constructs a Client for conf.Type and initializes it.
// A failed Init leaves nothing to close
func Open(ctx context.Context, conf *Conf) (Client, error) {
	client, err := New(conf.Type, conf)
	if err != nil {
		return nil, err
	}
	if err = client.Init(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
