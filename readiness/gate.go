// Package readiness provides a one-shot startup signal.
package readiness

import (
	"context"
	"sync"
)

// Gate starts closed and opens once. All waiters are released together
type Gate struct {
	once sync.Once
	ch   chan struct{}
}

func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Open releases current and future waiters. Safe to call more than once
func (g *Gate) Open() {
	g.once.Do(func() { close(g.ch) })
}

func (g *Gate) Ready() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}

func (g *Gate) Done() <-chan struct{} {
	return g.ch
}

// Wait blocks until the gate opens or ctx ends
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
