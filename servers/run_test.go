package servers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunWithGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	cleaned := 0

	done := make(chan error, 1)
	go func() {
		done <- RunWithGracefulShutdown(ctx, server, "test", func() { cleaned++ }, time.Second)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Equal(t, 1, cleaned)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunListenFailure(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:-1"}
	cleaned := 0
	err := RunWithGracefulShutdown(context.Background(), server, "test", func() { cleaned++ }, time.Second)
	assert.Error(t, err)
	assert.Equal(t, 1, cleaned)
}
