package servers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// RunWithGracefulShutdown serves until ctx is done, then drains.
// - ctx: cancelled on SIGINT/SIGTERM by the caller
// - server: the http.Server to run
// - appName: for logging
// - cleanup: optional, runs after the server stopped accepting and drained
// - timeout: max duration for draining in-flight requests
//
// A listen failure is returned right away without waiting for ctx.
func RunWithGracefulShutdown(ctx context.Context, server *http.Server, appName string, cleanup func(), timeout time.Duration) error {
	serverErrChan := make(chan error, 1)

	go func() {
		log.Printf("[INFO] %q listening on %s ...", appName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		} else {
			serverErrChan <- nil
		}
	}()

	select {
	case err := <-serverErrChan:
		// server died on its own
		if cleanup != nil {
			cleanup()
		}
		return err
	case <-ctx.Done():
		log.Printf("[INFO] shutting down the app [%s] ...", appName)
	}

	// Server Shutdown to Stop Accepting New HTTP Requests Immediately
	// But with the context with timeout, requests already being processed get time to finish
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] server shutdown failed: %v", err)
	}

	if cleanup != nil {
		cleanup()
	}

	// Wait for server goroutine to return
	if err := <-serverErrChan; err != nil {
		return err
	}

	log.Printf("[INFO] %q shutdown complete", appName)
	return nil
}
