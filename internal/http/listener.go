package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// defaultWriteTimeout applies to listeners whose handlers never wait on the command dependencies.
const defaultWriteTimeout = 15 * time.Second

// newHTTPServer returns an http.Server with the timeouts shared by every listener of the process.
func newHTTPServer(host string, port int, handler http.Handler, writeTimeout time.Duration) *http.Server {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// serve blocks until srv stops. A stop caused by Shutdown is not an error.
// When ctx is done srv is shut down gracefully.
func serve(ctx context.Context, srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting "+name+" server",
		slog.String("addr", srv.Addr),
		slog.Duration("write_timeout", srv.WriteTimeout),
	)

	stop := context.AfterFunc(ctx, func() {
		_ = srv.Shutdown(context.WithoutCancel(ctx))
	})
	defer stop()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s server: %w", name, err)
	}

	return nil
}

// shutdown stops srv once in-flight requests finish or ctx expires.
func shutdown(ctx context.Context, srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("shutting down " + name + " server")

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s server: %w", name, err)
	}

	return nil
}
