package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abhisek/tinysteps/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Serve runs handler on addr until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	log = logger.OrNop(log)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
