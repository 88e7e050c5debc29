package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/arecabot/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Serve runs an HTTP server on addr until ctx is cancelled, then drains
// in-flight requests.
func Serve(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.Fields{"addr": addr})
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)

	case <-ctx.Done():
		log.Info("shutting down http server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown failed", nil)
			if err := server.Close(); err != nil {
				return fmt.Errorf("closing http server: %w", err)
			}
		}
		log.Info("http server stopped", nil)
		return nil
	}
}
