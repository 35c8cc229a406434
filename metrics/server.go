package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Handler exposes gatherer in the Prometheus text format under /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

// Serve runs the metrics endpoint on addr until ctx is done.
// It returns nil after a clean shutdown.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger marketplace.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(gatherer),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx) //nolint:contextcheck
	}()

	if logger != nil {
		logger.Info("serving metrics", "addr", addr, "path", metricsPath)
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
