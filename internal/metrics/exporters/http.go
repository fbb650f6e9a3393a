// Package exporters publishes the registry metrics over HTTP and the event bus.
package exporters

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler serves every promauto-registered metric in the Prometheus or
// OpenMetrics exposition format. Gathering errors are logged on logger at
// error level when it is non-nil.
func HTTPHandler(logger *slog.Logger) http.Handler {
	opts := promhttp.HandlerOpts{EnableOpenMetrics: true}
	if logger != nil {
		opts.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelError)
	}
	return promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, opts),
	)
}
