package route

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// makeMetricsHandler exposes the process's Prometheus metrics.
func makeMetricsHandler(gatherer prometheus.Gatherer) http.HandlerFunc {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP
}
