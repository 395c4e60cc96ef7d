package route

import (
	"net/http"
	"strconv"
	"time"

	"github.com/evergreen-ci/gimlet"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/urfave/negroni"
)

const requestIDHeader = "X-Request-Id"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yoga_studio_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yoga_studio_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// NewRequestIDMiddleware tags every request with an id, taken from the
// X-Request-Id header when the caller sends one. The id is echoed in the
// response and added to the request log line.
func NewRequestIDMiddleware() gimlet.Middleware { return &requestIDMiddleware{} }

type requestIDMiddleware struct{}

func (m *requestIDMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	rw.Header().Set(requestIDHeader, id)
	next(rw, gimlet.AddLoggingAnnotation(r, "request_id", id))
}

// newRequestMetrics records the count and latency of requests to one
// route. Routes are labeled by template, not by the requested path.
func newRequestMetrics(route string) gimlet.Middleware { return &requestMetrics{route: route} }

type requestMetrics struct {
	route string
}

func (m *requestMetrics) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	startAt := time.Now()
	res := negroni.NewResponseWriter(rw)
	next(res, r)

	status := strconv.Itoa(res.Status())
	httpRequestsTotal.WithLabelValues(r.Method, m.route, status).Inc()
	httpRequestDuration.WithLabelValues(r.Method, m.route, status).Observe(time.Since(startAt).Seconds())
}
