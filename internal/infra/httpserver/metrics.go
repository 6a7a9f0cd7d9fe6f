package httpserver

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const unmatchedRoute = "unmatched"

type requestInstruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
	size     metric.Int64Histogram
}

var (
	instruments     requestInstruments
	instrumentsOnce sync.Once
)

func initMetrics() {
	instrumentsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("gaitbase")

		var err error
		instruments.duration, err = meter.Float64Histogram(
			"gaitbase.http.request.duration.seconds",
			metric.WithDescription("Duration of HTTP requests"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
		)
		if err != nil {
			panic(err)
		}
		instruments.total, err = meter.Int64Counter(
			"gaitbase.http.requests.total",
			metric.WithDescription("Total number of HTTP requests"),
		)
		if err != nil {
			panic(err)
		}
		instruments.active, err = meter.Int64UpDownCounter(
			"gaitbase.http.requests.active",
			metric.WithDescription("HTTP requests being served"),
		)
		if err != nil {
			panic(err)
		}
		instruments.size, err = meter.Int64Histogram(
			"gaitbase.http.response.size",
			metric.WithDescription("Bytes written in HTTP responses"),
			metric.WithUnit("By"),
		)
		if err != nil {
			panic(err)
		}
	})
}

// MetricsMiddleware labels requests with the route pattern the router would
// pick, so field names and ids never become label values.
func MetricsMiddleware(router *http.ServeMux) func(http.Handler) http.Handler {
	initMetrics()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeOf(router, r)

			inFlight := metric.WithAttributes(attribute.String("http.route", route))
			instruments.active.Add(r.Context(), 1, inFlight)
			defer instruments.active.Add(r.Context(), -1, inFlight)

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)

			done := metric.WithAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", recorder.statusCode),
			)
			instruments.duration.Record(r.Context(), time.Since(start).Seconds(), done)
			instruments.total.Add(r.Context(), 1, done)
			instruments.size.Record(r.Context(), recorder.written, done)
		})
	}
}

func routeOf(router *http.ServeMux, r *http.Request) string {
	if router == nil {
		return unmatchedRoute
	}
	if _, pattern := router.Handler(r); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack lets the events websocket upgrade through the middleware chain.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("response writer cannot be hijacked")
}
