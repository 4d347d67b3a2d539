package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const namespace = "paylist"

// HistogramBuckets are latency buckets in milliseconds.
var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	5, 10, 25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses (500ms - 2s) ---
	750, 1000, 1500, 2000,

	// --- Slow responses, mostly outbound Kit calls (2s - 15s) ---
	3000, 5000, 7500, 10000, 15000,
}

const (
	RefererKey = "X-Referer"
)

// MillisecondsSince returns the elapsed time since start in fractional milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

func computeApproximateRequestSize(r *http.Request) int {
	s := 0
	if r.URL != nil {
		s = len(r.URL.Path)
	}
	s += len(r.Method)
	s += len(r.Proto)
	for name, values := range r.Header {
		s += len(name)
		for _, value := range values {
			s += len(value)
		}
	}
	s += len(r.Host)
	if r.ContentLength != -1 {
		s += int(r.ContentLength)
	}
	return s
}

func newRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

func newGatherer() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}

var Module = fx.Options(
	fx.Provide(newRegisterer, newGatherer),
	fx.Provide(NewHTTPCollector),
	fx.Provide(fx.Annotate(NewWebhookMetrics, fx.As(new(WebhookMetrics)))),
)
