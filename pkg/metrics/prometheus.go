package metrics

/* request metrics derived from https://github.com/zsais/go-gin-prometheus
edits:
- collectors are created against an injected Registerer
- the metrics endpoint is served by its own http.Server under fx lifecycle
*/

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultMetricPath = "/metrics"

// RequestCounterURLLabelMappingFn controls the cardinality of the "url" label.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// HTTPCollector holds per request collectors for the gin middleware.
type HTTPCollector struct {
	reqCnt       *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqSz, resSz *prometheus.SummaryVec
}

func NewHTTPCollector(reg prometheus.Registerer) *HTTPCollector {
	factory := promauto.With(reg)
	labels := []string{"code", "method", "url", "ref"}
	return &HTTPCollector{
		reqCnt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "req_total",
			Help:      "How many HTTP requests processed, partitioned by status code and HTTP method.",
		}, labels),
		reqDur: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "req_dur_ms",
			Help:      "The HTTP request latencies in milliseconds.",
			Buckets:   HistogramBuckets,
		}, labels),
		resSz: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "resp_sz_bytes",
			Help:      "The HTTP response sizes in bytes.",
		}, labels),
		reqSz: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "req_sz_bytes",
			Help:      "The HTTP request sizes in bytes.",
		}, labels),
	}
}

// Middleware records request count, latency and sizes. A nil mapping function
// labels requests with the matched route template, falling back to the raw path.
func (p *HTTPCollector) Middleware(urlFn RequestCounterURLLabelMappingFn) gin.HandlerFunc {
	if urlFn == nil {
		urlFn = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return c.Request.URL.Path
		}
	}
	return func(c *gin.Context) {
		if c.Request.URL.Path == defaultMetricPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSz := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := MillisecondsSince(start)
		resSz := float64(c.Writer.Size())
		url := urlFn(c)
		ref := c.Request.Header.Get(RefererKey)

		p.reqDur.WithLabelValues(status, c.Request.Method, url, ref).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url, ref).Inc()
		p.reqSz.WithLabelValues(status, c.Request.Method, url, ref).Observe(float64(reqSz))
		p.resSz.WithLabelValues(status, c.Request.Method, url, ref).Observe(resSz)
	}
}

// NewMetricsEngine returns a bare engine exposing the gatherer on /metrics.
// It is kept apart from the API engine so scrapes stay out of the access log.
func NewMetricsEngine(g prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(defaultMetricPath, gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	return r
}
