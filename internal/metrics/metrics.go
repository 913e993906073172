package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics:
// - http_requests_total: requests by path, method and status
// - http_request_duration_seconds: request latency by path and method
// - perceptron_predictions_total: evaluated vectors by activation and outcome
// - perceptron_configuration_reloads_total: reloads by outcome
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by path, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "perceptron_predictions_total", Help: "Evaluated input vectors by activation and outcome."},
		[]string{"activation", "outcome"},
	)
	ConfigurationReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "perceptron_configuration_reloads_total", Help: "Configuration reloads by outcome."},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, Predictions, ConfigurationReloads)
}

// ObservePrediction counts one evaluated vector.
func ObservePrediction(activation string, err error) {
	Predictions.WithLabelValues(activation, outcome(err)).Inc()
}

func ObserveReload(err error) {
	ConfigurationReloads.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler records request count and latency.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer serves the default Prometheus registry.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
