package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's collectors in a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	upstreamUp    *prometheus.GaugeVec
	probeDuration *prometheus.HistogramVec
	proxied       *prometheus.CounterVec
	proxyDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		upstreamUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "campus",
				Subsystem: "gateway",
				Name:      "upstream_up",
				Help:      "Outcome of the last health probe, one series per status set to 1 or 0.",
			},
			[]string{"upstream", "status"},
		),
		probeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campus",
				Subsystem: "gateway",
				Name:      "probe_duration_seconds",
				Help:      "Duration of upstream health probes.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"upstream"},
		),
		proxied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "campus",
				Subsystem: "gateway",
				Name:      "proxied_requests_total",
				Help:      "Requests forwarded to upstreams.",
			},
			[]string{"upstream", "status"},
		),
		proxyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "campus",
				Subsystem: "gateway",
				Name:      "proxy_duration_seconds",
				Help:      "Duration of proxied requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"upstream"},
		),
	}
	m.Registry.MustRegister(m.upstreamUp, m.probeDuration, m.proxied, m.proxyDuration)
	return m
}

func (m *Metrics) ObserveProbe(r Result) {
	for _, s := range []Status{StatusOK, StatusError, StatusDown} {
		v := 0.0
		if r.Status == s {
			v = 1
		}
		m.upstreamUp.WithLabelValues(r.Name, string(s)).Set(v)
	}
	m.probeDuration.WithLabelValues(r.Name).Observe(time.Duration(r.LatencyMS * float64(time.Millisecond)).Seconds())
}

func (m *Metrics) ObserveProxy(upstream string, status int, d time.Duration) {
	m.proxied.WithLabelValues(upstream, strconv.Itoa(status)).Inc()
	m.proxyDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
