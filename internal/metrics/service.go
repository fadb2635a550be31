// Prometheus instrumentation of JackStatz.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service layer of internal package metrics.
// Every collector lives on its own registry so a test can build as many as it likes.
type Service interface {
	// SubscriberAdded is called once a live game viewer enters the registry.
	SubscriberAdded()
	// SubscriberRemoved is called once a viewer leaves the registry, however it left.
	SubscriberRemoved()
	// SubscriberDropped counts viewers evicted because a delivery to them failed.
	SubscriberDropped()
	// EventBroadcast counts one fan-out of an event of the given type.
	EventBroadcast(eventType string)
	// ObserveRequest records one served http request.
	ObserveRequest(method, path string, status int, elapsed time.Duration)
	// Handler exposes the registry in the prometheus text format.
	Handler() http.Handler
	// Registry used by this service.
	Registry() *prometheus.Registry
}

type service struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	subscribers        prometheus.Gauge
	eventsBroadcast    *prometheus.CounterVec
	subscribersDropped prometheus.Counter
}

func NewService() Service {
	s := &service{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "path", "status"},
		),
		subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "sse_subscribers", Help: "Live game viewers currently subscribed."},
		),
		eventsBroadcast: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sse_events_broadcast_total", Help: "Events fanned out to live game viewers by type."},
			[]string{"type"},
		),
		subscribersDropped: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "sse_subscribers_dropped_total", Help: "Viewers evicted after a failed delivery."},
		),
	}
	s.registry.MustRegister(
		s.httpRequests,
		s.httpDuration,
		s.subscribers,
		s.eventsBroadcast,
		s.subscribersDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return s
}

func (s *service) SubscriberAdded()   { s.subscribers.Inc() }
func (s *service) SubscriberRemoved() { s.subscribers.Dec() }
func (s *service) SubscriberDropped() { s.subscribersDropped.Inc() }

func (s *service) EventBroadcast(eventType string) {
	s.eventsBroadcast.WithLabelValues(eventType).Inc()
}

func (s *service) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	s.httpRequests.WithLabelValues(method, path, code).Inc()
	s.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (s *service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func (s *service) Registry() *prometheus.Registry {
	return s.registry
}

// Middleware records every request against the route pattern, not the raw path, to keep label cardinality low.
func Middleware(service Service) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()
		gctx.Next()
		path := gctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		service.ObserveRequest(gctx.Request.Method, path, gctx.Writer.Status(), time.Since(start))
	}
}

// Exposes /metrics onto the gin server.
func APIHandlers(router *gin.Engine, service Service) {
	router.GET("/metrics", gin.WrapH(service.Handler()))
}
