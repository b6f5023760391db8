// Package metrics exposes Prometheus instrumentation for the HTTP server and
// the inventory/recipe/auth operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mixmini"

// Metrics owns a private registry so tests and multiple servers do not
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	toggles         *prometheus.CounterVec
	statusCycles    *prometheus.CounterVec
	recipeWrites    *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inventory_toggles_total",
				Help:      "Ownership toggles by resulting state",
			},
			[]string{"owned"},
		),
		statusCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inventory_status_cycles_total",
				Help:      "Status cycles by new status",
			},
			[]string{"status"},
		),
		recipeWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipe_writes_total",
				Help:      "Recipe create/update/delete operations",
			},
			[]string{"op"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_logins_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"success"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.toggles,
		m.statusCycles,
		m.recipeWrites,
		m.logins,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request duration. The route label is the chi route
// pattern so ids in paths do not blow up cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) RecordToggle(owned bool) {
	m.toggles.WithLabelValues(strconv.FormatBool(owned)).Inc()
}

func (m *Metrics) RecordStatusCycle(status models.PaintStatus) {
	m.statusCycles.WithLabelValues(string(status)).Inc()
}

// RecordRecipeWrite counts a successful recipe write; op is create, update or delete.
func (m *Metrics) RecordRecipeWrite(op string) {
	m.recipeWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordLogin(success bool) {
	m.logins.WithLabelValues(strconv.FormatBool(success)).Inc()
}
