package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tap destinations
const (
	TapChrome  = "chrome"
	TapApp     = "app"
	TapSurface = "surface"
)

// Status bar outcomes
const (
	StatusBarForwarded = "forwarded"
	StatusBarDefault   = "default"
	StatusBarStale     = "stale"
)

// Relaunch outcomes
const (
	RelaunchScheduled = "scheduled"
	RelaunchOpened    = "opened"
	RelaunchFailed    = "failed"
	RelaunchSkipped   = "skipped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Window metrics
	WindowsOpen     prometheus.Gauge
	WindowsOpened   prometheus.Counter
	WindowsClosed   *prometheus.CounterVec
	OpensRejected   *prometheus.CounterVec
	OpenDuration    *prometheus.HistogramVec
	FocusChanges    prometheus.Counter
	SurfaceResizes  prometheus.Counter
	TapsRouted      *prometheus.CounterVec
	StatusBarTaps   *prometheus.CounterVec
	PiPActive       prometheus.Gauge
	PiPTransitions  *prometheus.CounterVec
	WSConnections   prometheus.Gauge
	RelaunchesTotal *prometheus.CounterVec

	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the JSON stats endpoint
type Snapshot struct {
	OpenWindows   int64   `json:"open_windows"`
	TotalOpened   int64   `json:"total_opened"`
	TotalClosed   int64   `json:"total_closed"`
	ActivePiP     int64   `json:"active_pip"`
	TapsRouted    int64   `json:"taps_routed"`
	TotalRequests int64   `json:"total_requests"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// NewMetrics creates collectors on reg. A nil reg uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		gatherer:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vwhost_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vwhost_windows_open",
			Help: "Number of open virtual windows",
		}),
		WindowsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "vwhost_windows_opened_total",
			Help: "Total number of virtual windows opened",
		}),
		WindowsClosed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_windows_closed_total",
				Help: "Total number of virtual windows closed",
			},
			[]string{"reason"},
		),
		OpensRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_opens_rejected_total",
				Help: "Open requests that did not produce a window",
			},
			[]string{"reason"},
		),
		OpenDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vwhost_open_duration_seconds",
				Help:    "Time from open request to window insertion",
				Buckets: []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		FocusChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "vwhost_focus_changes_total",
			Help: "Number of focus changes",
		}),
		SurfaceResizes: factory.NewCounter(prometheus.CounterOpts{
			Name: "vwhost_surface_resizes_total",
			Help: "Number of composing surface resizes",
		}),
		TapsRouted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_taps_routed_total",
				Help: "Taps routed by destination",
			},
			[]string{"destination"},
		),
		StatusBarTaps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_status_bar_taps_total",
				Help: "Status bar taps by outcome",
			},
			[]string{"outcome"},
		),
		PiPActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vwhost_pip_sessions_active",
			Help: "Number of floating PiP sessions",
		}),
		PiPTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_pip_transitions_total",
				Help: "PiP state transitions by target state",
			},
			[]string{"state"},
		),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vwhost_ws_connections",
			Help: "Number of active event stream connections",
		}),
		RelaunchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vwhost_relaunches_total",
				Help: "Relaunch attempts of terminated instances",
			},
			[]string{"status"},
		),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vwhost_uptime_seconds",
		Help: "Host uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})
	reg.MustRegister(collectors.NewGoCollector())

	return m
}

// Handler exposes the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.mu.Unlock()
}

// WindowOpened records an inserted window
func (m *Metrics) WindowOpened(open int) {
	if m == nil {
		return
	}
	m.WindowsOpened.Inc()
	m.WindowsOpen.Set(float64(open))

	m.mu.Lock()
	m.snapshot.TotalOpened++
	m.snapshot.OpenWindows = int64(open)
	m.mu.Unlock()
}

// WindowClosed records a closed window
func (m *Metrics) WindowClosed(reason string, open int) {
	if m == nil {
		return
	}
	m.WindowsClosed.WithLabelValues(reason).Inc()
	m.WindowsOpen.Set(float64(open))

	m.mu.Lock()
	m.snapshot.TotalClosed++
	m.snapshot.OpenWindows = int64(open)
	m.mu.Unlock()
}

// OpenRejected records an open that did not produce a window
func (m *Metrics) OpenRejected(reason string) {
	if m == nil {
		return
	}
	m.OpensRejected.WithLabelValues(reason).Inc()
}

// FocusChanged records a focus change
func (m *Metrics) FocusChanged() {
	if m == nil {
		return
	}
	m.FocusChanges.Inc()
}

// SurfaceResized records a composing surface resize
func (m *Metrics) SurfaceResized() {
	if m == nil {
		return
	}
	m.SurfaceResizes.Inc()
}

// TapRouted records where a tap went
func (m *Metrics) TapRouted(destination string) {
	if m == nil {
		return
	}
	m.TapsRouted.WithLabelValues(destination).Inc()

	m.mu.Lock()
	m.snapshot.TapsRouted++
	m.mu.Unlock()
}

// StatusBarTap records a status bar tap outcome
func (m *Metrics) StatusBarTap(outcome string) {
	if m == nil {
		return
	}
	m.StatusBarTaps.WithLabelValues(outcome).Inc()
}

// PiPTransition records a PiP state change and the number of floating sessions
func (m *Metrics) PiPTransition(state string, active int) {
	if m == nil {
		return
	}
	m.PiPTransitions.WithLabelValues(state).Inc()
	m.PiPActive.Set(float64(active))

	m.mu.Lock()
	m.snapshot.ActivePiP = int64(active)
	m.mu.Unlock()
}

// Relaunch records a relaunch attempt
func (m *Metrics) Relaunch(status string) {
	if m == nil {
		return
	}
	m.RelaunchesTotal.WithLabelValues(status).Inc()
}

// IncWSConnections increments event stream connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements event stream connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// Snapshot returns the current values for the JSON stats endpoint
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
