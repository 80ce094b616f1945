package statusbar

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Router routes status bar taps to the focused window's controller
type Router struct {
	bar        *StatusBar
	target     Target
	forwarding bool

	bus     *event.Bus
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewRouter creates a router and installs it as bar's tap interceptor
func NewRouter(bar *StatusBar, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		bar:        bar,
		forwarding: true,
		logger:     logger.Named("statusbar"),
	}
	bar.SetTapInterceptor(r)
	return r
}

// WithForwarding switches forwarding to windows on or off. When off the
// router never holds a target and the host default always runs.
func (r *Router) WithForwarding(enabled bool) *Router {
	r.forwarding = enabled
	if !enabled {
		r.target = nil
	}
	return r
}

// WithBus publishes a statusbar.tap event per tap
func (r *Router) WithBus(bus *event.Bus) *Router {
	r.bus = bus
	return r
}

// WithMetrics records tap outcomes
func (r *Router) WithMetrics(metrics *monitoring.Metrics) *Router {
	r.metrics = metrics
	return r
}

// StatusBar returns the bar the router is installed on
func (r *Router) StatusBar() *StatusBar { return r.bar }

// Forwarding reports whether taps may be forwarded to windows
func (r *Router) Forwarding() bool { return r.forwarding }

// SetTarget nominates the controller that receives taps; nil means host default
func (r *Router) SetTarget(t Target) {
	if !r.forwarding {
		return
	}
	r.target = t
}

// Target returns the nominated target, which may have closed since
func (r *Router) Target() Target { return r.target }

// HandleTapAction forwards the tap to the target if it is still open,
// otherwise performs the host default. A stale target is dropped silently.
func (r *Router) HandleTapAction(action types.TapAction) Outcome {
	outcome := r.route(action)

	if r.bus != nil {
		r.bus.Publish(event.StatusBarTap{
			Action:    action,
			Forwarded: outcome.Forwarded,
			WindowID:  outcome.WindowID.String(),
		})
	}
	return outcome
}

func (r *Router) route(action types.TapAction) Outcome {
	t := r.target
	if t != nil && t.IsOpen() {
		if err := t.HandleStatusBarTapAction(action); err == nil {
			r.record(monitoring.StatusBarForwarded)
			return Outcome{Forwarded: true, WindowID: t.WindowID()}
		}
	}

	if t != nil {
		r.logger.Debug("Dropping stale status bar target", zap.String("window_id", t.WindowID().String()))
		r.target = nil
		r.record(monitoring.StatusBarStale)
	}

	r.bar.PerformDefault(action)
	r.record(monitoring.StatusBarDefault)
	return Outcome{}
}

func (r *Router) record(outcome string) {
	if r.metrics != nil {
		r.metrics.StatusBarTap(outcome)
	}
}
