// Package relaunch reopens instances that terminated on their own.
//
// A window closed with reason terminated is relaunched with the same bundle
// and data UUID after a delay, unless it died within the minimum uptime of
// opening (a crash loop) or a relaunch for it is already pending.
package relaunch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/host"
	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Opener inserts launched instances
type Opener interface {
	Open(ctx context.Context, req launcher.InstanceRequest, done host.OpenCallback) (id.WindowID, error)
}

// Relauncher schedules relaunches. Its event handler and completions run on
// the main loop; only the launcher call happens elsewhere.
type Relauncher struct {
	cfg        config.RelaunchConfig
	launcher   launcher.Launcher
	opener     Opener
	dispatcher host.Dispatcher
	metrics    *monitoring.Metrics
	logger     *zap.Logger

	pending map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	// mu orders wg.Add on the main loop against Stop's Wait
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New creates a relauncher
func New(cfg config.RelaunchConfig, l launcher.Launcher, opener Opener, dispatcher host.Dispatcher, logger *zap.Logger) *Relauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Relauncher{
		cfg:        cfg,
		launcher:   l,
		opener:     opener,
		dispatcher: dispatcher,
		logger:     logger.Named("relaunch"),
		pending:    make(map[string]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// WithMetrics adds metrics tracking to the relauncher
func (r *Relauncher) WithMetrics(metrics *monitoring.Metrics) *Relauncher {
	r.metrics = metrics
	return r
}

// Follow subscribes to window closures
func (r *Relauncher) Follow(bus *event.Bus) *Relauncher {
	bus.Subscribe(event.TypeWindowClosed, func(ev event.Event) {
		r.HandleClosed(ev.(event.WindowClosed))
	})
	return r
}

// HandleClosed schedules a relaunch when the closure qualifies. Returns
// whether one was scheduled.
func (r *Relauncher) HandleClosed(ev event.WindowClosed) bool {
	if !r.cfg.Enabled || ev.Reason != types.CloseTerminated {
		return false
	}
	if r.ctx.Err() != nil {
		return false
	}
	k := pendingKey(ev.Instance)
	if _, ok := r.pending[k]; ok {
		r.metrics.Relaunch(monitoring.RelaunchSkipped)
		return false
	}
	if up := ev.Uptime(); up < r.cfg.MinUptime {
		r.metrics.Relaunch(monitoring.RelaunchSkipped)
		r.logger.Warn("Not relaunching short-lived instance",
			zap.String("bundle_id", ev.Instance.BundleID),
			zap.Duration("uptime", up))
		return false
	}

	if !r.track() {
		return false
	}
	r.pending[k] = struct{}{}
	r.metrics.Relaunch(monitoring.RelaunchScheduled)
	r.logger.Info("Relaunch scheduled",
		zap.String("bundle_id", ev.Instance.BundleID),
		zap.String("data_uuid", ev.Instance.DataUUID),
		zap.Duration("delay", r.cfg.Delay))

	go r.launch(k, ev.Instance)
	return true
}

// track registers a launch goroutine unless Stop has begun
func (r *Relauncher) track() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.wg.Add(1)
	return true
}

// Pending returns the number of scheduled relaunches
func (r *Relauncher) Pending() int {
	return len(r.pending)
}

// Stop cancels scheduled relaunches and waits for in-flight launcher calls.
// It may be called from any goroutine; closures handled afterwards are ignored.
func (r *Relauncher) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}

func (r *Relauncher) launch(k string, inst types.Instance) {
	defer r.wg.Done()

	timer := time.NewTimer(r.cfg.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.ctx.Done():
		return
	}

	req, err := r.launcher.RequestInstance(r.ctx, launcher.BundleHandle{
		BundleID:    inst.BundleID,
		DataUUID:    inst.DataUUID,
		DisplayName: inst.DisplayName,
	})
	if r.ctx.Err() != nil {
		return
	}
	postErr := r.dispatcher.Post(func() {
		delete(r.pending, k)
		if err != nil {
			r.failed(inst, err)
			return
		}
		r.open(inst, req)
	})
	if postErr != nil {
		r.logger.Debug("Relaunch dropped", zap.String("bundle_id", inst.BundleID), zap.Error(postErr))
	}
}

func (r *Relauncher) open(inst types.Instance, req launcher.InstanceRequest) {
	_, err := r.opener.Open(r.ctx, req, func(w *window.VirtualWindow, err error) {
		if err != nil {
			r.failed(inst, err)
			return
		}
		r.metrics.Relaunch(monitoring.RelaunchOpened)
		r.logger.Info("Instance relaunched",
			zap.String("bundle_id", inst.BundleID),
			zap.String("window_id", w.ID().String()))
	})
	if err != nil {
		r.failed(inst, err)
	}
}

func (r *Relauncher) failed(inst types.Instance, err error) {
	r.metrics.Relaunch(monitoring.RelaunchFailed)
	r.logger.Error("Relaunch failed", zap.String("bundle_id", inst.BundleID), zap.Error(err))
}

func pendingKey(inst types.Instance) string {
	if inst.DataUUID != "" {
		return inst.DataUUID
	}
	return inst.BundleID
}
