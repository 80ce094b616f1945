package host

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/layout"
	"github.com/GriffinCanCode/vwhost/internal/domain/rules"
	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/domain/statusbar"
	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Dispatcher re-enters the main loop from another goroutine
type Dispatcher interface {
	Post(fn func()) error
}

// CloseObserver is told about a window before its controller chain is torn down
type CloseObserver func(w *window.VirtualWindow, reason types.CloseReason)

// Options configures a Host
type Options struct {
	MaxWindows       int
	Surface          types.Size
	DefaultSize      types.Size
	MinSize          types.Size
	CascadeStep      int
	Chrome           scene.Chrome
	LaunchMaximized  bool
	MaxOneAppOnStage bool
}

// OptionsFromConfig maps host configuration to options
func OptionsFromConfig(cfg config.HostConfig) Options {
	chrome := scene.Chrome{
		TitleBarHeight: cfg.TitleBarHeight,
		ButtonWidth:    cfg.ButtonWidth,
		ResizeHandle:   cfg.ResizeHandleSize,
		Position:       scene.TitleBarTop,
	}
	if cfg.BottomWindowBar {
		chrome.Position = scene.TitleBarBottom
	}
	return Options{
		MaxWindows:       cfg.MaxWindows,
		Surface:          types.Size{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight},
		DefaultSize:      types.Size{Width: cfg.DefaultWidth, Height: cfg.DefaultHeight},
		MinSize:          types.Size{Width: cfg.MinWidth, Height: cfg.MinHeight},
		CascadeStep:      cfg.CascadeStep,
		Chrome:           chrome,
		LaunchMaximized:  cfg.LaunchMaximized,
		MaxOneAppOnStage: cfg.MaxOneAppOnStage,
	}
}

type entry struct {
	win     *window.VirtualWindow
	ctrl    *scene.DecoratedController
	sceneID string
}

func (e *entry) id() id.WindowID { return e.win.ID() }

// Host is the composing surface
type Host struct {
	opts       Options
	policy     *layout.Policy
	scenes     scene.Factory
	router     *statusbar.Router
	dispatcher Dispatcher

	entries   map[id.WindowID]*entry
	byScene   map[string]id.WindowID
	order     []id.WindowID // z-order, bottom first
	history   []id.WindowID // focus history, most recent last
	focused   id.WindowID
	pending   map[id.WindowID]*pendingOpen
	closed    map[id.WindowID]struct{}
	closedLog []id.WindowID // oldest first, bounded by ClosedMemory
	observers []CloseObserver

	rules   *rules.Set
	bus     *event.Bus
	metrics *monitoring.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a host. The router is the process-wide status bar router; the
// dispatcher is needed only for opens that wait for readiness.
func New(opts Options, scenes scene.Factory, router *statusbar.Router, dispatcher Dispatcher, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	if router == nil {
		router = statusbar.NewRouter(statusbar.NewStatusBar(nil), logger)
	}
	if opts.MaxWindows <= 0 {
		opts.MaxWindows = 1
	}
	return &Host{
		opts:       opts,
		policy:     layout.NewPolicy(opts.Surface, opts.DefaultSize, opts.MinSize, opts.CascadeStep),
		scenes:     scenes,
		router:     router,
		dispatcher: dispatcher,
		entries:    make(map[id.WindowID]*entry),
		byScene:    make(map[string]id.WindowID),
		pending:    make(map[id.WindowID]*pendingOpen),
		closed:     make(map[id.WindowID]struct{}),
		logger:     logger.Named("host"),
		now:        time.Now,
	}
}

// WithBus publishes lifecycle events on bus
func (h *Host) WithBus(bus *event.Bus) *Host {
	h.bus = bus
	return h
}

// WithMetrics adds metrics tracking to the host
func (h *Host) WithMetrics(metrics *monitoring.Metrics) *Host {
	h.metrics = metrics
	return h
}

// WithRules applies placement rules to new windows
func (h *Host) WithRules(set *rules.Set) *Host {
	h.rules = set
	return h
}

// WithClock replaces the clock used for timestamps
func (h *Host) WithClock(now func() time.Time) *Host {
	h.now = now
	return h
}

// AddCloseObserver registers fn to run before any window is torn down
func (h *Host) AddCloseObserver(fn func(w *window.VirtualWindow, reason types.CloseReason)) {
	h.observers = append(h.observers, fn)
}

// Options returns the host options
func (h *Host) Options() Options { return h.opts }

// Router returns the status bar router
func (h *Host) Router() *statusbar.Router { return h.router }

// Surface returns the composing surface size
func (h *Host) Surface() types.Size { return h.policy.Surface() }

// Bounds returns the composing surface rect
func (h *Host) Bounds() types.Rect { return h.policy.Bounds() }

// Layout returns the placement policy
func (h *Host) Layout() *layout.Policy { return h.policy }

// Count returns the number of open windows
func (h *Host) Count() int { return len(h.entries) }

// Pending returns the number of opens awaiting readiness
func (h *Host) Pending() int { return len(h.pending) }

// Window returns an open window
func (h *Host) Window(wid id.WindowID) (*window.VirtualWindow, bool) {
	e, ok := h.entries[wid]
	if !ok {
		return nil, false
	}
	return e.win, true
}

// Controller returns the controller chain of an open window
func (h *Host) Controller(wid id.WindowID) (*scene.DecoratedController, bool) {
	e, ok := h.entries[wid]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

// Focused returns the focused window id
func (h *Host) Focused() (id.WindowID, bool) {
	if _, ok := h.entries[h.focused]; !ok {
		return "", false
	}
	return h.focused, true
}

// ClosedMemory bounds how many closed window ids IsClosed remembers. Older
// ids are reported as unknown.
const ClosedMemory = 1024

// IsClosed reports whether wid belonged to a window that has since closed
func (h *Host) IsClosed(wid id.WindowID) bool {
	_, ok := h.closed[wid]
	return ok
}

func (h *Host) rememberClosed(wid id.WindowID) {
	h.closed[wid] = struct{}{}
	h.closedLog = append(h.closedLog, wid)
	if len(h.closedLog) > ClosedMemory {
		delete(h.closed, h.closedLog[0])
		h.closedLog = slices.Delete(h.closedLog, 0, 1)
	}
}

// Order returns window ids bottom to top
func (h *Host) Order() []id.WindowID {
	return append([]id.WindowID(nil), h.order...)
}

// Windows returns every open window, bottom to top
func (h *Host) Windows() []types.WindowInfo {
	out := make([]types.WindowInfo, 0, len(h.order))
	for _, wid := range h.order {
		out = append(out, h.entries[wid].win.Info())
	}
	return out
}

// Snapshots returns the arrangement tuples of every open window, bottom to top
func (h *Host) Snapshots() []types.WindowSnapshot {
	out := make([]types.WindowSnapshot, 0, len(h.order))
	for _, wid := range h.order {
		out = append(out, h.entries[wid].win.Snapshot())
	}
	return out
}

// FindByDataUUID returns the open window presenting the given data UUID
func (h *Host) FindByDataUUID(dataUUID string) (*window.VirtualWindow, bool) {
	for _, wid := range h.order {
		if w := h.entries[wid].win; w.Instance().DataUUID == dataUUID {
			return w, true
		}
	}
	return nil, false
}

// PendingByDataUUID returns the window reserved for the given data UUID while
// its instance is still loading, along with the open request's id
func (h *Host) PendingByDataUUID(dataUUID string) (id.WindowID, id.RequestID, bool) {
	for wid, p := range h.pending {
		if p.req.Instance.DataUUID == dataUUID {
			return wid, p.req.ID, true
		}
	}
	return "", "", false
}

func (h *Host) publish(ev event.Event) {
	if h.bus != nil {
		h.bus.Publish(ev)
	}
}
