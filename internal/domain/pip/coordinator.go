package pip

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/layout"
	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Host is the part of the window host the coordinator works with
type Host interface {
	Window(wid id.WindowID) (*window.VirtualWindow, bool)
	Controller(wid id.WindowID) (*scene.DecoratedController, bool)
	IsClosed(wid id.WindowID) bool
	DetachSlot(wid id.WindowID) error
	ReattachSlot(wid id.WindowID) error
	Layout() *layout.Policy
	AddCloseObserver(fn func(w *window.VirtualWindow, reason types.CloseReason))
}

// Options configures the floating presentation
type Options struct {
	Size   types.Size
	Margin int
}

// Coordinator owns every PiP session. Like the host it must only be used
// from the main loop.
type Coordinator struct {
	host      Host
	presenter Presenter
	opts      Options

	sessions map[id.PiPSessionID]*Session
	byWindow map[id.WindowID]*Session

	bus     *event.Bus
	metrics *monitoring.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCoordinator creates a coordinator and registers for window closure on h
func NewCoordinator(h Host, presenter Presenter, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		host:      h,
		presenter: presenter,
		opts:      opts,
		sessions:  make(map[id.PiPSessionID]*Session),
		byWindow:  make(map[id.WindowID]*Session),
		logger:    logger.Named("pip"),
		now:       time.Now,
	}
	h.AddCloseObserver(c.windowClosing)
	return c
}

// WithBus publishes state changes and follows surface resizes
func (c *Coordinator) WithBus(bus *event.Bus) *Coordinator {
	c.bus = bus
	bus.Subscribe(event.TypeSurfaceResized, func(event.Event) { c.reclamp() })
	return c
}

// WithMetrics adds metrics tracking to the coordinator
func (c *Coordinator) WithMetrics(metrics *monitoring.Metrics) *Coordinator {
	c.metrics = metrics
	return c
}

// Detach moves a docked window's surface to the floating presentation
func (c *Coordinator) Detach(wid id.WindowID) (*Session, error) {
	w, ok := c.host.Window(wid)
	if !ok {
		if c.host.IsClosed(wid) {
			return nil, errors.InvalidState("pip.detach", wid.String(), "window is closed")
		}
		return nil, errors.NotFound("pip.detach", wid.String())
	}
	if s, ok := c.byWindow[wid]; ok {
		return nil, errors.InvalidState("pip.detach", wid.String(), "window is already %s", s.state)
	}
	if !w.Visibility().IsVisible() {
		return nil, errors.InvalidState("pip.detach", wid.String(), "window is %s", w.Visibility())
	}
	ctrl, ok := c.host.Controller(wid)
	if !ok {
		return nil, errors.NotFound("pip.detach", wid.String())
	}

	s := &Session{
		id:        id.NewPiPSessionID(),
		windowID:  wid,
		frame:     c.host.Layout().Anchor(c.opts.Size, c.opts.Margin),
		startedAt: c.now(),
	}
	c.sessions[s.id] = s
	c.byWindow[wid] = s
	c.transition(s, types.PiPDetaching)

	surface, err := ctrl.ReleaseSurface()
	if err != nil {
		c.rollback(s)
		return nil, err
	}
	if err := c.presenter.Start(s, surface); err != nil {
		_ = ctrl.AdoptSurface(surface)
		c.rollback(s)
		return nil, fmt.Errorf("pip.detach: start presentation: %w", err)
	}
	if err := c.host.DetachSlot(wid); err != nil {
		c.presenter.Stop(s)
		_ = ctrl.AdoptSurface(surface)
		c.rollback(s)
		return nil, err
	}

	s.surface = surface
	c.transition(s, types.PiPFloating)
	c.logger.Info("Window detached",
		zap.String("window_id", wid.String()),
		zap.String("session_id", s.id.String()))
	return s, nil
}

// Reattach returns a floating session's surface to its window and restores
// the window's layout slot
func (c *Coordinator) Reattach(sid id.PiPSessionID) error {
	s, ok := c.sessions[sid]
	if !ok {
		return errors.NotFound("pip.reattach", sid.String())
	}
	if s.state != types.PiPFloating {
		return errors.InvalidState("pip.reattach", sid.String(), "session is %s", s.state)
	}

	c.transition(s, types.PiPReattaching)
	c.presenter.Stop(s)

	if ctrl, ok := c.host.Controller(s.windowID); ok {
		if err := ctrl.AdoptSurface(s.surface); err != nil {
			c.logger.Warn("Surface not adopted", zap.String("window_id", s.windowID.String()), zap.Error(err))
		}
	}
	if err := c.host.ReattachSlot(s.windowID); err != nil {
		c.logger.Warn("Slot not restored", zap.String("window_id", s.windowID.String()), zap.Error(err))
	}

	s.surface = nil
	c.end(s, types.PiPDocked)
	c.logger.Info("Window reattached",
		zap.String("window_id", s.windowID.String()),
		zap.String("session_id", sid.String()))
	return nil
}

// Move repositions a floating session, clamped to the surface
func (c *Coordinator) Move(sid id.PiPSessionID, frame types.Rect) (types.Rect, error) {
	s, ok := c.sessions[sid]
	if !ok {
		return types.Rect{}, errors.NotFound("pip.move", sid.String())
	}
	if s.state != types.PiPFloating {
		return types.Rect{}, errors.InvalidState("pip.move", sid.String(), "session is %s", s.state)
	}

	s.frame = c.host.Layout().Clamp(frame)
	if err := c.presenter.Move(s); err != nil {
		return s.frame, fmt.Errorf("pip.move: %w", err)
	}
	c.publish(s)
	return s.frame, nil
}

// Session returns a live session
func (c *Coordinator) Session(sid id.PiPSessionID) (*Session, bool) {
	s, ok := c.sessions[sid]
	return s, ok
}

// SessionFor returns the live session of a window
func (c *Coordinator) SessionFor(wid id.WindowID) (*Session, bool) {
	s, ok := c.byWindow[wid]
	return s, ok
}

// Sessions returns every live session, oldest first
func (c *Coordinator) Sessions() []SessionInfo {
	out := make([]SessionInfo, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, s.Info())
	}
	// session ids sort in creation order
	slices.SortFunc(out, func(a, b SessionInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// windowClosing ends the window's session before its chain is torn down.
// Closure wins over any reattach still to come.
func (c *Coordinator) windowClosing(w *window.VirtualWindow, _ types.CloseReason) {
	s, ok := c.byWindow[w.ID()]
	if !ok {
		return
	}
	if s.state == types.PiPFloating {
		c.presenter.Stop(s)
	}
	s.surface = nil
	c.end(s, types.PiPClosed)
	c.logger.Info("PiP session closed with its window",
		zap.String("window_id", w.ID().String()),
		zap.String("session_id", s.id.String()))
}

func (c *Coordinator) rollback(s *Session) {
	c.end(s, types.PiPDocked)
	c.logger.Debug("Detach rolled back", zap.String("window_id", s.windowID.String()))
}

func (c *Coordinator) end(s *Session, state types.PiPState) {
	delete(c.sessions, s.id)
	delete(c.byWindow, s.windowID)
	c.transition(s, state)
}

func (c *Coordinator) transition(s *Session, state types.PiPState) {
	s.state = state
	c.metrics.PiPTransition(string(state), c.floating())
	c.publish(s)
}

func (c *Coordinator) publish(s *Session) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(event.PiPStateChanged{
		SessionID: s.id.String(),
		WindowID:  s.windowID.String(),
		State:     s.state,
		Frame:     s.frame,
	})
}

func (c *Coordinator) floating() int {
	n := 0
	for _, s := range c.sessions {
		if s.state == types.PiPFloating {
			n++
		}
	}
	return n
}

func (c *Coordinator) reclamp() {
	policy := c.host.Layout()
	for _, s := range c.sessions {
		if s.state != types.PiPFloating {
			continue
		}
		if frame := policy.Clamp(s.frame); frame != s.frame {
			s.frame = frame
			_ = c.presenter.Move(s)
			c.publish(s)
		}
	}
}
