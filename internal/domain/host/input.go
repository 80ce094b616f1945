package host

import (
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// RouteTap decides whether a tap is handled by the host. It returns false
// when the tap must be forwarded to the hosted app under the point.
//
// A tap on a window that does not have focus focuses it first. Chrome taps
// run the chrome action; taps on the bare surface are swallowed. Status bar
// taps go through the status bar and its router: false means the focused
// window's controller received it.
func (h *Host) RouteTap(p types.Point, gesture types.GestureKind) bool {
	if gesture == types.GestureStatusBarTap {
		outcome := h.router.StatusBar().Tap(types.TapAction{
			Name:     types.DefaultTapActionName,
			Location: p,
			At:       h.now(),
		})
		return !outcome.Forwarded
	}

	e := h.topmostAt(p)
	if e == nil {
		h.metrics.TapRouted(monitoring.TapSurface)
		return true
	}

	region := e.ctrl.HitTest(p)
	if h.focused != e.id() {
		h.bringToFront(e)
	}

	switch region {
	case types.HitCloseButton:
		_ = h.Close(e.id(), types.CloseRequested)
	case types.HitMinimizeButton:
		_ = h.Minimize(e.id())
	case types.HitMaximizeButton:
		_ = h.ToggleMaximize(e.id())
	case types.HitTitleBar:
		if gesture == types.GestureDoubleTap {
			_ = h.ToggleMaximize(e.id())
		}
	case types.HitContent:
		h.metrics.TapRouted(monitoring.TapApp)
		return false
	}

	h.metrics.TapRouted(monitoring.TapChrome)
	return true
}

// HitTest reports which window and region lie under a point
func (h *Host) HitTest(p types.Point) (string, types.HitRegion) {
	e := h.topmostAt(p)
	if e == nil {
		return "", types.HitNone
	}
	return e.id().String(), e.ctrl.HitTest(p)
}

func (h *Host) topmostAt(p types.Point) *entry {
	for i := len(h.order) - 1; i >= 0; i-- {
		e := h.entries[h.order[i]]
		if e.win.Visibility().IsVisible() && e.win.Frame().Contains(p) {
			return e
		}
	}
	return nil
}
