package host

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Minimize takes a window off screen while keeping its layout slot. Focus
// moves to the most recently focused visible window, if there is one.
func (h *Host) Minimize(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.minimize", wid.String())
	}
	switch e.win.Visibility() {
	case types.VisibilityMinimized:
		return nil
	case types.VisibilityDetached:
		return errors.InvalidState("host.minimize", wid.String(), "window is detached to picture-in-picture")
	}
	h.minimizeEntry(e)
	return nil
}

func (h *Host) minimizeEntry(e *entry) {
	_ = e.ctrl.Dismiss()
	e.win.SetVisibility(types.VisibilityMinimized)
	h.publish(event.WindowMinimized{WindowID: e.id().String()})

	if h.focused == e.id() {
		if next := h.mostRecent(e.id(), types.Visibility.IsVisible); next != nil {
			h.bringToFront(next)
		}
	}
}

// Restore brings a minimized window back and focuses it
func (h *Host) Restore(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.restore", wid.String())
	}
	if e.win.Visibility() == types.VisibilityDetached {
		return errors.InvalidState("host.restore", wid.String(), "window is detached to picture-in-picture")
	}
	h.bringToFront(e)
	return nil
}

func (h *Host) restoreEntry(e *entry) {
	e.win.SetVisibility(types.VisibilityBackground)
	_ = e.ctrl.Present()
	h.publish(event.WindowRestored{WindowID: e.id().String()})
}

// ToggleMaximize fills the surface with the window, or returns it to the
// frame it had before maximizing. The window is focused either way.
func (h *Host) ToggleMaximize(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.maximize", wid.String())
	}
	if e.win.Visibility() == types.VisibilityDetached {
		return errors.InvalidState("host.maximize", wid.String(), "window is detached to picture-in-picture")
	}

	var frame types.Rect
	if e.win.Maximized() {
		frame = h.policy.Clamp(e.win.RestoreFrame())
		e.win.SetMaximized(false, types.Rect{})
	} else {
		e.win.SetMaximized(true, e.win.Frame())
		frame = h.policy.Maximized()
	}
	_ = e.ctrl.UpdateFrame(frame)

	h.publish(event.WindowMaximized{WindowID: wid.String(), Maximized: e.win.Maximized(), Frame: frame})
	h.publish(event.WindowFrameChanged{WindowID: wid.String(), Frame: frame})
	h.bringToFront(e)
	return nil
}

// SetFrame moves or resizes a window. The frame is clamped into the surface
// and maximize is cleared. Returns the frame actually applied.
func (h *Host) SetFrame(wid id.WindowID, frame types.Rect) (types.Rect, error) {
	e, ok := h.entries[wid]
	if !ok {
		return types.Rect{}, errors.NotFound("host.set_frame", wid.String())
	}
	if e.win.Visibility() == types.VisibilityDetached {
		return types.Rect{}, errors.InvalidState("host.set_frame", wid.String(), "window is detached to picture-in-picture")
	}

	frame = h.policy.Clamp(frame)
	if e.win.Maximized() {
		e.win.SetMaximized(false, types.Rect{})
	}
	if frame != e.win.Frame() {
		_ = e.ctrl.UpdateFrame(frame)
		h.publish(event.WindowFrameChanged{WindowID: wid.String(), Frame: frame})
	}
	return frame, nil
}

// ResizeSurface changes the composing surface and re-clamps every frame,
// keeping each window's relative position. Z-order is untouched.
func (h *Host) ResizeSurface(size types.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return errors.InvalidState("host.resize_surface", "", "surface must be positive, got %dx%d", size.Width, size.Height)
	}
	old := h.policy.SetSurface(size)

	for _, wid := range h.order {
		e := h.entries[wid]
		var frame types.Rect
		if e.win.Maximized() {
			e.win.SetMaximized(true, h.policy.Rescale(e.win.RestoreFrame(), old))
			frame = h.policy.Maximized()
		} else {
			frame = h.policy.Rescale(e.win.Frame(), old)
		}
		if frame != e.win.Frame() {
			_ = e.ctrl.UpdateFrame(frame)
			h.publish(event.WindowFrameChanged{WindowID: wid.String(), Frame: frame})
		}
	}

	h.metrics.SurfaceResized()
	h.publish(event.SurfaceResized{Size: size})
	h.logger.Debug("Surface resized", zap.Int("width", size.Width), zap.Int("height", size.Height))
	return nil
}

// HandleSceneEvent routes a host-process scene notification to the owning
// window: created presents, destroyed closes with reason terminated, resized
// updates the frame.
func (h *Host) HandleSceneEvent(ev types.SceneEvent) error {
	wid, ok := h.byScene[ev.SceneID]
	if !ok {
		return errors.NotFound("host.scene_event", ev.SceneID)
	}
	e := h.entries[wid]

	switch ev.Kind {
	case types.SceneCreated:
		if e.win.Visibility().IsVisible() {
			return e.ctrl.Present()
		}
		return nil
	case types.SceneDestroyed:
		return h.Close(wid, types.CloseTerminated)
	case types.SceneResized:
		_, err := h.SetFrame(wid, ev.Frame)
		return err
	default:
		return errors.InvalidState("host.scene_event", ev.SceneID, "unknown scene event %q", ev.Kind)
	}
}

// SceneOf returns the scene id bound to a window
func (h *Host) SceneOf(wid id.WindowID) (string, bool) {
	e, ok := h.entries[wid]
	if !ok {
		return "", false
	}
	return e.sceneID, true
}
