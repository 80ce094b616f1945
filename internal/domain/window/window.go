package window

import (
	"time"

	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Chain is the controller chain a window owns exclusively
type Chain interface {
	Teardown()
}

// VirtualWindow is a logical window multiplexed onto the host surface
type VirtualWindow struct {
	id       id.WindowID
	instance types.Instance
	openedAt time.Time

	frame        types.Rect
	restoreFrame types.Rect
	maximized    bool
	zOrder       int
	focused      bool
	visibility   types.Visibility

	chain Chain
}

// New creates a window in the opening state
func New(wid id.WindowID, instance types.Instance, openedAt time.Time) *VirtualWindow {
	return &VirtualWindow{
		id:         wid,
		instance:   instance,
		openedAt:   openedAt,
		zOrder:     -1,
		visibility: types.VisibilityOpening,
	}
}

func (w *VirtualWindow) ID() id.WindowID              { return w.id }
func (w *VirtualWindow) Instance() types.Instance     { return w.instance }
func (w *VirtualWindow) OpenedAt() time.Time          { return w.openedAt }
func (w *VirtualWindow) Frame() types.Rect            { return w.frame }
func (w *VirtualWindow) RestoreFrame() types.Rect     { return w.restoreFrame }
func (w *VirtualWindow) Maximized() bool              { return w.maximized }
func (w *VirtualWindow) ZOrder() int                  { return w.zOrder }
func (w *VirtualWindow) Focused() bool                { return w.focused }
func (w *VirtualWindow) Visibility() types.Visibility { return w.visibility }

// Title is the display name, falling back to the bundle id
func (w *VirtualWindow) Title() string {
	if w.instance.DisplayName != "" {
		return w.instance.DisplayName
	}
	return w.instance.BundleID
}

// IsOpen reports whether the window is part of the layout
func (w *VirtualWindow) IsOpen() bool {
	return w.visibility.IsOpen()
}

// IsClosed reports whether the window has been closed or discarded
func (w *VirtualWindow) IsClosed() bool {
	return w.visibility == types.VisibilityClosed
}

// Attach binds the controller chain. A window owns exactly one chain.
func (w *VirtualWindow) Attach(chain Chain) error {
	if w.IsClosed() {
		return errors.InvalidState("window.attach", w.id.String(), "window is closed")
	}
	if w.chain != nil {
		return errors.InvalidState("window.attach", w.id.String(), "controller chain already attached")
	}
	w.chain = chain
	return nil
}

// Chain returns the attached controller chain, nil before insertion
func (w *VirtualWindow) Chain() Chain {
	return w.chain
}

// SetFrame records the window frame
func (w *VirtualWindow) SetFrame(r types.Rect) {
	if w.IsClosed() {
		return
	}
	w.frame = r
}

// SetMaximized records the maximized flag and the frame to return to
func (w *VirtualWindow) SetMaximized(maximized bool, restore types.Rect) {
	if w.IsClosed() {
		return
	}
	w.maximized = maximized
	w.restoreFrame = restore
}

// SetZOrder records the z rank (0 = bottom)
func (w *VirtualWindow) SetZOrder(z int) {
	if w.IsClosed() {
		return
	}
	w.zOrder = z
}

// SetFocused sets or clears the focus flag
func (w *VirtualWindow) SetFocused(focused bool) {
	if w.IsClosed() {
		return
	}
	w.focused = focused
}

// SetVisibility moves the window between open visibility states.
// Closing goes through Close.
func (w *VirtualWindow) SetVisibility(v types.Visibility) {
	if w.IsClosed() || v == types.VisibilityClosed {
		return
	}
	w.visibility = v
}

// Close tears the controller chain down and marks the window closed.
// Returns false if the window was already closed.
func (w *VirtualWindow) Close() bool {
	if w.IsClosed() {
		return false
	}
	w.visibility = types.VisibilityClosed
	w.focused = false

	if w.chain != nil {
		chain := w.chain
		w.chain = nil
		chain.Teardown()
	}
	return true
}

// Info returns a read-only view of the window
func (w *VirtualWindow) Info() types.WindowInfo {
	return types.WindowInfo{
		ID:         w.id.String(),
		Instance:   w.instance,
		Title:      w.Title(),
		Frame:      w.frame,
		ZOrder:     w.zOrder,
		Focused:    w.focused,
		Maximized:  w.maximized,
		Visibility: w.visibility,
		OpenedAt:   w.openedAt,
	}
}

// Snapshot returns the persisted arrangement tuple
func (w *VirtualWindow) Snapshot() types.WindowSnapshot {
	return types.WindowSnapshot{
		ID:        w.id.String(),
		Frame:     w.frame,
		ZOrder:    w.zOrder,
		Maximized: w.maximized,
		Restore:   w.restoreFrame,
	}
}
