package host

import (
	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// DetachSlot marks a visible window as detached to PiP. Its frame and z rank
// are kept so the slot can be restored. If it had focus, focus moves to the
// most recently focused visible window, if any, without raising it.
func (h *Host) DetachSlot(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.detach_slot", wid.String())
	}
	if !e.win.Visibility().IsVisible() {
		return errors.InvalidState("host.detach_slot", wid.String(), "window is %s", e.win.Visibility())
	}

	e.win.SetVisibility(types.VisibilityDetached)
	if h.focused == wid {
		if next := h.mostRecent(wid, types.Visibility.IsVisible); next != nil {
			if prev, changed := h.focusEntry(next, false); changed {
				h.publish(event.WindowFocused{WindowID: next.id().String(), Previous: prev.String()})
			}
		}
	}
	return nil
}

// ReattachSlot returns a detached window to its kept slot without changing
// its frame or z rank
func (h *Host) ReattachSlot(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.reattach_slot", wid.String())
	}
	if e.win.Visibility() != types.VisibilityDetached {
		return errors.InvalidState("host.reattach_slot", wid.String(), "window is %s", e.win.Visibility())
	}

	if e.win.Focused() {
		e.win.SetVisibility(types.VisibilityForeground)
	} else {
		e.win.SetVisibility(types.VisibilityBackground)
	}
	return nil
}
