package host

import (
	"slices"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Close tears down the window's controller chain, removes it from the layout
// and moves focus to the most recently focused remaining window. Closing an
// unknown or already closed id is a no-op. Closing a pending open discards it.
func (h *Host) Close(wid id.WindowID, reason types.CloseReason) error {
	if h.cancelPending(wid) {
		return nil
	}
	e, ok := h.entries[wid]
	if !ok {
		return nil
	}
	if reason == "" {
		reason = types.CloseRequested
	}

	for _, observe := range h.observers {
		observe(e.win, reason)
	}

	wasFocused := h.focused == wid
	e.win.Close()

	delete(h.entries, wid)
	delete(h.byScene, e.sceneID)
	h.order = slices.DeleteFunc(h.order, func(x id.WindowID) bool { return x == wid })
	h.history = slices.DeleteFunc(h.history, func(x id.WindowID) bool { return x == wid })
	h.restack()
	h.scenes.Release(wid)
	h.rememberClosed(wid)

	h.metrics.WindowClosed(string(reason), len(h.entries))
	h.publish(event.WindowClosed{
		WindowID: wid.String(),
		Instance: e.win.Instance(),
		Reason:   reason,
		OpenedAt: e.win.OpenedAt(),
		ClosedAt: h.now(),
	})

	if wasFocused {
		if next := h.nextFocus(wid); next != nil {
			h.bringToFront(next)
		} else {
			h.focused = ""
			h.router.SetTarget(nil)
			h.publish(event.WindowFocused{Previous: wid.String()})
		}
	}

	h.logger.Info("Window closed",
		zap.String("window_id", wid.String()),
		zap.String("reason", string(reason)),
		zap.Int("remaining", len(h.entries)))
	return nil
}

// CloseAll closes every window, top first, and discards pending opens
func (h *Host) CloseAll(reason types.CloseReason) {
	for wid := range h.pending {
		h.cancelPending(wid)
	}
	for len(h.order) > 0 {
		_ = h.Close(h.order[len(h.order)-1], reason)
	}
}
