package host

import (
	"slices"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Focus raises the window to the top of the z-order and gives it the focus
// flag. A minimized window is restored. A window detached to PiP keeps its
// layout slot and is not raised.
func (h *Host) Focus(wid id.WindowID) error {
	e, ok := h.entries[wid]
	if !ok {
		return errors.NotFound("host.focus", wid.String())
	}
	h.bringToFront(e)
	return nil
}

func (h *Host) bringToFront(e *entry) {
	if e.win.Visibility() == types.VisibilityMinimized {
		h.restoreEntry(e)
	}
	raise := e.win.Visibility() != types.VisibilityDetached
	if prev, changed := h.focusEntry(e, raise); changed {
		h.publish(event.WindowFocused{WindowID: e.id().String(), Previous: prev.String()})
	}
	if e.win.Maximized() && h.opts.MaxOneAppOnStage {
		h.clearStage(e)
	}
}

// focusEntry moves the focus flag to e and nominates its controller for
// status bar taps. Returns the previously focused id and whether focus moved.
func (h *Host) focusEntry(e *entry, raise bool) (id.WindowID, bool) {
	if raise {
		h.raise(e.id())
	}

	prev := h.focused
	if prev == e.id() {
		return prev, false
	}
	if p, ok := h.entries[prev]; ok {
		p.win.SetFocused(false)
		if p.win.Visibility() == types.VisibilityForeground {
			p.win.SetVisibility(types.VisibilityBackground)
		}
	}

	e.win.SetFocused(true)
	if e.win.Visibility() == types.VisibilityBackground {
		e.win.SetVisibility(types.VisibilityForeground)
	}
	h.focused = e.id()
	h.touchHistory(e.id())
	h.router.SetTarget(e.ctrl)
	h.metrics.FocusChanged()
	return prev, true
}

// clearStage minimizes every visible window except keep
func (h *Host) clearStage(keep *entry) {
	for _, wid := range slices.Clone(h.order) {
		if wid == keep.id() {
			continue
		}
		if e := h.entries[wid]; e.win.Visibility().IsVisible() {
			h.minimizeEntry(e)
		}
	}
}

// nextFocus picks the most recently focused window other than exclude,
// preferring visible over minimized over detached.
func (h *Host) nextFocus(exclude id.WindowID) *entry {
	if e := h.mostRecent(exclude, types.Visibility.IsVisible); e != nil {
		return e
	}
	if e := h.mostRecent(exclude, func(v types.Visibility) bool { return v == types.VisibilityMinimized }); e != nil {
		return e
	}
	return h.mostRecent(exclude, types.Visibility.IsOpen)
}

func (h *Host) mostRecent(exclude id.WindowID, match func(types.Visibility) bool) *entry {
	for i := len(h.history) - 1; i >= 0; i-- {
		wid := h.history[i]
		if wid == exclude {
			continue
		}
		if e, ok := h.entries[wid]; ok && match(e.win.Visibility()) {
			return e
		}
	}
	// Windows never focused yet, topmost first
	for i := len(h.order) - 1; i >= 0; i-- {
		wid := h.order[i]
		if wid == exclude || slices.Contains(h.history, wid) {
			continue
		}
		if e := h.entries[wid]; match(e.win.Visibility()) {
			return e
		}
	}
	return nil
}

func (h *Host) touchHistory(wid id.WindowID) {
	h.history = slices.DeleteFunc(h.history, func(x id.WindowID) bool { return x == wid })
	h.history = append(h.history, wid)
}

// raise moves wid to the top of the docked windows. Windows detached to PiP
// stay pinned at their rank so reattaching restores it.
func (h *Host) raise(wid id.WindowID) {
	if i := slices.Index(h.order, wid); i < 0 || i == len(h.order)-1 {
		return
	}

	pinned := make(map[int]id.WindowID)
	docked := make([]id.WindowID, 0, len(h.order))
	for z, x := range h.order {
		switch {
		case x == wid:
		case h.entries[x].win.Visibility() == types.VisibilityDetached:
			pinned[z] = x
		default:
			docked = append(docked, x)
		}
	}
	docked = append(docked, wid)

	order := make([]id.WindowID, 0, len(h.order))
	for z := range h.order {
		if x, ok := pinned[z]; ok {
			order = append(order, x)
			continue
		}
		order = append(order, docked[0])
		docked = docked[1:]
	}
	h.order = order
	h.restack()
}

func (h *Host) restack() {
	for z, wid := range h.order {
		h.entries[wid].win.SetZOrder(z)
	}
}

// Restack reorders the given windows among the z positions they already
// occupy; windows not listed keep their rank. ids are given bottom to top.
func (h *Host) Restack(ids []id.WindowID) error {
	seen := make(map[id.WindowID]struct{}, len(ids))
	for _, wid := range ids {
		if _, ok := h.entries[wid]; !ok {
			return errors.NotFound("host.restack", wid.String())
		}
		if _, dup := seen[wid]; dup {
			return errors.InvalidState("host.restack", wid.String(), "listed twice")
		}
		seen[wid] = struct{}{}
	}

	slots := make([]int, 0, len(ids))
	for i, wid := range h.order {
		if _, ok := seen[wid]; ok {
			slots = append(slots, i)
		}
	}
	for i, slot := range slots {
		h.order[slot] = ids[i]
	}
	h.restack()
	return nil
}
