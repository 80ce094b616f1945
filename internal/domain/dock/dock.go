// Package dock keeps the list of running apps shown beside the virtual
// windows and brings any of them back to the front on request.
package dock

import (
	"slices"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/pip"
	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Host is the part of the window host the dock drives
type Host interface {
	FindByDataUUID(dataUUID string) (*window.VirtualWindow, bool)
	Window(wid id.WindowID) (*window.VirtualWindow, bool)
	Focus(wid id.WindowID) error
	Minimize(wid id.WindowID) error
	Order() []id.WindowID
}

// Sessions ends PiP for a window being brought back
type Sessions interface {
	SessionFor(wid id.WindowID) (*pip.Session, bool)
	Reattach(sid id.PiPSessionID) error
}

// App is one running app in the dock
type App struct {
	DataUUID    string `json:"data_uuid"`
	BundleID    string `json:"bundle_id"`
	DisplayName string `json:"display_name"`
	WindowID    string `json:"window_id"`
}

// State is the dock's presentation state
type State struct {
	Enabled   bool  `json:"enabled"`
	Visible   bool  `json:"visible"`
	Collapsed bool  `json:"collapsed"`
	Hidden    bool  `json:"hidden"`
	Apps      []App `json:"apps"`
}

// Dock tracks running apps. It is shown while at least one app runs and is
// inert when disabled.
type Dock struct {
	host      Host
	sessions  Sessions
	enabled   bool
	apps      []App
	visible   bool
	collapsed bool
	hidden    bool
	logger    *zap.Logger
}

// New creates a dock. sessions may be nil when PiP is unavailable.
func New(h Host, sessions Sessions, enabled bool, logger *zap.Logger) *Dock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dock{
		host:     h,
		sessions: sessions,
		enabled:  enabled,
		logger:   logger.Named("dock"),
	}
}

// Follow keeps the dock in step with windows opening and closing
func (d *Dock) Follow(bus *event.Bus) *Dock {
	bus.Subscribe(event.TypeWindowOpened, func(ev event.Event) {
		info := ev.(event.WindowOpened).Window
		d.Add(info.Instance, info.ID)
	})
	bus.Subscribe(event.TypeWindowClosed, func(ev event.Event) {
		closed := ev.(event.WindowClosed)
		d.Remove(key(closed.Instance, closed.WindowID))
	})
	return d
}

// Add lists a running app. Apps are deduplicated by data UUID.
func (d *Dock) Add(inst types.Instance, windowID string) {
	if !d.enabled {
		return
	}
	k := key(inst, windowID)
	if d.index(k) >= 0 {
		return
	}
	d.apps = append(d.apps, App{
		DataUUID:    k,
		BundleID:    inst.BundleID,
		DisplayName: displayName(inst),
		WindowID:    windowID,
	})
	if len(d.apps) == 1 {
		d.visible = true
	}
	d.logger.Debug("App docked", zap.String("data_uuid", k), zap.String("window_id", windowID))
}

// Remove drops an app. The dock hides once empty.
func (d *Dock) Remove(dataUUID string) {
	if !d.enabled {
		return
	}
	i := d.index(dataUUID)
	if i < 0 {
		return
	}
	d.apps = slices.Delete(d.apps, i, i+1)
	if len(d.apps) == 0 {
		d.visible = false
	}
}

// BringToFront shows the app's window: a detached window is reattached, a
// minimized one is restored, and the window is focused
func (d *Dock) BringToFront(dataUUID string) (id.WindowID, error) {
	w, ok := d.host.FindByDataUUID(dataUUID)
	if !ok {
		i := d.index(dataUUID)
		if i < 0 {
			return "", errors.NotFound("dock.bring_to_front", dataUUID)
		}
		if w, ok = d.host.Window(id.WindowID(d.apps[i].WindowID)); !ok {
			return "", errors.NotFound("dock.bring_to_front", dataUUID)
		}
	}
	wid := w.ID()

	if w.Visibility() == types.VisibilityDetached && d.sessions != nil {
		if s, ok := d.sessions.SessionFor(wid); ok {
			if err := d.sessions.Reattach(s.ID()); err != nil {
				return wid, err
			}
		}
	}
	if err := d.host.Focus(wid); err != nil {
		return wid, err
	}
	return wid, nil
}

// MinimizeAll minimizes every docked window except the given one
func (d *Dock) MinimizeAll(except id.WindowID) int {
	n := 0
	for _, wid := range d.host.Order() {
		if wid == except {
			continue
		}
		w, ok := d.host.Window(wid)
		if !ok || !w.Visibility().IsVisible() {
			continue
		}
		if err := d.host.Minimize(wid); err == nil {
			n++
		}
	}
	return n
}

func (d *Dock) ToggleCollapsed() bool {
	d.collapsed = !d.collapsed
	return d.collapsed
}

func (d *Dock) SetHidden(hidden bool) { d.hidden = hidden }

func (d *Dock) Enabled() bool { return d.enabled }

// State returns a copy of the dock state
func (d *Dock) State() State {
	return State{
		Enabled:   d.enabled,
		Visible:   d.visible,
		Collapsed: d.collapsed,
		Hidden:    d.hidden,
		Apps:      slices.Clone(d.apps),
	}
}

func (d *Dock) index(dataUUID string) int {
	return slices.IndexFunc(d.apps, func(a App) bool { return a.DataUUID == dataUUID })
}

// key falls back to the window id for instances without a data UUID
func key(inst types.Instance, windowID string) string {
	if inst.DataUUID != "" {
		return inst.DataUUID
	}
	return windowID
}

func displayName(inst types.Instance) string {
	if inst.DisplayName != "" {
		return inst.DisplayName
	}
	if inst.BundleID != "" {
		return inst.BundleID
	}
	return "Unknown App"
}
