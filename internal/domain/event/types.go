// Package event carries lifecycle notifications from the core to outer
// consumers: the UI shell stream, the dock, relaunch and metrics.
package event

import (
	"time"

	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Event type names
const (
	TypeWindowOpened       = "window.opened"
	TypeWindowClosed       = "window.closed"
	TypeWindowFocused      = "window.focused"
	TypeWindowMinimized    = "window.minimized"
	TypeWindowRestored     = "window.restored"
	TypeWindowMaximized    = "window.maximized"
	TypeWindowFrameChanged = "window.frame_changed"
	TypePiPStateChanged    = "pip.state_changed"
	TypeSurfaceResized     = "surface.resized"
	TypeStatusBarTap       = "statusbar.tap"
)

// Event is anything published on the bus
type Event interface {
	EventType() string
}

// WindowOpened is published after a window is inserted and focused
type WindowOpened struct {
	Window types.WindowInfo `json:"window"`
}

func (WindowOpened) EventType() string { return TypeWindowOpened }

// WindowClosed is published after a window is removed from the layout
type WindowClosed struct {
	WindowID string            `json:"window_id"`
	Instance types.Instance    `json:"instance"`
	Reason   types.CloseReason `json:"reason"`
	OpenedAt time.Time         `json:"opened_at"`
	ClosedAt time.Time         `json:"closed_at"`
}

func (WindowClosed) EventType() string { return TypeWindowClosed }

// Uptime is how long the window was open
func (e WindowClosed) Uptime() time.Duration {
	return e.ClosedAt.Sub(e.OpenedAt)
}

// WindowFocused is published when focus moves. WindowID is empty when no window remains.
type WindowFocused struct {
	WindowID string `json:"window_id"`
	Previous string `json:"previous,omitempty"`
}

func (WindowFocused) EventType() string { return TypeWindowFocused }

// WindowMinimized is published when a window leaves the visible layout
type WindowMinimized struct {
	WindowID string `json:"window_id"`
}

func (WindowMinimized) EventType() string { return TypeWindowMinimized }

// WindowRestored is published when a minimized window becomes visible again
type WindowRestored struct {
	WindowID string `json:"window_id"`
}

func (WindowRestored) EventType() string { return TypeWindowRestored }

// WindowMaximized is published when maximize is toggled
type WindowMaximized struct {
	WindowID  string     `json:"window_id"`
	Maximized bool       `json:"maximized"`
	Frame     types.Rect `json:"frame"`
}

func (WindowMaximized) EventType() string { return TypeWindowMaximized }

// WindowFrameChanged is published when a frame moves or resizes
type WindowFrameChanged struct {
	WindowID string     `json:"window_id"`
	Frame    types.Rect `json:"frame"`
}

func (WindowFrameChanged) EventType() string { return TypeWindowFrameChanged }

// PiPStateChanged is published on every PiP session transition
type PiPStateChanged struct {
	SessionID string         `json:"session_id"`
	WindowID  string         `json:"window_id"`
	State     types.PiPState `json:"state"`
	Frame     types.Rect     `json:"frame"`
}

func (PiPStateChanged) EventType() string { return TypePiPStateChanged }

// SurfaceResized is published after every frame has been re-clamped
type SurfaceResized struct {
	Size types.Size `json:"size"`
}

func (SurfaceResized) EventType() string { return TypeSurfaceResized }

// StatusBarTap is published for every status bar tap decision
type StatusBarTap struct {
	Action    types.TapAction `json:"action"`
	Forwarded bool            `json:"forwarded"`
	WindowID  string          `json:"window_id,omitempty"`
}

func (StatusBarTap) EventType() string { return TypeStatusBarTap }
