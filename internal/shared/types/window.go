package types

import "time"

// Visibility is the presentation state of a virtual window
type Visibility string

const (
	// VisibilityOpening marks a window reserved by a pending open. It is never in the layout.
	VisibilityOpening    Visibility = "opening"
	VisibilityForeground Visibility = "foreground"
	VisibilityBackground Visibility = "background"
	VisibilityMinimized  Visibility = "minimized"
	VisibilityDetached   Visibility = "detached"
	VisibilityClosed     Visibility = "closed"
)

// IsOpen reports whether a window in this state is part of the layout
func (v Visibility) IsOpen() bool {
	switch v {
	case VisibilityForeground, VisibilityBackground, VisibilityMinimized, VisibilityDetached:
		return true
	}
	return false
}

// IsVisible reports whether the window is drawn inside the composing surface
func (v Visibility) IsVisible() bool {
	return v == VisibilityForeground || v == VisibilityBackground
}

// HitRegion is the result of chrome hit-testing
type HitRegion string

const (
	HitNone           HitRegion = "none"
	HitTitleBar       HitRegion = "titlebar"
	HitCloseButton    HitRegion = "close_button"
	HitMinimizeButton HitRegion = "minimize_button"
	HitMaximizeButton HitRegion = "maximize_button"
	HitResizeHandle   HitRegion = "resize_handle"
	HitContent        HitRegion = "content"
)

// IsChrome reports whether the region belongs to host-drawn decoration
func (h HitRegion) IsChrome() bool {
	return h != HitNone && h != HitContent
}

// GestureKind classifies an inbound tap
type GestureKind string

const (
	GestureTap          GestureKind = "tap"
	GestureDoubleTap    GestureKind = "double_tap"
	GestureLongPress    GestureKind = "long_press"
	GestureStatusBarTap GestureKind = "status_bar_tap"
)

// TapAction is a raw status bar tap notification
type TapAction struct {
	Name     string    `json:"name"`
	Location Point     `json:"location"`
	At       time.Time `json:"at"`
}

// DefaultTapActionName is the status bar action performed when the host handles a tap itself
const DefaultTapActionName = "scroll_to_top"

// CloseReason records why a window was closed
type CloseReason string

const (
	CloseRequested  CloseReason = "requested"
	CloseTerminated CloseReason = "terminated"
	CloseShutdown   CloseReason = "shutdown"
)

// Instance describes the hosted app presented by a window
type Instance struct {
	BundleID    string `json:"bundle_id"`
	DataUUID    string `json:"data_uuid"`
	DisplayName string `json:"display_name"`
}

// Key identifies an instance independently of its window
func (i Instance) Key() string {
	return i.BundleID + "#" + i.DataUUID
}

// WindowSnapshot is the persisted shape of a window arrangement entry
type WindowSnapshot struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Frame  Rect   `json:"frame" yaml:"frame" toml:"frame"`
	ZOrder int    `json:"z_order" yaml:"z_order" toml:"z_order"`
	Maximized bool `json:"maximized,omitempty" yaml:"maximized,omitempty" toml:"maximized,omitempty"`
	// Restore is the frame a maximized window returns to
	Restore   Rect `json:"restore,omitempty" yaml:"restore,omitempty" toml:"restore,omitempty"`
}

// WindowInfo is a read-only view of a window for outer surfaces
type WindowInfo struct {
	ID         string     `json:"id"`
	Instance   Instance   `json:"instance"`
	Title      string     `json:"title"`
	Frame      Rect       `json:"frame"`
	ZOrder     int        `json:"z_order"`
	Focused    bool       `json:"focused"`
	Maximized  bool       `json:"maximized"`
	Visibility Visibility `json:"visibility"`
	OpenedAt   time.Time  `json:"opened_at"`
}

// PiPState is the phase of a picture-in-picture session
type PiPState string

const (
	PiPDetaching   PiPState = "detaching"
	PiPFloating    PiPState = "floating"
	PiPReattaching PiPState = "reattaching"
	PiPDocked      PiPState = "docked"
	PiPClosed      PiPState = "closed"
)

// SceneEventKind is a host-process scene lifecycle notification
type SceneEventKind string

const (
	SceneCreated   SceneEventKind = "created"
	SceneDestroyed SceneEventKind = "destroyed"
	SceneResized   SceneEventKind = "resized"
)

// SceneEvent carries a scene lifecycle notification
type SceneEvent struct {
	SceneID string         `json:"scene_id"`
	Kind    SceneEventKind `json:"kind"`
	Frame   Rect           `json:"frame"`
}
