// Package types provides shared data structures for the virtual windows host.
//
// This package defines the value types passed between the core packages and
// the outer surfaces (HTTP, WebSocket, persistence).
//
// Geometry:
//   - Point, Size, Rect: integer surface coordinates, origin top-left
//
// Window State:
//   - Visibility: foreground, background, minimized, detached, closed
//   - HitRegion: chrome regions returned by hit-testing
//   - GestureKind, TapAction: inbound input
//   - Instance: the hosted app a window presents
//   - WindowSnapshot: the persisted id + frame + z-order tuple
//
// Lifecycle:
//   - SceneEvent: host-process scene notifications
//   - PiPState: picture-in-picture session phase
//   - CloseReason: why a window went away
//
// Example Usage:
//
//	frame := types.Rect{X: 40, Y: 40, Width: 640, Height: 480}
//	if frame.Contains(types.Point{X: 50, Y: 50}) {
//	    // tap landed on the window
//	}
package types
