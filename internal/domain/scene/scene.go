// Package scene bridges host-process scenes to virtual windows.
//
// A Controller is bound to one window and one Scene for its whole life. A
// DecoratedController wraps it with host-drawn chrome and is the chain the
// window owns. Both become inert once the window closes: every operation
// returns an InvalidState error and touches nothing.
package scene

import (
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Surface is an opaque rendering surface. It is owned by exactly one
// presenter at a time: a scene controller or the floating PiP layer.
type Surface interface {
	SurfaceID() string
}

// Scene is one unit of real on-screen presentation provided by the host process
type Scene interface {
	ID() string
	Surface() Surface
	Present(content types.Rect)
	Dismiss()
	Resize(content types.Rect)
	DeliverStatusBarTap(action types.TapAction)
}

// Factory creates the scene backing a new window and releases it once the
// window is torn down
type Factory interface {
	NewScene(wid id.WindowID, instance types.Instance) (Scene, error)
	Release(wid id.WindowID)
}
