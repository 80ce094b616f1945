package scene

import "github.com/GriffinCanCode/vwhost/internal/shared/types"

// TitleBarPosition places the title bar on the top or bottom edge
type TitleBarPosition string

const (
	TitleBarTop    TitleBarPosition = "top"
	TitleBarBottom TitleBarPosition = "bottom"
)

// Chrome holds the metrics of host-drawn decoration
type Chrome struct {
	TitleBarHeight int
	ButtonWidth    int
	ResizeHandle   int
	Position       TitleBarPosition
}

// DefaultChrome returns the metrics used when none are configured
func DefaultChrome() Chrome {
	return Chrome{TitleBarHeight: 32, ButtonWidth: 32, ResizeHandle: 16, Position: TitleBarTop}
}

// Regions are the chrome rectangles of one frame, in surface coordinates.
// Empty rects mean the region does not fit in the frame.
type Regions struct {
	TitleBar       types.Rect `json:"title_bar"`
	CloseButton    types.Rect `json:"close_button"`
	MinimizeButton types.Rect `json:"minimize_button"`
	MaximizeButton types.Rect `json:"maximize_button"`
	ResizeHandle   types.Rect `json:"resize_handle"`
	Content        types.Rect `json:"content"`
}

// Layout computes the chrome regions for a window frame.
// Buttons sit at the trailing end of the title bar: minimize, maximize, close.
// The resize handle is the corner opposite the title bar.
func (c Chrome) Layout(frame types.Rect) Regions {
	bar := min(max(c.TitleBarHeight, 0), frame.Height)

	var r Regions
	switch c.Position {
	case TitleBarBottom:
		r.TitleBar = types.Rect{X: frame.X, Y: frame.Bottom() - bar, Width: frame.Width, Height: bar}
		r.Content = types.Rect{X: frame.X, Y: frame.Y, Width: frame.Width, Height: frame.Height - bar}
	default:
		r.TitleBar = types.Rect{X: frame.X, Y: frame.Y, Width: frame.Width, Height: bar}
		r.Content = types.Rect{X: frame.X, Y: frame.Y + bar, Width: frame.Width, Height: frame.Height - bar}
	}

	if bar > 0 && c.ButtonWidth > 0 {
		right := r.TitleBar.Right()
		slot := func(n int) types.Rect {
			x := right - n*c.ButtonWidth
			if x < r.TitleBar.X {
				return types.Rect{}
			}
			return types.Rect{X: x, Y: r.TitleBar.Y, Width: c.ButtonWidth, Height: bar}
		}
		r.CloseButton = slot(1)
		r.MaximizeButton = slot(2)
		r.MinimizeButton = slot(3)
	}

	if h := c.ResizeHandle; h > 0 && h <= frame.Width && h <= r.Content.Height {
		if c.Position == TitleBarBottom {
			r.ResizeHandle = types.Rect{X: frame.Right() - h, Y: frame.Y, Width: h, Height: h}
		} else {
			r.ResizeHandle = types.Rect{X: frame.Right() - h, Y: frame.Bottom() - h, Width: h, Height: h}
		}
	}
	return r
}

// HitTest classifies a point against the chrome of frame
func (c Chrome) HitTest(frame types.Rect, p types.Point) types.HitRegion {
	if !frame.Contains(p) {
		return types.HitNone
	}

	r := c.Layout(frame)
	switch {
	case r.CloseButton.Contains(p):
		return types.HitCloseButton
	case r.MaximizeButton.Contains(p):
		return types.HitMaximizeButton
	case r.MinimizeButton.Contains(p):
		return types.HitMinimizeButton
	case r.TitleBar.Contains(p):
		return types.HitTitleBar
	case r.ResizeHandle.Contains(p):
		return types.HitResizeHandle
	default:
		return types.HitContent
	}
}
