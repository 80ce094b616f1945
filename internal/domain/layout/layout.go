// Package layout implements the deterministic placement rules of the
// composing surface: cascading new windows, clamping frames into bounds and
// re-clamping them when the surface is resized.
package layout

import "github.com/GriffinCanCode/vwhost/internal/shared/types"

// Policy places and clamps window frames on one composing surface
type Policy struct {
	surface     types.Size
	defaultSize types.Size
	minSize     types.Size
	cascadeStep int
}

// NewPolicy creates a layout policy for a surface of the given size
func NewPolicy(surface, defaultSize, minSize types.Size, cascadeStep int) *Policy {
	return &Policy{
		surface:     surface,
		defaultSize: defaultSize,
		minSize:     minSize,
		cascadeStep: cascadeStep,
	}
}

// Surface returns the composing surface size
func (p *Policy) Surface() types.Size { return p.surface }

// Bounds returns the composing surface as a rect at the origin
func (p *Policy) Bounds() types.Rect { return types.RectFromSize(p.surface) }

// SetSurface changes the surface size and returns the previous one
func (p *Policy) SetSurface(size types.Size) types.Size {
	old := p.surface
	p.surface = size
	return old
}

// ClampSize shrinks a size to the surface and grows it to the minimum. The
// minimum yields to the surface when the surface itself is smaller.
func (p *Policy) ClampSize(s types.Size) types.Size {
	return types.Size{
		Width:  clampLength(s.Width, p.minSize.Width, p.surface.Width),
		Height: clampLength(s.Height, p.minSize.Height, p.surface.Height),
	}
}

// Clamp returns r resized and moved so it lies fully inside the surface
func (p *Policy) Clamp(r types.Rect) types.Rect {
	size := p.ClampSize(r.Size())
	return types.Rect{
		X:      clampOrigin(r.X, size.Width, p.surface.Width),
		Y:      clampOrigin(r.Y, size.Height, p.surface.Height),
		Width:  size.Width,
		Height: size.Height,
	}
}

// Place returns the frame for the index-th window. Zero sizes use the default.
// Windows cascade diagonally by the cascade step, wrapping back to the origin
// before the next frame would leave the surface.
func (p *Policy) Place(requested types.Size, index int) types.Rect {
	if requested.Width <= 0 {
		requested.Width = p.defaultSize.Width
	}
	if requested.Height <= 0 {
		requested.Height = p.defaultSize.Height
	}
	size := p.ClampSize(requested)

	slots := 1
	if p.cascadeStep > 0 {
		slotsX := (p.surface.Width-size.Width)/p.cascadeStep + 1
		slotsY := (p.surface.Height-size.Height)/p.cascadeStep + 1
		slots = max(min(slotsX, slotsY), 1)
	}
	offset := (max(index, 0) % slots) * p.cascadeStep

	return p.Clamp(types.Rect{X: offset, Y: offset, Width: size.Width, Height: size.Height})
}

// Maximized returns the frame of a maximized window
func (p *Policy) Maximized() types.Rect {
	return p.Bounds()
}

// Rescale maps r from a surface of size from onto the current surface,
// keeping its centre at the same relative position, then clamps it.
func (p *Policy) Rescale(r types.Rect, from types.Size) types.Rect {
	if from.Width <= 0 || from.Height <= 0 {
		return p.Clamp(r)
	}
	size := p.ClampSize(r.Size())
	c := r.Center()
	cx := c.X * p.surface.Width / from.Width
	cy := c.Y * p.surface.Height / from.Height

	return p.Clamp(types.Rect{
		X:      cx - size.Width/2,
		Y:      cy - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	})
}

// Anchor places a rect of the given size in the bottom-right corner, inset by margin
func (p *Policy) Anchor(size types.Size, margin int) types.Rect {
	size = p.ClampSize(size)
	return p.Clamp(types.Rect{
		X:      p.surface.Width - size.Width - margin,
		Y:      p.surface.Height - size.Height - margin,
		Width:  size.Width,
		Height: size.Height,
	})
}

func clampLength(v, lo, hi int) int {
	if hi <= 0 {
		return 0
	}
	if lo > hi {
		lo = hi
	}
	return min(max(v, lo), hi)
}

func clampOrigin(v, length, bound int) int {
	return min(max(v, 0), max(bound-length, 0))
}
