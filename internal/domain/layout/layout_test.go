package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

func newTestPolicy() *Policy {
	return NewPolicy(
		types.Size{Width: 1280, Height: 800},
		types.Size{Width: 640, Height: 480},
		types.Size{Width: 160, Height: 120},
		32,
	)
}

func TestClamp(t *testing.T) {
	p := newTestPolicy()

	tests := []struct {
		name string
		in   types.Rect
		want types.Rect
	}{
		{"inside unchanged", types.Rect{X: 10, Y: 10, Width: 300, Height: 200}, types.Rect{X: 10, Y: 10, Width: 300, Height: 200}},
		{"negative origin", types.Rect{X: -50, Y: -10, Width: 300, Height: 200}, types.Rect{X: 0, Y: 0, Width: 300, Height: 200}},
		{"past right edge", types.Rect{X: 1200, Y: 700, Width: 300, Height: 200}, types.Rect{X: 980, Y: 600, Width: 300, Height: 200}},
		{"larger than surface", types.Rect{X: 5, Y: 5, Width: 2000, Height: 1000}, types.Rect{X: 0, Y: 0, Width: 1280, Height: 800}},
		{"below minimum", types.Rect{X: 5, Y: 5, Width: 10, Height: 10}, types.Rect{X: 5, Y: 5, Width: 160, Height: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Clamp(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, p.Bounds().ContainsRect(got))
		})
	}
}

func TestClampOnTinySurfaceIgnoresMinimum(t *testing.T) {
	p := newTestPolicy()
	p.SetSurface(types.Size{Width: 100, Height: 50})

	got := p.Clamp(types.Rect{X: 40, Y: 40, Width: 640, Height: 480})
	assert.Equal(t, types.Rect{X: 0, Y: 0, Width: 100, Height: 50}, got)
}

func TestPlaceCascadesDeterministically(t *testing.T) {
	p := newTestPolicy()

	first := p.Place(types.Size{}, 0)
	second := p.Place(types.Size{}, 1)

	assert.Equal(t, types.Rect{X: 0, Y: 0, Width: 640, Height: 480}, first)
	assert.Equal(t, types.Rect{X: 32, Y: 32, Width: 640, Height: 480}, second)
	assert.Equal(t, second, p.Place(types.Size{}, 1))
}

func TestPlaceWrapsBeforeLeavingSurface(t *testing.T) {
	p := newTestPolicy()
	// (800-480)/32+1 = 11 vertical slots
	assert.Equal(t, types.Rect{X: 320, Y: 320, Width: 640, Height: 480}, p.Place(types.Size{}, 10))
	assert.Equal(t, types.Rect{X: 0, Y: 0, Width: 640, Height: 480}, p.Place(types.Size{}, 11))
}

func TestRescaleShrinkingSurface(t *testing.T) {
	p := newTestPolicy()
	frame := types.Rect{X: 600, Y: 300, Width: 640, Height: 480}

	old := p.SetSurface(types.Size{Width: 640, Height: 400})
	got := p.Rescale(frame, old)

	assert.True(t, p.Bounds().ContainsRect(got))
	assert.Equal(t, types.Rect{X: 0, Y: 0, Width: 640, Height: 400}, got)
}

func TestRescalePreservesRelativeCentre(t *testing.T) {
	p := newTestPolicy()
	frame := types.Rect{X: 540, Y: 300, Width: 200, Height: 200} // centre 640,400

	old := p.SetSurface(types.Size{Width: 2560, Height: 1600})
	got := p.Rescale(frame, old)

	assert.Equal(t, types.Point{X: 1280, Y: 800}, got.Center())
	assert.Equal(t, 200, got.Width)
}

func TestAnchor(t *testing.T) {
	p := newTestPolicy()
	got := p.Anchor(types.Size{Width: 320, Height: 180}, 16)
	assert.Equal(t, types.Rect{X: 944, Y: 604, Width: 320, Height: 180}, got)
}
