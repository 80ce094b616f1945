package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}

	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 109, Y: 59}))
	assert.False(t, r.Contains(Point{X: 110, Y: 30}))
	assert.False(t, r.Contains(Point{X: 50, Y: 60}))
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	assert.True(t, a.Intersects(Rect{X: 99, Y: 99, Width: 10, Height: 10}))
	assert.False(t, a.Intersects(Rect{X: 100, Y: 0, Width: 10, Height: 10}))
	assert.False(t, a.Intersects(Rect{X: 10, Y: 10}))
}

func TestRectContainsRect(t *testing.T) {
	outer := Rect{Width: 800, Height: 600}

	assert.True(t, outer.ContainsRect(Rect{X: 0, Y: 0, Width: 800, Height: 600}))
	assert.False(t, outer.ContainsRect(Rect{X: 1, Y: 0, Width: 800, Height: 600}))
}

func TestVisibilityClassification(t *testing.T) {
	assert.True(t, VisibilityDetached.IsOpen())
	assert.False(t, VisibilityDetached.IsVisible())
	assert.False(t, VisibilityOpening.IsOpen())
	assert.False(t, VisibilityClosed.IsOpen())
	assert.True(t, VisibilityBackground.IsVisible())
}

func TestHitRegionIsChrome(t *testing.T) {
	assert.True(t, HitCloseButton.IsChrome())
	assert.True(t, HitTitleBar.IsChrome())
	assert.False(t, HitContent.IsChrome())
	assert.False(t, HitNone.IsChrome())
}
