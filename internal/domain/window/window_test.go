package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

type countingChain struct{ teardowns int }

func (c *countingChain) Teardown() { c.teardowns++ }

func newTestWindow() *VirtualWindow {
	return New(id.NewWindowID(), types.Instance{BundleID: "com.example.notes", DataUUID: "d1"}, time.Now())
}

func TestNewWindowIsOpening(t *testing.T) {
	w := newTestWindow()

	assert.Equal(t, types.VisibilityOpening, w.Visibility())
	assert.False(t, w.IsOpen())
	assert.False(t, w.IsClosed())
	assert.Equal(t, "com.example.notes", w.Title())
}

func TestCloseTearsDownChainOnce(t *testing.T) {
	w := newTestWindow()
	chain := &countingChain{}
	require.NoError(t, w.Attach(chain))
	w.SetVisibility(types.VisibilityForeground)
	w.SetFocused(true)

	assert.True(t, w.Close())
	assert.False(t, w.Close())

	assert.Equal(t, 1, chain.teardowns)
	assert.True(t, w.IsClosed())
	assert.False(t, w.Focused())
	assert.Nil(t, w.Chain())
}

func TestAttachTwiceFails(t *testing.T) {
	w := newTestWindow()
	require.NoError(t, w.Attach(&countingChain{}))

	err := w.Attach(&countingChain{})
	assert.True(t, errors.IsInvalidState(err))
}

func TestClosedWindowIgnoresSetters(t *testing.T) {
	w := newTestWindow()
	w.SetFrame(types.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	w.Close()

	w.SetFrame(types.Rect{Width: 100, Height: 100})
	w.SetFocused(true)
	w.SetVisibility(types.VisibilityForeground)
	w.SetZOrder(7)

	assert.Equal(t, types.Rect{X: 1, Y: 2, Width: 3, Height: 4}, w.Frame())
	assert.False(t, w.Focused())
	assert.Equal(t, types.VisibilityClosed, w.Visibility())
	assert.True(t, errors.IsInvalidState(w.Attach(&countingChain{})))
}

func TestSnapshot(t *testing.T) {
	w := newTestWindow()
	w.SetFrame(types.Rect{X: 10, Y: 20, Width: 300, Height: 200})
	w.SetZOrder(2)

	snap := w.Snapshot()
	assert.Equal(t, w.ID().String(), snap.ID)
	assert.Equal(t, 2, snap.ZOrder)
	assert.Equal(t, w.Frame(), snap.Frame)
}
