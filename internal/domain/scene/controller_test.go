package scene

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

func newChain(t *testing.T) (*window.VirtualWindow, *DecoratedController, *Headless) {
	t.Helper()
	w := window.New(id.NewWindowID(), types.Instance{BundleID: "com.example.maps", DisplayName: "Maps"}, time.Now())
	sc := NewHeadless("scene-1")
	deco := NewDecoratedController(NewController(w, sc, nil), DefaultChrome(), w.Title())
	require.NoError(t, w.Attach(deco))
	w.SetVisibility(types.VisibilityBackground)
	return w, deco, sc
}

func TestPresentDismissIdempotent(t *testing.T) {
	_, deco, sc := newChain(t)

	require.NoError(t, deco.Present())
	require.NoError(t, deco.Present())
	presents, _ := sc.Calls()
	assert.Equal(t, 1, presents)

	require.NoError(t, deco.Dismiss())
	require.NoError(t, deco.Dismiss())
	_, dismisses := sc.Calls()
	assert.Equal(t, 1, dismisses)
}

func TestUpdateFrameGivesSceneContentArea(t *testing.T) {
	w, deco, sc := newChain(t)
	frame := types.Rect{X: 10, Y: 10, Width: 300, Height: 200}

	require.NoError(t, deco.UpdateFrame(frame))
	require.NoError(t, deco.Present())

	assert.Equal(t, frame, w.Frame())
	presented, content := sc.State()
	assert.True(t, presented)
	assert.Equal(t, types.Rect{X: 10, Y: 42, Width: 300, Height: 168}, content)
}

func TestClosedWindowControllerIsInert(t *testing.T) {
	w, deco, sc := newChain(t)
	require.NoError(t, deco.Present())
	w.Close()

	assert.False(t, deco.IsOpen())
	assert.True(t, errors.IsInvalidState(deco.Present()))
	assert.True(t, errors.IsInvalidState(deco.Dismiss()))
	assert.True(t, errors.IsInvalidState(deco.UpdateFrame(types.Rect{Width: 10, Height: 10})))
	assert.True(t, errors.IsInvalidState(deco.HandleStatusBarTapAction(types.TapAction{Name: "scroll_to_top"})))
	assert.True(t, errors.IsInvalidState(deco.SetTitle("x")))
	_, err := deco.ReleaseSurface()
	assert.True(t, errors.IsInvalidState(err))
	assert.Equal(t, types.HitNone, deco.HitTest(types.Point{X: 1, Y: 1}))

	presented, _ := sc.State()
	assert.False(t, presented, "teardown dismisses the scene")
	assert.Empty(t, sc.Taps())
}

func TestSurfaceHandOff(t *testing.T) {
	_, deco, sc := newChain(t)
	require.NoError(t, deco.UpdateFrame(types.Rect{Width: 200, Height: 200}))
	require.NoError(t, deco.Present())

	surface, err := deco.ReleaseSurface()
	require.NoError(t, err)
	assert.False(t, deco.Inner().HasSurface())
	presented, _ := sc.State()
	assert.False(t, presented)

	_, err = deco.ReleaseSurface()
	assert.True(t, errors.IsInvalidState(err))

	require.NoError(t, deco.AdoptSurface(surface))
	presented, _ = sc.State()
	assert.True(t, presented)
	assert.True(t, errors.IsInvalidState(deco.AdoptSurface(surface)))
}

func TestStatusBarTapReachesScene(t *testing.T) {
	_, deco, sc := newChain(t)

	require.NoError(t, deco.HandleStatusBarTapAction(types.TapAction{Name: "scroll_to_top"}))
	require.Len(t, sc.Taps(), 1)
	assert.Equal(t, "scroll_to_top", sc.Taps()[0].Name)
}

func TestBackReferenceDoesNotKeepWindowAlive(t *testing.T) {
	sc := NewHeadless("scene-weak")
	ctrl := func() *Controller {
		w := window.New(id.NewWindowID(), types.Instance{BundleID: "b"}, time.Now())
		w.SetVisibility(types.VisibilityBackground)
		return NewController(w, sc, nil)
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return !ctrl.IsOpen()
	}, time.Second, 10*time.Millisecond)
	assert.True(t, errors.IsInvalidState(ctrl.Present()))
}
