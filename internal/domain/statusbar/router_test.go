package statusbar

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

type fakeTarget struct {
	id   id.WindowID
	open bool
	taps []types.TapAction
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{id: id.NewWindowID(), open: true}
}

func (f *fakeTarget) WindowID() id.WindowID { return f.id }
func (f *fakeTarget) IsOpen() bool          { return f.open }

func (f *fakeTarget) HandleStatusBarTapAction(action types.TapAction) error {
	if !f.open {
		return errors.InvalidState("fake", f.id.String(), "closed")
	}
	f.taps = append(f.taps, action)
	return nil
}

func newTestRouter() (*Router, *int) {
	defaults := 0
	bar := NewStatusBar(func(types.TapAction) { defaults++ })
	return NewRouter(bar, nil), &defaults
}

func TestTapWithoutTargetRunsDefault(t *testing.T) {
	r, defaults := newTestRouter()

	outcome := r.StatusBar().Tap(types.TapAction{})

	assert.False(t, outcome.Forwarded)
	assert.Equal(t, 1, *defaults)
}

func TestTapForwardsToTarget(t *testing.T) {
	r, defaults := newTestRouter()
	target := newFakeTarget()
	r.SetTarget(target)

	outcome := r.StatusBar().Tap(types.TapAction{})

	assert.True(t, outcome.Forwarded)
	assert.Equal(t, target.id, outcome.WindowID)
	require.Len(t, target.taps, 1)
	assert.Equal(t, types.DefaultTapActionName, target.taps[0].Name)
	assert.Equal(t, 0, *defaults)
}

func TestRetargetIsHonouredImmediately(t *testing.T) {
	r, _ := newTestRouter()
	a, b := newFakeTarget(), newFakeTarget()

	r.SetTarget(a)
	r.HandleTapAction(types.TapAction{})
	r.SetTarget(b)
	r.HandleTapAction(types.TapAction{})

	assert.Len(t, a.taps, 1)
	assert.Len(t, b.taps, 1)
}

func TestStaleTargetFallsBackToDefault(t *testing.T) {
	r, defaults := newTestRouter()
	target := newFakeTarget()
	r.SetTarget(target)
	target.open = false

	outcome := r.HandleTapAction(types.TapAction{})

	assert.False(t, outcome.Forwarded)
	assert.Equal(t, 1, *defaults)
	assert.Empty(t, target.taps)
	assert.Nil(t, r.Target())
}

func TestForwardingDisabled(t *testing.T) {
	r, defaults := newTestRouter()
	r.WithForwarding(false)
	r.SetTarget(newFakeTarget())

	outcome := r.HandleTapAction(types.TapAction{})

	assert.False(t, outcome.Forwarded)
	assert.Equal(t, 1, *defaults)
}

func TestStatusBarWithoutInterceptor(t *testing.T) {
	defaults := 0
	bar := NewStatusBar(func(types.TapAction) { defaults++ })

	assert.False(t, bar.Tap(types.TapAction{}).Forwarded)
	assert.Equal(t, 1, defaults)
	assert.Equal(t, 1, bar.DefaultCount())
}

func TestTapPublishesEventAndMetrics(t *testing.T) {
	r, _ := newTestRouter()
	bus := event.NewBus(nil)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	r.WithBus(bus).WithMetrics(metrics)

	var got []event.StatusBarTap
	bus.Subscribe(event.TypeStatusBarTap, func(ev event.Event) {
		got = append(got, ev.(event.StatusBarTap))
	})

	target := newFakeTarget()
	r.SetTarget(target)
	r.HandleTapAction(types.TapAction{})
	target.open = false
	r.HandleTapAction(types.TapAction{})

	require.Len(t, got, 2)
	assert.True(t, got[0].Forwarded)
	assert.Equal(t, target.id.String(), got[0].WindowID)
	assert.False(t, got[1].Forwarded)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StatusBarTaps.WithLabelValues(monitoring.StatusBarForwarded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StatusBarTaps.WithLabelValues(monitoring.StatusBarStale)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StatusBarTaps.WithLabelValues(monitoring.StatusBarDefault)))
}
