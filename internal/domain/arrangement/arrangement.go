// Package arrangement captures the frames and stacking order of the open
// windows and puts them back later, possibly on a differently sized surface.
package arrangement

import (
	"cmp"
	"slices"
	"time"

	"github.com/GriffinCanCode/vwhost/internal/domain/layout"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Arrangement is a saved window layout
type Arrangement struct {
	Surface types.Size             `json:"surface" yaml:"surface" toml:"surface"`
	Focused string                 `json:"focused,omitempty" yaml:"focused,omitempty" toml:"focused,omitempty"`
	Windows []types.WindowSnapshot `json:"windows" yaml:"windows" toml:"windows"`
	SavedAt time.Time              `json:"saved_at" yaml:"saved_at" toml:"saved_at"`
}

// Source is what Capture reads from
type Source interface {
	Surface() types.Size
	Focused() (id.WindowID, bool)
	Snapshots() []types.WindowSnapshot
}

// Target is what Apply writes to
type Target interface {
	Layout() *layout.Policy
	SetFrame(wid id.WindowID, frame types.Rect) (types.Rect, error)
	ToggleMaximize(wid id.WindowID) error
	Restack(ids []id.WindowID) error
	Focus(wid id.WindowID) error
}

// Capture records the current layout
func Capture(src Source, now time.Time) Arrangement {
	a := Arrangement{
		Surface: src.Surface(),
		Windows: src.Snapshots(),
		SavedAt: now,
	}
	if wid, ok := src.Focused(); ok {
		a.Focused = wid.String()
	}
	return a
}

// Result reports what Apply did
type Result struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// Apply puts saved frames and stacking order back on windows that are still
// open. Frames are rescaled from the saved surface to the current one.
// Windows that have closed, or are floating in PiP, are skipped. A window saved
// maximized is maximized again on the current surface with its rescaled
// restore frame.
func Apply(t Target, a Arrangement) (Result, error) {
	var res Result
	windows := slices.Clone(a.Windows)
	slices.SortStableFunc(windows, func(x, y types.WindowSnapshot) int { return cmp.Compare(x.ZOrder, y.ZOrder) })

	from := a.Surface
	if from.Width <= 0 || from.Height <= 0 {
		from = t.Layout().Surface()
	}

	order := make([]id.WindowID, 0, len(windows))
	seen := make(map[id.WindowID]struct{}, len(windows))
	for _, snap := range windows {
		wid := id.WindowID(snap.ID)
		if _, dup := seen[wid]; dup {
			continue
		}
		seen[wid] = struct{}{}

		if err := apply(t, wid, snap, from); err != nil {
			if errors.IsNotFound(err) || errors.IsInvalidState(err) {
				res.Skipped = append(res.Skipped, snap.ID)
				continue
			}
			return res, err
		}
		order = append(order, wid)
		res.Applied = append(res.Applied, snap.ID)
	}

	if err := t.Restack(order); err != nil {
		return res, err
	}
	if a.Focused != "" {
		if err := t.Focus(id.WindowID(a.Focused)); err != nil && !errors.IsNotFound(err) {
			return res, err
		}
	}
	return res, nil
}

// apply sets one window's frame. SetFrame always leaves the window
// unmaximized, so a maximized snapshot is toggled back afterwards.
func apply(t Target, wid id.WindowID, snap types.WindowSnapshot, from types.Size) error {
	frame := snap.Frame
	if snap.Maximized && !snap.Restore.IsEmpty() {
		frame = snap.Restore
	}
	if _, err := t.SetFrame(wid, t.Layout().Rescale(frame, from)); err != nil {
		return err
	}
	if snap.Maximized {
		return t.ToggleMaximize(wid)
	}
	return nil
}
