package scene

import (
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// DecoratedController adds host-drawn chrome around a Controller it owns exclusively
type DecoratedController struct {
	inner  *Controller
	chrome Chrome
	title  string
}

// NewDecoratedController wraps inner. The caller gives up inner.
func NewDecoratedController(inner *Controller, chrome Chrome, title string) *DecoratedController {
	return &DecoratedController{inner: inner, chrome: chrome, title: title}
}

// Inner returns the wrapped controller
func (d *DecoratedController) Inner() *Controller { return d.inner }

// Chrome returns the decoration metrics
func (d *DecoratedController) Chrome() Chrome { return d.chrome }

// Title returns the title bar text
func (d *DecoratedController) Title() string { return d.title }

// WindowID returns the id of the bound window
func (d *DecoratedController) WindowID() id.WindowID { return d.inner.WindowID() }

// IsOpen reports whether the bound window is still open
func (d *DecoratedController) IsOpen() bool { return d.inner.IsOpen() }

// SetTitle changes the title bar text
func (d *DecoratedController) SetTitle(title string) error {
	if err := d.inner.guard("scene.set_title"); err != nil {
		return err
	}
	d.title = title
	return nil
}

// Present shows the window and its chrome
func (d *DecoratedController) Present() error {
	return d.inner.Present()
}

// Dismiss hides the window and its chrome
func (d *DecoratedController) Dismiss() error {
	return d.inner.Dismiss()
}

// UpdateFrame sets the window frame, chrome included, and gives the scene
// the remaining content area
func (d *DecoratedController) UpdateFrame(frame types.Rect) error {
	w, ok := d.inner.Window()
	if !ok {
		return errors.InvalidState("scene.update_frame", d.inner.WindowID().String(), "window is closed")
	}
	w.SetFrame(frame)
	return d.inner.UpdateFrame(d.chrome.Layout(frame).Content)
}

// Regions returns the chrome rectangles for the current frame
func (d *DecoratedController) Regions() (Regions, error) {
	w, ok := d.inner.Window()
	if !ok {
		return Regions{}, errors.InvalidState("scene.regions", d.inner.WindowID().String(), "window is closed")
	}
	return d.chrome.Layout(w.Frame()), nil
}

// HitTest classifies a surface point against this window's chrome.
// A closed window hits nothing.
func (d *DecoratedController) HitTest(p types.Point) types.HitRegion {
	w, ok := d.inner.Window()
	if !ok {
		return types.HitNone
	}
	return d.chrome.HitTest(w.Frame(), p)
}

// HandleStatusBarTapAction forwards a status bar tap to the hosted app
func (d *DecoratedController) HandleStatusBarTapAction(action types.TapAction) error {
	return d.inner.HandleStatusBarTapAction(action)
}

// ReleaseSurface hands the rendering surface to another presenter
func (d *DecoratedController) ReleaseSurface() (Surface, error) {
	return d.inner.ReleaseSurface()
}

// AdoptSurface takes the rendering surface back
func (d *DecoratedController) AdoptSurface(s Surface) error {
	return d.inner.AdoptSurface(s)
}

// Teardown dismisses the scene and releases the chain. Called by window.Close.
func (d *DecoratedController) Teardown() {
	d.inner.teardown()
}
