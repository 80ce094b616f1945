package scene

import (
	"weak"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Controller owns the real scene for one virtual window
type Controller struct {
	windowID id.WindowID
	window   weak.Pointer[window.VirtualWindow]
	scene    Scene
	logger   *zap.Logger

	surface   Surface
	presented bool
	content   types.Rect
	torndown  bool
}

// NewController binds a controller to w and sc. The back-reference to w is
// weak: the controller never keeps the window alive.
func NewController(w *window.VirtualWindow, sc Scene, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		windowID: w.ID(),
		window:   weak.Make(w),
		scene:    sc,
		surface:  sc.Surface(),
		logger:   logger.With(zap.String("window_id", w.ID().String()), zap.String("scene_id", sc.ID())),
	}
}

// WindowID returns the id of the bound window
func (c *Controller) WindowID() id.WindowID { return c.windowID }

// Scene returns the bound scene
func (c *Controller) Scene() Scene { return c.scene }

// Window resolves the back-reference. It fails once the window is gone,
// closed, or the pointer no longer refers to the window the controller was bound to.
func (c *Controller) Window() (*window.VirtualWindow, bool) {
	w := c.window.Value()
	if w == nil || w.ID() != c.windowID || w.IsClosed() || c.torndown {
		return nil, false
	}
	return w, true
}

// IsOpen reports whether the bound window is still open
func (c *Controller) IsOpen() bool {
	_, ok := c.Window()
	return ok
}

// Presented reports whether the scene is meant to be on screen
func (c *Controller) Presented() bool { return c.presented }

// HasSurface reports whether the controller currently owns the rendering surface
func (c *Controller) HasSurface() bool { return c.surface != nil }

// Content returns the last frame given to the scene
func (c *Controller) Content() types.Rect { return c.content }

func (c *Controller) guard(op string) error {
	if !c.IsOpen() {
		return errors.InvalidState(op, c.windowID.String(), "window is closed")
	}
	return nil
}

// Present puts the scene on screen. While the surface is detached the
// request is remembered and honoured when the surface is adopted back.
func (c *Controller) Present() error {
	if err := c.guard("scene.present"); err != nil {
		return err
	}
	if c.presented {
		return nil
	}
	c.presented = true
	if c.surface != nil {
		c.scene.Present(c.content)
	}
	c.logger.Debug("Scene presented")
	return nil
}

// Dismiss takes the scene off screen
func (c *Controller) Dismiss() error {
	if err := c.guard("scene.dismiss"); err != nil {
		return err
	}
	if !c.presented {
		return nil
	}
	c.presented = false
	if c.surface != nil {
		c.scene.Dismiss()
	}
	c.logger.Debug("Scene dismissed")
	return nil
}

// UpdateFrame resizes the scene's content area
func (c *Controller) UpdateFrame(content types.Rect) error {
	if err := c.guard("scene.update_frame"); err != nil {
		return err
	}
	if c.content == content {
		return nil
	}
	c.content = content
	if c.surface != nil {
		c.scene.Resize(content)
	}
	return nil
}

// HandleStatusBarTapAction forwards a status bar tap to the hosted app
func (c *Controller) HandleStatusBarTapAction(action types.TapAction) error {
	if err := c.guard("scene.status_bar_tap"); err != nil {
		return err
	}
	c.scene.DeliverStatusBarTap(action)
	return nil
}

// ReleaseSurface hands the rendering surface to another presenter
func (c *Controller) ReleaseSurface() (Surface, error) {
	if err := c.guard("scene.release_surface"); err != nil {
		return nil, err
	}
	if c.surface == nil {
		return nil, errors.InvalidState("scene.release_surface", c.windowID.String(), "surface already released")
	}
	if c.presented {
		c.scene.Dismiss()
	}
	s := c.surface
	c.surface = nil
	c.logger.Debug("Surface released", zap.String("surface_id", s.SurfaceID()))
	return s, nil
}

// AdoptSurface takes the rendering surface back and re-presents if needed
func (c *Controller) AdoptSurface(s Surface) error {
	if err := c.guard("scene.adopt_surface"); err != nil {
		return err
	}
	if c.surface != nil {
		return errors.InvalidState("scene.adopt_surface", c.windowID.String(), "controller already owns a surface")
	}
	c.surface = s
	if c.presented {
		c.scene.Resize(c.content)
		c.scene.Present(c.content)
	}
	c.logger.Debug("Surface adopted", zap.String("surface_id", s.SurfaceID()))
	return nil
}

// teardown dismisses the scene. Called once by the owning decorated controller.
func (c *Controller) teardown() {
	if c.torndown {
		return
	}
	c.torndown = true
	if c.presented && c.surface != nil {
		c.scene.Dismiss()
	}
	c.presented = false
	c.logger.Debug("Controller torn down")
}
