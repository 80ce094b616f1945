package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vwhost/internal/domain/statusbar"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

type tapRequest struct {
	X       int               `json:"x"`
	Y       int               `json:"y"`
	Gesture types.GestureKind `json:"gesture"`
}

// RouteTap delivers a tap on the composing surface
func (h *Handlers) RouteTap(c *gin.Context) {
	var req tapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Gesture == "" {
		req.Gesture = types.GestureTap
	}
	p := types.Point{X: req.X, Y: req.Y}

	type routed struct {
		Consumed bool            `json:"consumed"`
		WindowID string          `json:"window_id,omitempty"`
		Region   types.HitRegion `json:"region"`
	}
	res, err := mainloop.Call(c.Request.Context(), h.loop, func() (routed, error) {
		wid, region := h.host.HitTest(p)
		return routed{Consumed: h.host.RouteTap(p, req.Gesture), WindowID: wid, Region: region}, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StatusBarTap delivers a status bar tap action
func (h *Handlers) StatusBarTap(c *gin.Context) {
	var action types.TapAction
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&action); err != nil {
			badRequest(c, err)
			return
		}
	}
	if action.At.IsZero() {
		action.At = time.Now()
	}
	outcome, err := mainloop.Call(c.Request.Context(), h.loop, func() (statusbar.Outcome, error) {
		return h.host.Router().StatusBar().Tap(action), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ResizeSurface changes the composing surface size
func (h *Handlers) ResizeSurface(c *gin.Context) {
	var size types.Size
	if err := c.ShouldBindJSON(&size); err != nil {
		badRequest(c, err)
		return
	}
	windows, err := mainloop.Call(c.Request.Context(), h.loop, func() ([]types.WindowSnapshot, error) {
		if err := h.host.ResizeSurface(size); err != nil {
			return nil, err
		}
		return h.host.Snapshots(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"surface": size, "windows": windows})
}

// SceneEvent accepts a scene lifecycle notification from the host process
func (h *Handlers) SceneEvent(c *gin.Context) {
	var ev types.SceneEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		badRequest(c, err)
		return
	}
	err := h.run(c, func() error {
		return h.host.HandleSceneEvent(ev)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
