package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vwhost/internal/domain/dock"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
)

func (h *Handlers) dockAvailable(c *gin.Context) bool {
	if h.dock == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "dock is unavailable"})
		return false
	}
	return true
}

// GetDock returns the dock state
func (h *Handlers) GetDock(c *gin.Context) {
	if !h.dockAvailable(c) {
		return
	}
	h.dockState(c, func() error { return nil })
}

// DockBringToFront shows a docked app's window
func (h *Handlers) DockBringToFront(c *gin.Context) {
	if !h.dockAvailable(c) {
		return
	}
	dataUUID := c.Param("uuid")
	wid, err := mainloop.Call(c.Request.Context(), h.loop, func() (id.WindowID, error) {
		return h.dock.BringToFront(dataUUID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "window_id": wid.String()})
}

// DockToggleCollapse flips the collapsed state
func (h *Handlers) DockToggleCollapse(c *gin.Context) {
	if !h.dockAvailable(c) {
		return
	}
	h.dockState(c, func() error {
		h.dock.ToggleCollapsed()
		return nil
	})
}

// DockSetHidden slides the dock off screen or back
func (h *Handlers) DockSetHidden(c *gin.Context) {
	if !h.dockAvailable(c) {
		return
	}
	var body struct {
		Hidden bool `json:"hidden"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.dockState(c, func() error {
		h.dock.SetHidden(body.Hidden)
		return nil
	})
}

// DockMinimizeAll minimizes every window except an optional one
func (h *Handlers) DockMinimizeAll(c *gin.Context) {
	if !h.dockAvailable(c) {
		return
	}
	except := id.WindowID(c.Query("except"))
	n, err := mainloop.Call(c.Request.Context(), h.loop, func() (int, error) {
		return h.dock.MinimizeAll(except), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "minimized": n})
}

func (h *Handlers) dockState(c *gin.Context, mutate func() error) {
	st, err := mainloop.Call(c.Request.Context(), h.loop, func() (dock.State, error) {
		if err := mutate(); err != nil {
			return dock.State{}, err
		}
		return h.dock.State(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
