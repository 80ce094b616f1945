package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vwhost/internal/domain/pip"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

func (h *Handlers) pipAvailable(c *gin.Context) bool {
	if h.pip == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "picture-in-picture is disabled"})
		return false
	}
	return true
}

// ListPiP returns the live PiP sessions
func (h *Handlers) ListPiP(c *gin.Context) {
	if !h.pipAvailable(c) {
		return
	}
	sessions, err := mainloop.Call(c.Request.Context(), h.loop, func() ([]pip.SessionInfo, error) {
		return h.pip.Sessions(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// DetachPiP floats a window
func (h *Handlers) DetachPiP(c *gin.Context) {
	if !h.pipAvailable(c) {
		return
	}
	wid := id.WindowID(c.Param("id"))
	info, err := mainloop.Call(c.Request.Context(), h.loop, func() (pip.SessionInfo, error) {
		s, err := h.pip.Detach(wid)
		if err != nil {
			return pip.SessionInfo{}, err
		}
		return s.Info(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ReattachPiP docks a floating session's window again
func (h *Handlers) ReattachPiP(c *gin.Context) {
	if !h.pipAvailable(c) {
		return
	}
	sid := id.PiPSessionID(c.Param("id"))
	if err := h.run(c, func() error { return h.pip.Reattach(sid) }); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid.String()})
}

// MovePiP repositions a floating session
func (h *Handlers) MovePiP(c *gin.Context) {
	if !h.pipAvailable(c) {
		return
	}
	var frame types.Rect
	if err := c.ShouldBindJSON(&frame); err != nil {
		badRequest(c, err)
		return
	}
	sid := id.PiPSessionID(c.Param("id"))
	applied, err := mainloop.Call(c.Request.Context(), h.loop, func() (types.Rect, error) {
		return h.pip.Move(sid, frame)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sid.String(), "frame": applied})
}
