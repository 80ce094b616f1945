package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/arrangement"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
)

// CaptureArrangement returns the current layout without saving it
func (h *Handlers) CaptureArrangement(c *gin.Context) {
	a, err := mainloop.Call(c.Request.Context(), h.loop, func() (arrangement.Arrangement, error) {
		return arrangement.Capture(h.host, time.Now()), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handlers) storeAvailable(c *gin.Context) bool {
	if h.arrangement == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "no arrangement path configured"})
		return false
	}
	return true
}

// SaveArrangement captures the layout and writes it to the arrangement file
func (h *Handlers) SaveArrangement(c *gin.Context) {
	if !h.storeAvailable(c) {
		return
	}
	a, err := mainloop.Call(c.Request.Context(), h.loop, func() (arrangement.Arrangement, error) {
		return arrangement.Capture(h.host, time.Now()), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	// file IO stays off the main loop
	if err := h.arrangement.Save(a); err != nil {
		h.logger.Error("Arrangement not saved", zap.String("path", h.arrangement.Path()), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"path":    h.arrangement.Path(),
		"format":  h.arrangement.Format(),
		"windows": len(a.Windows),
	})
}

// RestoreArrangement loads the arrangement file and applies it to the
// windows that are still open
func (h *Handlers) RestoreArrangement(c *gin.Context) {
	if !h.storeAvailable(c) {
		return
	}
	a, err := h.arrangement.Load()
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := mainloop.Call(c.Request.Context(), h.loop, func() (arrangement.Result, error) {
		return arrangement.Apply(h.host, a)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
