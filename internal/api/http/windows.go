package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// ListWindows returns every open window, bottom to top
func (h *Handlers) ListWindows(c *gin.Context) {
	windows, err := mainloop.Call(c.Request.Context(), h.loop, func() ([]types.WindowInfo, error) {
		return h.host.Windows(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows, "count": len(windows)})
}

// GetWindow returns one window
func (h *Handlers) GetWindow(c *gin.Context) {
	wid := id.WindowID(c.Param("id"))
	info, err := mainloop.Call(c.Request.Context(), h.loop, func() (types.WindowInfo, error) {
		w, ok := h.host.Window(wid)
		if !ok {
			return types.WindowInfo{}, errors.NotFound("api.get_window", wid.String())
		}
		return w.Info(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type opened struct {
	id      id.WindowID
	request id.RequestID
	info    *types.WindowInfo
	reused  bool
}

// OpenWindow launches a bundle and opens a window for it. A running or still
// loading instance with the same data UUID is reused instead.
func (h *Handlers) OpenWindow(c *gin.Context) {
	var handle launcher.BundleHandle
	if err := c.ShouldBindJSON(&handle); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := mainloop.Call(ctx, h.loop, func() (opened, error) {
		return h.reuse(handle.DataUUID)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if existing.reused {
		respondOpened(c, existing)
		return
	}

	req, err := h.launcher.RequestInstance(ctx, handle)
	if err != nil {
		if handle.Validate() != nil {
			badRequest(c, err)
			return
		}
		h.logger.Warn("Launch failed", zap.String("bundle_id", handle.BundleID), zap.Error(err))
		respondError(c, err)
		return
	}

	// the open outlives this request; readiness may arrive much later
	openCtx, cancel := context.WithTimeout(context.Background(), h.openTimeout)
	res, err := mainloop.Call(ctx, h.loop, func() (opened, error) {
		// another request may have opened the same data while we launched
		if res, err := h.reuse(req.Instance.DataUUID); err != nil || res.reused {
			cancel()
			return res, err
		}
		wid, err := h.host.Open(openCtx, req, func(w *window.VirtualWindow, err error) {
			cancel()
			if err != nil {
				h.logger.Warn("Open did not complete", zap.String("bundle_id", req.Instance.BundleID), zap.Error(err))
			}
		})
		if err != nil {
			cancel()
			return opened{}, err
		}
		res := opened{id: wid, request: req.ID}
		if w, ok := h.host.Window(wid); ok {
			info := w.Info()
			res.info = &info
		}
		return res, nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if res.reused {
		h.logger.Debug("Dropped duplicate launch", zap.String("data_uuid", req.Instance.DataUUID))
	}
	respondOpened(c, res)
}

// reuse finds a window already open or opening for dataUUID and brings it to
// front. Runs on the main loop.
func (h *Handlers) reuse(dataUUID string) (opened, error) {
	if dataUUID == "" {
		return opened{}, nil
	}
	if w, ok := h.host.FindByDataUUID(dataUUID); ok {
		if err := h.bringToFront(w); err != nil {
			return opened{}, err
		}
		info := w.Info()
		return opened{id: w.ID(), info: &info, reused: true}, nil
	}
	if wid, reqID, ok := h.host.PendingByDataUUID(dataUUID); ok {
		return opened{id: wid, request: reqID, reused: true}, nil
	}
	return opened{}, nil
}

func respondOpened(c *gin.Context, res opened) {
	switch {
	case res.info != nil && res.reused:
		c.JSON(http.StatusOK, gin.H{"window": res.info, "reused": true})
	case res.info != nil:
		c.JSON(http.StatusCreated, gin.H{"window": res.info, "reused": false})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"window_id":  res.id.String(),
			"request_id": res.request.String(),
			"status":     "pending",
			"reused":     res.reused,
		})
	}
}

func (h *Handlers) bringToFront(w *window.VirtualWindow) error {
	if h.dock != nil {
		_, err := h.dock.BringToFront(w.Instance().DataUUID)
		return err
	}
	if w.Visibility() == types.VisibilityDetached && h.pip != nil {
		if s, ok := h.pip.SessionFor(w.ID()); ok {
			if err := h.pip.Reattach(s.ID()); err != nil {
				return err
			}
		}
	}
	return h.host.Focus(w.ID())
}

// CloseWindow closes a window. Closing an unknown id is not an error.
func (h *Handlers) CloseWindow(c *gin.Context) {
	wid := id.WindowID(c.Param("id"))
	err := h.loop.Do(c.Request.Context(), func() {
		_ = h.host.Close(wid, types.CloseRequested)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "window_id": wid.String()})
}

// FocusWindow raises and focuses a window
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp(c, h.host.Focus)
}

// MinimizeWindow minimizes a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp(c, h.host.Minimize)
}

// RestoreWindow restores a minimized window
func (h *Handlers) RestoreWindow(c *gin.Context) {
	h.windowOp(c, h.host.Restore)
}

// ToggleMaximize maximizes a window or returns it to its previous frame
func (h *Handlers) ToggleMaximize(c *gin.Context) {
	h.windowOp(c, h.host.ToggleMaximize)
}

// windowOp runs a single-window host operation and answers with the window's
// state afterwards
func (h *Handlers) windowOp(c *gin.Context, op func(id.WindowID) error) {
	wid := id.WindowID(c.Param("id"))
	info, err := mainloop.Call(c.Request.Context(), h.loop, func() (types.WindowInfo, error) {
		if err := op(wid); err != nil {
			return types.WindowInfo{}, err
		}
		w, ok := h.host.Window(wid)
		if !ok {
			return types.WindowInfo{}, errors.NotFound("api.window", wid.String())
		}
		return w.Info(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// SetFrame moves or resizes a window
func (h *Handlers) SetFrame(c *gin.Context) {
	var frame types.Rect
	if err := c.ShouldBindJSON(&frame); err != nil {
		badRequest(c, err)
		return
	}
	wid := id.WindowID(c.Param("id"))
	applied, err := mainloop.Call(c.Request.Context(), h.loop, func() (types.Rect, error) {
		return h.host.SetFrame(wid, frame)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window_id": wid.String(), "frame": applied})
}

// Restack reorders the listed windows among their own slots
func (h *Handlers) Restack(c *gin.Context) {
	var body struct {
		Order []string `json:"order" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ids := make([]id.WindowID, len(body.Order))
	for i, s := range body.Order {
		ids[i] = id.WindowID(s)
	}
	order, err := mainloop.Call(c.Request.Context(), h.loop, func() ([]id.WindowID, error) {
		if err := h.host.Restack(ids); err != nil {
			return nil, err
		}
		return h.host.Order(), nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
