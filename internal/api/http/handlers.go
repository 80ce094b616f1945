package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/arrangement"
	"github.com/GriffinCanCode/vwhost/internal/domain/dock"
	"github.com/GriffinCanCode/vwhost/internal/domain/host"
	"github.com/GriffinCanCode/vwhost/internal/domain/pip"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
)

// Deps are the collaborators the handlers drive. Everything except Loop,
// Host and Launcher is optional.
type Deps struct {
	Loop        *mainloop.Loop
	Host        *host.Host
	PiP         *pip.Coordinator
	Dock        *dock.Dock
	Arrangement *arrangement.Store
	Launcher    launcher.Launcher
	Metrics     *monitoring.Metrics
	Logger      *zap.Logger
	// OpenTimeout bounds how long an open may wait for readiness
	OpenTimeout time.Duration
}

// Handlers serves the UI shell's REST surface. Every handler hops onto the
// main loop before touching the host.
type Handlers struct {
	loop        *mainloop.Loop
	host        *host.Host
	pip         *pip.Coordinator
	dock        *dock.Dock
	arrangement *arrangement.Store
	launcher    launcher.Launcher
	metrics     *monitoring.Metrics
	logger      *zap.Logger
	openTimeout time.Duration
}

// NewHandlers creates the handler set
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := d.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handlers{
		loop:        d.Loop,
		host:        d.Host,
		pip:         d.PiP,
		dock:        d.Dock,
		arrangement: d.Arrangement,
		launcher:    d.Launcher,
		metrics:     d.Metrics,
		logger:      logger.Named("api"),
		openTimeout: timeout,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)

	r.GET("/windows", h.ListWindows)
	r.POST("/windows", h.OpenWindow)
	r.PUT("/windows/order", h.Restack)
	r.GET("/windows/:id", h.GetWindow)
	r.DELETE("/windows/:id", h.CloseWindow)
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.POST("/windows/:id/minimize", h.MinimizeWindow)
	r.POST("/windows/:id/restore", h.RestoreWindow)
	r.POST("/windows/:id/maximize", h.ToggleMaximize)
	r.PUT("/windows/:id/frame", h.SetFrame)

	r.POST("/input/tap", h.RouteTap)
	r.POST("/statusbar/tap", h.StatusBarTap)
	r.PUT("/surface", h.ResizeSurface)
	r.POST("/scenes/events", h.SceneEvent)

	r.GET("/pip", h.ListPiP)
	r.POST("/windows/:id/pip", h.DetachPiP)
	r.POST("/pip/:id/reattach", h.ReattachPiP)
	r.PUT("/pip/:id/frame", h.MovePiP)

	r.GET("/arrangement", h.CaptureArrangement)
	r.POST("/arrangement/save", h.SaveArrangement)
	r.POST("/arrangement/restore", h.RestoreArrangement)

	r.GET("/dock", h.GetDock)
	r.POST("/dock/apps/:uuid/front", h.DockBringToFront)
	r.POST("/dock/collapse", h.DockToggleCollapse)
	r.PUT("/dock/hidden", h.DockSetHidden)
	r.POST("/dock/minimize-all", h.DockMinimizeAll)

	r.POST("/logs/shell", h.StreamLogs)
}

// Root returns service information
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "virtual-windows-host",
		"status":  "running",
	})
}

// Health reports whether the main loop still answers
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	type health struct {
		Windows int `json:"windows"`
		Pending int `json:"pending"`
	}
	got, err := mainloop.Call(ctx, h.loop, func() (health, error) {
		return health{Windows: h.host.Count(), Pending: h.host.Pending()}, nil
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"windows": got.Windows,
		"pending": got.Pending,
	})
}

// Stats returns the metrics snapshot
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// run executes fn on the main loop
func (h *Handlers) run(c *gin.Context, fn func() error) error {
	_, err := mainloop.Call(c.Request.Context(), h.loop, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
