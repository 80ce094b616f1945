package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/vwhost/internal/api/http"
	"github.com/GriffinCanCode/vwhost/internal/api/middleware"
	"github.com/GriffinCanCode/vwhost/internal/domain/arrangement"
	"github.com/GriffinCanCode/vwhost/internal/domain/dock"
	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/host"
	"github.com/GriffinCanCode/vwhost/internal/domain/pip"
	"github.com/GriffinCanCode/vwhost/internal/domain/relaunch"
	"github.com/GriffinCanCode/vwhost/internal/domain/rules"
	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/domain/statusbar"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/paths"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
	"github.com/GriffinCanCode/vwhost/internal/ws"
)

// Server wraps the HTTP server and the window host it drives
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	loop       *mainloop.Loop
	stopLoop   context.CancelFunc
	bus        *event.Bus
	host       *host.Host
	pip        *pip.Coordinator
	dock       *dock.Dock
	relauncher *relaunch.Relauncher
	launcher   launcher.Launcher
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer builds every component from cfg and starts the main loop.
// Serving HTTP waits for Run.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
	logger.Info("Initializing virtual windows host",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", string(cfg.Host.Mode)),
		zap.Int("max_windows", cfg.Host.MaxWindows),
	)

	// Initialize metrics first (needed by other components)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)

	rulesFile, err := paths.Expand(cfg.Host.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("window rules path: %w", err)
	}
	ruleSet, err := rules.Load(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("load window rules: %w", err)
	}
	if ruleSet.Len() > 0 {
		logger.Info("Window rules loaded", zap.String("file", rulesFile), zap.Int("rules", ruleSet.Len()))
	}

	var store *arrangement.Store
	if cfg.Arrangement.Path != "" {
		arrangementPath, err := paths.InStateDir(cfg.Arrangement.Path)
		if err != nil {
			return nil, fmt.Errorf("arrangement path: %w", err)
		}
		store, err = arrangement.NewStore(arrangementPath)
		if err != nil {
			return nil, fmt.Errorf("arrangement store: %w", err)
		}
		logger.Info("Arrangement persistence enabled",
			zap.String("path", store.Path()),
			zap.String("format", store.Format()),
		)
	}

	loop := mainloop.New(logger.Component("mainloop"), mainloop.DefaultQueueSize)
	bus := event.NewBus(logger.Component("events"))

	router := statusbar.NewRouter(statusbar.NewStatusBar(nil), logger.Logger).
		WithForwarding(cfg.Host.ForwardStatusBarTaps).
		WithBus(bus).
		WithMetrics(metrics)

	h := host.New(host.OptionsFromConfig(cfg.Host), scene.NewHeadlessFactory(), router, loop, logger.Logger).
		WithBus(bus).
		WithMetrics(metrics).
		WithRules(ruleSet)

	coordinator := pip.NewCoordinator(h, pip.NewHeadlessPresenter(), pip.Options{
		Size:   types.Size{Width: cfg.PiP.Width, Height: cfg.PiP.Height},
		Margin: cfg.PiP.Margin,
	}, logger.Logger).
		WithBus(bus).
		WithMetrics(metrics)

	d := dock.New(h, coordinator, cfg.Host.Mode == config.MultitaskVirtualWindow, logger.Logger).
		Follow(bus)

	var appLauncher launcher.Launcher = launcher.NewLocal()
	if cfg.Launcher.URL != "" {
		appLauncher = launcher.NewHTTP(launcher.HTTPOptionsFromConfig(cfg.Launcher), logger.Logger)
		logger.Info("Using remote launcher", zap.String("url", cfg.Launcher.URL))
	}

	relauncher := relaunch.New(cfg.Relaunch, appLauncher, h, loop, logger.Logger).
		WithMetrics(metrics).
		Follow(bus)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger.Component("http")))
	engine.Use(monitoring.Middleware(metrics))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		MaxAge:       middleware.DefaultCORSConfig().MaxAge,
	}))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		limits.Exempt = append(limits.Exempt, "/ws/events")
		engine.Use(middleware.RateLimit(limits))
	}

	handlers := api.NewHandlers(api.Deps{
		Loop:        loop,
		Host:        h,
		PiP:         coordinator,
		Dock:        d,
		Arrangement: store,
		Launcher:    appLauncher,
		Metrics:     metrics,
		Logger:      logger.Logger,
		OpenTimeout: cfg.Server.OpenTimeout,
	})
	handlers.Register(engine)

	wsHandler := ws.NewHandler(bus, loop, h, logger.Logger).WithMetrics(metrics)
	engine.GET("/ws/events", wsHandler.HandleConnection)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	loopCtx, stopLoop := context.WithCancel(context.Background())
	go func() {
		if err := loop.Run(loopCtx); err != nil {
			logger.Error("Main loop exited", zap.Error(err))
		}
	}()

	logger.Info("Server initialized successfully")

	return &Server{
		router:     engine,
		loop:       loop,
		stopLoop:   stopLoop,
		bus:        bus,
		host:       h,
		pip:        coordinator,
		dock:       d,
		relauncher: relauncher,
		launcher:   appLauncher,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
	}, nil
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the listen address from configuration
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run serves HTTP until Close is called
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve serves HTTP on ln until Close is called
func (s *Server) Serve(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops accepting requests, closes every window and stops the main loop
func (s *Server) Close(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
			shutdownErr = fmt.Errorf("http shutdown: %w", err)
		}
	}

	s.relauncher.Stop()

	if err := s.loop.Do(ctx, func() { s.host.CloseAll(types.CloseShutdown) }); err != nil {
		s.logger.Warn("Windows not closed before shutdown", zap.Error(err))
	}

	s.stopLoop()
	select {
	case <-s.loop.Done():
	case <-ctx.Done():
		s.logger.Warn("Main loop did not stop in time")
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return shutdownErr
}
