package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// MultitaskMode selects how hosted instances are presented
type MultitaskMode string

const (
	MultitaskVirtualWindow MultitaskMode = "virtual"
	MultitaskNativeWindow  MultitaskMode = "native"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Host        HostConfig
	PiP         PiPConfig
	Launcher    LauncherConfig
	Relaunch    RelaunchConfig
	Arrangement ArrangementConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string        `envconfig:"PORT" default:"8000"`
	Host        string        `envconfig:"HOST" default:"0.0.0.0"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	OpenTimeout time.Duration `envconfig:"OPEN_TIMEOUT" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// HostConfig holds the virtual window host configuration.
type HostConfig struct {
	Mode                 MultitaskMode `envconfig:"VW_MODE" default:"virtual"`
	MaxWindows           int           `envconfig:"VW_MAX_WINDOWS" default:"8"`
	SurfaceWidth         int           `envconfig:"VW_SURFACE_WIDTH" default:"1280"`
	SurfaceHeight        int           `envconfig:"VW_SURFACE_HEIGHT" default:"800"`
	DefaultWidth         int           `envconfig:"VW_DEFAULT_WIDTH" default:"640"`
	DefaultHeight        int           `envconfig:"VW_DEFAULT_HEIGHT" default:"480"`
	MinWidth             int           `envconfig:"VW_MIN_WIDTH" default:"160"`
	MinHeight            int           `envconfig:"VW_MIN_HEIGHT" default:"120"`
	CascadeStep          int           `envconfig:"VW_CASCADE_STEP" default:"32"`
	TitleBarHeight       int           `envconfig:"VW_TITLE_BAR_HEIGHT" default:"32"`
	ButtonWidth          int           `envconfig:"VW_BUTTON_WIDTH" default:"32"`
	ResizeHandleSize     int           `envconfig:"VW_RESIZE_HANDLE" default:"16"`
	LaunchMaximized      bool          `envconfig:"VW_LAUNCH_MAXIMIZED" default:"false"`
	BottomWindowBar      bool          `envconfig:"VW_BOTTOM_WINDOW_BAR" default:"false"`
	MaxOneAppOnStage     bool          `envconfig:"VW_MAX_ONE_APP_ON_STAGE" default:"false"`
	ForwardStatusBarTaps bool          `envconfig:"VW_FORWARD_STATUS_BAR_TAPS" default:"true"`
	RulesFile            string        `envconfig:"VW_RULES_FILE" default:""`
}

// PiPConfig holds floating presentation configuration.
type PiPConfig struct {
	Width  int `envconfig:"PIP_WIDTH" default:"320"`
	Height int `envconfig:"PIP_HEIGHT" default:"180"`
	Margin int `envconfig:"PIP_MARGIN" default:"16"`
}

// LauncherConfig holds the app-launch collaborator configuration.
// An empty URL selects the in-process launcher.
type LauncherConfig struct {
	URL               string        `envconfig:"LAUNCHER_URL" default:""`
	Timeout           time.Duration `envconfig:"LAUNCHER_TIMEOUT" default:"30s"`
	PollInterval      time.Duration `envconfig:"LAUNCHER_POLL_INTERVAL" default:"250ms"`
	RequestsPerSecond int           `envconfig:"LAUNCHER_RPS" default:"20"`
}

// RelaunchConfig holds restart-after-termination configuration.
type RelaunchConfig struct {
	Enabled   bool          `envconfig:"RELAUNCH_ENABLED" default:"false"`
	Delay     time.Duration `envconfig:"RELAUNCH_DELAY" default:"500ms"`
	MinUptime time.Duration `envconfig:"RELAUNCH_MIN_UPTIME" default:"2s"`
}

// ArrangementConfig holds arrangement persistence configuration.
type ArrangementConfig struct {
	Path string `envconfig:"ARRANGEMENT_PATH" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects configurations the host cannot run with.
func (c *Config) Validate() error {
	h := c.Host
	if h.MaxWindows < 1 {
		return fmt.Errorf("VW_MAX_WINDOWS must be at least 1, got %d", h.MaxWindows)
	}
	if h.SurfaceWidth < 1 || h.SurfaceHeight < 1 {
		return fmt.Errorf("surface must be positive, got %dx%d", h.SurfaceWidth, h.SurfaceHeight)
	}
	if h.MinWidth < 1 || h.MinHeight < 1 {
		return fmt.Errorf("minimum window size must be positive, got %dx%d", h.MinWidth, h.MinHeight)
	}
	if h.TitleBarHeight < 0 || h.ButtonWidth < 0 || h.ResizeHandleSize < 0 {
		return fmt.Errorf("chrome metrics must not be negative")
	}
	if h.Mode != MultitaskVirtualWindow && h.Mode != MultitaskNativeWindow {
		return fmt.Errorf("unsupported VW_MODE %q", h.Mode)
	}
	if c.PiP.Width < 1 || c.PiP.Height < 1 {
		return fmt.Errorf("PiP size must be positive, got %dx%d", c.PiP.Width, c.PiP.Height)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
			OpenTimeout: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Host: HostConfig{
			Mode:                 MultitaskVirtualWindow,
			MaxWindows:           8,
			SurfaceWidth:         1280,
			SurfaceHeight:        800,
			DefaultWidth:         640,
			DefaultHeight:        480,
			MinWidth:             160,
			MinHeight:            120,
			CascadeStep:          32,
			TitleBarHeight:       32,
			ButtonWidth:          32,
			ResizeHandleSize:     16,
			ForwardStatusBarTaps: true,
		},
		PiP: PiPConfig{
			Width:  320,
			Height: 180,
			Margin: 16,
		},
		Launcher: LauncherConfig{
			Timeout:           30 * time.Second,
			PollInterval:      250 * time.Millisecond,
			RequestsPerSecond: 20,
		},
		Relaunch: RelaunchConfig{
			Delay:     500 * time.Millisecond,
			MinUptime: 2 * time.Second,
		},
	}
}
