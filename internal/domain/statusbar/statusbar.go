package statusbar

import (
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Target is a window controller that can receive status bar taps
type Target interface {
	WindowID() id.WindowID
	IsOpen() bool
	HandleStatusBarTapAction(action types.TapAction) error
}

// Outcome describes where a tap went
type Outcome struct {
	Forwarded bool        `json:"forwarded"`
	WindowID  id.WindowID `json:"window_id,omitempty"`
}

// TapInterceptor takes over tap handling from the status bar
type TapInterceptor interface {
	HandleTapAction(action types.TapAction) Outcome
}

// DefaultAction is the host's own status bar behaviour, e.g. scroll to top
type DefaultAction func(action types.TapAction)

// StatusBar is the single process-wide status bar
type StatusBar struct {
	interceptor   TapInterceptor
	defaultAction DefaultAction
	defaults      int
}

// NewStatusBar creates the status bar. A nil action makes the default a no-op.
func NewStatusBar(action DefaultAction) *StatusBar {
	if action == nil {
		action = func(types.TapAction) {}
	}
	return &StatusBar{defaultAction: action}
}

// SetTapInterceptor delegates tap handling to i; nil restores the built-in behaviour
func (s *StatusBar) SetTapInterceptor(i TapInterceptor) {
	s.interceptor = i
}

// Tap is the raw tap notification from the host process
func (s *StatusBar) Tap(action types.TapAction) Outcome {
	if action.Name == "" {
		action.Name = types.DefaultTapActionName
	}
	if s.interceptor != nil {
		return s.interceptor.HandleTapAction(action)
	}
	s.PerformDefault(action)
	return Outcome{}
}

// PerformDefault runs the host's own action
func (s *StatusBar) PerformDefault(action types.TapAction) {
	s.defaults++
	s.defaultAction(action)
}

// DefaultCount returns how many taps the host handled itself
func (s *StatusBar) DefaultCount() int {
	return s.defaults
}
