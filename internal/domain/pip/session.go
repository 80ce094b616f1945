package pip

import (
	"time"

	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Session is one window's stay in the floating presentation
type Session struct {
	id        id.PiPSessionID
	windowID  id.WindowID
	frame     types.Rect
	state     types.PiPState
	surface   scene.Surface
	startedAt time.Time
}

// SessionInfo is a read-only view of a session
type SessionInfo struct {
	ID        string         `json:"id"`
	WindowID  string         `json:"window_id"`
	State     types.PiPState `json:"state"`
	Frame     types.Rect     `json:"frame"`
	Active    bool           `json:"active"`
	StartedAt time.Time      `json:"started_at"`
}

func (s *Session) ID() id.PiPSessionID    { return s.id }
func (s *Session) WindowID() id.WindowID  { return s.windowID }
func (s *Session) Frame() types.Rect      { return s.frame }
func (s *Session) State() types.PiPState  { return s.state }
func (s *Session) Surface() scene.Surface { return s.surface }

// Active reports whether the floating presentation is showing
func (s *Session) Active() bool {
	return s.state == types.PiPFloating
}

// Info returns a read-only view of the session
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:        s.id.String(),
		WindowID:  s.windowID.String(),
		State:     s.state,
		Frame:     s.frame,
		Active:    s.Active(),
		StartedAt: s.startedAt,
	}
}
