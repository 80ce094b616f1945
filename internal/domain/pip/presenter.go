package pip

import (
	"sync"

	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// Presenter is the floating, always-on-top presentation layer
type Presenter interface {
	// Start shows surface at the session's frame
	Start(s *Session, surface scene.Surface) error
	// Move repositions a running presentation to the session's frame
	Move(s *Session) error
	// Stop ends the presentation; the surface goes back to the caller
	Stop(s *Session)
}

// HeadlessPresenter records floating presentations without drawing them
type HeadlessPresenter struct {
	mu     sync.Mutex
	active map[id.PiPSessionID]types.Rect
	starts int
	stops  int
	fail   error
}

// NewHeadlessPresenter creates a headless presenter
func NewHeadlessPresenter() *HeadlessPresenter {
	return &HeadlessPresenter{active: make(map[id.PiPSessionID]types.Rect)}
}

func (p *HeadlessPresenter) Start(s *Session, _ scene.Surface) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.active[s.ID()] = s.Frame()
	p.starts++
	return nil
}

func (p *HeadlessPresenter) Move(s *Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[s.ID()]; ok {
		p.active[s.ID()] = s.Frame()
	}
	return nil
}

func (p *HeadlessPresenter) Stop(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[s.ID()]; ok {
		delete(p.active, s.ID())
		p.stops++
	}
}

// FailWith makes subsequent Start calls fail; nil clears it
func (p *HeadlessPresenter) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

// Showing returns the frame a session is presented at
func (p *HeadlessPresenter) Showing(sid id.PiPSessionID) (types.Rect, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.active[sid]
	return r, ok
}

// Counts returns how many presentations were started and stopped
func (p *HeadlessPresenter) Counts() (starts, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts, p.stops
}
