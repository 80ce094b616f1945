package scene

import (
	"sync"

	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// HeadlessSurface is a surface with no backing pixels
type HeadlessSurface struct {
	id string
}

// SurfaceID returns the surface identifier
func (s *HeadlessSurface) SurfaceID() string { return s.id }

// Headless is an in-memory scene that records what it was asked to do.
// It backs the server when no display is attached, and tests.
type Headless struct {
	mu        sync.Mutex
	id        string
	surface   *HeadlessSurface
	presented bool
	content   types.Rect
	taps      []types.TapAction
	presents  int
	dismisses int
}

// NewHeadless creates a headless scene
func NewHeadless(sceneID string) *Headless {
	return &Headless{id: sceneID, surface: &HeadlessSurface{id: sceneID + "/surface"}}
}

func (h *Headless) ID() string { return h.id }

func (h *Headless) Surface() Surface { return h.surface }

func (h *Headless) Present(content types.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presented = true
	h.content = content
	h.presents++
}

func (h *Headless) Dismiss() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presented = false
	h.dismisses++
}

func (h *Headless) Resize(content types.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content = content
}

func (h *Headless) DeliverStatusBarTap(action types.TapAction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, action)
}

// State returns whether the scene is on screen and its content frame
func (h *Headless) State() (presented bool, content types.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presented, h.content
}

// Taps returns the status bar taps delivered to this scene
func (h *Headless) Taps() []types.TapAction {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]types.TapAction(nil), h.taps...)
}

// Calls returns how often Present and Dismiss reached the scene
func (h *Headless) Calls() (presents, dismisses int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presents, h.dismisses
}

// HeadlessFactory creates headless scenes and remembers them by window
type HeadlessFactory struct {
	mu     sync.Mutex
	scenes map[id.WindowID]*Headless
	fail   error
}

// NewHeadlessFactory creates a factory of headless scenes
func NewHeadlessFactory() *HeadlessFactory {
	return &HeadlessFactory{scenes: make(map[id.WindowID]*Headless)}
}

// NewScene creates the scene for a window. The scene id is derived from the window id.
func (f *HeadlessFactory) NewScene(wid id.WindowID, _ types.Instance) (Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	sc := NewHeadless("scene-" + wid.String())
	f.scenes[wid] = sc
	return sc, nil
}

// Release forgets the scene created for a window
func (f *HeadlessFactory) Release(wid id.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scenes, wid)
}

// Len is the number of scenes still held
func (f *HeadlessFactory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scenes)
}

// FailWith makes subsequent NewScene calls return err; nil clears it
func (f *HeadlessFactory) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

// Scene returns the scene created for a window
func (f *HeadlessFactory) Scene(wid id.WindowID) (*Headless, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.scenes[wid]
	return sc, ok
}
