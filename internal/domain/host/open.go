package host

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/domain/scene"
	"github.com/GriffinCanCode/vwhost/internal/domain/window"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/launcher"
	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
	"github.com/GriffinCanCode/vwhost/internal/shared/id"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

// OpenCallback receives the outcome of an open. On failure the window is nil.
type OpenCallback func(w *window.VirtualWindow, err error)

type pendingOpen struct {
	ctx   context.Context
	win   *window.VirtualWindow
	req   launcher.InstanceRequest
	done  OpenCallback
	timer *monitoring.Timer
}

// Open allocates a window for req, inserts it on top of the z-order and
// focuses it. Pending opens count toward the window limit.
//
// When req is already ready the window is inserted before Open returns.
// Otherwise Open reserves the window and returns its id; the insertion happens
// on the main loop once readiness arrives. Canceling ctx first discards the
// window without ever inserting it.
//
// done, if not nil, is called exactly once on the main loop when Open returns
// a nil error.
func (h *Host) Open(ctx context.Context, req launcher.InstanceRequest, done OpenCallback) (id.WindowID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := h.reserve(); err != nil {
		return "", err
	}

	win := window.New(id.NewWindowID(), req.Instance, h.now())
	timer := monitoring.NewTimer(h.metrics)

	if req.Ready == nil {
		if err := h.insert(win, req.Size); err != nil {
			win.Close()
			h.metrics.OpenRejected("failed")
			timer.ObserveOpen("failed")
			return "", err
		}
		timer.ObserveOpen("success")
		if done != nil {
			done(win, nil)
		}
		return win.ID(), nil
	}

	if h.dispatcher == nil {
		return "", fmt.Errorf("host.open: waiting for readiness needs a dispatcher")
	}

	p := &pendingOpen{ctx: ctx, win: win, req: req, done: done, timer: timer}
	h.pending[win.ID()] = p
	h.logger.Debug("Open pending readiness",
		zap.String("window_id", win.ID().String()),
		zap.String("bundle_id", req.Instance.BundleID))

	go h.await(p)
	return win.ID(), nil
}

// OpenReady opens an instance that needs no readiness wait
func (h *Host) OpenReady(req launcher.InstanceRequest) (*window.VirtualWindow, error) {
	if req.Ready != nil {
		return nil, errors.InvalidState("host.open", req.ID.String(), "instance is not ready")
	}
	var opened *window.VirtualWindow
	_, err := h.Open(context.Background(), req, func(w *window.VirtualWindow, _ error) {
		opened = w
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

func (h *Host) reserve() error {
	if len(h.entries)+len(h.pending) >= h.opts.MaxWindows {
		h.metrics.OpenRejected("capacity")
		return errors.ResourceExhausted("host.open", h.opts.MaxWindows)
	}
	return nil
}

// await runs off the main loop
func (h *Host) await(p *pendingOpen) {
	var err error
	select {
	case err = <-p.req.Ready:
	case <-p.ctx.Done():
		err = p.ctx.Err()
	}

	wid := p.win.ID()
	if postErr := h.dispatcher.Post(func() { h.finishOpen(wid, err) }); postErr != nil {
		h.logger.Warn("Dropping open completion", zap.String("window_id", wid.String()), zap.Error(postErr))
	}
}

func (h *Host) finishOpen(wid id.WindowID, readyErr error) {
	p, ok := h.pending[wid]
	if !ok {
		// Closed while pending
		return
	}
	delete(h.pending, wid)

	err := readyErr
	if err == nil {
		err = p.ctx.Err()
	}
	if err == nil {
		err = h.insert(p.win, p.req.Size)
	}

	if err != nil {
		p.win.Close()
		reason := "failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reason = "canceled"
		}
		h.metrics.OpenRejected(reason)
		p.timer.ObserveOpen(reason)
		h.logger.Info("Open discarded", zap.String("window_id", wid.String()), zap.Error(err))
		if p.done != nil {
			p.done(nil, err)
		}
		return
	}

	p.timer.ObserveOpen("success")
	if p.done != nil {
		p.done(p.win, nil)
	}
}

func (h *Host) cancelPending(wid id.WindowID) bool {
	p, ok := h.pending[wid]
	if !ok {
		return false
	}
	delete(h.pending, wid)
	p.win.Close()
	h.metrics.OpenRejected("canceled")
	p.timer.ObserveOpen("canceled")
	if p.done != nil {
		p.done(nil, errors.InvalidState("host.open", wid.String(), "closed before ready"))
	}
	return true
}

// insert builds the controller chain and puts w on top of the z-order
func (h *Host) insert(w *window.VirtualWindow, requested types.Size) error {
	inst := w.Instance()
	size := requested
	maximize := h.opts.LaunchMaximized
	if r, ok := h.rules.Match(inst.BundleID); ok {
		if r.Width > 0 {
			size.Width = r.Width
		}
		if r.Height > 0 {
			size.Height = r.Height
		}
		maximize = maximize || r.Maximized
	}
	frame := h.policy.Place(size, len(h.entries))

	sc, err := h.scenes.NewScene(w.ID(), inst)
	if err != nil {
		return fmt.Errorf("host.open: create scene: %w", err)
	}
	ctrl := scene.NewDecoratedController(scene.NewController(w, sc, h.logger), h.opts.Chrome, w.Title())
	if err := w.Attach(ctrl); err != nil {
		h.scenes.Release(w.ID())
		return err
	}

	e := &entry{win: w, ctrl: ctrl, sceneID: sc.ID()}
	h.entries[w.ID()] = e
	h.byScene[sc.ID()] = w.ID()
	h.order = append(h.order, w.ID())
	h.restack()

	w.SetVisibility(types.VisibilityBackground)
	if maximize {
		w.SetMaximized(true, frame)
		frame = h.policy.Maximized()
	}
	_ = ctrl.UpdateFrame(frame)
	_ = ctrl.Present()

	prev, _ := h.focusEntry(e, false)
	h.metrics.WindowOpened(len(h.entries))
	h.publish(event.WindowOpened{Window: w.Info()})
	h.publish(event.WindowFocused{WindowID: w.ID().String(), Previous: prev.String()})
	if maximize && h.opts.MaxOneAppOnStage {
		h.clearStage(e)
	}

	h.logger.Info("Window opened",
		zap.String("window_id", w.ID().String()),
		zap.String("bundle_id", inst.BundleID),
		zap.Stringer("frame", frame))
	return nil
}
