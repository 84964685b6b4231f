package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"
	"golang.org/x/time/rate"

	"github.com/ayusman/asana/internal/capture"
	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/log"
	"github.com/ayusman/asana/internal/overlay"
)

type outcome struct {
	det   detector.Detection
	err   error
	frame *gocv.Mat
}

// Run drives the loop until ctx is cancelled. Each tick waits on the rate
// limiter, applies queued commands, reads a frame, detects and evaluates.
// It returns nil on cancellation and an error only when the first camera
// cannot be opened.
func (a *App) Run(ctx context.Context) error {
	cam := a.openCamera(a.config.CameraID)
	if err := cam.Open(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	a.setCamera(cam)
	defer func() {
		if c := a.Camera(); c != nil {
			if err := c.Close(); err != nil {
				log.Warn(log.Fields{"error": err}, "closing camera")
			}
		}
		a.setCamera(nil)
	}()

	state := engine.NewState(a.Mode())
	a.publish(engine.Idle(state, time.Now()))
	log.Info(log.Fields{"mode": state.Config.ID, "session": state.SessionID}, "evaluation loop started")

	limiter := rate.NewLimiter(rate.Every(a.config.TickInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			log.Info(nil, "evaluation loop stopped")
			return nil
		}

		state = a.applyCommands(state)
		if !a.IsEnabled() {
			continue
		}

		next, ok := a.tick(ctx, state)
		if ctx.Err() != nil {
			log.Info(nil, "evaluation loop stopped")
			return nil
		}
		if ok {
			state = next
		}
	}
}

// tick runs one detection and evaluation. It returns false when the tick
// was skipped, in which case the previous snapshot stays published.
func (a *App) tick(ctx context.Context, state engine.State) (engine.State, bool) {
	fields := log.Fields{"mode": state.Config.ID, "session": state.SessionID}

	frame, err := a.Camera().ReadFrame()
	if err != nil {
		fields["error"] = err
		log.Warn(fields, "frame read failed")
		return state, false
	}

	results := make(chan outcome)
	target := state.Config.Kind.Target()
	go func() {
		// The detection is not cancelled on stop; its result is dropped.
		det, err := a.detector.Detect(context.WithoutCancel(ctx), frame, target)
		select {
		case results <- outcome{det: det, err: err, frame: frame}:
		case <-ctx.Done():
			frame.Close()
		}
	}()

	var o outcome
	select {
	case <-ctx.Done():
		return state, false
	case o = <-results:
	}
	defer o.frame.Close()

	if o.err != nil {
		fields["error"] = o.err
		log.Error(fields, "detection failed")
		return state, false
	}

	state, res := engine.Evaluate(state, o.det, time.Now())
	a.publish(res)
	a.storeFrame(o.frame, res)
	return state, true
}

func (a *App) applyCommands(state engine.State) engine.State {
	for {
		select {
		case id := <-a.modeCh:
			next, ok := engine.SwitchMode(state, a.registry, id)
			if !ok {
				continue
			}
			state = next
			cfg := state.Config
			a.current.Store(&cfg)
			a.publish(engine.Idle(state, time.Now()))
			log.Info(log.Fields{"mode": id, "session": state.SessionID}, "mode switched")
		case device := <-a.cameraCh:
			a.switchCamera(device)
		default:
			return state
		}
	}
}

func (a *App) switchCamera(device int) {
	old := a.Camera()
	if old != nil && old.Device() == device {
		return
	}

	cam := a.openCamera(device)
	if err := cam.Open(); err != nil {
		log.Warn(log.Fields{"device": device, "error": err}, "camera switch failed, keeping current device")
		return
	}
	a.setCamera(cam)
	if old != nil {
		if err := old.Close(); err != nil && !errors.Is(err, capture.ErrCameraNotOpen) {
			log.Warn(log.Fields{"device": old.Device(), "error": err}, "closing previous camera")
		}
	}
	log.Info(log.Fields{"device": device}, "camera switched")
}

func (a *App) storeFrame(frame *gocv.Mat, res engine.Result) {
	overlay.Draw(frame, res)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Debug(log.Fields{"error": err}, "jpeg encode failed")
		return
	}
	defer buf.Close()

	b := append([]byte(nil), buf.GetBytes()...)
	a.jpeg.Store(&b)
}
