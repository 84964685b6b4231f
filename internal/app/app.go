// Package app runs the capture → detect → evaluate loop and publishes the
// latest evaluation for renderers.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/asana/internal/capture"
	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/log"
	"github.com/ayusman/asana/internal/mode"
)

// DefaultTickInterval paces detection at roughly 15 fps.
const DefaultTickInterval = 66 * time.Millisecond

// commandBuffer bounds how many mode or camera commands may queue between
// two ticks. Extra commands are dropped.
const commandBuffer = 8

// ErrCommandQueueFull is returned when a command cannot be queued.
var ErrCommandQueueFull = errors.New("command queue full")

// Config holds the application settings.
type Config struct {
	Registry     *mode.Registry
	Mode         mode.ID
	CameraID     int
	TickInterval time.Duration
	Enabled      bool
}

// App owns the evaluation loop. Only the loop goroutine touches the engine
// state; everything else reads published snapshots.
type App struct {
	config     Config
	registry   *mode.Registry
	openCamera capture.Opener
	detector   detector.Detector

	enabled  atomic.Bool
	latest   atomic.Pointer[engine.Result]
	jpeg     atomic.Pointer[[]byte]
	current  atomic.Pointer[mode.Config]
	modeCh   chan mode.ID
	cameraCh chan int

	mu     sync.Mutex
	subs   map[int]chan engine.Result
	nextID int
	camera capture.Camera
}

// Option customises an App.
type Option func(*App)

// WithDetector sets the landmark detector. Without it New tries the
// MediaPipe service and falls back to a mock.
func WithDetector(d detector.Detector) Option {
	return func(a *App) { a.detector = d }
}

// WithCameraOpener replaces how camera devices are opened.
func WithCameraOpener(open capture.Opener) Option {
	return func(a *App) { a.openCamera = open }
}

// New creates an App. The initial mode must exist in the registry.
func New(config Config, opts ...Option) (*App, error) {
	if config.Registry == nil {
		config.Registry = mode.Defaults()
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}

	cfg, err := config.Registry.Lookup(config.Mode)
	if err != nil {
		return nil, fmt.Errorf("initial mode: %w", err)
	}

	a := &App{
		config:     config,
		registry:   config.Registry,
		openCamera: capture.NewCamera,
		modeCh:     make(chan mode.ID, commandBuffer),
		cameraCh:   make(chan int, commandBuffer),
		subs:       make(map[int]chan engine.Result),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Info(nil, "using MediaPipe landmark detection")
		} else {
			log.Warn(log.Fields{"error": err}, "MediaPipe not available, using mock detector")
			a.detector = detector.NewMockDetector()
		}
	}

	a.enabled.Store(config.Enabled)
	a.current.Store(&cfg)
	idle := engine.Idle(engine.NewState(cfg), time.Now())
	a.latest.Store(&idle)
	return a, nil
}

// SetEnabled pauses or resumes detection. A paused loop keeps pacing but
// reads no frames.
func (a *App) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
}

// IsEnabled reports whether detection is running.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Latest returns the most recent evaluation snapshot.
func (a *App) Latest() engine.Result {
	return *a.latest.Load()
}

// LatestJPEG returns the most recent annotated frame, or nil before the
// first successful tick.
func (a *App) LatestJPEG() []byte {
	if p := a.jpeg.Load(); p != nil {
		return *p
	}
	return nil
}

// Mode returns the active mode config.
func (a *App) Mode() mode.Config {
	return *a.current.Load()
}

// Modes lists every available mode.
func (a *App) Modes() []mode.Config {
	return a.registry.All()
}

// SwitchMode queues a mode change for the loop. Unknown ids are rejected
// here and never reach the loop.
func (a *App) SwitchMode(id mode.ID) error {
	if _, err := a.registry.Lookup(id); err != nil {
		log.Warn(log.Fields{"mode": id}, "ignoring unknown mode")
		return err
	}
	select {
	case a.modeCh <- id:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// SwitchCamera queues a change of capture device.
func (a *App) SwitchCamera(device int) error {
	select {
	case a.cameraCh <- device:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Subscribe returns a channel receiving every published result. Slow
// readers only see the newest one. Call cancel to unsubscribe.
func (a *App) Subscribe() (<-chan engine.Result, func()) {
	ch := make(chan engine.Result, 1)

	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = ch
	a.mu.Unlock()

	return ch, func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// Camera returns the capture device currently in use, or nil when the loop
// is not running.
func (a *App) Camera() capture.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera
}

// Detector returns the landmark detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// Close releases the detector.
func (a *App) Close() error {
	return a.detector.Close()
}

func (a *App) publish(r engine.Result) {
	a.latest.Store(&r)

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ch := range a.subs {
		select {
		case <-ch:
		default:
		}
		ch <- r
	}
}

func (a *App) setCamera(c capture.Camera) {
	a.mu.Lock()
	a.camera = c
	a.mu.Unlock()
}
