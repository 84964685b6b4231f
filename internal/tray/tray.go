// Package tray provides the system tray menu: detection toggle, mode
// selection and a live score line.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/mode"
)

// Tray is the system tray application.
type Tray struct {
	modes   []mode.Config
	active  mode.ID
	enabled bool
	status  string
	mu      sync.RWMutex

	onToggle func(enabled bool)
	onMode   func(id mode.ID)
	onOpen   func()
	onQuit   func()

	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
	menuModes  map[mode.ID]*systray.MenuItem
}

// New creates a Tray listing modes with active checked.
func New(modes []mode.Config, active mode.ID, enabled bool) *Tray {
	return &Tray{
		modes:   modes,
		active:  active,
		enabled: enabled,
		status:  "Score: 0 · 0%",
	}
}

// OnToggle sets the callback for the enable/disable item.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback for mode items.
func (t *Tray) OnMode(fn func(id mode.ID)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnOpen sets the callback for the "Open HUD" item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Asana")
	systray.SetTooltip("Asana pose feedback")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume detection")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(t.status, "Current session")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuModes = make(map[mode.ID]*systray.MenuItem, len(t.modes))
	for _, c := range t.modes {
		item := systray.AddMenuItemCheckbox(c.Title, mode.Prompt(c.HelpKey), c.ID == t.active)
		t.menuModes[c.ID] = item
		go t.watchMode(c.ID, item)
	}
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open HUD...", "Open the live view in a browser")
	menuQuit := systray.AddMenuItem("Quit", "Quit Asana")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) watchMode(id mode.ID, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.mu.RLock()
		fn := t.onMode
		t.mu.RUnlock()
		if fn != nil {
			fn(id)
		}
	}
}

func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// Update reflects a published result: the status line and the checked mode.
func (t *Tray) Update(res engine.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = StatusLine(res)
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(t.status)
	}

	if res.Mode == t.active {
		return
	}
	t.active = res.Mode
	for id, item := range t.menuModes {
		if id == res.Mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// Active returns the mode the tray shows as checked.
func (t *Tray) Active() mode.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// IsEnabled returns the toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// StatusLine formats a result for the disabled status item.
func StatusLine(res engine.Result) string {
	switch {
	case res.Gesture != nil:
		return fmt.Sprintf("%s · %d%%", res.Gesture.Label, res.CompletionPercent)
	case res.RepCount != nil:
		return fmt.Sprintf("Reps: %d · Score: %d", *res.RepCount, res.Score)
	default:
		return fmt.Sprintf("Score: %d · %d%%", res.Score, res.CompletionPercent)
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}
