package server

import (
	"sync"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/mode"
)

type fakeSource struct {
	mu     sync.Mutex
	reg    *mode.Registry
	active mode.ID
	latest engine.Result
	jpeg   []byte
	subs   []chan engine.Result
}

func newFakeSource() *fakeSource {
	return &fakeSource{reg: mode.Defaults(), active: mode.Squat, latest: engine.Result{Mode: mode.Squat}}
}

func (f *fakeSource) Latest() engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

func (f *fakeSource) Mode() mode.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, _ := f.reg.Lookup(f.active)
	return c
}

func (f *fakeSource) Modes() []mode.Config { return f.reg.All() }

func (f *fakeSource) SwitchMode(id mode.ID) error {
	if _, err := f.reg.Lookup(id); err != nil {
		return err
	}
	f.mu.Lock()
	f.active = id
	f.mu.Unlock()
	f.publish(engine.Result{Mode: id})
	return nil
}

func (f *fakeSource) Subscribe() (<-chan engine.Result, func()) {
	ch := make(chan engine.Result, 8)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	return ch, func() {}
}

func (f *fakeSource) LatestJPEG() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jpeg
}

func (f *fakeSource) setJPEG(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jpeg = b
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeSource) publish(r engine.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = r
	for _, ch := range f.subs {
		select {
		case ch <- r:
		default:
		}
	}
}
