package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/mode"
)

type fakeController struct {
	mu       sync.Mutex
	reg      *mode.Registry
	active   mode.ID
	latest   engine.Result
	switched []mode.ID
	err      error
}

func newFake() *fakeController {
	return &fakeController{reg: mode.Defaults(), active: mode.Squat}
}

func (f *fakeController) Latest() engine.Result { return f.latest }
func (f *fakeController) Modes() []mode.Config  { return f.reg.All() }

func (f *fakeController) Mode() mode.Config {
	c, _ := f.reg.Lookup(f.active)
	return c
}

func (f *fakeController) SwitchMode(id mode.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, err := f.reg.Lookup(id); err != nil {
		return err
	}
	f.switched = append(f.switched, id)
	return nil
}

func TestModesHandler(t *testing.T) {
	h := NewModesHandler(newFake())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/modes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp listModesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Modes, 5)

	assert.Equal(t, mode.Squat, resp.Modes[0].ID)
	assert.True(t, resp.Modes[0].Active)
	assert.Equal(t, 8.0, resp.Modes[0].StabilityTarget)
	assert.Equal(t, mode.Prompt("squat.help"), resp.Modes[0].Help)

	assert.Equal(t, mode.SquatReps, resp.Modes[1].ID)
	assert.False(t, resp.Modes[1].Active)
	assert.Equal(t, 10, resp.Modes[1].RepTarget)
	assert.Zero(t, resp.Modes[1].StabilityTarget)
}

func TestModesHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewModesHandler(newFake()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/modes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestModeHandler_Get(t *testing.T) {
	rec := httptest.NewRecorder()
	NewModeHandler(newFake()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mode", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp modeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, mode.Squat, resp.ID)
	assert.True(t, resp.Active)
}

func TestModeHandler_Post(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ctlErr     error
		wantStatus int
		wantSwitch []mode.ID
	}{
		{"known mode", `{"id":"lunge"}`, nil, http.StatusAccepted, []mode.ID{mode.Lunge}},
		{"unknown mode", `{"id":"yoga"}`, nil, http.StatusNotFound, nil},
		{"missing id", `{}`, nil, http.StatusBadRequest, nil},
		{"bad json", `{`, nil, http.StatusBadRequest, nil},
		{"queue full", `{"id":"rps"}`, errors.New("command queue full"), http.StatusServiceUnavailable, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := newFake()
			ctl.err = tt.ctlErr

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/mode", bytes.NewBufferString(tt.body))
			NewModeHandler(ctl).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantSwitch, ctl.switched)
		})
	}
}

func TestModeHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewModeHandler(newFake()).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/mode", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestResultHandler(t *testing.T) {
	angle := 142
	ctl := newFake()
	ctl.latest = engine.Result{Mode: mode.Squat, Detected: true, Angle: &angle, Score: 7, CompletionPercent: 40}

	rec := httptest.NewRecorder()
	NewResultHandler(ctl).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/result", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got engine.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Angle)
	assert.Equal(t, 142, *got.Angle)
	assert.Equal(t, 7, got.Score)
	assert.Equal(t, 40, got.CompletionPercent)
	assert.True(t, got.Detected)
}

func TestResultHandler_UndetectedAngleIsNull(t *testing.T) {
	ctl := newFake()
	ctl.latest = engine.Result{Mode: mode.Squat}

	rec := httptest.NewRecorder()
	NewResultHandler(ctl).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/result", nil))

	assert.Contains(t, rec.Body.String(), `"angle":null`)
	assert.NotContains(t, rec.Body.String(), "rep_count", "rep_count is omitted for hold modes")
}
