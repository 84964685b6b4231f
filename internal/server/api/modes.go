package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/asana/internal/mode"
)

type modeResponse struct {
	ID                  mode.ID   `json:"id"`
	Kind                mode.Kind `json:"kind"`
	Title               string    `json:"title"`
	Help                string    `json:"help"`
	ConfidenceThreshold float64   `json:"confidence_threshold"`
	StabilityTarget     float64   `json:"stability_target_seconds,omitempty"`
	RepTarget           int       `json:"rep_target,omitempty"`
	Active              bool      `json:"active"`
}

type listModesResponse struct {
	Modes []modeResponse `json:"modes"`
}

type switchModeRequest struct {
	ID mode.ID `json:"id"`
}

func toResponse(c mode.Config, active mode.ID) modeResponse {
	r := modeResponse{
		ID:                  c.ID,
		Kind:                c.Kind,
		Title:               c.Title,
		Help:                mode.Prompt(c.HelpKey),
		ConfidenceThreshold: c.ConfidenceThreshold,
		StabilityTarget:     c.StabilityTarget.Seconds(),
		Active:              c.ID == active,
	}
	if c.Reps != nil {
		r.RepTarget = c.Reps.Target
		r.StabilityTarget = 0
	}
	return r
}

// ModesHandler serves GET /api/modes.
type ModesHandler struct {
	ctl Controller
}

// NewModesHandler creates a ModesHandler.
func NewModesHandler(ctl Controller) *ModesHandler {
	return &ModesHandler{ctl: ctl}
}

func (h *ModesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	active := h.ctl.Mode().ID
	resp := listModesResponse{Modes: []modeResponse{}}
	for _, c := range h.ctl.Modes() {
		resp.Modes = append(resp.Modes, toResponse(c, active))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ModeHandler serves GET and POST /api/mode.
type ModeHandler struct {
	ctl Controller
}

// NewModeHandler creates a ModeHandler.
func NewModeHandler(ctl Controller) *ModeHandler {
	return &ModeHandler{ctl: ctl}
}

func (h *ModeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c := h.ctl.Mode()
		writeJSON(w, http.StatusOK, toResponse(c, c.ID))
	case http.MethodPost:
		h.switchMode(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// switchMode queues the change and answers 202: the loop applies it
// between ticks.
func (h *ModeHandler) switchMode(w http.ResponseWriter, r *http.Request) {
	var req switchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	err := h.ctl.SwitchMode(req.ID)
	switch {
	case errors.Is(err, mode.ErrUnknownMode):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":        req.ID,
			"requested": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ResultHandler serves GET /api/result, the latest evaluation snapshot.
type ResultHandler struct {
	ctl Controller
}

// NewResultHandler creates a ResultHandler.
func NewResultHandler(ctl Controller) *ResultHandler {
	return &ResultHandler{ctl: ctl}
}

func (h *ResultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.ctl.Latest())
}
