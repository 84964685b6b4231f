// Package api provides the JSON HTTP handlers for modes and results.
package api

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/mode"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Controller is the part of the application the handlers drive.
type Controller interface {
	Latest() engine.Result
	Mode() mode.Config
	Modes() []mode.Config
	SwitchMode(id mode.ID) error
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
