package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/asana/internal/log"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local HUD only
	},
}

// ResultsHandler pushes every published evaluation to websocket clients.
type ResultsHandler struct {
	src Source
}

// NewResultsHandler creates a ResultsHandler.
func NewResultsHandler(src Source) *ResultsHandler {
	return &ResultsHandler{src: src}
}

func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(log.Fields{"error": err}, "websocket upgrade failed")
		return
	}
	defer conn.Close()

	results, cancel := h.src.Subscribe()
	defer cancel()

	// The reader only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.send(conn, h.src.Latest()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case res := <-results:
			if err := h.send(conn, res); err != nil {
				return
			}
		}
	}
}

func (h *ResultsHandler) send(conn *websocket.Conn, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
