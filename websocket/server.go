// file: websocket/server.go
package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go-patient-caller/logger"
)

// NewUpgrader returns an upgrader that accepts the given origins. "*" allows
// any origin, and requests without an Origin header are always accepted.
func NewUpgrader(allowed []string) *websocket.Upgrader {
	origins := make(map[string]bool, len(allowed))
	anyOrigin := false
	for _, o := range allowed {
		if o == "*" {
			anyOrigin = true
		}
		origins[o] = true
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if anyOrigin || origin == "" || origins[origin] {
				return true
			}
			logger.Warn.Printf("[ServeWs] rejected origin %q from %v", origin, r.RemoteAddr)
			return false
		},
	}
}

// ServeWs upgrades the HTTP request to a WebSocket connection, registers it
// with hub and starts the read and write pumps.
func ServeWs(hub *Hub, upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v", r.RemoteAddr)
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the error response.
			logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
			return
		}

		c := NewConnection(wsConn, hub)
		if !hub.Register(c) {
			logger.Warn.Printf("[ServeWs] hub stopped; closing %v", r.RemoteAddr)
			_ = wsConn.Close()
			return
		}

		go c.writePump()
		go c.readPump()
	}
}
