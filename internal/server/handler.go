package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/soar/XRControllerView/internal/hub"
)

// Viewers only send small subscribe commands.
var viewerUpgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 4096,
	// Viewer pages may be opened from another host on the LAN.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveViewer upgrades a viewer connection, sends it the current state and
// starts its pumps.
func (s *Server) serveViewer(w http.ResponseWriter, r *http.Request) {
	conn, err := viewerUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("viewer upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := hub.NewClient(s.cfg.Hub, conn)
	s.cfg.Hub.Register(c)
	s.cfg.Broadcaster.SendInitialState(c)

	go c.WritePump()
	go c.ReadPump()
}
