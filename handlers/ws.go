package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// SyncHandler is the realtime invalidation hub. Every mutation handler
// calls NotifyChanged with the resource it touched; connected clients
// drop their cached copy and refetch.
type SyncHandler struct {
	M *melody.Melody
}

func NewSyncHandler() *SyncHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-Alive Configuration (Critical for Render.com/Cloud hosting)
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		log.Printf("✅ Sync client connected: %s", s.Request.RemoteAddr)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		log.Printf("🔌 Sync client disconnected: %s", s.Request.RemoteAddr)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &SyncHandler{M: m}
}

// HandleWS upgrades the request to a WebSocket session.
func (h *SyncHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// NotifyChanged tells every connected client that resource changed.
func (h *SyncHandler) NotifyChanged(resource string) {
	msg := []byte(`{"type": "invalidate", "resource": "` + resource + `"}`)
	if err := h.M.Broadcast(msg); err != nil {
		log.Printf("⚠️ Error broadcasting invalidation for %s: %v", resource, err)
	}
}
