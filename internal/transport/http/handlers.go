package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

// ConfigResponse is what the browser fetches before opening the signaling
// socket.
type ConfigResponse struct {
	WebsocketHost string             `json:"websocket_host"`
	ICEServers    []webrtc.ICEServer `json:"ice_servers"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// ConfigSource is satisfied by *config.Config.
type ConfigSource interface {
	SignalingURL() string
	WebRTCICEServers() []webrtc.ICEServer
}

// SessionCounter is satisfied by *app.Registry.
type SessionCounter interface {
	Len() int
}

func HandlerConfig(cfg ConfigSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		servers := cfg.WebRTCICEServers()
		if servers == nil {
			servers = []webrtc.ICEServer{}
		}
		c.JSON(http.StatusOK, ConfigResponse{
			WebsocketHost: cfg.SignalingURL(),
			ICEServers:    servers,
		})
	}
}

func HandlerHealth(sessions SessionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Sessions: sessions.Len()})
	}
}
