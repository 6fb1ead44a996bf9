package handlers

import (
	"encoding/json"
	"net/http"

	"smartdrishti-server/logger"
	"smartdrishti-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client-to-server message envelope.
type clientMessage struct {
	Event    string `json:"event"` // join-device | leave-device
	DeviceID string `json:"device_id"`
}

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleClientWS upgrades a dashboard connection and reads room messages.
// GET /ws
func (h *WSHandler) HandleClientWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(conn)
	logger.Debug("dashboard client connected", zap.Int("clients", h.hub.ClientCount()))

	defer func() {
		h.hub.Unregister(client)
		logger.Debug("dashboard client disconnected", zap.Int("clients", h.hub.ClientCount()))
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug("invalid websocket message", zap.Error(err))
			continue
		}

		switch msg.Event {
		case "join-device":
			if msg.DeviceID != "" {
				h.hub.Join(client, "device-"+msg.DeviceID)
			}
		case "leave-device":
			if msg.DeviceID != "" {
				h.hub.Leave(client, "device-"+msg.DeviceID)
			}
		default:
			logger.Debug("unknown websocket event", zap.String("event", msg.Event))
		}
	}
}
