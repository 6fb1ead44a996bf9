package ws

import (
	"encoding/json"
	"sync"

	"smartdrishti-server/entities"

	"github.com/gorilla/websocket"
)

// Client is one connected dashboard browser.
type Client struct {
	conn  *websocket.Conn
	wmu   sync.Mutex // serializes writes; broadcasts come from several goroutines
	rooms map[string]bool
}

func (c *Client) send(payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub keeps track of connected clients and their device-room memberships.
// Every client implicitly belongs to the global room.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// Register adds a connection and returns its client handle.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{conn: conn, rooms: make(map[string]bool)}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	return client
}

// Unregister drops a client and closes its connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		_ = client.conn.Close()
		delete(h.clients, client)
	}
}

// Join subscribes a client to a device room.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.rooms[room] = true
}

// Leave unsubscribes a client from a device room.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(client.rooms, room)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomMembers returns how many clients joined a room.
func (h *Hub) RoomMembers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.rooms[room] {
			n++
		}
	}
	return n
}

func (h *Hub) broadcastRoom(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.rooms[room] {
			_ = c.send(payload) // fire-and-forget, no delivery guarantee
		}
	}
}

func (h *Hub) broadcastAll(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.send(payload)
	}
}

// SensorDataUpdate emits a reading to its device room and to everyone.
func (h *Hub) SensorDataUpdate(deviceID string, data *entities.SensorData) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":     "sensor-data-update",
		"device_id": deviceID,
		"data":      data,
	})
	if err != nil {
		return
	}
	h.broadcastRoom("device-"+deviceID, payload)
	h.broadcastAll(payload)
}

// AllDevicesUpdate emits the full device list to everyone.
func (h *Hub) AllDevicesUpdate(devices []entities.IotDevice) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":   "all-devices-update",
		"devices": devices,
	})
	if err != nil {
		return
	}
	h.broadcastAll(payload)
}
