package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"smartdrishti-server/entities"
	"smartdrishti-server/logger"
	"smartdrishti-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/onsi/gomega"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func dialTestHub(t *testing.T) (*ws.Hub, *websocket.Conn) {
	t.Helper()

	hub := ws.NewHub()
	handler := NewWSHandler(hub)

	router := gin.New()
	router.GET("/ws", handler.HandleClientWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return hub, conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestJoinAndLeaveDeviceRoom(t *testing.T) {
	g := gomega.NewWithT(t)
	hub, conn := dialTestHub(t)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	g.Expect(conn.WriteJSON(map[string]string{
		"event":     "join-device",
		"device_id": "pico-1",
	})).To(gomega.Succeed())
	waitFor(t, func() bool { return hub.RoomMembers("device-pico-1") == 1 })

	g.Expect(conn.WriteJSON(map[string]string{
		"event":     "leave-device",
		"device_id": "pico-1",
	})).To(gomega.Succeed())
	waitFor(t, func() bool { return hub.RoomMembers("device-pico-1") == 0 })
}

func TestSensorDataUpdateReachesClient(t *testing.T) {
	g := gomega.NewWithT(t)
	hub, conn := dialTestHub(t)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.SensorDataUpdate("pico-1", &entities.SensorData{
		DeviceID:    "pico-1",
		Temperature: 23.5,
	})

	g.Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(gomega.Succeed())
	_, payload, err := conn.ReadMessage()
	g.Expect(err).NotTo(gomega.HaveOccurred())

	var msg struct {
		Event    string              `json:"event"`
		DeviceID string              `json:"device_id"`
		Data     entities.SensorData `json:"data"`
	}
	g.Expect(json.Unmarshal(payload, &msg)).To(gomega.Succeed())
	g.Expect(msg.Event).To(gomega.Equal("sensor-data-update"))
	g.Expect(msg.DeviceID).To(gomega.Equal("pico-1"))
	g.Expect(msg.Data.Temperature).To(gomega.Equal(23.5))
}

func TestDisconnectUnregistersClient(t *testing.T) {
	hub, conn := dialTestHub(t)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	_ = conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}
