package mqttbridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smartdrishti-server/entities"
	"smartdrishti-server/logger"
	"smartdrishti-server/usecases"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sensorDataTopic   = "sensors/+/data"
	deviceStatusTopic = "devices/+/status"
)

type sensorPayload struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	LightLevel     float64 `json:"light_level"`
	MotionDetected bool    `json:"motion_detected"`
	Timestamp      string  `json:"timestamp"`
}

type statusPayload struct {
	Status string `json:"status"`
}

// Bridge subscribes to the sensor topics and feeds readings through the same
// ingest path the HTTP API uses, so device auto-creation and WebSocket
// broadcast behave identically for both transports.
type Bridge struct {
	client mqtt.Client
	iot    *usecases.IotUseCase
	broker string
	port   int
}

func NewBridge(broker string, port int, iot *usecases.IotUseCase) *Bridge {
	return &Bridge{iot: iot, broker: broker, port: port}
}

// Start connects to the broker. Subscriptions are (re)established in the
// OnConnect handler so they survive reconnects.
func (b *Bridge) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", b.broker, b.port))
	opts.SetClientID("smartdrishti-server-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		logger.Info("mqtt connection established", zap.String("broker", b.broker))
		if token := c.Subscribe(sensorDataTopic, 1, b.handleSensorData); token.Wait() && token.Error() != nil {
			logger.Error("mqtt subscribe failed", zap.String("topic", sensorDataTopic), zap.Error(token.Error()))
		}
		if token := c.Subscribe(deviceStatusTopic, 1, b.handleDeviceStatus); token.Wait() && token.Error() != nil {
			logger.Error("mqtt subscribe failed", zap.String("topic", deviceStatusTopic), zap.Error(token.Error()))
		}
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.Warn("mqtt connection lost, will auto-reconnect", zap.Error(err))
	}

	b.client = mqtt.NewClient(opts)

	token := b.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	return nil
}

// Stop disconnects with a short grace period.
func (b *Bridge) Stop() {
	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
		logger.Info("mqtt disconnected")
	}
}

// deviceIDFromTopic extracts the id segment of sensors/<id>/data
// or devices/<id>/status.
func deviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

func (b *Bridge) handleSensorData(_ mqtt.Client, msg mqtt.Message) {
	deviceID := deviceIDFromTopic(msg.Topic())
	if deviceID == "" {
		logger.Warn("mqtt message on unexpected topic", zap.String("topic", msg.Topic()))
		return
	}

	var payload sensorPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		logger.Warn("invalid sensor payload", zap.String("device_id", deviceID), zap.Error(err))
		return
	}

	data := &entities.SensorData{
		DeviceID:       deviceID,
		Temperature:    payload.Temperature,
		Humidity:       payload.Humidity,
		Pressure:       payload.Pressure,
		LightLevel:     payload.LightLevel,
		MotionDetected: payload.MotionDetected,
		Timestamp:      payload.Timestamp,
	}
	if err := b.iot.IngestReading(data); err != nil {
		logger.Error("failed to store mqtt reading", zap.String("device_id", deviceID), zap.Error(err))
		return
	}
	logger.Debug("mqtt reading stored", zap.String("device_id", deviceID))
}

func (b *Bridge) handleDeviceStatus(_ mqtt.Client, msg mqtt.Message) {
	deviceID := deviceIDFromTopic(msg.Topic())
	if deviceID == "" {
		logger.Warn("mqtt message on unexpected topic", zap.String("topic", msg.Topic()))
		return
	}

	var payload statusPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		logger.Warn("invalid status payload", zap.String("device_id", deviceID), zap.Error(err))
		return
	}

	if _, err := b.iot.UpdateDeviceStatus(deviceID, payload.Status); err != nil {
		logger.Warn("failed to update device status", zap.String("device_id", deviceID), zap.Error(err))
	}
}
