package httpHandler

import (
	"net/http"
	"strconv"

	"smartdrishti-server/entities"
	"smartdrishti-server/usecases"

	"github.com/gin-gonic/gin"
)

type IotHandler struct {
	iot         *usecases.IotUseCase
	maintenance *usecases.MaintenanceUseCase
}

func NewIotHandler(iot *usecases.IotUseCase, maintenance *usecases.MaintenanceUseCase) *IotHandler {
	return &IotHandler{iot: iot, maintenance: maintenance}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterDevice handles POST /api/iot/devices
func (h *IotHandler) RegisterDevice(c *gin.Context) {
	var device entities.IotDevice
	if err := c.ShouldBindJSON(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.iot.RegisterDevice(&device); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Device registered successfully",
		"data":    device,
	})
}

// GetAllDevices handles GET /api/iot/devices
func (h *IotHandler) GetAllDevices(c *gin.Context) {
	devices, err := h.iot.GetAllDevices()
	if err != nil {
		respondInternal(c, "Failed to retrieve devices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  devices,
		"count": len(devices),
	})
}

// UpdateDeviceStatus handles PUT /api/iot/devices/:deviceId/status
func (h *IotHandler) UpdateDeviceStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	device, err := h.iot.UpdateDeviceStatus(c.Param("deviceId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device status updated successfully",
		"data":    device,
	})
}

// GetDeviceStatus handles GET /api/iot/devices/:deviceId/status
func (h *IotHandler) GetDeviceStatus(c *gin.Context) {
	device, err := h.iot.GetDevice(c.Param("deviceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id": device.DeviceID,
		"status":    device.Status,
		"last_seen": device.LastSeen,
	})
}

// DeleteDevice handles DELETE /api/iot/devices/:deviceId
func (h *IotHandler) DeleteDevice(c *gin.Context) {
	if err := h.iot.DeleteDevice(c.Param("deviceId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device deleted successfully",
	})
}

// IngestSensorData handles POST /api/iot/sensor-data
func (h *IotHandler) IngestSensorData(c *gin.Context) {
	var data entities.SensorData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.iot.IngestReading(&data); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sensor data recorded",
		"data":    data,
	})
}

// GetSensorData handles GET /api/iot/sensor-data/:deviceId
func (h *IotHandler) GetSensorData(c *gin.Context) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	data, err := h.iot.GetRecentReadings(c.Param("deviceId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"count": len(data),
	})
}

// GetLatestSensorData handles GET /api/iot/sensor-data/latest/:deviceId
func (h *IotHandler) GetLatestSensorData(c *gin.Context) {
	data, err := h.iot.GetLatestReading(c.Param("deviceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetAggregatedSensorData handles GET /api/iot/sensor-data/aggregated/:deviceId
func (h *IotHandler) GetAggregatedSensorData(c *gin.Context) {
	limit := 24
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	rows, err := h.iot.GetAggregated(c.Param("deviceId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"count": len(rows),
	})
}

// PredictiveMaintenance handles GET /api/iot/predictive-maintenance/:deviceId
func (h *IotHandler) PredictiveMaintenance(c *gin.Context) {
	report, err := h.maintenance.AnalyzeDevice(c.Param("deviceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// CacheStats handles GET /api/iot/cache/stats
func (h *IotHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.iot.CacheStats()})
}
