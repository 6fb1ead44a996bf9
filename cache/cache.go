package cache

import (
	"sync"
	"time"

	"smartdrishti-server/entities"
)

// Reading is a cached sensor reading with the time it was cached.
type Reading struct {
	Data     entities.SensorData
	CachedAt time.Time
}

// LatestCache keeps the most recent reading per device so latest-value
// lookups and WebSocket fan-out never touch the database.
type LatestCache struct {
	mu     sync.RWMutex
	latest map[string]Reading // deviceID -> most recent reading
}

func NewLatestCache() *LatestCache {
	return &LatestCache{latest: make(map[string]Reading)}
}

// Put records data as the latest reading for its device.
func (c *LatestCache) Put(data entities.SensorData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[data.DeviceID] = Reading{Data: data, CachedAt: time.Now()}
}

// Get returns the latest cached reading for a device, if any.
func (c *LatestCache) Get(deviceID string) (Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.latest[deviceID]
	return r, ok
}

// Stats returns counters about the current cache contents.
func (c *LatestCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]interface{}{
		"devices": len(c.latest),
	}
}
