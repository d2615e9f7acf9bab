package mqtt

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// Mirror republishes every status update to MQTT as a retained
// message, so dashboards and other services can follow device state
// without speaking the Smarteefi protocols.
//
// Attach it to the update router as a tap; it observes updates for
// every routing key.
type Mirror struct {
	client *Client
	topics Topics
}

// mirrorPayload is the JSON body published per update.
type mirrorPayload struct {
	Available bool   `json:"available"`
	Smap      uint32 `json:"smap"`
	Status    uint32 `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewMirror creates a Mirror publishing through the given client.
func NewMirror(client *Client) *Mirror {
	return &Mirror{client: client}
}

// Update is a router.Handler. It publishes the update to the routing
// key's status topic without blocking the producer.
func (m *Mirror) Update(u router.StatusUpdate) {
	serial, smap, ok := splitRoutingKey(u.RoutingKey)
	if !ok {
		return
	}

	payload, err := json.Marshal(mirrorPayload{
		Available: u.Available,
		Smap:      u.Smap,
		Status:    u.Status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	m.client.PublishAsync(m.topics.DeviceStatus(serial, smap), payload, true)
}

// splitRoutingKey recovers serial and smap from a "serial:smap" key.
func splitRoutingKey(key string) (string, uint32, bool) {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return "", 0, false
	}
	smap, err := strconv.ParseUint(key[i+1:], 10, 32)
	if err != nil {
		return "", 0, false
	}
	return key[:i], uint32(smap), true
}
