package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

// Recorder writes every status update into the device_status
// measurement, giving each routing key a queryable history of raw
// readings and availability transitions.
//
// Attach it to the update router as a tap. Writes are batched and
// non-blocking, so recording never stalls update delivery.
type Recorder struct {
	client *Client
}

// NewRecorder creates a Recorder writing through the given client.
func NewRecorder(client *Client) *Recorder {
	return &Recorder{client: client}
}

// Update is a router.Handler recording one status reading.
func (r *Recorder) Update(u router.StatusUpdate) {
	if !r.client.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"routing_key": u.RoutingKey,
		},
		map[string]interface{}{
			"available": u.Available,
			"smap":      int64(u.Smap),
			"status":    int64(u.Status),
		},
		time.Now(),
	)

	r.client.writeAPI.WritePoint(point)
}
