package influxdb

import (
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hearthd/hearth-core/internal/capability"
)

// WriteAttributeValue records a single device attribute observation.
//
// Numeric values land in the value_num field so they can be graphed
// and aggregated; everything else is stored as value_str. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WriteAttributeValue("thermostat-hall", "temperature", 21.5, "hallway", time.Now())
//	client.WriteAttributeValue("light-kitchen", "switch", "on", "kitchen", time.Now())
func (c *Client) WriteAttributeValue(deviceID, attribute string, value any, room string, at time.Time) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{
		"device_id": deviceID,
		"attribute": attribute,
	}
	if room != "" {
		tags["room"] = room
	}

	fields := make(map[string]interface{}, 1)
	if n, ok := capability.AsNumber(value); ok {
		fields["value_num"] = n
	} else {
		fields["value_str"] = fmt.Sprintf("%v", value)
	}

	point := write.NewPoint("device_state", tags, fields, at)
	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("engine_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"executions": 12})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
