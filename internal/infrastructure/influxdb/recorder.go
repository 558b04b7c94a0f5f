package influxdb

import (
	"github.com/hearthd/hearth-core/internal/device"
)

// RoomLookup resolves the room a device belongs to, for tagging.
// Satisfied by *device.Registry.
type RoomLookup interface {
	Get(deviceID string) (*device.Device, error)
}

// Recorder forwards device state changes to InfluxDB as they happen.
//
// It implements device.Listener and is registered on the device
// registry at startup when history recording is enabled. Writes are
// non-blocking, so a slow or unreachable InfluxDB never stalls rule
// evaluation.
type Recorder struct {
	client *Client
	rooms  RoomLookup
}

// NewRecorder creates a state-history recorder backed by the given client.
// rooms may be nil, in which case points carry no room tag.
func NewRecorder(client *Client, rooms RoomLookup) *Recorder {
	return &Recorder{
		client: client,
		rooms:  rooms,
	}
}

// DeviceStateChanged implements device.Listener.
func (r *Recorder) DeviceStateChanged(change device.StateChange) {
	room := ""
	if r.rooms != nil {
		if d, err := r.rooms.Get(change.DeviceID); err == nil {
			room = d.Room
		}
	}
	r.client.WriteAttributeValue(change.DeviceID, change.Attribute, change.Value, room, change.At)
}
