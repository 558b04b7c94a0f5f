package device

import (
	"reflect"
	"time"

	"github.com/hearthd/hearth-core/internal/capability"
)

// Device represents a controllable or monitorable entity reported by the
// hub. Devices are created and updated only from hub snapshots and event
// deltas; nothing else in the system invents devices.
type Device struct {
	// Identity. ID is the hub's stable identifier; Label is the
	// user-given name and carries no structural meaning.
	ID    string `json:"id"`
	Label string `json:"label"`

	// Room is assigned when the device is first reported and never
	// changes afterwards.
	Room string `json:"room"`

	// Capabilities the device supports, by catalog name.
	Capabilities []string `json:"capabilities"`

	// Attributes holds the last observed value per attribute name.
	Attributes map[string]any `json:"attributes"`

	// UpdatedAt is the time of the last accepted attribute change.
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a full or partial device report from the hub. Attribute
// values present in the snapshot are merged into the registry's view;
// absent attributes are left untouched.
type Snapshot struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Room         string         `json:"room"`
	Capabilities []string       `json:"capabilities"`
	Attributes   map[string]any `json:"attributes"`
}

// StateChange describes one accepted attribute transition. The registry
// emits exactly one StateChange per (device, attribute) pair whose value
// actually changed; no-op writes are filtered out.
type StateChange struct {
	DeviceID  string    `json:"device_id"`
	Attribute string    `json:"attribute"`
	Value     any       `json:"value"`
	At        time.Time `json:"at"`
}

// DeepCopy creates a complete independent copy of the Device.
// Slice and map fields are cloned so modifications to the copy do not
// affect the original. This is essential for cache isolation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d

	if d.Capabilities != nil {
		cpy.Capabilities = make([]string, len(d.Capabilities))
		copy(cpy.Capabilities, d.Capabilities)
	}

	if d.Attributes != nil {
		cpy.Attributes = make(map[string]any, len(d.Attributes))
		for k, v := range d.Attributes {
			cpy.Attributes[k] = v
		}
	}

	return &cpy
}

// ValuesEqual compares two attribute values for the purpose of change
// detection and condition evaluation. Numeric values compare by magnitude
// regardless of representation (int vs float64), so a hub re-reporting
// 72 as 72.0 is not a change. Composite values decoded from JSON (maps,
// slices) compare structurally; interface equality would panic on them.
func ValuesEqual(a, b any) bool {
	if an, ok := capability.AsNumber(a); ok {
		bn, ok := capability.AsNumber(b)
		return ok && an == bn
	}
	return reflect.DeepEqual(a, b)
}
