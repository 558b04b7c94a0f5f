package device

import (
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Listener receives accepted state changes, one call per changed
// (device, attribute) pair. Listeners run synchronously on the intake
// path and must not block; anything long-lived belongs in a goroutine
// the listener spawns itself.
type Listener interface {
	DeviceStateChanged(change StateChange)
}

// Registry holds the current known device population: each device's
// capabilities and last observed attribute values, fed exclusively from
// hub snapshots and event deltas.
//
// Devices are not durable state. The registry is rebuilt at startup from
// the hub's device list and kept current by state events, so there is no
// repository behind it.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
	order   []string // Insertion order for stable listings

	listenerMu sync.RWMutex
	listeners  []Listener

	logger Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// AddListener registers a listener for accepted state changes.
// Listeners must be registered before events start flowing.
func (r *Registry) AddListener(l Listener) {
	r.listenerMu.Lock()
	r.listeners = append(r.listeners, l)
	r.listenerMu.Unlock()
}

// Upsert merges a full or partial device snapshot into the registry.
//
// The merge is idempotent and last-write-wins per attribute: each
// attribute in the snapshot replaces the stored value only if the two
// differ under ValuesEqual. Listeners are notified once per attribute
// that actually changed; re-delivering identical values produces no
// notifications at all.
//
// For a previously unknown device the snapshot must carry an ID; label,
// room, and capabilities are taken as reported. For a known device the
// room is immutable and a differing reported room is ignored with a
// warning.
func (r *Registry) Upsert(snapshot Snapshot) ([]StateChange, error) {
	if snapshot.ID == "" {
		return nil, fmt.Errorf("%w: missing device id", ErrInvalidSnapshot)
	}

	now := time.Now().UTC()
	changes, known := r.merge(snapshot, now)

	if !known {
		r.logger.Info("device registered",
			"device_id", snapshot.ID, "label", snapshot.Label, "room", snapshot.Room)
	}

	// Notify outside the registry lock so listeners can read back
	// current state without deadlocking.
	if len(changes) > 0 {
		r.listenerMu.RLock()
		listeners := r.listeners
		r.listenerMu.RUnlock()
		for _, change := range changes {
			for _, l := range listeners {
				l.DeviceStateChanged(change)
			}
		}
	}

	return changes, nil
}

// merge holds the registry write lock for the duration of the snapshot
// merge. The lock is released by defer so a fault mid-merge can never
// leave the registry permanently locked.
func (r *Registry) merge(snapshot Snapshot, now time.Time) (changes []StateChange, known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, known := r.devices[snapshot.ID]
	if !known {
		dev = &Device{
			ID:           snapshot.ID,
			Label:        snapshot.Label,
			Room:         snapshot.Room,
			Capabilities: append([]string(nil), snapshot.Capabilities...),
			Attributes:   make(map[string]any, len(snapshot.Attributes)),
			UpdatedAt:    now,
		}
		r.devices[snapshot.ID] = dev
		r.order = append(r.order, snapshot.ID)
	} else {
		if snapshot.Label != "" {
			dev.Label = snapshot.Label
		}
		if snapshot.Room != "" && snapshot.Room != dev.Room {
			r.logger.Warn("ignoring room change for device",
				"device_id", dev.ID, "room", dev.Room, "reported", snapshot.Room)
		}
		if len(snapshot.Capabilities) > 0 {
			dev.Capabilities = append([]string(nil), snapshot.Capabilities...)
		}
	}

	for attr, value := range snapshot.Attributes {
		prev, have := dev.Attributes[attr]
		if have && ValuesEqual(prev, value) {
			continue
		}
		dev.Attributes[attr] = value
		changes = append(changes, StateChange{
			DeviceID:  dev.ID,
			Attribute: attr,
			Value:     value,
			At:        now,
		})
	}
	if len(changes) > 0 {
		dev.UpdatedAt = now
	}
	return changes, known
}

// Get retrieves a device by ID.
// Returns ErrDeviceNotFound if the device does not exist.
// The returned device is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
	}
	return dev.DeepCopy(), nil
}

// Attribute returns the current value of one device attribute.
// The boolean reports whether the device has ever observed the attribute.
func (r *Registry) Attribute(deviceID, attribute string) (any, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[deviceID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceID)
	}
	value, have := dev.Attributes[attribute]
	return value, have, nil
}

// List retrieves all devices in insertion order.
// The returned devices are deep copies.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, *r.devices[id].DeepCopy())
	}
	return devices
}

// ListByRoom retrieves all devices in a room, in insertion order.
func (r *Registry) ListByRoom(room string) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []Device
	for _, id := range r.order {
		if d := r.devices[id]; d.Room == room {
			devices = append(devices, *d.DeepCopy())
		}
	}
	return devices
}

// Count returns the number of known devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
