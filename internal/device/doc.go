// Package device provides the Device Registry for Hearth Core.
//
// The registry is the in-memory source of truth for the current device
// population: each device's identity, room, capability set, and last
// observed attribute values. It is fed exclusively by the hub connector,
// from a full device-list snapshot at startup and per-attribute event
// deltas afterwards.
//
// # Change detection
//
// Upsert merges snapshots last-write-wins per attribute and emits one
// StateChange per (device, attribute) pair whose value actually changed.
// No-op writes are filtered here, which is what makes "re-delivering an
// identical value never triggers a rule" hold system-wide: the rule
// engine only ever sees real transitions.
//
// # Durability
//
// Devices are deliberately not persisted. The hub owns the device list;
// the registry is a cache of it, rebuilt on every start. Rules and scenes
// are the only durable state in the system.
//
// # Thread Safety
//
// All public methods are safe for concurrent use. Reads return deep
// copies so callers never alias registry-internal state. Listeners are
// invoked outside the registry lock and may safely read back.
package device
