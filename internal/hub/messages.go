package hub

import (
	"time"

	"github.com/hearthd/hearth-core/internal/device"
)

// MQTT message types for communication between Hearth Core and the
// device hub. The hub owns the physical radios; Core only ever sees
// these JSON envelopes.

// Command names understood by the hub.
const (
	// CommandSetAttribute asks the hub to drive an attribute to a value.
	CommandSetAttribute = "set_attribute"

	// CommandRunCommand asks the hub to invoke a capability command.
	CommandRunCommand = "run_command"
)

// CommandMessage is sent from Core to the hub to act on a device.
// Topic: hearth/command/{device_id}
type CommandMessage struct {
	// ID uniquely identifies this command.
	ID string `json:"id"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// DeviceID is the Hearth device identifier.
	DeviceID string `json:"device_id"`

	// Command is CommandSetAttribute or CommandRunCommand.
	Command string `json:"command"`

	// Attribute and Value are set for set_attribute commands.
	Attribute string `json:"attribute,omitempty"`
	Value     any    `json:"value,omitempty"`

	// Name and Params are set for run_command commands.
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// StateMessage is published by the hub when a device attribute changes.
// Topic: hearth/state/{device_id}/{attribute}
type StateMessage struct {
	// Value is the new attribute value.
	Value any `json:"value"`

	// At is when the hub observed the change. Zero means "now".
	At time.Time `json:"at,omitempty"`
}

// InventoryMessage is the hub's answer to a discovery request, and is
// also published unsolicited when devices join or leave.
// Topic: hearth/discovery/devices
type InventoryMessage struct {
	// Devices is the full set of devices the hub currently knows.
	Devices []device.Snapshot `json:"devices"`

	// Timestamp is when the inventory was taken.
	Timestamp time.Time `json:"timestamp"`
}

// DiscoveryRequest is published by Core to ask for a full inventory.
// Topic: hearth/discovery/request
type DiscoveryRequest struct {
	// ID correlates the request with log lines on the hub side.
	ID string `json:"id"`

	// Timestamp is when the request was issued.
	Timestamp time.Time `json:"timestamp"`
}
