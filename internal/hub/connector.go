package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hearthd/hearth-core/internal/device"
	"github.com/hearthd/hearth-core/internal/infrastructure/mqtt"
)

// Broker is the slice of the MQTT client the connector needs.
// Satisfied by *mqtt.Client.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger interface for optional logging support.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Connector links the device registry to the hub over MQTT.
//
// Inbound, it subscribes to attribute updates and discovery
// announcements and feeds them into the registry, which filters
// no-op writes before anything downstream reacts. Outbound, it
// implements the command sinks the rule engine and scene store
// issue device writes through.
//
// Thread Safety:
//   - All methods are safe for concurrent use once Start has returned.
type Connector struct {
	broker   Broker
	registry *device.Registry
	qos      byte
	topics   mqtt.Topics
	logger   Logger

	started atomic.Bool
}

// NewConnector creates a connector over the given broker client.
func NewConnector(broker Broker, registry *device.Registry, qos byte) *Connector {
	return &Connector{
		broker:   broker,
		registry: registry,
		qos:      qos,
		logger:   noopLogger{},
	}
}

// SetLogger configures structured logging. Passing nil restores the no-op logger.
func (c *Connector) SetLogger(logger Logger) {
	if logger == nil {
		c.logger = noopLogger{}
		return
	}
	c.logger = logger
}

// Start subscribes to the hub's state and discovery topics.
// Must be called before commands are issued.
func (c *Connector) Start() error {
	if err := c.broker.Subscribe(c.topics.AllDeviceStates(), c.qos, c.handleState); err != nil {
		return fmt.Errorf("subscribing to device states: %w", err)
	}
	if err := c.broker.Subscribe(c.topics.DiscoveryDevices(), c.qos, c.handleInventory); err != nil {
		return fmt.Errorf("subscribing to discovery: %w", err)
	}
	c.started.Store(true)
	c.logger.Info("hub connector started")
	return nil
}

// RequestDevices asks the hub for a full device inventory.
// The answer arrives asynchronously on the discovery topic.
func (c *Connector) RequestDevices() error {
	if !c.started.Load() {
		return ErrNotStarted
	}

	req := DiscoveryRequest{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding discovery request: %w", err)
	}

	if err := c.broker.Publish(c.topics.DiscoveryRequest(), payload, c.qos, false); err != nil {
		return fmt.Errorf("publishing discovery request: %w", err)
	}
	c.logger.Debug("requested device inventory", "request_id", req.ID)
	return nil
}

// SetAttribute asks the hub to drive a device attribute to a value.
// Implements the command sink used by scenes and rule actions.
func (c *Connector) SetAttribute(ctx context.Context, deviceID, attribute string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	cmd := CommandMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		DeviceID:  deviceID,
		Command:   CommandSetAttribute,
		Attribute: attribute,
		Value:     value,
	}
	return c.publish(cmd)
}

// RunCommand asks the hub to invoke a capability command on a device.
func (c *Connector) RunCommand(ctx context.Context, deviceID, command string, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	cmd := CommandMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		DeviceID:  deviceID,
		Command:   CommandRunCommand,
		Name:      command,
		Params:    params,
	}
	return c.publish(cmd)
}

// publish encodes and delivers a command message to the hub.
func (c *Connector) publish(cmd CommandMessage) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("%w: encoding command: %w", ErrCommandFailed, err)
	}

	topic := c.topics.DeviceCommand(cmd.DeviceID)
	if err := c.broker.Publish(topic, payload, c.qos, false); err != nil {
		c.logger.Warn("command delivery failed",
			"device_id", cmd.DeviceID,
			"command", cmd.Command,
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	c.logger.Debug("command published",
		"device_id", cmd.DeviceID,
		"command", cmd.Command,
		"command_id", cmd.ID,
	)
	return nil
}

// handleState processes one attribute update from the hub.
func (c *Connector) handleState(topic string, payload []byte) error {
	deviceID, attribute, ok := mqtt.ParseStateTopic(topic)
	if !ok {
		return fmt.Errorf("unparseable state topic %q", topic)
	}

	var msg StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding state for %s/%s: %w", deviceID, attribute, err)
	}

	_, err := c.registry.Upsert(device.Snapshot{
		ID:         deviceID,
		Attributes: map[string]any{attribute: msg.Value},
	})
	if err != nil {
		return fmt.Errorf("applying state for %s/%s: %w", deviceID, attribute, err)
	}
	return nil
}

// handleInventory processes a full device inventory from the hub.
func (c *Connector) handleInventory(_ string, payload []byte) error {
	var msg InventoryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding inventory: %w", err)
	}

	for _, snap := range msg.Devices {
		if _, err := c.registry.Upsert(snap); err != nil {
			c.logger.Warn("skipping invalid device in inventory",
				"device_id", snap.ID,
				"error", err,
			)
		}
	}
	c.logger.Info("device inventory applied", "devices", len(msg.Devices))
	return nil
}
