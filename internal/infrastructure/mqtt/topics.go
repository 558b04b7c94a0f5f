package mqtt

import "fmt"

// Topic prefixes for the hub link.
//
// Device topics use the flat scheme: hearth/{category}/{device_id}[/{attribute}]
const (
	// TopicPrefix is the base for all Hearth topics.
	TopicPrefix = "hearth"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "hearth/system"
)

// Topics provides builders for Hearth MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("light-living", "switch")
//	// Returns: "hearth/state/light-living/switch"
type Topics struct{}

// DeviceState returns the topic the hub publishes attribute updates on.
//
// Example: hearth/state/light-living/switch
func (Topics) DeviceState(deviceID, attribute string) string {
	return fmt.Sprintf("%s/state/%s/%s", TopicPrefix, deviceID, attribute)
}

// DeviceCommand returns the topic for commands to a device.
//
// Example: hearth/command/light-living
func (Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, deviceID)
}

// DiscoveryRequest returns the topic Core publishes on to request a
// full device inventory from the hub.
//
// Example: hearth/discovery/request
func (Topics) DiscoveryRequest() string {
	return fmt.Sprintf("%s/discovery/request", TopicPrefix)
}

// DiscoveryDevices returns the topic the hub answers inventory
// requests on, and publishes to when devices join or leave.
//
// Example: hearth/discovery/devices
func (Topics) DiscoveryDevices() string {
	return fmt.Sprintf("%s/discovery/devices", TopicPrefix)
}

// SystemStatus returns the system status topic used for the LWT.
//
// Example: hearth/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceStates returns a pattern matching all attribute updates.
//
// Pattern: hearth/state/+/+
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/+/+", TopicPrefix)
}

// AllDeviceCommands returns a pattern matching all device commands.
//
// Pattern: hearth/command/+
func (Topics) AllDeviceCommands() string {
	return fmt.Sprintf("%s/command/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Hearth topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: hearth/#
func (Topics) AllTopics() string {
	return "hearth/#"
}

// ParseStateTopic splits "hearth/state/{device}/{attribute}".
// Returns ok=false when the topic is not a state topic.
func ParseStateTopic(topic string) (deviceID, attribute string, ok bool) {
	const prefix = TopicPrefix + "/state/"
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return "", "", false
	}
	rest := topic[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			deviceID = rest[:i]
			attribute = rest[i+1:]
			if deviceID == "" || attribute == "" {
				return "", "", false
			}
			return deviceID, attribute, true
		}
	}
	return "", "", false
}
