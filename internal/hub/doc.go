// Package hub links Hearth Core to the device hub over MQTT.
//
// The hub owns the physical radios (Zigbee, Z-Wave, LAN integrations)
// and publishes attribute changes as they happen. Core never talks to
// devices directly; every read comes from the in-memory registry and
// every write goes out as a command message.
//
//	        hearth/state/{device}/{attribute}
//	  Hub ───────────────────────────────────▶ Connector ──▶ device.Registry
//	        hearth/discovery/devices
//
//	        hearth/command/{device}
//	  Hub ◀─────────────────────────────────── Connector ◀── rule.Engine / scene.Store
//
// Commands are fire-and-forget at this layer: a successful publish
// means the broker accepted the message, not that the device obeyed.
// Confirmation arrives the same way any other state change does, on
// the state topic, which keeps scene Check and rule conditions honest.
package hub
