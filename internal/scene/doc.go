// Package scene provides the Scene Store for Hearth Core.
//
// A scene is a named, durable bundle of target device-attribute settings.
// Applying a scene issues one command per setting through the hub's
// command sink, continuing past individual failures and reporting a
// per-setting result list. Checking a scene compares the device
// registry's current values against the targets without touching any
// device.
//
// Scenes and rules are the only durable state in the system; the store
// wraps a SQLite-backed Repository behind a thread-safe cache, the same
// shape as the rule store.
package scene
