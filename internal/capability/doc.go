// Package capability provides the static capability catalog for Hearth Core.
//
// A capability is a named bundle of readable attributes and invocable
// commands that devices may support (switch, switch_level, motion_sensor,
// thermostat, ...). The catalog is the validation authority for rule and
// scene installation: every attribute, command, operator, and value that
// a rule or scene references is checked against it before anything is
// persisted, so a stored rule is always structurally sound.
//
// The catalog is immutable after construction. It is built once in main()
// (usually via Default) and shared by reference; lookups are lock-free.
package capability
