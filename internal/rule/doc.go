// Package rule provides the rule engine for Hearth Core.
//
// A rule pairs a trigger (a device-state event or a time of day) with an
// AND-combined condition list and an ordered action sequence. The engine
// stores installed rules durably, matches incoming state changes against
// them, and executes firings without ever blocking event intake.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────┐
//	│                     Engine (engine.go)                      │
//	│                                                             │
//	│  device.StateChange ──▶ match triggers ──▶ eval conditions  │
//	│        (intake, synchronous, in-memory reads only)          │
//	│                              │                              │
//	│                              ▼ per firing                   │
//	│  ┌───────────────────────────────────────────────────────┐  │
//	│  │ Executor goroutine (executor.go)                      │  │
//	│  │ set_attribute / run_command ─▶ CommandSink            │  │
//	│  │ wait          ─▶ suspends this sequence only          │  │
//	│  │ run_scene     ─▶ SceneApplier                         │  │
//	│  │ conditional   ─▶ re-reads current device state        │  │
//	│  └───────────────────────────────────────────────────────┘  │
//	│                                                             │
//	│  Clock (clock.go) ──▶ per-minute TimeOfDay scan             │
//	│  Store (store.go) ──▶ Repository (repository.go, SQLite)    │
//	└────────────────────────────────────────────────────────────┘
//
// # Semantics
//
//   - Validation happens once, at install time, against the capability
//     catalog and the device registry. Nothing invalid is ever stored.
//   - Matching is attribute-exact. Conditions are re-read from the
//     registry at evaluation time, never cached from the event.
//   - Rules matching the same event fire independently and concurrently;
//     no cross-rule ordering is guaranteed.
//   - Within a sequence, actions run strictly in order. Command failures
//     are recorded on the execution and the sequence continues.
//   - Uninstalling a rule stops future triggering immediately but lets
//     in-flight executions run to completion.
//   - Non-recurring TimeOfDay rules retire themselves after firing once.
//
// # Durability
//
// Rules are durable (SQLite via the Store's Repository). Executions are
// ephemeral in-memory records and do not survive a restart.
package rule
