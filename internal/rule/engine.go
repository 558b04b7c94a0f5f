package rule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearthd/hearth-core/internal/capability"
	"github.com/hearthd/hearth-core/internal/device"
	"github.com/hearthd/hearth-core/internal/scene"
)

// CommandSink issues device commands to the hub. Calls are bounded by
// the transport's own timeout; a returned error is recorded as a command
// failure and never aborts the sequence it occurred in.
type CommandSink interface {
	SetAttribute(ctx context.Context, deviceID, attribute string, value any) error
	RunCommand(ctx context.Context, deviceID, command string, params map[string]any) error
}

// SceneApplier is the slice of the scene store the executor needs for
// run_scene actions.
type SceneApplier interface {
	Apply(ctx context.Context, name string) (*scene.ApplyResult, error)
}

// maxTrackedExecutions bounds the in-memory execution history. Oldest
// records are dropped first.
const maxTrackedExecutions = 200

// Engine is the rule engine: it stores installed rules, matches incoming
// device-state events against their triggers, gates firings on condition
// evaluation, and owns the action-sequence executor.
//
// Matching and condition evaluation are synchronous and only read
// in-memory state; every firing then runs on its own goroutine, so a
// long Wait in one sequence never blocks other rules or event intake.
//
// Thread Safety: all public methods are safe for concurrent use.
type Engine struct {
	store   *Store
	devices DeviceLookup
	catalog *capability.Catalog
	sink    CommandSink
	scenes  SceneApplier
	logger  Logger

	// baseCtx parents every execution; Stop cancels it and waits for
	// in-flight sequences to wind down.
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	execMu    sync.Mutex
	execs     map[string]*Execution
	execOrder []string

	// fired guards TimeOfDay triggers against double-firing within
	// the same armed minute.
	firedMu sync.Mutex
	fired   map[string]string
}

// NewEngine creates a rule engine.
//
// Parameters:
//   - store: rule store providing the installed-rule snapshot
//   - devices: device registry view for condition evaluation
//   - catalog: capability catalog for install-time validation
//   - sink: command sink carrying actions out to the hub
//   - scenes: scene store slice for run_scene actions
//   - logger: logger instance (nil for none)
func NewEngine(store *Store, devices DeviceLookup, catalog *capability.Catalog, sink CommandSink, scenes SceneApplier, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		store:   store,
		devices: devices,
		catalog: catalog,
		sink:    sink,
		scenes:  scenes,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
		execs:   make(map[string]*Execution),
		fired:   make(map[string]string),
	}
}

// Stop cancels all in-flight executions and waits for their goroutines
// to finish. The engine accepts no new work afterwards.
func (e *Engine) Stop() {
	e.cancel()
	e.wg.Wait()
}

// InstallRule validates a rule against the capability catalog and the
// current device population, then persists and arms it. Invalid rules
// are rejected before anything is stored; a partially valid rule is
// never persisted.
func (e *Engine) InstallRule(ctx context.Context, r *Rule) error {
	if err := Validate(r, e.devices, e.catalog); err != nil {
		return err
	}
	return e.store.Install(ctx, r)
}

// UninstallRule removes a rule by name. Future triggering stops
// immediately; an execution already in flight runs to completion, so a
// cancelled rule never leaves devices in a half-applied state.
func (e *Engine) UninstallRule(ctx context.Context, name string) error {
	return e.store.Remove(ctx, name)
}

// ListRules returns {name, description} for every installed rule in
// install order.
func (e *Engine) ListRules(ctx context.Context) []Summary {
	return e.store.List(ctx)
}

// DescribeRule returns the full trigger/conditions/actions structure of
// an installed rule, exactly as supplied at install time.
func (e *Engine) DescribeRule(ctx context.Context, name string) (*Rule, error) {
	return e.store.Get(ctx, name)
}

// ExecuteActions validates and schedules an ad hoc action sequence.
// It returns the execution ID as soon as the sequence is enqueued; the
// actions continue running after the call returns.
func (e *Engine) ExecuteActions(_ context.Context, actions []Action) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}
	if err := ValidateActions(actions, e.devices, e.catalog); err != nil {
		return "", err
	}
	return e.launch("adhoc", actions)
}

// GetExecution returns a copy of a tracked execution record.
func (e *Engine) GetExecution(id string) (*Execution, error) {
	e.execMu.Lock()
	defer e.execMu.Unlock()

	exec, ok := e.execs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrExecutionNotFound, id)
	}
	return exec.DeepCopy(), nil
}

// DeviceStateChanged implements the device registry's Listener. It runs
// on the event-intake path: matching and condition evaluation happen
// synchronously here, and every firing is handed off to its own
// execution goroutine before the next event is processed.
//
// Matching is attribute-exact: only rules whose DeviceEvent trigger
// names this (device, attribute) pair are considered. Conditions are
// re-read from the registry at evaluation time, not cached from the
// event. Rules matching the same event execute independently with no
// ordering guarantee between them.
func (e *Engine) DeviceStateChanged(change device.StateChange) {
	for _, r := range e.store.Snapshot() {
		trigger := r.Trigger.DeviceEvent
		if r.Trigger.Type != TriggerDeviceEvent || trigger == nil {
			continue
		}
		if trigger.DeviceID != change.DeviceID || trigger.Attribute != change.Attribute {
			continue
		}
		if !compare(trigger.Operator, change.Value, trigger.Value) {
			continue
		}
		if !e.conditionsHold(r.Conditions) {
			// Skipped silently per rule semantics; debug only.
			e.logger.Debug("rule conditions not met", "rule", r.Name,
				"device_id", change.DeviceID, "attribute", change.Attribute)
			continue
		}

		e.logger.Info("rule triggered",
			"rule", r.Name,
			"device_id", change.DeviceID,
			"attribute", change.Attribute,
			"value", change.Value,
		)
		if _, err := e.launch("rule:"+r.Name, r.Actions); err != nil {
			e.logger.Warn("rule firing dropped", "rule", r.Name, "error", err)
		}
	}
}

// ScanTimeTriggers fires every armed TimeOfDay rule matching the given
// wall-clock minute. The clock calls this once per minute; a per-minute
// guard makes overlapping scans harmless. Non-recurring rules retire
// themselves after firing once.
func (e *Engine) ScanTimeTriggers(now time.Time) {
	minute := now.Format("2006-01-02T15:04")

	for _, r := range e.store.Snapshot() {
		tod := r.Trigger.TimeOfDay
		if r.Trigger.Type != TriggerTimeOfDay || tod == nil {
			continue
		}
		if tod.Hour != now.Hour() || tod.Minute != now.Minute() {
			continue
		}

		e.firedMu.Lock()
		if e.fired[r.Name] == minute {
			e.firedMu.Unlock()
			continue
		}
		e.fired[r.Name] = minute
		e.firedMu.Unlock()

		if !r.Trigger.TimeOfDay.Recurring {
			// Retire before executing: a one-shot must never fire twice
			// even if execution takes longer than the scan interval.
			if err := e.store.Remove(e.baseCtx, r.Name); err != nil {
				e.logger.Error("retiring one-shot rule failed", "rule", r.Name, "error", err)
			} else {
				e.logger.Info("one-shot rule retired", "rule", r.Name)
			}
		}

		if !e.conditionsHold(r.Conditions) {
			if !r.Trigger.TimeOfDay.Recurring {
				// The rule is already gone; tell the user why it
				// never acted rather than burying it in debug logs.
				e.logger.Info("one-shot rule retired with conditions unmet", "rule", r.Name, "at", minute)
			} else {
				e.logger.Debug("rule conditions not met", "rule", r.Name, "at", minute)
			}
			continue
		}

		e.logger.Info("rule triggered", "rule", r.Name, "at", minute)
		if _, err := e.launch("time:"+r.Name, r.Actions); err != nil {
			e.logger.Warn("rule firing dropped", "rule", r.Name, "error", err)
		}
	}
}

// conditionsHold evaluates a condition list as a logical AND over the
// registry's current state.
func (e *Engine) conditionsHold(conditions []Condition) bool {
	for _, c := range conditions {
		if !e.evalCondition(c) {
			return false
		}
	}
	return true
}

// evalCondition evaluates one condition against the current device
// state. Attributes the registry has never observed evaluate to false.
func (e *Engine) evalCondition(c Condition) bool {
	current, have, err := e.devices.Attribute(c.DeviceID, c.Attribute)
	if err != nil || !have {
		return false
	}
	return compare(c.Operator, current, c.Value)
}

// compare applies an operator to an actual value and a target value.
// Ordering operators only ever see numeric domains; validation has
// already rejected anything else.
func compare(op Operator, actual, target any) bool {
	switch op {
	case OpEquals, OpChangedTo:
		return device.ValuesEqual(actual, target)
	case OpGreaterThan:
		a, okA := capability.AsNumber(actual)
		t, okT := capability.AsNumber(target)
		return okA && okT && a > t
	case OpLessThan:
		a, okA := capability.AsNumber(actual)
		t, okT := capability.AsNumber(target)
		return okA && okT && a < t
	default:
		return false
	}
}

// launch registers a new execution record and starts its goroutine.
// Faults inside a sequence are caught here at the execution boundary:
// they terminate only that execution, never the event-intake path.
func (e *Engine) launch(source string, actions []Action) (string, error) {
	select {
	case <-e.baseCtx.Done():
		return "", ErrEngineStopped
	default:
	}

	exec := &Execution{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	e.track(exec)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("execution panicked", "execution_id", exec.ID, "source", source, "panic", r)
				e.finish(exec, StatusFailed)
			}
		}()

		e.runSequence(e.baseCtx, exec, actions)

		status := StatusCompleted
		if e.baseCtx.Err() != nil {
			status = StatusCancelled
		}
		e.finish(exec, status)
	}()

	return exec.ID, nil
}

// track registers an execution, evicting the oldest record when the
// history bound is reached.
func (e *Engine) track(exec *Execution) {
	e.execMu.Lock()
	defer e.execMu.Unlock()

	e.execs[exec.ID] = exec
	e.execOrder = append(e.execOrder, exec.ID)
	for len(e.execOrder) > maxTrackedExecutions {
		oldest := e.execOrder[0]
		e.execOrder = e.execOrder[1:]
		delete(e.execs, oldest)
	}
}

// finish marks an execution terminal and logs its summary.
func (e *Engine) finish(exec *Execution, status ExecutionStatus) {
	now := time.Now().UTC()

	e.execMu.Lock()
	exec.Status = status
	exec.CompletedAt = &now
	steps := len(exec.Steps)
	failed := exec.Failed
	e.execMu.Unlock()

	e.logger.Info("execution finished",
		"execution_id", exec.ID,
		"source", exec.Source,
		"status", status,
		"steps", steps,
		"failed", failed,
		"duration_ms", now.Sub(exec.StartedAt).Milliseconds(),
	)
}

// appendStep records one executed step on an execution.
func (e *Engine) appendStep(exec *Execution, step StepResult) {
	e.execMu.Lock()
	exec.Steps = append(exec.Steps, step)
	if !step.OK {
		exec.Failed++
	}
	e.execMu.Unlock()
}
