package rule

import "time"

// Operator is a comparison applied to a device attribute value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"

	// OpChangedTo fires when an attribute transitions to the target
	// value. Because the Device Registry filters no-op writes, every
	// delivered event is a real transition, so for triggers this
	// behaves as an equality check on the new value, independent of
	// the old one.
	OpChangedTo Operator = "changed_to"
)

// TriggerType discriminates the trigger variants.
type TriggerType string

const (
	TriggerDeviceEvent TriggerType = "device_event"
	TriggerTimeOfDay   TriggerType = "time_of_day"
)

// Trigger is the activation spec for a rule. Exactly one variant is set,
// matching Type. Compound triggers are expressed as separate rules.
type Trigger struct {
	Type        TriggerType         `json:"type"`
	DeviceEvent *DeviceEventTrigger `json:"device_event,omitempty"`
	TimeOfDay   *TimeOfDayTrigger   `json:"time_of_day,omitempty"`
}

// DeviceEventTrigger arms a rule on a specific (device, attribute) pair.
// Matching is attribute-exact; there are no wildcard or room-level
// triggers.
type DeviceEventTrigger struct {
	DeviceID  string   `json:"device_id"`
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	Value     any      `json:"value"`
}

// TimeOfDayTrigger arms a rule on a wall-clock time. Non-recurring
// triggers retire their rule after firing once.
type TimeOfDayTrigger struct {
	Hour      int  `json:"hour"`
	Minute    int  `json:"minute"`
	Recurring bool `json:"recurring"`
}

// Condition is a side-effect-free predicate over one device attribute,
// always evaluated against the registry's current value at the moment
// the condition is reached.
type Condition struct {
	DeviceID  string   `json:"device_id"`
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	Value     any      `json:"value"`
}

// ActionType discriminates the action variants.
type ActionType string

const (
	ActionSetAttribute ActionType = "set_attribute"
	ActionRunCommand   ActionType = "run_command"
	ActionWait         ActionType = "wait"
	ActionRunScene     ActionType = "run_scene"
	ActionConditional  ActionType = "conditional"
)

// Action is one step of an action sequence. Exactly one variant is set,
// matching Type. Actions execute in declared order.
type Action struct {
	Type         ActionType          `json:"type"`
	SetAttribute *SetAttributeAction `json:"set_attribute,omitempty"`
	RunCommand   *RunCommandAction   `json:"run_command,omitempty"`
	Wait         *WaitAction         `json:"wait,omitempty"`
	RunScene     *RunSceneAction     `json:"run_scene,omitempty"`
	Conditional  *ConditionalAction  `json:"conditional,omitempty"`
}

// SetAttributeAction drives one device attribute to a value via the
// command sink.
type SetAttributeAction struct {
	DeviceID  string `json:"device_id"`
	Attribute string `json:"attribute"`
	Value     any    `json:"value"`
}

// RunCommandAction invokes a named device command with parameters.
type RunCommandAction struct {
	DeviceID string         `json:"device_id"`
	Command  string         `json:"command"`
	Params   map[string]any `json:"params,omitempty"`
}

// WaitAction suspends the execution it appears in for the given
// duration. Only that execution's continuation is paused; event intake
// and other executions are unaffected.
type WaitAction struct {
	DurationSeconds float64 `json:"duration_seconds"`
}

// RunSceneAction applies a named scene through the Scene Store.
type RunSceneAction struct {
	Scene string `json:"scene"`
}

// ConditionalAction evaluates its condition against current device state
// at the moment the branch is reached and runs exactly one branch.
type ConditionalAction struct {
	Condition Condition `json:"condition"`
	Then      []Action  `json:"then"`
	Else      []Action  `json:"else,omitempty"`
}

// Rule is a durable automation: a trigger, an AND-combined condition
// list, and an ordered action sequence. The name is the user-facing
// identifier used by install, describe, and uninstall.
type Rule struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Trigger     Trigger     `json:"trigger"`
	Conditions  []Condition `json:"conditions,omitempty"`
	Actions     []Action    `json:"actions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the listing form of a rule.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DeepCopy creates an independent copy of the Rule for cache isolation.
func (r *Rule) DeepCopy() *Rule {
	if r == nil {
		return nil
	}

	cpy := *r

	if r.Trigger.DeviceEvent != nil {
		t := *r.Trigger.DeviceEvent
		cpy.Trigger.DeviceEvent = &t
	}
	if r.Trigger.TimeOfDay != nil {
		t := *r.Trigger.TimeOfDay
		cpy.Trigger.TimeOfDay = &t
	}
	if r.Conditions != nil {
		cpy.Conditions = make([]Condition, len(r.Conditions))
		copy(cpy.Conditions, r.Conditions)
	}
	cpy.Actions = copyActions(r.Actions)

	return &cpy
}

// copyActions deep-copies an action sequence, including nested
// conditional branches and command parameter maps.
func copyActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	cpy := make([]Action, len(actions))
	for i, a := range actions {
		cpy[i] = a
		if a.SetAttribute != nil {
			v := *a.SetAttribute
			cpy[i].SetAttribute = &v
		}
		if a.RunCommand != nil {
			v := *a.RunCommand
			if v.Params != nil {
				params := make(map[string]any, len(v.Params))
				for k, p := range v.Params {
					params[k] = p
				}
				v.Params = params
			}
			cpy[i].RunCommand = &v
		}
		if a.Wait != nil {
			v := *a.Wait
			cpy[i].Wait = &v
		}
		if a.RunScene != nil {
			v := *a.RunScene
			cpy[i].RunScene = &v
		}
		if a.Conditional != nil {
			v := *a.Conditional
			v.Then = copyActions(a.Conditional.Then)
			v.Else = copyActions(a.Conditional.Else)
			cpy[i].Conditional = &v
		}
	}
	return cpy
}

// ExecutionStatus represents the state of an action-sequence run.
type ExecutionStatus string

const (
	StatusRunning ExecutionStatus = "running"

	// StatusCompleted means every step ran. Individual command
	// failures do not change the status; they are recorded per step.
	StatusCompleted ExecutionStatus = "completed"

	// StatusFailed means an internal fault terminated the run early.
	StatusFailed ExecutionStatus = "failed"

	// StatusCancelled means engine shutdown interrupted the run.
	StatusCancelled ExecutionStatus = "cancelled"
)

// StepResult records the outcome of one executed action step, in
// execution order. Steps inside conditional branches appear inline.
type StepResult struct {
	Type     ActionType `json:"type"`
	DeviceID string     `json:"device_id,omitempty"`
	Detail   string     `json:"detail,omitempty"`
	OK       bool       `json:"ok"`
	Error    string     `json:"error,omitempty"`
	At       time.Time  `json:"at"`
}

// Execution is the ephemeral record of one in-flight or recently
// finished action-sequence run. Executions are never persisted; rules
// and scenes are durable, in-flight work is not.
type Execution struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"` // "rule:<name>", "time:<name>", or "adhoc"
	Status      ExecutionStatus `json:"status"`
	Steps       []StepResult    `json:"steps"`
	Failed      int             `json:"failed"` // Count of steps with command failures
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// DeepCopy creates an independent copy of the Execution.
func (e *Execution) DeepCopy() *Execution {
	if e == nil {
		return nil
	}
	cpy := *e
	if e.Steps != nil {
		cpy.Steps = make([]StepResult, len(e.Steps))
		copy(cpy.Steps, e.Steps)
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		cpy.CompletedAt = &t
	}
	return &cpy
}
