package rule

import (
	"context"
	"fmt"
	"time"
)

// runSequence executes an action sequence strictly in declared order on
// the execution's own goroutine. Command failures are recorded and the
// sequence continues; only engine shutdown stops it early.
func (e *Engine) runSequence(ctx context.Context, exec *Execution, actions []Action) {
	for _, action := range actions {
		select {
		case <-ctx.Done():
			return
		default:
		}
		e.runAction(ctx, exec, action)
	}
}

// runAction executes a single action step and records its result.
func (e *Engine) runAction(ctx context.Context, exec *Execution, action Action) {
	switch action.Type {
	case ActionSetAttribute:
		set := action.SetAttribute
		step := StepResult{
			Type:     ActionSetAttribute,
			DeviceID: set.DeviceID,
			Detail:   fmt.Sprintf("%s = %v", set.Attribute, set.Value),
			OK:       true,
			At:       time.Now().UTC(),
		}
		if err := e.sink.SetAttribute(ctx, set.DeviceID, set.Attribute, set.Value); err != nil {
			step.OK = false
			step.Error = err.Error()
			e.logger.Warn("set_attribute command failed",
				"execution_id", exec.ID, "device_id", set.DeviceID,
				"attribute", set.Attribute, "error", err)
		}
		e.appendStep(exec, step)

	case ActionRunCommand:
		run := action.RunCommand
		step := StepResult{
			Type:     ActionRunCommand,
			DeviceID: run.DeviceID,
			Detail:   run.Command,
			OK:       true,
			At:       time.Now().UTC(),
		}
		if err := e.sink.RunCommand(ctx, run.DeviceID, run.Command, run.Params); err != nil {
			step.OK = false
			step.Error = err.Error()
			e.logger.Warn("run_command failed",
				"execution_id", exec.ID, "device_id", run.DeviceID,
				"command", run.Command, "error", err)
		}
		e.appendStep(exec, step)

	case ActionWait:
		// Suspends only this execution's continuation. Event intake
		// and other executions keep running.
		duration := time.Duration(action.Wait.DurationSeconds * float64(time.Second))
		select {
		case <-time.After(duration):
			e.appendStep(exec, StepResult{
				Type:   ActionWait,
				Detail: duration.String(),
				OK:     true,
				At:     time.Now().UTC(),
			})
		case <-ctx.Done():
		}

	case ActionRunScene:
		name := action.RunScene.Scene
		step := StepResult{
			Type:   ActionRunScene,
			Detail: name,
			OK:     true,
			At:     time.Now().UTC(),
		}
		result, err := e.scenes.Apply(ctx, name)
		switch {
		case err != nil:
			step.OK = false
			step.Error = err.Error()
			e.logger.Warn("run_scene failed", "execution_id", exec.ID, "scene", name, "error", err)
		case result.Failed > 0:
			step.OK = false
			step.Error = fmt.Sprintf("%d of %d settings failed", result.Failed, len(result.Results))
		}
		e.appendStep(exec, step)

	case ActionConditional:
		// Evaluated against device state as it is right now; earlier
		// actions in this same sequence may already have changed it.
		cond := action.Conditional
		hold := e.evalCondition(cond.Condition)
		e.appendStep(exec, StepResult{
			Type:   ActionConditional,
			Detail: fmt.Sprintf("condition %v", hold),
			OK:     true,
			At:     time.Now().UTC(),
		})
		if hold {
			e.runSequence(ctx, exec, cond.Then)
		} else {
			e.runSequence(ctx, exec, cond.Else)
		}

	default:
		// Validation rejects unknown types; reaching this means the
		// stored definition and the code disagree.
		e.appendStep(exec, StepResult{
			Type:  action.Type,
			OK:    false,
			Error: "unknown action type",
			At:    time.Now().UTC(),
		})
	}
}
