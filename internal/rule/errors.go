package rule

import "errors"

// Domain errors for the rule package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, rule.ErrRuleNotFound) {
//	    // handle not found case
//	}
var (
	// ErrRuleNotFound is returned when a rule name does not exist.
	ErrRuleNotFound = errors.New("rule: not found")

	// ErrRuleExists is returned when installing a rule whose name is taken.
	ErrRuleExists = errors.New("rule: already exists")

	// ErrInvalidRule is returned when rule validation fails.
	ErrInvalidRule = errors.New("rule: invalid")

	// ErrInvalidTrigger is returned when a trigger definition is invalid.
	ErrInvalidTrigger = errors.New("rule: invalid trigger")

	// ErrInvalidCondition is returned when a condition definition is invalid.
	ErrInvalidCondition = errors.New("rule: invalid condition")

	// ErrInvalidAction is returned when an action definition is invalid.
	ErrInvalidAction = errors.New("rule: invalid action")

	// ErrNoActions is returned when a rule has no actions defined.
	ErrNoActions = errors.New("rule: no actions")

	// ErrExecutionNotFound is returned when an execution ID does not exist.
	ErrExecutionNotFound = errors.New("rule: execution not found")

	// ErrEngineStopped is returned when work is submitted after shutdown.
	ErrEngineStopped = errors.New("rule: engine stopped")
)
