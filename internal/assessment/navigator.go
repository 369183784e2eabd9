package assessment

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStepInvalid is returned when advancing past a step with failing fields
	ErrStepInvalid = errors.New("current step has invalid answers")
	// ErrIncomplete is returned when submitting before every step is valid
	ErrIncomplete = errors.New("questionnaire is incomplete")
)

// DispatchFunc receives the finished payload on submit
type DispatchFunc func(ctx context.Context, payload Payload) error

// StepChangeFunc observes step transitions. Callers use it to reset the view
// to the top of the new step.
type StepChangeFunc func(from, to int)

// Navigator walks an answer set through the questionnaire steps
type Navigator struct {
	step         int
	answers      Answers
	onStepChange StepChangeFunc
}

// NavigatorOption configures a Navigator
type NavigatorOption func(*Navigator)

// WithStepChange registers a hook fired after every successful move
func WithStepChange(fn StepChangeFunc) NavigatorOption {
	return func(n *Navigator) {
		n.onStepChange = fn
	}
}

// AtStep positions the navigator on step. Out of range values are clamped.
func AtStep(step int) NavigatorOption {
	return func(n *Navigator) {
		switch {
		case step < 1:
			n.step = 1
		case step > StepCount:
			n.step = StepCount
		default:
			n.step = step
		}
	}
}

// NewNavigator starts at step 1 unless AtStep says otherwise
func NewNavigator(answers Answers, opts ...NavigatorOption) *Navigator {
	if answers == nil {
		answers = Answers{}
	}
	n := &Navigator{step: 1, answers: answers}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Step returns the current step number
func (n *Navigator) Step() int {
	return n.step
}

// Answers returns the live answer set. Edits are visible to the navigator.
func (n *Navigator) Answers() Answers {
	return n.answers
}

// Set records a raw answer
func (n *Navigator) Set(key, value string) {
	n.answers[key] = value
}

// Issues lists the failing fields of the current step
func (n *Navigator) Issues() []Issue {
	return StepIssues(n.step, n.answers)
}

// IsLast reports whether the navigator is on the final step
func (n *Navigator) IsLast() bool {
	return n.step == StepCount
}

// Advance moves forward one step when the current step is valid. It returns
// ErrStepInvalid otherwise, and does nothing on the last step.
func (n *Navigator) Advance() error {
	if !IsStepValid(n.step, n.answers) {
		return fmt.Errorf("%w: step %d", ErrStepInvalid, n.step)
	}
	if n.step >= StepCount {
		return nil
	}
	n.move(n.step + 1)
	return nil
}

// Retreat moves back one step. It never goes below step 1 and reports
// whether it moved.
func (n *Navigator) Retreat() bool {
	if n.step <= 1 {
		return false
	}
	n.move(n.step - 1)
	return true
}

// Submit builds the payload and hands it to dispatch once every step is
// valid
func (n *Navigator) Submit(ctx context.Context, dispatch DispatchFunc) (Payload, error) {
	if !AllStepsValid(n.answers) {
		return Payload{}, ErrIncomplete
	}
	payload := BuildPayload(n.answers)
	if err := dispatch(ctx, payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (n *Navigator) move(to int) {
	from := n.step
	n.step = to
	if n.onStepChange != nil {
		n.onStepChange(from, to)
	}
}
