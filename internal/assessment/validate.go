package assessment

import (
	"fmt"
	"math"
	"strings"
)

// Issue describes why a single field fails validation
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsStepValid reports whether every field of step is answered and within its
// declared bounds. Unknown steps are never valid.
func IsStepValid(step int, answers Answers) bool {
	if !IsKnownStep(step) {
		return false
	}
	return len(StepIssues(step, answers)) == 0
}

// AllStepsValid reports whether every step passes validation
func AllStepsValid(answers Answers) bool {
	for step := 1; step <= StepCount; step++ {
		if !IsStepValid(step, answers) {
			return false
		}
	}
	return true
}

// StepIssues lists the failing fields of step in schema order
func StepIssues(step int, answers Answers) []Issue {
	if !IsKnownStep(step) {
		return []Issue{{Field: "step", Message: fmt.Sprintf("step must be between 1 and %d", StepCount)}}
	}

	var issues []Issue
	for _, f := range stepFields[step] {
		if msg := checkField(f, answers); msg != "" {
			issues = append(issues, Issue{Field: f.Key, Message: msg})
		}
	}
	return issues
}

// AllIssues lists the failing fields across every step
func AllIssues(answers Answers) []Issue {
	var issues []Issue
	for step := 1; step <= StepCount; step++ {
		issues = append(issues, StepIssues(step, answers)...)
	}
	return issues
}

func checkField(f FieldSpec, answers Answers) string {
	if !answers.Has(f.Key) {
		if f.Required {
			return "is required"
		}
		return ""
	}

	switch f.Kind {
	case KindChoice:
		if !isChoice(f, answers.Get(f.Key)) {
			return fmt.Sprintf("must be one of %s", strings.Join(f.Choices, ", "))
		}
	case KindNumeric:
		v, ok := answers.Number(f.Key)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return "must be a number"
		}
		if !f.InRange(v) {
			return fmt.Sprintf("must be between %g and %g", f.Min, f.Max)
		}
	}
	return ""
}

func isChoice(f FieldSpec, value string) bool {
	if f.Key == KeyGender {
		_, ok := genderAliases[strings.ToLower(value)]
		return ok
	}
	for _, c := range f.Choices {
		if c == value {
			return true
		}
	}
	return false
}
