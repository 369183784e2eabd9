package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answers maps a field key to its raw submitted value. An empty string means
// the field was left blank.
type Answers map[string]string

// Get returns the trimmed raw value for key
func (a Answers) Get(key string) string {
	return strings.TrimSpace(a[key])
}

// Has reports whether key holds a non-blank value
func (a Answers) Has(key string) bool {
	return a.Get(key) != ""
}

// Number parses the value for key. ok is false when blank or malformed.
func (a Answers) Number(key string) (float64, bool) {
	raw := a.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Clone returns an independent copy
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts numbers, strings, booleans and null for every key
func (a *Answers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Answers, len(raw))
	for key, msg := range raw {
		value, err := rawToString(msg)
		if err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		out[key] = value
	}
	*a = out
	return nil
}

func rawToString(msg json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(msg))
	switch {
	case trimmed == "" || trimmed == "null":
		return "", nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", err
		}
		return s, nil
	case trimmed == "true" || trimmed == "false":
		return trimmed, nil
	default:
		var n json.Number
		if err := json.Unmarshal(msg, &n); err != nil {
			return "", fmt.Errorf("unsupported value %s", trimmed)
		}
		return n.String(), nil
	}
}

// ParseNumber parses a raw answer as a decimal. Blank, malformed or
// non-finite input yields 0.
func ParseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
