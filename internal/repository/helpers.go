package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/wellness/api/internal/database"
)

var errUnexpectedFormat = errors.New("unexpected result format")

// statementRecords returns the records produced by statement idx of a Query
// response
func statementRecords(result []interface{}, idx int) []map[string]interface{} {
	if idx >= len(result) {
		return nil
	}

	var rows []interface{}
	switch v := result[idx].(type) {
	case map[string]interface{}:
		if _, wrapped := v["status"]; wrapped {
			switch inner := v["result"].(type) {
			case []interface{}:
				rows = inner
			case map[string]interface{}:
				rows = []interface{}{inner}
			}
		} else {
			rows = []interface{}{v}
		}
	case []interface{}:
		rows = v
	}

	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.(map[string]interface{}); ok {
			records = append(records, m)
		}
	}
	return records
}

// firstRecord returns the first record of the first statement, or
// database.ErrNotFound
func firstRecord(result []interface{}) (map[string]interface{}, error) {
	records := statementRecords(result, 0)
	if len(records) == 0 {
		return nil, database.ErrNotFound
	}
	return records[0], nil
}

// asRecord converts a QueryOne result into a map
func asRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errUnexpectedFormat
	}
	return data, nil
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		tb := ""
		for _, k := range []string{"tb", "TB", "Table"} {
			if t, ok := v[k].(string); ok {
				tb = t
				break
			}
		}
		idPart := ""
		if idVal, ok := v["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := v["ID"]; ok {
			idPart = extractIDValue(idVal)
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
		if s, ok := m["string"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// getID extracts a record id or record link as a string
func getID(m map[string]interface{}, key string) string {
	return convertSurrealID(m[key])
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	return toInt(m[key])
}

// getIntPtr extracts an optional int value from a map
func getIntPtr(m map[string]interface{}, key string) *int {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	i := toInt(v)
	return &i
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case int32:
		return int(n)
	case uint32:
		return int(n)
	}
	return 0
}

// getFloat extracts a float value from a map
func getFloat(m map[string]interface{}, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int, int64, uint64, int32, uint32:
		return float64(toInt(n))
	}
	return 0
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getTimeValue is getTime with a zero fallback
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

// getIntSlice extracts an int slice from a map
func getIntSlice(m map[string]interface{}, key string) []int {
	v, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(v))
	for _, item := range v {
		out = append(out, toInt(item))
	}
	return out
}

// decodeInto converts a nested object into a struct via JSON
func decodeInto(v interface{}, out interface{}) error {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// optionalTime converts a time pointer into a query variable, nil becomes NONE
func optionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// optionalInt converts an int pointer into a query variable
func optionalInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
