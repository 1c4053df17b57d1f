// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is one loosely typed object returned by the model.
type Record map[string]any

// CoerceRecords turns a model response into a list of objects. It accepts a
// list, a bare object, or an object wrapping a list under any key. List items
// may be objects or JSON strings encoding objects; anything else is dropped
// and counted.
func CoerceRecords(raw string) ([]Record, int, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, 0, fmt.Errorf("response is not JSON: %w", err)
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
		for _, key := range sortedKeys(t) {
			if list, ok := t[key].([]any); ok && listOfRecords(list) {
				items = list
				break
			}
		}
	case string:
		// A doubly encoded payload.
		return CoerceRecords(t)
	default:
		return nil, 0, fmt.Errorf("unexpected response type %T", v)
	}

	var out []Record
	dropped := 0
	for _, item := range items {
		if r, ok := toRecord(item); ok {
			out = append(out, r)
		} else {
			dropped++
		}
	}
	return out, dropped, nil
}

func toRecord(item any) (Record, bool) {
	switch t := item.(type) {
	case map[string]any:
		return Record(t), true
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(t)), &m); err == nil && m != nil {
			return Record(m), true
		}
	}
	return nil, false
}

func listOfRecords(list []any) bool {
	for _, item := range list {
		if _, ok := toRecord(item); ok {
			return true
		}
	}
	return false
}

// String returns the trimmed string value of key, or "" when the key is
// missing, null, or not a scalar.
func (r Record) String(key string) string {
	switch t := r[key].(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return ""
		}
		return s
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	default:
		return ""
	}
}

// Strings returns the non-empty string items of key. A single string value
// is returned as a one-element list.
func (r Record) Strings(key string) []string {
	var out []string
	switch t := r[key].(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
