package models

import (
	"encoding/json"
	"strings"
)

// fields is a stored config document decoded one level deep. Every accessor
// takes the base value and returns it unchanged when the key is absent or the
// stored value has the wrong shape.
type fields map[string]json.RawMessage

func decodeFields(raw json.RawMessage) (fields, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return nil, false
	}
	return f, true
}

func (f fields) str(key, base string) string {
	raw, ok := f[key]
	if !ok {
		return base
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return base
	}
	return v
}

// nonEmptyStr is str for fields where "" is not a usable value.
func (f fields) nonEmptyStr(key, base string) string {
	v := strings.TrimSpace(f.str(key, base))
	if v == "" {
		return base
	}
	return v
}

// identifier reads an id stored either as a string or as a JSON number, so
// "3" and 3 name the same entry.
func (f fields) identifier(key, base string) string {
	raw, ok := f[key]
	if !ok {
		return base
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return f.nonEmptyStr(key, base)
}

func (f fields) oneOf(key, base string, allowed ...string) string {
	v := strings.ToLower(f.nonEmptyStr(key, base))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return base
}

func (f fields) float(key string, base float64, valid func(float64) bool) float64 {
	raw, ok := f[key]
	if !ok {
		return base
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return base
	}
	if valid != nil && !valid(v) {
		return base
	}
	return v
}

func (f fields) integer(key string, base int, valid func(int) bool) int {
	raw, ok := f[key]
	if !ok {
		return base
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return base
	}
	if valid != nil && !valid(v) {
		return base
	}
	return v
}

func (f fields) boolean(key string, base bool) bool {
	raw, ok := f[key]
	if !ok {
		return base
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return base
	}
	return v
}

func (f fields) object(key string) (fields, bool) {
	raw, ok := f[key]
	if !ok {
		return nil, false
	}
	return decodeFields(raw)
}

func (f fields) list(key string) ([]json.RawMessage, bool) {
	raw, ok := f[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func positive(v float64) bool { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func atLeastOne(v int) bool { return v >= 1 }
func nonNegativeInt(v int) bool { return v >= 0 }

// mergeByID merges stored list entries onto base entries sharing the same "id".
// Base order is kept for matched entries; unmatched stored entries are appended
// in stored order. Ids may be strings or numbers; entries without one are ignored.
func mergeByID[T any](base []T, stored []json.RawMessage, id func(T) string, merge func(T, fields) T) []T {
	out := make([]T, len(base), len(base)+len(stored))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, item := range out {
		index[id(item)] = i
	}

	for _, raw := range stored {
		f, ok := decodeFields(raw)
		if !ok {
			continue
		}
		key := f.identifier("id", "")
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			out[i] = merge(out[i], f)
			continue
		}
		var zero T
		index[key] = len(out)
		out = append(out, merge(zero, f))
	}
	return out
}
