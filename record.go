package editproj

import (
	"encoding/json"
	"fmt"
)

// Record is an opaque serialized entity, as produced by a Codec.
type Record map[string]any

func toRecord(v any) (Record, error) {
	bt, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(bt, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func fromRecord(r Record, v any) error {
	bt, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(bt, v)
}

func asRecord(v any) (Record, bool) {
	switch r := v.(type) {
	case Record:
		return r, r != nil
	case map[string]any:
		return Record(r), r != nil
	}
	return nil, false
}

func asRecords(v any) []Record {
	switch l := v.(type) {
	case []Record:
		return l
	case []any:
		out := make([]Record, 0, len(l))
		for _, it := range l {
			if r, ok := asRecord(it); ok {
				out = append(out, r)
			}
		}
		return out
	}
	return nil
}

// String returns the string field key, empty when absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns a list of strings, skipping non-string entries.
func (r Record) Strings(key string) []string {
	switch l := r[key].(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, it := range l {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (r Record) Record(key string) (Record, bool) {
	return asRecord(r[key])
}

func (r Record) Records(key string) []Record {
	return asRecords(r[key])
}

// Clone copies r through JSON, so nested values are not shared.
func (r Record) Clone() (Record, error) {
	if r == nil {
		return nil, nil
	}
	c, err := toRecord(r)
	if err != nil {
		return nil, fmt.Errorf("clone record: %w", err)
	}
	return c, nil
}
