package maintenance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Field is an optional write: Set distinguishes "leave as is" from "set to the zero value"
type Field[T any] struct {
	Set   bool
	Value T
}

// Set builds a Field carrying v
func Set[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON marks the field as set. JSON null sets the zero value, and
// dates are accepted as YYYY-MM-DD as well as RFC 3339.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	var zero T
	f.Value = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	switch v := any(&f.Value).(type) {
	case *time.Time:
		t, err := parseDate(data)
		if err != nil {
			return err
		}
		*v = t
		return nil
	case **time.Time:
		t, err := parseDate(data)
		if err != nil {
			return err
		}
		*v = &t
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// IsZero reports whether the field is unset
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// MarshalJSON writes the value, or null when unset
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func parseDate(data []byte) (time.Time, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return Day(t), nil
}
