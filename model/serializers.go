package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Custom serializers for the slice/map columns. Both are stored as
// JSON text so they work the same on SQLite and postgres

// ObjectCounts maps a detected object label to how many of it the
// model claims to have seen in a segment
type ObjectCounts map[string]int

// Value implements the driver.Valuer interface
func (o ObjectCounts) Value() (driver.Value, error) {
	if len(o) == 0 {
		return "{}", nil
	}

	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize object counts, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (o *ObjectCounts) Scan(value any) error {
	if value == nil {
		*o = ObjectCounts{}
		return nil
	}

	b, err := rawBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan ObjectCounts, %w", err)
	}

	if len(b) == 0 {
		*o = ObjectCounts{}
		return nil
	}

	return json.Unmarshal(b, o)
}

type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}

	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize string slice, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	b, err := rawBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan StringSlice, %w", err)
	}

	if len(b) == 0 {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(b, s)
}

func rawBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
