package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSliceType stores a set of ids as a JSON array column.
type StringSliceType []string

// Value implements driver.Valuer interface for database storage
func (ss StringSliceType) Value() (driver.Value, error) {
	if ss == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(ss))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (ss *StringSliceType) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSliceType", value)
	}
}

func (StringSliceType) GormDataType() string {
	return "json"
}

func (ss StringSliceType) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

func (ss *StringSliceType) UnmarshalJSON(data []byte) error {
	var slice []string
	if err := json.Unmarshal(data, &slice); err != nil {
		return err
	}
	*ss = StringSliceType(slice)
	return nil
}

func (ss StringSliceType) Contains(id string) bool {
	for _, v := range ss {
		if v == id {
			return true
		}
	}
	return false
}

// With returns a copy of the set that includes id.
func (ss StringSliceType) With(id string) StringSliceType {
	out := make(StringSliceType, 0, len(ss)+1)
	out = append(out, ss...)
	if !ss.Contains(id) {
		out = append(out, id)
	}
	return out
}

// Without returns a copy of the set with id removed.
func (ss StringSliceType) Without(id string) StringSliceType {
	out := make(StringSliceType, 0, len(ss))
	for _, v := range ss {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
