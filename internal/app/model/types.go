package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray stores an ordered list of strings as a JSON column. Works on
// both PostgreSQL and the SQLite test database.
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringArray")
		}
	}

	return json.Unmarshal(bytes, s)
}

// Contains reports whether v is present in the array.
func (s StringArray) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Remove returns a copy of the array without v.
func (s StringArray) Remove(v string) StringArray {
	result := make(StringArray, 0, len(s))
	for _, item := range s {
		if item != v {
			result = append(result, item)
		}
	}
	return result
}

// LocaleMap stores locale code to display name mappings as a JSON column
// (e.g. {"en": "Computers", "tr": "Bilgisayar"}).
type LocaleMap map[string]string

// Value implements database/sql/driver.Valuer
func (m LocaleMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements database/sql.Scanner
func (m *LocaleMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan LocaleMap")
		}
	}

	return json.Unmarshal(bytes, m)
}
