package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a task identifier. Documents written by older tools carry numeric
// ids, newer ones strings; an ID remembers which form it was read in so that
// it is written back the same way.
type ID struct {
	value   string
	numeric bool
}

// StringID returns an ID serialized as a JSON string.
func StringID(s string) ID {
	return ID{value: s}
}

// NumericID returns an ID serialized as a JSON number.
func NumericID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// RestoreID rebuilds an ID from its stored parts.
func RestoreID(value string, numeric bool) ID {
	return ID{value: value, numeric: numeric}
}

func (id ID) String() string {
	return id.value
}

func (id ID) IsZero() bool {
	return id.value == ""
}

func (id ID) IsNumeric() bool {
	return id.numeric
}

// Equal compares ids by value, so "5" and 5 are the same task.
func (id ID) Equal(o ID) bool {
	return id.value == o.value
}

// Int reports the integer value of the id, if it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(id.value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = ID{value: string(data), numeric: true}
	return nil
}
