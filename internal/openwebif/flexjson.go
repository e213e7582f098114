// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexBool handles JSON fields that can be true or "true".
// Image builds disagree on inStandby and isRecording.
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = false
		return nil
	}

	// If it's a JSON string: "true"
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*v = false
			return nil
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("bool: invalid string %q", s)
		}
		*v = FlexBool(parsed)
		return nil
	}

	// Some firmwares send 0/1.
	if b[0] == '0' || b[0] == '1' {
		*v = len(b) == 1 && b[0] == '1'
		return nil
	}

	var parsed bool
	if err := json.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("bool: invalid json value: %s", string(b))
	}
	*v = FlexBool(parsed)
	return nil
}

// FlexInt handles JSON fields that can be "123" or 123.
type FlexInt int64

func (v *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*v = 0
		return nil
	}
	// If it's a JSON string: "12345"
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*v = 0
			return nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("int: invalid string %q", s)
		}
		*v = FlexInt(i)
		return nil
	}
	// Otherwise treat as number
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("int: invalid json value: %s", string(b))
	}
	if i, err := n.Int64(); err == nil {
		*v = FlexInt(i)
		return nil
	}
	// 52.0 and friends
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("int: not a number: %s", n.String())
	}
	*v = FlexInt(int64(f))
	return nil
}
