// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package openwebif

import (
	"encoding/json"
	"testing"
)

func TestFlexBool_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`"true"`, true, false},
		{`"false"`, false, false},
		{`"True"`, true, false},
		{`""`, false, false},
		{`null`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"maybe"`, false, true},
		{`[]`, false, true},
	}

	for _, tc := range cases {
		var v FlexBool
		err := json.Unmarshal([]byte(tc.in), &v)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if err == nil && bool(v) != tc.want {
			t.Fatalf("%s: got %v want %v", tc.in, bool(v), tc.want)
		}
	}
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	var v FlexInt

	// Number
	if err := json.Unmarshal([]byte(`123456`), &v); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if int64(v) != 123456 {
		t.Fatalf("want 123456 got %d", int64(v))
	}

	// String number
	if err := json.Unmarshal([]byte(`"1800"`), &v); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if int64(v) != 1800 {
		t.Fatalf("want 1800 got %d", int64(v))
	}

	// Float
	if err := json.Unmarshal([]byte(`52.0`), &v); err != nil {
		t.Fatalf("unmarshal float: %v", err)
	}
	if int64(v) != 52 {
		t.Fatalf("want 52 got %d", int64(v))
	}

	// Empty string
	if err := json.Unmarshal([]byte(`""`), &v); err != nil {
		t.Fatalf("unmarshal empty string: %v", err)
	}
	if int64(v) != 0 {
		t.Fatalf("want 0 got %d", int64(v))
	}

	if err := json.Unmarshal([]byte(`"abc"`), &v); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}
