package models

import (
	"encoding/json"
	"testing"
)

func TestPatchDistinguishesAbsentNullValue(t *testing.T) {
	t.Parallel()

	type body struct {
		Notes Patch[string] `json:"notes"`
	}

	tests := []struct {
		name     string
		input    string
		wantSet  bool
		wantNull bool
		wantVal  string
	}{
		{"absent", `{}`, false, false, ""},
		{"explicit null", `{"notes": null}`, true, true, ""},
		{"value", `{"notes": "beach day"}`, true, false, "beach day"},
		{"empty string is a value", `{"notes": ""}`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b body
			if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if b.Notes.Set != tt.wantSet || b.Notes.Null != tt.wantNull || b.Notes.Value != tt.wantVal {
				t.Errorf("Unmarshal(%s) = {Set:%v Null:%v Value:%q}, want {Set:%v Null:%v Value:%q}",
					tt.input, b.Notes.Set, b.Notes.Null, b.Notes.Value, tt.wantSet, tt.wantNull, tt.wantVal)
			}
		})
	}
}

func TestPatchPtr(t *testing.T) {
	t.Parallel()

	null := Patch[string]{Set: true, Null: true}
	if null.Ptr() != nil {
		t.Error("null patch Ptr() should be nil")
	}

	val := Patch[string]{Set: true, Value: "x"}
	if p := val.Ptr(); p == nil || *p != "x" {
		t.Errorf("value patch Ptr() = %v, want &%q", p, "x")
	}
}

func TestFlexFloatAcceptsNumbersAndStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
	}{
		{`123.45`, 123.45},
		{`"123.45"`, 123.45},
		{`"  99 "`, 99},
		{`0`, 0},
	}

	for _, tt := range tests {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.input, err)
			continue
		}
		if f.Float64() != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, f.Float64(), tt.want)
		}
	}
}

func TestFlexFloatRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	// A bad amount must fail loudly, never record a zero expense.
	for _, input := range []string{`""`, `"abc"`, `"12,50"`} {
		var f FlexFloat
		if err := json.Unmarshal([]byte(input), &f); err == nil {
			t.Errorf("Unmarshal(%s) succeeded with %v, want error", input, f)
		}
	}
}

func TestFlexIntAcceptsNumbersAndStrings(t *testing.T) {
	t.Parallel()

	var fromNumber FlexInt
	if err := json.Unmarshal([]byte(`7`), &fromNumber); err != nil {
		t.Fatalf("Unmarshal(7): %v", err)
	}
	if fromNumber.Int64() != 7 {
		t.Errorf("Unmarshal(7) = %d, want 7", fromNumber.Int64())
	}

	var fromString FlexInt
	if err := json.Unmarshal([]byte(`"7"`), &fromString); err != nil {
		t.Fatalf(`Unmarshal("7"): %v`, err)
	}
	if fromString.Int64() != 7 {
		t.Errorf(`Unmarshal("7") = %d, want 7`, fromString.Int64())
	}

	var bad FlexInt
	if err := json.Unmarshal([]byte(`"7.5"`), &bad); err == nil {
		t.Error(`Unmarshal("7.5") succeeded, want error`)
	}
}

func TestPatchFlexFloatComposition(t *testing.T) {
	t.Parallel()

	type body struct {
		BudgetLimit Patch[FlexFloat] `json:"budgetLimit"`
	}

	var withString body
	if err := json.Unmarshal([]byte(`{"budgetLimit": "2500"}`), &withString); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !withString.BudgetLimit.Set || withString.BudgetLimit.Value.Float64() != 2500 {
		t.Errorf("got {Set:%v Value:%v}, want set 2500",
			withString.BudgetLimit.Set, withString.BudgetLimit.Value.Float64())
	}

	var withNull body
	if err := json.Unmarshal([]byte(`{"budgetLimit": null}`), &withNull); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !withNull.BudgetLimit.Set || !withNull.BudgetLimit.Null {
		t.Error("explicit null should set both Set and Null")
	}
}
