package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCivilDateOfUsesUTCComponents(t *testing.T) {
	t.Parallel()

	// 23:30 in São Paulo (UTC-3) is already the next day in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, time.January, 14, 23, 30, 0, 0, loc)

	got := CivilDateOf(local)
	want := NewCivilDate(2026, time.January, 15)
	if got != want {
		t.Errorf("CivilDateOf(%v) = %v, want %v", local, got, want)
	}
}

func TestCivilDateJSONRoundTrip(t *testing.T) {
	t.Parallel()

	d := NewCivilDate(2026, time.February, 7)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-02-07"` {
		t.Errorf("Marshal = %s, want %q", data, "2026-02-07")
	}

	var parsed CivilDate
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip = %v, want %v", parsed, d)
	}
}

func TestCivilDateZeroValueRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CivilDate{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal = %s, want null", data)
	}

	var parsed CivilDate
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !parsed.IsZero() {
		t.Errorf("round trip = %v, want zero", parsed)
	}
}

func TestCivilDateUnmarshalToleratesTimestamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  CivilDate
	}{
		{"plain date", `"2026-01-15"`, NewCivilDate(2026, time.January, 15)},
		{"rfc3339 utc", `"2026-01-15T10:00:00Z"`, NewCivilDate(2026, time.January, 15)},
		{"rfc3339 with offset", `"2026-01-15T23:30:00-03:00"`, NewCivilDate(2026, time.January, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d CivilDate
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if d != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, d, tt.want)
			}
		})
	}
}

func TestCivilDateUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`"not-a-date"`, `"2026-13-01"`, `42`} {
		var d CivilDate
		if err := json.Unmarshal([]byte(input), &d); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", input)
		}
	}
}

func TestCivilDateDaysUntil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from CivilDate
		to   CivilDate
		want int
	}{
		{"same day", NewCivilDate(2026, time.January, 1), NewCivilDate(2026, time.January, 1), 0},
		{"next day", NewCivilDate(2026, time.January, 1), NewCivilDate(2026, time.January, 2), 1},
		{"across month", NewCivilDate(2026, time.January, 31), NewCivilDate(2026, time.February, 2), 2},
		{"past is negative", NewCivilDate(2026, time.January, 10), NewCivilDate(2026, time.January, 1), -9},
		{"full trip window", NewCivilDate(2026, time.January, 1), NewCivilDate(2026, time.February, 7), 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.from.DaysUntil(tt.to); got != tt.want {
				t.Errorf("%v.DaysUntil(%v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCivilDateAddDays(t *testing.T) {
	t.Parallel()

	got := NewCivilDate(2026, time.January, 31).AddDays(7)
	want := NewCivilDate(2026, time.February, 7)
	if got != want {
		t.Errorf("AddDays(7) = %v, want %v", got, want)
	}
}

func TestCivilDateScan(t *testing.T) {
	t.Parallel()

	want := NewCivilDate(2026, time.January, 15)

	var fromTime CivilDate
	if err := fromTime.Scan(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if fromTime != want {
		t.Errorf("Scan(time.Time) = %v, want %v", fromTime, want)
	}

	var fromString CivilDate
	if err := fromString.Scan("2026-01-15"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if fromString != want {
		t.Errorf("Scan(string) = %v, want %v", fromString, want)
	}

	var fromNil CivilDate
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !fromNil.IsZero() {
		t.Errorf("Scan(nil) = %v, want zero", fromNil)
	}
}

func TestTimeOfDayOrderingAndFormat(t *testing.T) {
	t.Parallel()

	early, err := ParseTimeOfDay("09:05")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	late, err := ParseTimeOfDay("14:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}

	if early.Minutes() >= late.Minutes() {
		t.Errorf("expected %v before %v", early, late)
	}
	if got := early.Format12(); got != "9:05 AM" {
		t.Errorf("Format12 = %q, want %q", got, "9:05 AM")
	}
	if got := late.Format12(); got != "2:30 PM" {
		t.Errorf("Format12 = %q, want %q", got, "2:30 PM")
	}
}
