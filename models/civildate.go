package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CivilDate is a calendar date with no time-of-day and no timezone.
// CalendarDay and Hotel dates go through this type so a "2026-01-15"
// stays January 15 no matter what timezone the caller is in.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

const civilDateLayout = "2006-01-02"

func NewCivilDate(year int, month time.Month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

// CivilDateOf extracts the UTC calendar components of t.
func CivilDateOf(t time.Time) CivilDate {
	u := t.UTC()
	return CivilDate{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return CivilDateOf(t), nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date, the canonical storage form.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDateOf(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the whole-day difference from d to other
// (positive when other is later).
func (d CivilDate) DaysUntil(other CivilDate) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

func (d CivilDate) Equal(other CivilDate) bool {
	return d == other
}

func (d CivilDate) Before(other CivilDate) bool {
	return d.Time().Before(other.Time())
}

func (d CivilDate) After(other CivilDate) bool {
	return d.Time().After(other.Time())
}

// MarshalJSON emits the zero value as null so it round-trips; there is
// no textual form for an unset date.
func (d CivilDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CivilDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected JSON string", s)
	}
	s = s[1 : len(s)-1]
	// Tolerate full timestamps from older clients, keep the UTC day.
	if len(s) > len(civilDateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = CivilDateOf(t)
			return nil
		}
		s = s[:len(civilDateLayout)]
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for DATE columns.
func (d CivilDate) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *CivilDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = CivilDateOf(v)
		return nil
	case []byte:
		parsed, err := ParseCivilDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseCivilDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = CivilDate{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CivilDate", src)
	}
}
