package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Patch is an optional-of-optional JSON field for partial updates.
// A field absent from the body leaves the column untouched, an explicit
// null clears it, and a value replaces it. This is how every PUT handler
// tells "omitted" apart from "set to null".
type Patch[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Null = true
		return nil
	}
	return json.Unmarshal(data, &p.Value)
}

// Ptr returns the patch as a nullable pointer: nil when the patch
// carries an explicit null.
func (p Patch[T]) Ptr() *T {
	if p.Null {
		return nil
	}
	v := p.Value
	return &v
}

// FlexFloat parses a JSON number or a client-formatted numeric string.
// Unparsable strings are an error, never a silent zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		return fmt.Errorf("invalid number: empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

// FlexInt parses a JSON integer or a numeric string.
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		return fmt.Errorf("invalid integer: empty value")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*i = FlexInt(v)
	return nil
}

func (i FlexInt) Int64() int64 { return int64(i) }
