package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// StringList is a sequence of strings that the API may deliver either as a
// JSON array or as a JSON-encoded array inside a string. Resolve turns both
// shapes into a plain slice.
type StringList struct {
	Items      []string
	Serialized string
	// IsSerialized is set when the value arrived as text and has not been parsed yet.
	IsSerialized bool
}

// Strings returns a list holding items.
func Strings(items ...string) StringList {
	if items == nil {
		items = []string{}
	}
	return StringList{Items: items}
}

// SerializedStrings returns an unparsed list backed by raw text.
func SerializedStrings(raw string) StringList {
	return StringList{Serialized: raw, IsSerialized: true}
}

// Resolve parses a serialized list. Malformed text yields an empty list.
func (l StringList) Resolve() StringList {
	if !l.IsSerialized {
		if l.Items == nil {
			return StringList{Items: []string{}}
		}
		return l
	}
	var raw any
	if err := json.Unmarshal([]byte(l.Serialized), &raw); err != nil {
		return StringList{Items: []string{}}
	}
	return StringList{Items: stringsFromAny(raw)}
}

// Len reports the number of resolved items.
func (l StringList) Len() int {
	return len(l.Resolve().Items)
}

func (l *StringList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok {
		*l = SerializedStrings(s)
		return nil
	}
	*l = StringList{Items: stringsFromAny(raw)}
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Resolve().Items)
}

// stringsFromAny keeps arrays and drops every other shape.
func stringsFromAny(raw any) []string {
	arr, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case nil:
			out = append(out, "")
		case float64:
			out = append(out, strconv.FormatFloat(x, 'f', -1, 64))
		default:
			b, _ := json.Marshal(x)
			out = append(out, string(b))
		}
	}
	return out
}

// Number is an optional numeric value. The API sends numbers, numeric strings
// or null; anything unparseable is treated as missing.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a valid Number.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: !math.IsNaN(v)}
}

// ParseNumber parses s leniently, returning an invalid Number on failure.
func ParseNumber(s string) Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Number{}
	}
	return NumberOf(f)
}

// Float returns the value and whether it is usable.
func (n Number) Float() (float64, bool) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, false
	}
	return n.Value, true
}

// IsZero reports a missing or zero value.
func (n Number) IsZero() bool {
	v, ok := n.Float()
	return !ok || v == 0
}

// String renders the shortest decimal form, or "" when missing.
func (n Number) String() string {
	v, ok := n.Float()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*n = Number{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*n = NumberOf(v)
	case string:
		*n = ParseNumber(v)
	default:
		*n = Number{}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	v, ok := n.Float()
	if !ok {
		return jsonNull, nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// Scalar is an opaque identifier or display value that may be a string or a
// number on the wire. It re-encodes in the shape it was decoded from.
type Scalar struct {
	text    string
	numeric bool
	set     bool
}

// Text returns a string Scalar.
func Text(s string) Scalar {
	return Scalar{text: s, set: true}
}

// Int returns a numeric Scalar.
func Int(i int64) Scalar {
	return Scalar{text: strconv.FormatInt(i, 10), numeric: true, set: true}
}

// String returns the display form, "" when absent.
func (s Scalar) String() string {
	return s.text
}

// IsNumeric reports whether the value was a JSON number.
func (s Scalar) IsNumeric() bool {
	return s.numeric
}

// IsZero reports an absent or empty value.
func (s Scalar) IsZero() bool {
	return !s.set || s.text == ""
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*s = Scalar{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Text(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		// Booleans and objects keep their literal text.
		*s = Scalar{text: string(b), set: true}
		return nil
	}
	*s = Scalar{text: num.String(), numeric: true, set: true}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.set {
		return jsonNull, nil
	}
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

// GoString keeps test failure output readable.
func (s Scalar) GoString() string {
	if s.numeric {
		return s.text
	}
	return fmt.Sprintf("%q", s.text)
}
