package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the variants of the store's property-value domain.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindText
)

// Value is a tagged property value over {null, bool, int64, float64,
// bytes, text}. Integers and floats stay distinct across JSON round
// trips (integers never gain a fraction); bytes travel as a
// {"$bytes": base64} wrapper so they never collide with text.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
}

func Null() Value            { return Value{kind: KindNull} }
func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func Int(v int64) Value      { return Value{kind: KindInt, i: v} }
func Float(v float64) Value  { return Value{kind: KindFloat, f: v} }
func Text(v string) Value    { return Value{kind: KindText, s: v} }
func Bytes(v []byte) Value   { return Value{kind: KindBytes, raw: v} }

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the bool payload; ok is false for other kinds.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the int64 payload; ok is false for other kinds.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float64 payload. Integer values coerce so callers
// reading numeric properties do not care how the store typed them.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsText returns the text payload; ok is false for other kinds.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsBytes returns the bytes payload; ok is false for other kinds.
func (v Value) AsBytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// String renders the value for previews and logs. Text renders bare,
// bytes render as base64.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.raw)
	}
	return "null"
}

type bytesWrapper struct {
	Bytes string `json:"$bytes"`
}

// MarshalJSON emits the native JSON scalar for each variant.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	case KindBytes:
		return json.Marshal(bytesWrapper{Bytes: base64.StdEncoding.EncodeToString(v.raw)})
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON scalar into the matching variant. A JSON
// number without a fraction or exponent becomes an int64, anything else
// numeric a float64. Objects are only accepted in the bytes wrapper form.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := firstByte(data)
	switch {
	case s == 'n':
		*v = Null()
		return nil
	case s == 't' || s == 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case s == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = Text(str)
		return nil
	case s == '{':
		var w bytesWrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("decoding property value: %w", err)
		}
		raw, err := base64.StdEncoding.DecodeString(w.Bytes)
		if err != nil {
			return fmt.Errorf("decoding property bytes: %w", err)
		}
		*v = Bytes(raw)
		return nil
	case s == '[':
		return fmt.Errorf("unsupported property value %s", data)
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		*v = Int(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("decoding numeric property %q: %w", num, err)
	}
	*v = Float(f)
	return nil
}

func firstByte(data []byte) byte {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}
