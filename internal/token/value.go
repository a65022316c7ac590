// Package token provides quote-aware tokenization of command input and a
// kind-tagged value representation used for argument binding.
//
// Values carry an explicit Kind tag that is compared against a parameter's
// declared kind at bind time. A value produced by one pipeline stage keeps
// its tag when forwarded to the next stage, so an already-typed argument is
// never re-parsed from text.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	// KindNone marks the absence of a value. Handlers that produce no
	// output return a none value; it is never forwarded between stages.
	KindNone Kind = iota
	// KindString is a plain text value.
	KindString
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindBool is a boolean.
	KindBool
	// KindDuration is a time.Duration.
	KindDuration
	// KindList is an ordered sequence of values.
	KindList
	// KindAny is an opaque value supplied by a caller or a handler.
	KindAny
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDuration:
		return "duration"
	case KindList:
		return "list"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Value is a tagged value. The zero Value has KindNone.
type Value struct {
	Kind Kind
	data any
}

// None returns the empty value.
func None() Value { return Value{} }

// NewString wraps s as a string value.
func NewString(s string) Value { return Value{Kind: KindString, data: s} }

// NewInt wraps n as an int value.
func NewInt(n int64) Value { return Value{Kind: KindInt, data: n} }

// NewFloat wraps f as a float value.
func NewFloat(f float64) Value { return Value{Kind: KindFloat, data: f} }

// NewBool wraps b as a bool value.
func NewBool(b bool) Value { return Value{Kind: KindBool, data: b} }

// NewDuration wraps d as a duration value.
func NewDuration(d time.Duration) Value { return Value{Kind: KindDuration, data: d} }

// NewList wraps vs as a list value.
func NewList(vs ...Value) Value { return Value{Kind: KindList, data: vs} }

// NewAny wraps an arbitrary Go value.
func NewAny(v any) Value { return Value{Kind: KindAny, data: v} }

// Zero returns the type-appropriate empty value for a kind. It is used when
// a parameter slot has no tokens left to consume.
func Zero(k Kind) Value {
	switch k {
	case KindString:
		return NewString("")
	case KindInt:
		return NewInt(0)
	case KindFloat:
		return NewFloat(0)
	case KindBool:
		return NewBool(false)
	case KindDuration:
		return NewDuration(0)
	case KindList:
		return NewList()
	case KindAny:
		return NewAny(nil)
	default:
		return None()
	}
}

// IsNone reports whether the value is empty.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// Str returns the string payload. It is only meaningful for KindString.
func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

// Int returns the integer payload.
func (v Value) Int() int64 {
	n, _ := v.data.(int64)
	return n
}

// Float returns the float payload.
func (v Value) Float() float64 {
	f, _ := v.data.(float64)
	return f
}

// Bool returns the boolean payload.
func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

// Duration returns the duration payload.
func (v Value) Duration() time.Duration {
	d, _ := v.data.(time.Duration)
	return d
}

// List returns the list payload.
func (v Value) List() []Value {
	l, _ := v.data.([]Value)
	return l
}

// Interface returns the underlying Go value.
func (v Value) Interface() any { return v.data }

// Text renders the value for display and for forwarding into a text slot.
func (v Value) Text() string {
	switch v.Kind {
	case KindNone:
		return ""
	case KindString:
		return v.Str()
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindDuration:
		return v.Duration().String()
	case KindList:
		parts := make([]string, 0, len(v.List()))
		for _, e := range v.List() {
			parts = append(parts, e.Text())
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v.data)
	}
}
