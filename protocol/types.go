package protocol

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Type is the wire type of a value. The set of types is closed: the package
// exports the primitive types as variables, arrays are built with ArrayOf and
// NullableArrayOf, and *Schema is the type of nested structures.
//
// Each type maps to one Go representation:
//
//	Int8, Int16, Int32, Int64   int8, int16, int32, int64
//	Boolean                     bool
//	String                      string
//	NullableString              NullString
//	Bytes, NullableBytes        []byte (nil is absent)
//	ArrayOf, NullableArrayOf    []any (nil is absent)
//	*Schema                     *Struct
type Type interface {
	Def

	String() string

	zero() any
	// coerce converts v to the canonical representation of the type, or
	// returns a *ValueError if v cannot be represented.
	coerce(v any) (any, error)
	equal(a, b any) bool

	sizeOf(v any) int
	append(dst []byte, v any) []byte
	read(src *Source) (any, error)
}

// Def is the declared type of a field in a Layout. Types are definitions of
// themselves; layouts and arrays of layouts resolve to a different *Schema at
// each version.
type Def interface {
	resolve(version int16) Type
}

// NullString is a string that may be absent, the Go value of NullableString
// fields. The zero value is absent.
type NullString struct {
	String string
	Valid  bool
}

// NewNullString returns a present NullString holding s.
func NewNullString(s string) NullString { return NullString{String: s, Valid: true} }

// OrEmpty returns the string, or "" when it is absent.
func (s NullString) OrEmpty() string { return s.String }

func (s NullString) Format(w fmt.State, _ rune) {
	if !s.Valid {
		fmt.Fprint(w, "null")
	} else {
		fmt.Fprint(w, strconv.Quote(s.String))
	}
}

var (
	Int8           Type = int8Type{}
	Int16          Type = int16Type{}
	Int32          Type = int32Type{}
	Int64          Type = int64Type{}
	Boolean        Type = boolType{}
	String         Type = stringType{}
	NullableString Type = stringType{nullable: true}
	Bytes          Type = bytesType{}
	NullableBytes  Type = bytesType{nullable: true}
)

type int8Type struct{}

func (t int8Type) resolve(int16) Type { return t }
func (int8Type) String() string      { return "INT8" }
func (int8Type) zero() any           { return int8(0) }
func (int8Type) equal(a, b any) bool { return a == b }

func (t int8Type) coerce(v any) (any, error) {
	if x, ok := v.(int8); ok {
		return x, nil
	}
	return nil, &ValueError{Type: t.String(), Value: v}
}

type int16Type struct{}

func (t int16Type) resolve(int16) Type { return t }
func (int16Type) String() string      { return "INT16" }
func (int16Type) zero() any           { return int16(0) }
func (int16Type) equal(a, b any) bool { return a == b }

func (t int16Type) coerce(v any) (any, error) {
	if x, ok := v.(int16); ok {
		return x, nil
	}
	return nil, &ValueError{Type: t.String(), Value: v}
}

type int32Type struct{}

func (t int32Type) resolve(int16) Type { return t }
func (int32Type) String() string      { return "INT32" }
func (int32Type) zero() any           { return int32(0) }
func (int32Type) equal(a, b any) bool { return a == b }

func (t int32Type) coerce(v any) (any, error) {
	if x, ok := v.(int32); ok {
		return x, nil
	}
	return nil, &ValueError{Type: t.String(), Value: v}
}

type int64Type struct{}

func (t int64Type) resolve(int16) Type { return t }
func (int64Type) String() string      { return "INT64" }
func (int64Type) zero() any           { return int64(0) }
func (int64Type) equal(a, b any) bool { return a == b }

func (t int64Type) coerce(v any) (any, error) {
	if x, ok := v.(int64); ok {
		return x, nil
	}
	return nil, &ValueError{Type: t.String(), Value: v}
}

type boolType struct{}

func (t boolType) resolve(int16) Type { return t }
func (boolType) String() string      { return "BOOLEAN" }
func (boolType) zero() any           { return false }
func (boolType) equal(a, b any) bool { return a == b }

func (t boolType) coerce(v any) (any, error) {
	if x, ok := v.(bool); ok {
		return x, nil
	}
	return nil, &ValueError{Type: t.String(), Value: v}
}

type stringType struct{ nullable bool }

func (t stringType) resolve(int16) Type { return t }

func (t stringType) String() string {
	if t.nullable {
		return "NULLABLE_STRING"
	}
	return "STRING"
}

func (t stringType) zero() any {
	if t.nullable {
		return NullString{}
	}
	return ""
}

func (t stringType) equal(a, b any) bool { return a == b }

func (t stringType) coerce(v any) (any, error) {
	c, ok := t.canonical(v)
	if !ok {
		return nil, &ValueError{Type: t.String(), Value: v}
	}
	var n int
	switch x := c.(type) {
	case string:
		n = len(x)
	case NullString:
		n = len(x.String)
	}
	if n > math.MaxInt16 {
		return nil, &ValueError{Type: t.String(), Value: v, Reason: fmt.Sprintf("length %d exceeds %d", n, math.MaxInt16)}
	}
	return c, nil
}

func (t stringType) canonical(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		if t.nullable {
			return NewNullString(x), true
		}
		return x, true
	case NullString:
		if t.nullable {
			if !x.Valid {
				return NullString{}, true
			}
			return x, true
		}
		if x.Valid {
			return x.String, true
		}
	case *string:
		if t.nullable {
			if x == nil {
				return NullString{}, true
			}
			return NewNullString(*x), true
		}
		if x != nil {
			return *x, true
		}
	}
	return nil, false
}

// Byte and array lengths are int32 on the wire.
const maxInt32Length = math.MaxInt32

type bytesType struct{ nullable bool }

func (t bytesType) resolve(int16) Type { return t }

func (t bytesType) String() string {
	if t.nullable {
		return "NULLABLE_BYTES"
	}
	return "BYTES"
}

func (t bytesType) zero() any {
	if t.nullable {
		return []byte(nil)
	}
	return []byte{}
}

func (t bytesType) equal(a, b any) bool {
	x, y := a.([]byte), b.([]byte)
	if (x == nil) != (y == nil) {
		return false
	}
	return bytes.Equal(x, y)
}

func (t bytesType) coerce(v any) (any, error) {
	x, ok := v.([]byte)
	if !ok || (x == nil && !t.nullable) {
		return nil, &ValueError{Type: t.String(), Value: v}
	}
	if int64(len(x)) > maxInt32Length {
		return nil, &ValueError{Type: t.String(), Value: v, Reason: fmt.Sprintf("length %d exceeds %d", len(x), maxInt32Length)}
	}
	return x, nil
}

// Array is the type of a count-prefixed sequence of elements. A nullable
// array encodes its absence with a count of -1.
type Array struct {
	Elem     Def
	Nullable bool
}

// ArrayOf returns the type of a non-nullable array of elem. elem may be a
// Layout when the array is declared inside another layout.
func ArrayOf(elem Def) *Array { return &Array{Elem: elem} }

// NullableArrayOf returns the type of an array of elem that may be absent.
func NullableArrayOf(elem Def) *Array { return &Array{Elem: elem, Nullable: true} }

func (a *Array) resolve(version int16) Type {
	elem := a.Elem.resolve(version)
	if t, ok := a.Elem.(Type); ok && t == elem {
		return a
	}
	return &Array{Elem: elem, Nullable: a.Nullable}
}

// ElemType returns the resolved element type. It panics if the array was
// declared with a layout and has not been resolved to a version.
func (a *Array) ElemType() Type {
	t, ok := a.Elem.(Type)
	if !ok {
		panic("protocol: array element type is not resolved to a version")
	}
	return t
}

func (a *Array) String() string {
	s := "ARRAY(" + a.Elem.(fmt.Stringer).String() + ")"
	if a.Nullable {
		s = "NULLABLE_" + s
	}
	return s
}

func (a *Array) zero() any {
	if a.Nullable {
		return []any(nil)
	}
	return []any{}
}

func (a *Array) equal(x, y any) bool {
	u, v := x.([]any), y.([]any)
	if (u == nil) != (v == nil) || len(u) != len(v) {
		return false
	}
	elem := a.ElemType()
	for i := range u {
		if !elem.equal(u[i], v[i]) {
			return false
		}
	}
	return true
}

func (a *Array) coerce(v any) (any, error) {
	var items []any
	switch x := v.(type) {
	case []any:
		if x == nil {
			return a.absent(v)
		}
		items = x
	case []int32:
		if x == nil {
			return a.absent(v)
		}
		items = make([]any, len(x))
		for i, e := range x {
			items[i] = e
		}
	case []int64:
		if x == nil {
			return a.absent(v)
		}
		items = make([]any, len(x))
		for i, e := range x {
			items[i] = e
		}
	case []string:
		if x == nil {
			return a.absent(v)
		}
		items = make([]any, len(x))
		for i, e := range x {
			items[i] = e
		}
	case []*Struct:
		if x == nil {
			return a.absent(v)
		}
		items = make([]any, len(x))
		for i, e := range x {
			items[i] = e
		}
	case nil:
		return a.absent(v)
	default:
		return nil, &ValueError{Type: a.String(), Value: v}
	}
	if int64(len(items)) > maxInt32Length {
		return nil, &ValueError{Type: a.String(), Value: v, Reason: fmt.Sprintf("count %d exceeds %d", len(items), maxInt32Length)}
	}

	elem := a.ElemType()
	out := make([]any, len(items))
	for i, item := range items {
		c, err := elem.coerce(item)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (a *Array) absent(v any) (any, error) {
	if a.Nullable {
		return []any(nil), nil
	}
	return nil, &ValueError{Type: a.String(), Value: v}
}
