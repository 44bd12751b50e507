package protocol

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Struct is a record of values laid out according to a *Schema. Values are
// held in their canonical representation (see Type), which Set enforces.
type Struct struct {
	schema *Schema
	values []any
}

// NewStruct returns a struct bound to s with every field set to the zero
// value of its type.
func NewStruct(s *Schema) *Struct {
	st := &Struct{schema: s, values: make([]any, len(s.fields))}
	for i, f := range s.fields {
		st.values[i] = f.Type.zero()
	}
	return st
}

func (st *Struct) Schema() *Schema { return st.schema }

// Get returns the value of the named field.
func (st *Struct) Get(name string) (any, error) {
	i, ok := st.schema.index[name]
	if !ok {
		return nil, &FieldError{Schema: st.schema.name, Field: name}
	}
	return st.values[i], nil
}

// Set assigns the named field. The value must be representable by the field
// type, otherwise the struct is left unchanged and a *ValueError is returned.
func (st *Struct) Set(name string, v any) error {
	i, ok := st.schema.index[name]
	if !ok {
		return &FieldError{Schema: st.schema.name, Field: name}
	}
	c, err := st.schema.fields[i].Type.coerce(v)
	if err != nil {
		if ve, ok := err.(*ValueError); ok {
			return ve.within(name)
		}
		return err
	}
	st.values[i] = c
	return nil
}

// Equal reports whether st and other are bound to the same schema instance
// and hold equal values. Absent and zero-length byte sequences differ.
func (st *Struct) Equal(other *Struct) bool {
	if st == nil || other == nil {
		return st == other
	}
	if st.schema != other.schema {
		return false
	}
	for i, f := range st.schema.fields {
		if !f.Type.equal(st.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// Hash returns a digest of the schema name and the values of st. Equal
// structs have equal hashes.
func (st *Struct) Hash() uint64 {
	h := xxhash.New()
	h.WriteString(st.schema.name)
	h.Write(st.schema.append(make([]byte, 0, st.schema.sizeOf(st)), st))
	return h.Sum64()
}

func (st *Struct) String() string {
	b := new(strings.Builder)
	b.WriteString("{")
	for i, f := range st.schema.fields {
		if i != 0 {
			b.WriteString(",")
		}
		b.WriteString(f.Name)
		b.WriteString("=")
		switch v := st.values[i].(type) {
		case []byte:
			if v == nil {
				b.WriteString("null")
			} else {
				fmt.Fprintf(b, "bytes[%d]", len(v))
			}
		case []any:
			if v == nil {
				b.WriteString("null")
			} else {
				fmt.Fprint(b, v)
			}
		default:
			fmt.Fprint(b, v)
		}
	}
	b.WriteString("}")
	return b.String()
}

// Builder assembles a Struct for a message kind at one version. Fields that
// the kind declares for other versions only are silently dropped, so callers
// describe the full message once and let the schema select what the version
// can carry. Names unknown to the kind and unrepresentable values are errors;
// the first one is reported by Build.
//
// Builders returned by Child share the error of their parent.
type Builder struct {
	st  *Struct
	err *error
}

// NewBuilder starts a struct bound to s.
func NewBuilder(s *Schema) *Builder {
	return &Builder{st: NewStruct(s), err: new(error)}
}

// Set writes the named field, see Builder for the rules applied.
func (b *Builder) Set(name string, v any) *Builder {
	if b.st == nil || *b.err != nil {
		return b
	}
	s := b.st.schema
	if _, ok := s.index[name]; !ok {
		if _, ok := s.absent[name]; !ok {
			*b.err = &FieldError{Schema: s.name, Field: name}
		}
		return b
	}
	if err := b.st.Set(name, v); err != nil {
		*b.err = err
	}
	return b
}

// Child returns a builder for a structure nested in the named field, which is
// either a struct or an array of structs. The caller assigns the result of
// the child's Struct method (or a list of them) back with Set. When the
// version does not carry the field, the child discards everything and its
// Struct method returns nil.
func (b *Builder) Child(name string) *Builder {
	child := &Builder{err: b.err}
	if b.st == nil {
		return child
	}
	s := b.st.schema
	f, ok := s.Field(name)
	if !ok {
		if _, ok := s.absent[name]; !ok && *b.err == nil {
			*b.err = &FieldError{Schema: s.name, Field: name}
		}
		return child
	}
	var elem *Schema
	switch t := f.Type.(type) {
	case *Schema:
		elem = t
	case *Array:
		elem, _ = t.ElemType().(*Schema)
	}
	if elem == nil {
		if *b.err == nil {
			*b.err = &ValueError{Field: name, Type: f.Type.String(), Value: b.st}
		}
		return child
	}
	child.st = NewStruct(elem)
	return child
}

// Struct returns the struct being built, or nil for a discarding builder.
func (b *Builder) Struct() *Struct { return b.st }

// Err returns the first error recorded by the builder or its children.
func (b *Builder) Err() error { return *b.err }

// Build returns the struct, or the first error recorded while building it.
func (b *Builder) Build() (*Struct, error) {
	if err := *b.err; err != nil {
		return nil, err
	}
	return b.st, nil
}

// View reads the fields of a Struct with typed getters. Fields the message
// kind declares but the version does not carry read as their default. A
// getter that fails returns the zero value and records the error; Err
// reports the first one, so a sequence of reads can be checked once.
//
// Views returned by Struct and Structs share the error of their parent.
type View struct {
	st  *Struct
	err *error
}

func NewView(st *Struct) *View {
	return &View{st: st, err: new(error)}
}

// Err returns the first error recorded by the view or its children.
func (v *View) Err() error { return *v.err }

// Has reports whether the version carries the named field.
func (v *View) Has(name string) bool {
	_, ok := v.st.schema.index[name]
	return ok
}

func (v *View) get(name string) any {
	s := v.st.schema
	if i, ok := s.index[name]; ok {
		return v.st.values[i]
	}
	if d, ok := s.absent[name]; ok {
		return d
	}
	v.fail(&FieldError{Schema: s.name, Field: name})
	return nil
}

func (v *View) fail(err error) {
	if *v.err == nil {
		*v.err = err
	}
}

func (v *View) mismatch(name, typ string, x any) {
	if x != nil {
		v.fail(&ValueError{Field: name, Type: typ, Value: x})
	}
}

func (v *View) Int8(name string) int8 {
	x := v.get(name)
	i, ok := x.(int8)
	if !ok {
		v.mismatch(name, "INT8", x)
	}
	return i
}

func (v *View) Int16(name string) int16 {
	x := v.get(name)
	i, ok := x.(int16)
	if !ok {
		v.mismatch(name, "INT16", x)
	}
	return i
}

func (v *View) Int32(name string) int32 {
	x := v.get(name)
	i, ok := x.(int32)
	if !ok {
		v.mismatch(name, "INT32", x)
	}
	return i
}

func (v *View) Int64(name string) int64 {
	x := v.get(name)
	i, ok := x.(int64)
	if !ok {
		v.mismatch(name, "INT64", x)
	}
	return i
}

func (v *View) Bool(name string) bool {
	x := v.get(name)
	b, ok := x.(bool)
	if !ok {
		v.mismatch(name, "BOOLEAN", x)
	}
	return b
}

// String returns the value of a string field. An absent nullable string reads
// as "".
func (v *View) String(name string) string {
	switch x := v.get(name).(type) {
	case string:
		return x
	case NullString:
		return x.String
	case nil:
	default:
		v.mismatch(name, "STRING", x)
	}
	return ""
}

func (v *View) NullString(name string) NullString {
	switch x := v.get(name).(type) {
	case NullString:
		return x
	case string:
		return NewNullString(x)
	case nil:
	default:
		v.mismatch(name, "NULLABLE_STRING", x)
	}
	return NullString{}
}

func (v *View) Bytes(name string) []byte {
	x := v.get(name)
	b, ok := x.([]byte)
	if !ok {
		v.mismatch(name, "BYTES", x)
	}
	return b
}

func (v *View) array(name string) []any {
	x := v.get(name)
	a, ok := x.([]any)
	if !ok {
		v.mismatch(name, "ARRAY", x)
	}
	return a
}

// IsNull reports whether the named array or nullable field is absent.
func (v *View) IsNull(name string) bool {
	switch x := v.get(name).(type) {
	case []any:
		return x == nil
	case []byte:
		return x == nil
	case NullString:
		return !x.Valid
	}
	return false
}

func (v *View) Int32s(name string) []int32 {
	a := v.array(name)
	if a == nil {
		return nil
	}
	out := make([]int32, len(a))
	for i, x := range a {
		n, ok := x.(int32)
		if !ok {
			v.mismatch(name, "ARRAY(INT32)", x)
		}
		out[i] = n
	}
	return out
}

func (v *View) Int64s(name string) []int64 {
	a := v.array(name)
	if a == nil {
		return nil
	}
	out := make([]int64, len(a))
	for i, x := range a {
		n, ok := x.(int64)
		if !ok {
			v.mismatch(name, "ARRAY(INT64)", x)
		}
		out[i] = n
	}
	return out
}

func (v *View) Strings(name string) []string {
	a := v.array(name)
	if a == nil {
		return nil
	}
	out := make([]string, len(a))
	for i, x := range a {
		s, ok := x.(string)
		if !ok {
			v.mismatch(name, "ARRAY(STRING)", x)
		}
		out[i] = s
	}
	return out
}

// Struct returns a view of the nested struct held by the named field.
func (v *View) Struct(name string) *View {
	x := v.get(name)
	st, ok := x.(*Struct)
	if !ok {
		v.mismatch(name, "STRUCT", x)
		return &View{st: NewStruct(NewSchema(name)), err: v.err}
	}
	return &View{st: st, err: v.err}
}

// Structs returns views of the structs held by the named array field.
func (v *View) Structs(name string) []*View {
	a := v.array(name)
	if a == nil {
		return nil
	}
	out := make([]*View, 0, len(a))
	for _, x := range a {
		st, ok := x.(*Struct)
		if !ok {
			v.mismatch(name, "ARRAY(STRUCT)", x)
			continue
		}
		out = append(out, &View{st: st, err: v.err})
	}
	return out
}
