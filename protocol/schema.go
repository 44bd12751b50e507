package protocol

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Field is a named slot of a schema.
type Field struct {
	Index int
	Name  string
	Type  Type
}

// Schema is an ordered list of typed fields describing the wire layout of a
// structure at one version. Schemas are immutable once built and are used as
// a Type for nested structures, which encode as the concatenation of their
// fields with no prefix.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	absent map[string]any
}

// NewSchema builds a schema from fields, in order. Field indexes are assigned
// by position. It panics if two fields share a name.
func NewSchema(name string, fields ...Field) *Schema {
	return newSchema(name, fields, nil)
}

func newSchema(name string, fields []Field, absent map[string]any) *Schema {
	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		absent: absent,
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("protocol: schema %s declares field %q twice", name, f.Name))
		}
		f.Index = i
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) NumFields() int { return len(s.fields) }

// Fields returns the fields of s in wire order.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Default returns the value assumed for a field that the message kind
// declares in other versions but that this version does not carry.
func (s *Schema) Default(name string) (any, bool) {
	v, ok := s.absent[name]
	return v, ok
}

// Declares reports whether name is a field of s, or a field of the same
// message kind absent from this version.
func (s *Schema) Declares(name string) bool {
	if _, ok := s.index[name]; ok {
		return true
	}
	_, ok := s.absent[name]
	return ok
}

// Read decodes a struct with the layout of s from src.
func (s *Schema) Read(src *Source) (*Struct, error) {
	v, err := s.read(src)
	if err != nil {
		return nil, decodeError(s, err)
	}
	return v.(*Struct), nil
}

// Append encodes st, which must be bound to s, at the end of dst.
func (s *Schema) Append(dst []byte, st *Struct) ([]byte, error) {
	return Append(dst, s, st)
}

// SizeOf returns the encoded size of st, which must be bound to s.
func (s *Schema) SizeOf(st *Struct) int {
	return SizeOf(s, st)
}

func (s *Schema) resolve(int16) Type { return s }

func (s *Schema) String() string {
	b := new(strings.Builder)
	b.WriteString(s.name)
	b.WriteString("{")
	for i, f := range s.fields {
		if i != 0 {
			b.WriteString(",")
		}
		b.WriteString(f.Name)
		b.WriteString(":")
		b.WriteString(f.Type.String())
	}
	b.WriteString("}")
	return b.String()
}

func (s *Schema) zero() any { return NewStruct(s) }

func (s *Schema) coerce(v any) (any, error) {
	if st, ok := v.(*Struct); ok && st != nil && st.schema == s {
		return st, nil
	}
	return nil, &ValueError{Type: s.name, Value: v}
}

func (s *Schema) equal(a, b any) bool { return a.(*Struct).Equal(b.(*Struct)) }

func (s *Schema) sizeOf(v any) int {
	st := v.(*Struct)
	size := 0
	for i, f := range s.fields {
		size += f.Type.sizeOf(st.values[i])
	}
	return size
}

func (s *Schema) append(dst []byte, v any) []byte {
	st := v.(*Struct)
	for i, f := range s.fields {
		dst = f.Type.append(dst, st.values[i])
	}
	return dst
}

func (s *Schema) read(src *Source) (any, error) {
	st := &Struct{schema: s, values: make([]any, len(s.fields))}
	for i, f := range s.fields {
		v, err := f.Type.read(src)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				return nil, de.within(f.Name)
			}
			return nil, &DecodeError{Field: f.Name, Type: f.Type.String(), Err: err}
		}
		st.values[i] = v
	}
	return st, nil
}

// FieldDef declares a field of a Layout along with the range of versions that
// carry it on the wire.
type FieldDef struct {
	Name       string
	Type       Def
	MinVersion int16
	MaxVersion int16
	// Value reported for the field by versions that do not carry it. A nil
	// default is the zero value of the field type.
	Default any
}

// F declares a field present in every version.
func F(name string, t Def) FieldDef {
	return FieldDef{Name: name, Type: t, MinVersion: 0, MaxVersion: math.MaxInt16}
}

// Since restricts the field to versions greater or equal to v.
func (f FieldDef) Since(v int16) FieldDef { f.MinVersion = v; return f }

// Until restricts the field to versions lower or equal to v.
func (f FieldDef) Until(v int16) FieldDef { f.MaxVersion = v; return f }

// Or sets the value assumed by versions that do not carry the field.
func (f FieldDef) Or(v any) FieldDef { f.Default = v; return f }

func (f FieldDef) presentAt(v int16) bool { return v >= f.MinVersion && v <= f.MaxVersion }

// Layout is the version-independent declaration of a structure: the union of
// the fields carried by all versions of a message kind, each tagged with the
// versions that carry it. A Layout is resolved to a *Schema per version, and
// resolving the same version twice yields the same *Schema.
type Layout struct {
	name   string
	fields []FieldDef

	mutex   sync.Mutex
	schemas map[int16]*Schema
}

// NewLayout declares a structure. Fields appear on the wire in the order they
// are given here, skipping those absent from the version.
func NewLayout(name string, fields ...FieldDef) *Layout {
	return &Layout{name: name, fields: fields, schemas: make(map[int16]*Schema)}
}

func (l *Layout) String() string { return l.name }

func (l *Layout) resolve(version int16) Type { return l.Schema(version) }

// Schema returns the wire schema of the layout at the given version.
func (l *Layout) Schema(version int16) *Schema {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if s, ok := l.schemas[version]; ok {
		return s
	}

	// A name may be declared more than once with disjoint version ranges
	// when its type changes between versions.
	fields := make([]Field, 0, len(l.fields))
	present := make(map[string]bool, len(l.fields))
	for _, f := range l.fields {
		if f.presentAt(version) {
			fields = append(fields, Field{Name: f.Name, Type: f.Type.resolve(version)})
			present[f.Name] = true
		}
	}

	absent := make(map[string]any)
	for _, f := range l.fields {
		if present[f.Name] {
			continue
		}
		if f.Default != nil {
			absent[f.Name] = f.Default
		} else {
			absent[f.Name] = f.Type.resolve(version).zero()
		}
	}

	s := newSchema(l.name, fields, absent)
	l.schemas[version] = s
	return s
}
