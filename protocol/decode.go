package protocol

import (
	"fmt"

	"github.com/twmb/franz-go/pkg/kbin"
)

// Source is a read cursor over an encoded byte sequence. Reads consume bytes
// from the front of the sequence; a failed read leaves the cursor at an
// unspecified position.
type Source struct {
	r    kbin.Reader
	size int
}

// NewSource returns a Source reading b from its first byte.
func NewSource(b []byte) *Source {
	return &Source{r: kbin.Reader{Src: b}, size: len(b)}
}

// Len returns the number of unread bytes.
func (src *Source) Len() int { return len(src.r.Src) }

// Offset returns the number of bytes consumed so far.
func (src *Source) Offset() int { return src.size - len(src.r.Src) }

// Bytes returns the unread bytes without consuming them.
func (src *Source) Bytes() []byte { return src.r.Src }

// Read decodes one value of type t from src. Failures are reported as
// *DecodeError.
func Read(src *Source, t Type) (any, error) {
	v, err := t.read(src)
	if err != nil {
		return nil, decodeError(t, err)
	}
	return v, nil
}

func (src *Source) need(n int) error {
	if len(src.r.Src) < n {
		return ErrTruncated
	}
	return nil
}

func (src *Source) readInt8() (int8, error) {
	if err := src.need(1); err != nil {
		return 0, err
	}
	return src.r.Int8(), nil
}

func (src *Source) readInt16() (int16, error) {
	if err := src.need(2); err != nil {
		return 0, err
	}
	return src.r.Int16(), nil
}

func (src *Source) readInt32() (int32, error) {
	if err := src.need(4); err != nil {
		return 0, err
	}
	return src.r.Int32(), nil
}

func (src *Source) readInt64() (int64, error) {
	if err := src.need(8); err != nil {
		return 0, err
	}
	return src.r.Int64(), nil
}

func (src *Source) readSpan(n int) ([]byte, error) {
	if err := src.need(n); err != nil {
		return nil, err
	}
	return src.r.Span(n), nil
}

func (int8Type) read(src *Source) (any, error) {
	v, err := src.readInt8()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (int16Type) read(src *Source) (any, error) {
	v, err := src.readInt16()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (int32Type) read(src *Source) (any, error) {
	v, err := src.readInt32()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (int64Type) read(src *Source) (any, error) {
	v, err := src.readInt64()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (boolType) read(src *Source) (any, error) {
	v, err := src.readInt8()
	if err != nil {
		return nil, err
	}
	return v != 0, nil
}

func (t stringType) read(src *Source) (any, error) {
	n, err := src.readInt16()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		if t.nullable {
			return NullString{}, nil
		}
		return nil, fmt.Errorf("%w: string length %d", ErrCorrupted, n)
	}
	b, err := src.readSpan(int(n))
	if err != nil {
		return nil, err
	}
	if t.nullable {
		return NewNullString(string(b)), nil
	}
	return string(b), nil
}

func (t bytesType) read(src *Source) (any, error) {
	n, err := src.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		if t.nullable {
			return []byte(nil), nil
		}
		return nil, fmt.Errorf("%w: bytes length %d", ErrCorrupted, n)
	}
	b, err := src.readSpan(int(n))
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, len(b)), b...), nil
}

func (a *Array) read(src *Source) (any, error) {
	n, err := src.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		if a.Nullable {
			return []any(nil), nil
		}
		return nil, fmt.Errorf("%w: array length %d", ErrCorrupted, n)
	}

	// Preallocation is bounded by the remaining input, not the declared count.
	elem := a.ElemType()
	items := make([]any, 0, min(int(n), src.Len()))
	for i := 0; i < int(n); i++ {
		v, err := elem.read(src)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
