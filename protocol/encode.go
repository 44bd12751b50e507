package protocol

import (
	"github.com/twmb/franz-go/pkg/kbin"
)

// Append encodes v as type t at the end of dst and returns the extended
// slice. The value is validated first, an unrepresentable value leaves dst
// unchanged and returns a *ValueError.
func Append(dst []byte, t Type, v any) ([]byte, error) {
	c, err := t.coerce(v)
	if err != nil {
		return dst, err
	}
	return t.append(dst, c), nil
}

func (int8Type) append(dst []byte, v any) []byte  { return kbin.AppendInt8(dst, v.(int8)) }
func (int16Type) append(dst []byte, v any) []byte { return kbin.AppendInt16(dst, v.(int16)) }
func (int32Type) append(dst []byte, v any) []byte { return kbin.AppendInt32(dst, v.(int32)) }
func (int64Type) append(dst []byte, v any) []byte { return kbin.AppendInt64(dst, v.(int64)) }

func (boolType) append(dst []byte, v any) []byte {
	if v.(bool) {
		return kbin.AppendInt8(dst, 1)
	}
	return kbin.AppendInt8(dst, 0)
}

func (t stringType) append(dst []byte, v any) []byte {
	if !t.nullable {
		return writeString(dst, v.(string))
	}
	return writeNullString(dst, v.(NullString))
}

func (t bytesType) append(dst []byte, v any) []byte {
	b := v.([]byte)
	if t.nullable && b == nil {
		return kbin.AppendInt32(dst, -1)
	}
	return writeBytes(dst, b)
}

func (a *Array) append(dst []byte, v any) []byte {
	items := v.([]any)
	if items == nil {
		return kbin.AppendInt32(dst, -1)
	}
	elem := a.ElemType()
	dst = kbin.AppendInt32(dst, int32(len(items)))
	for _, item := range items {
		dst = elem.append(dst, item)
	}
	return dst
}

func writeString(dst []byte, s string) []byte {
	dst = kbin.AppendInt16(dst, int16(len(s)))
	return append(dst, s...)
}

func writeNullString(dst []byte, s NullString) []byte {
	if !s.Valid {
		return kbin.AppendInt16(dst, -1)
	}
	return writeString(dst, s.String)
}

func writeBytes(dst []byte, b []byte) []byte {
	dst = kbin.AppendInt32(dst, int32(len(b)))
	return append(dst, b...)
}
