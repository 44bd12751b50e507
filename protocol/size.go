package protocol

// SizeOf returns the number of bytes that Append writes for v. The result is
// only meaningful for values that t can represent.
func SizeOf(t Type, v any) int {
	c, err := t.coerce(v)
	if err != nil {
		return 0
	}
	return t.sizeOf(c)
}

func (int8Type) sizeOf(any) int  { return 1 }
func (int16Type) sizeOf(any) int { return 2 }
func (int32Type) sizeOf(any) int { return 4 }
func (int64Type) sizeOf(any) int { return 8 }
func (boolType) sizeOf(any) int  { return 1 }

func (t stringType) sizeOf(v any) int {
	if !t.nullable {
		return sizeOfString(v.(string))
	}
	return sizeOfNullString(v.(NullString))
}

func (t bytesType) sizeOf(v any) int {
	return sizeOfBytes(v.([]byte))
}

func (a *Array) sizeOf(v any) int {
	elem := a.ElemType()
	size := 4
	for _, item := range v.([]any) {
		size += elem.sizeOf(item)
	}
	return size
}

func sizeOfString(s string) int {
	return 2 + len(s)
}

func sizeOfNullString(s NullString) int {
	if !s.Valid {
		return 2
	}
	return 2 + len(s.String)
}

func sizeOfBytes(b []byte) int {
	return 4 + len(b)
}
