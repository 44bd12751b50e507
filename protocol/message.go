package protocol

import (
	"fmt"
	"io"
)

// Size returns the number of bytes of the encoded body of m.
func Size(m Message) (int, error) {
	st, err := m.ToStruct()
	if err != nil {
		return 0, err
	}
	return st.schema.sizeOf(st), nil
}

// Marshal returns the encoded body of m.
func Marshal(m Message) ([]byte, error) {
	st, err := m.ToStruct()
	if err != nil {
		return nil, err
	}
	return st.schema.append(make([]byte, 0, st.schema.sizeOf(st)), st), nil
}

// Encode writes the body of m to the front of dst and returns the number of
// bytes written. It fails with io.ErrShortBuffer if dst is smaller than the
// size of the body, in which case dst is not modified.
func Encode(dst []byte, m Message) (int, error) {
	st, err := m.ToStruct()
	if err != nil {
		return 0, err
	}
	size := st.schema.sizeOf(st)
	if len(dst) < size {
		return 0, fmt.Errorf("%s v%d: %d bytes body in a %d bytes buffer: %w",
			m.ApiKey(), m.Version(), size, len(dst), io.ErrShortBuffer)
	}
	st.schema.append(dst[:0], st)
	return size, nil
}

func appendMessage(dst []byte, m Message) ([]byte, error) {
	st, err := m.ToStruct()
	if err != nil {
		return dst, err
	}
	return st.schema.append(dst, st), nil
}

// Equal reports whether a and b are the same kind and version of message and
// project to equal structs. Two messages built by different paths (decoded
// or constructed, with map entries in any order) compare equal when they
// carry the same content.
func Equal(a, b Message) bool {
	if a.ApiKey() != b.ApiKey() || a.Version() != b.Version() {
		return false
	}
	x, err := a.ToStruct()
	if err != nil {
		return false
	}
	y, err := b.ToStruct()
	if err != nil {
		return false
	}
	return x.Equal(y)
}

// Hash returns a digest of m consistent with Equal. Messages that cannot be
// projected hash to zero.
func Hash(m Message) uint64 {
	st, err := m.ToStruct()
	if err != nil {
		return 0
	}
	return st.Hash()
}

func decoders(k ApiKey, version int16, dir Direction) (*apiType, *Schema, error) {
	t := k.apiType()
	s := t.schema(dir, version)
	if s == nil {
		return nil, nil, &UnsupportedVersionError{ApiKey: k, Version: version}
	}
	if (dir == ResponseDirection && t.decodeRes == nil) || (dir != ResponseDirection && t.decodeReq == nil) {
		return nil, nil, errorf("%s: no %s decoder registered", k, dir)
	}
	return t, s, nil
}

func checkBound(st *Struct, s *Schema, k ApiKey, version int16) error {
	if st == nil || st.Schema() != s {
		return errorf("%s v%d: struct is not bound to the %s schema", k, version, s.Name())
	}
	return nil
}

// DecodeRequest reconstructs a typed request from a struct read with the
// catalog schema of api key k at version. Structs bound to any other schema
// are rejected.
func DecodeRequest(k ApiKey, version int16, st *Struct) (Request, error) {
	t, s, err := decoders(k, version, RequestDirection)
	if err != nil {
		return nil, err
	}
	if err := checkBound(st, s, k, version); err != nil {
		return nil, err
	}
	return t.decodeReq(st, version)
}

// DecodeResponse reconstructs a typed response from a struct read with the
// catalog schema of api key k at version. Structs bound to any other schema
// are rejected.
func DecodeResponse(k ApiKey, version int16, st *Struct) (Message, error) {
	t, s, err := decoders(k, version, ResponseDirection)
	if err != nil {
		return nil, err
	}
	if err := checkBound(st, s, k, version); err != nil {
		return nil, err
	}
	return t.decodeRes(st, version)
}

// ParseRequest decodes the body of a request of api key k at version. The
// sub-package of the api key must be imported for its decoder to be
// registered.
func ParseRequest(k ApiKey, version int16, b []byte) (Request, error) {
	return ReadRequestBody(NewSource(b), k, version)
}

// ParseResponse decodes the body of a response of api key k at version.
func ParseResponse(k ApiKey, version int16, b []byte) (Message, error) {
	return ReadResponseBody(NewSource(b), k, version)
}

// ReadRequestBody decodes a request body of api key k at version from src.
func ReadRequestBody(src *Source, k ApiKey, version int16) (Request, error) {
	t, s, err := decoders(k, version, RequestDirection)
	if err != nil {
		return nil, err
	}
	st, err := s.Read(src)
	if err != nil {
		return nil, err
	}
	return t.decodeReq(st, version)
}

// ReadResponseBody decodes a response body of api key k at version from src.
func ReadResponseBody(src *Source, k ApiKey, version int16) (Message, error) {
	t, s, err := decoders(k, version, ResponseDirection)
	if err != nil {
		return nil, err
	}
	st, err := s.Read(src)
	if err != nil {
		return nil, err
	}
	return t.decodeRes(st, version)
}

// ParseRequestPayload decodes the payload of a request frame (the bytes that
// follow the size prefix): a request header, then the body it announces.
// When the header was read but the body could not be, the header is returned
// along with the error so the caller can still answer the request.
func ParseRequestPayload(b []byte) (RequestHeader, Request, error) {
	src := NewSource(b)
	h, err := ParseRequestHeader(src)
	if err != nil {
		return h, nil, err
	}
	req, err := ReadRequestBody(src, h.ApiKey, h.ApiVersion)
	return h, req, err
}

// ParseResponsePayload decodes the payload of a response frame, given the api
// key and version of the request it answers.
func ParseResponsePayload(b []byte, k ApiKey, version int16) (ResponseHeader, Message, error) {
	src := NewSource(b)
	h, err := ParseResponseHeader(src)
	if err != nil {
		return h, nil, err
	}
	res, err := ReadResponseBody(src, k, version)
	return h, res, err
}

// NewRequestBuilder starts the projection of a request of api key k at
// version. When the catalog has no such schema the builder discards every
// field and Build reports an *UnsupportedVersionError.
func NewRequestBuilder(k ApiKey, version int16) *Builder {
	return builderFor(k, version, RequestDirection)
}

// NewResponseBuilder is the response counterpart of NewRequestBuilder.
func NewResponseBuilder(k ApiKey, version int16) *Builder {
	return builderFor(k, version, ResponseDirection)
}

func builderFor(k ApiKey, version int16, dir Direction) *Builder {
	s, err := SchemaFor(k, version, dir)
	if err != nil {
		return &Builder{err: &err}
	}
	return NewBuilder(s)
}

// ParseStruct reads b with the catalog schema of api key k at version, in
// the given direction.
func ParseStruct(k ApiKey, version int16, dir Direction, b []byte) (*Struct, error) {
	s, err := SchemaFor(k, version, dir)
	if err != nil {
		return nil, err
	}
	return s.Read(NewSource(b))
}

// RequestDecoderOf adapts the typed decode function of a request type for
// Register.
func RequestDecoderOf[T Request](decode func(*Struct, int16) (T, error)) RequestDecoder {
	return func(s *Struct, version int16) (Request, error) {
		r, err := decode(s, version)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// ResponseDecoderOf adapts the typed decode function of a response type for
// Register.
func ResponseDecoderOf[T Message](decode func(*Struct, int16) (T, error)) ResponseDecoder {
	return func(s *Struct, version int16) (Message, error) {
		r, err := decode(s, version)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
