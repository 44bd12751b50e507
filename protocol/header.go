package protocol

var requestHeaderSchema = NewSchema("RequestHeader",
	Field{Name: "api_key", Type: Int16},
	Field{Name: "api_version", Type: Int16},
	Field{Name: "correlation_id", Type: Int32},
	Field{Name: "client_id", Type: NullableString},
)

var responseHeaderSchema = NewSchema("ResponseHeader",
	Field{Name: "correlation_id", Type: Int32},
)

// Header is the common interface of request and response headers, which
// prefix message bodies in frames.
type Header interface {
	Size() int
	AppendTo(dst []byte) []byte
}

// RequestHeader prefixes every request body. Fields are declared in wire
// order: api_key, api_version, correlation_id, client_id.
type RequestHeader struct {
	ApiKey        ApiKey
	ApiVersion    int16
	CorrelationID int32
	// The client id is nullable on the wire, an absent id reads as "".
	ClientID string
}

// NewRequestHeader constructs a header, coercing an absent client id to "".
func NewRequestHeader(k ApiKey, version int16, clientID NullString, correlationID int32) RequestHeader {
	return RequestHeader{
		ApiKey:        k,
		ApiVersion:    version,
		CorrelationID: correlationID,
		ClientID:      clientID.String,
	}
}

func (h RequestHeader) ToStruct() *Struct {
	st := NewStruct(requestHeaderSchema)
	st.values[0] = int16(h.ApiKey)
	st.values[1] = h.ApiVersion
	st.values[2] = h.CorrelationID
	st.values[3] = NewNullString(h.ClientID)
	return st
}

func (h RequestHeader) Size() int { return requestHeaderSchema.sizeOf(h.ToStruct()) }

func (h RequestHeader) AppendTo(dst []byte) []byte {
	return requestHeaderSchema.append(dst, h.ToStruct())
}

// Validate reports a *ValueError when the client id is too long for its
// int16 length prefix.
func (h RequestHeader) Validate() error {
	if _, err := NullableString.coerce(h.ClientID); err != nil {
		return err.(*ValueError).within("client_id")
	}
	return nil
}

// ResponseHeader returns the header of the response to the request.
func (h RequestHeader) ResponseHeader() ResponseHeader {
	return ResponseHeader{CorrelationID: h.CorrelationID}
}

// RequestHeaderFromStruct reconstructs a header read with the request
// header schema.
func RequestHeaderFromStruct(st *Struct) (RequestHeader, error) {
	v := NewView(st)
	h := RequestHeader{
		ApiKey:        ApiKey(v.Int16("api_key")),
		ApiVersion:    v.Int16("api_version"),
		CorrelationID: v.Int32("correlation_id"),
		ClientID:      v.String("client_id"),
	}
	return h, v.Err()
}

// ParseRequestHeader reads a request header from the front of src, leaving
// the cursor at the first byte of the body.
func ParseRequestHeader(src *Source) (RequestHeader, error) {
	st, err := requestHeaderSchema.Read(src)
	if err != nil {
		return RequestHeader{}, err
	}
	return RequestHeaderFromStruct(st)
}

// ResponseHeader prefixes every response body.
type ResponseHeader struct {
	CorrelationID int32
}

func NewResponseHeader(correlationID int32) ResponseHeader {
	return ResponseHeader{CorrelationID: correlationID}
}

func (h ResponseHeader) ToStruct() *Struct {
	st := NewStruct(responseHeaderSchema)
	st.values[0] = h.CorrelationID
	return st
}

func (h ResponseHeader) Size() int { return 4 }

func (h ResponseHeader) AppendTo(dst []byte) []byte {
	return responseHeaderSchema.append(dst, h.ToStruct())
}

func ResponseHeaderFromStruct(st *Struct) (ResponseHeader, error) {
	v := NewView(st)
	h := ResponseHeader{CorrelationID: v.Int32("correlation_id")}
	return h, v.Err()
}

// ParseResponseHeader reads a response header from the front of src.
func ParseResponseHeader(src *Source) (ResponseHeader, error) {
	st, err := responseHeaderSchema.Read(src)
	if err != nil {
		return ResponseHeader{}, err
	}
	return ResponseHeaderFromStruct(st)
}
