package apiversions

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.ApiVersions,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.ApiVersions }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.ApiVersions, r.ApiVersion).Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  int16(protocol.CodeFor(cause)),
		ApiKeys:    []ApiKeyResponse{},
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	return &Request{ApiVersion: version}, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.ApiVersions, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
	ApiKeys    []ApiKeyResponse
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.ApiVersions }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.ApiVersions, r.ApiVersion)

	keys := make([]*protocol.Struct, len(r.ApiKeys))
	for i, k := range r.ApiKeys {
		keys[i] = b.Child("api_versions").
			Set("api_key", k.ApiKey).
			Set("min_version", k.MinVersion).
			Set("max_version", k.MaxVersion).
			Struct()
	}

	return b.Set("error_code", r.ErrorCode).
		Set("api_versions", keys).
		Build()
}

// Lookup returns the version range advertised for an api key.
func (r *Response) Lookup(k protocol.ApiKey) (ApiKeyResponse, bool) {
	for _, a := range r.ApiKeys {
		if a.ApiKey == int16(k) {
			return a, true
		}
	}
	return ApiKeyResponse{}, false
}

type ApiKeyResponse struct {
	ApiKey     int16
	MinVersion int16
	MaxVersion int16
}

// Advertise builds the response of a peer supporting the given api keys over
// the version ranges of the catalog.
func Advertise(version int16, keys ...protocol.ApiKey) *Response {
	r := &Response{
		ApiVersion: version,
		ApiKeys:    make([]ApiKeyResponse, 0, len(keys)),
	}
	for _, k := range keys {
		r.ApiKeys = append(r.ApiKeys, ApiKeyResponse{
			ApiKey:     int16(k),
			MinVersion: k.MinVersion(),
			MaxVersion: k.MaxVersion(),
		})
	}
	return r
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		ErrorCode:  v.Int16("error_code"),
		ApiKeys:    []ApiKeyResponse{},
	}
	for _, k := range v.Structs("api_versions") {
		r.ApiKeys = append(r.ApiKeys, ApiKeyResponse{
			ApiKey:     k.Int16("api_key"),
			MinVersion: k.Int16("min_version"),
			MaxVersion: k.Int16("max_version"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.ApiVersions, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
