package saslhandshake

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.SaslHandshake,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

// Request announces the SASL mechanism a client wants to authenticate with.
// The authentication exchange that follows is not part of this package.
type Request struct {
	ApiVersion int16
	Mechanism  string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.SaslHandshake }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.SaslHandshake, r.ApiVersion).
		Set("mechanism", r.Mechanism).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion:        r.ApiVersion,
		ErrorCode:         int16(protocol.CodeFor(cause)),
		EnabledMechanisms: []string{},
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{ApiVersion: version, Mechanism: v.String("mechanism")}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.SaslHandshake, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion        int16
	ErrorCode         int16
	EnabledMechanisms []string
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.SaslHandshake }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	mechanisms := r.EnabledMechanisms
	if mechanisms == nil {
		mechanisms = []string{}
	}
	return protocol.NewResponseBuilder(protocol.SaslHandshake, r.ApiVersion).
		Set("error_code", r.ErrorCode).
		Set("enabled_mechanisms", mechanisms).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:        version,
		ErrorCode:         v.Int16("error_code"),
		EnabledMechanisms: v.Strings("enabled_mechanisms"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.SaslHandshake, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
