package listgroups

import (
	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.ListGroups,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.ListGroups }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.ListGroups, r.ApiVersion).Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  int16(protocol.CodeFor(cause)),
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	return &Request{ApiVersion: version}, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.ListGroups, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
	Groups     []Group
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.ListGroups }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.ListGroups, r.ApiVersion)

	groups := make([]*protocol.Struct, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = b.Child("groups").
			Set("group_id", g.GroupID).
			Set("protocol_type", g.ProtocolType).
			Struct()
	}

	return b.Set("error_code", r.ErrorCode).
		Set("groups", groups).
		Build()
}

type Group struct {
	GroupID      string
	ProtocolType string
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		ErrorCode:  v.Int16("error_code"),
		Groups:     []Group{},
	}
	for _, g := range v.Structs("groups") {
		r.Groups = append(r.Groups, Group{
			GroupID:      g.String("group_id"),
			ProtocolType: g.String("protocol_type"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.ListGroups, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
