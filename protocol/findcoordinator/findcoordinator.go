// Package findcoordinator implements the GroupCoordinator api, which locates
// the broker coordinating a consumer group.
package findcoordinator

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.FindCoordinator,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
	GroupID    string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.FindCoordinator }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.FindCoordinator, r.ApiVersion).
		Set("group_id", r.GroupID).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion:  r.ApiVersion,
		ErrorCode:   int16(protocol.CodeFor(cause)),
		Coordinator: protocol.NoNode,
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{ApiVersion: version, GroupID: v.String("group_id")}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.FindCoordinator, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion  int16
	ErrorCode   int16
	Coordinator protocol.Node
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.FindCoordinator }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.FindCoordinator, r.ApiVersion)
	coordinator := b.Child("coordinator").
		Set("node_id", r.Coordinator.ID).
		Set("host", r.Coordinator.Host).
		Set("port", r.Coordinator.Port)
	return b.Set("error_code", r.ErrorCode).
		Set("coordinator", coordinator.Struct()).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	c := v.Struct("coordinator")
	r := &Response{
		ApiVersion: version,
		ErrorCode:  v.Int16("error_code"),
		Coordinator: protocol.Node{
			ID:   c.Int32("node_id"),
			Host: c.String("host"),
			Port: c.Int32("port"),
		},
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.FindCoordinator, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
