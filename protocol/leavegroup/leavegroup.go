package leavegroup

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.LeaveGroup,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
	GroupID    string
	MemberID   string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.LeaveGroup }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.LeaveGroup, r.ApiVersion).
		Set("group_id", r.GroupID).
		Set("member_id", r.MemberID).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  int16(protocol.CodeFor(cause)),
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		GroupID:    v.String("group_id"),
		MemberID:   v.String("member_id"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.LeaveGroup, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.LeaveGroup }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	return protocol.NewResponseBuilder(protocol.LeaveGroup, r.ApiVersion).
		Set("error_code", r.ErrorCode).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{ApiVersion: version, ErrorCode: v.Int16("error_code")}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.LeaveGroup, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
