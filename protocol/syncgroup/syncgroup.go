package syncgroup

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.SyncGroup,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion   int16
	GroupID      string
	GenerationID int32
	MemberID     string
	// Assignments computed by the group leader, keyed by member id. Other
	// members send no assignments.
	Assignments map[string][]byte
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.SyncGroup }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.SyncGroup, r.ApiVersion)

	assignments := make([]*protocol.Struct, 0, len(r.Assignments))
	for _, memberID := range protocol.SortedKeys(r.Assignments) {
		a := b.Child("group_assignment").
			Set("member_id", memberID).
			Set("member_assignment", protocol.OrEmpty(r.Assignments[memberID]))
		assignments = append(assignments, a.Struct())
	}

	return b.Set("group_id", r.GroupID).
		Set("generation_id", r.GenerationID).
		Set("member_id", r.MemberID).
		Set("group_assignment", assignments).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion:       r.ApiVersion,
		ErrorCode:        int16(protocol.CodeFor(cause)),
		MemberAssignment: []byte{},
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:   version,
		GroupID:      v.String("group_id"),
		GenerationID: v.Int32("generation_id"),
		MemberID:     v.String("member_id"),
		Assignments:  make(map[string][]byte),
	}
	for _, a := range v.Structs("group_assignment") {
		r.Assignments[a.String("member_id")] = a.Bytes("member_assignment")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.SyncGroup, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion       int16
	ErrorCode        int16
	MemberAssignment []byte
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.SyncGroup }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	return protocol.NewResponseBuilder(protocol.SyncGroup, r.ApiVersion).
		Set("error_code", r.ErrorCode).
		Set("member_assignment", protocol.OrEmpty(r.MemberAssignment)).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:       version,
		ErrorCode:        v.Int16("error_code"),
		MemberAssignment: v.Bytes("member_assignment"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.SyncGroup, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
