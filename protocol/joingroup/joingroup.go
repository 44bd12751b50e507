package joingroup

import "github.com/kwire/kafka-protocol/protocol"

const (
	// UnknownGenerationID is the generation reported when the member could
	// not join the group.
	UnknownGenerationID int32 = -1
	// UnknownMemberID is sent by members joining a group for the first time.
	UnknownMemberID = ""
)

func init() {
	protocol.Register(protocol.JoinGroup,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion       int16
	GroupID          string
	SessionTimeoutMS int32
	// RebalanceTimeoutMS is carried from v1. Requests decoded at v0 report
	// the session timeout, which v0 brokers use for both.
	RebalanceTimeoutMS int32
	MemberID           string
	ProtocolType       string
	// Protocols are listed in order of preference.
	Protocols []RequestProtocol
}

type RequestProtocol struct {
	Name     string
	Metadata []byte
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.JoinGroup }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.JoinGroup, r.ApiVersion)

	protocols := make([]*protocol.Struct, len(r.Protocols))
	for i, p := range r.Protocols {
		protocols[i] = b.Child("group_protocols").
			Set("protocol_name", p.Name).
			Set("protocol_metadata", protocol.OrEmpty(p.Metadata)).
			Struct()
	}

	return b.Set("group_id", r.GroupID).
		Set("session_timeout", r.SessionTimeoutMS).
		Set("rebalance_timeout", r.RebalanceTimeoutMS).
		Set("member_id", r.MemberID).
		Set("protocol_type", r.ProtocolType).
		Set("group_protocols", protocols).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion:   r.ApiVersion,
		ErrorCode:    int16(protocol.CodeFor(cause)),
		GenerationID: UnknownGenerationID,
		ProtocolName: "",
		LeaderID:     UnknownMemberID,
		MemberID:     UnknownMemberID,
		Members:      map[string][]byte{},
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:       version,
		GroupID:          v.String("group_id"),
		SessionTimeoutMS: v.Int32("session_timeout"),
		MemberID:         v.String("member_id"),
		ProtocolType:     v.String("protocol_type"),
		Protocols:        []RequestProtocol{},
	}
	if v.Has("rebalance_timeout") {
		r.RebalanceTimeoutMS = v.Int32("rebalance_timeout")
	} else {
		r.RebalanceTimeoutMS = r.SessionTimeoutMS
	}
	for _, p := range v.Structs("group_protocols") {
		r.Protocols = append(r.Protocols, RequestProtocol{
			Name:     p.String("protocol_name"),
			Metadata: p.Bytes("protocol_metadata"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.JoinGroup, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion   int16
	ErrorCode    int16
	GenerationID int32
	ProtocolName string
	LeaderID     string
	MemberID     string
	// Members holds the metadata of every member of the group, keyed by
	// member id. Only the leader receives it.
	Members map[string][]byte
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.JoinGroup }

func (r *Response) Version() int16 { return r.ApiVersion }

// IsLeader reports whether the member receiving the response was elected
// leader of the group.
func (r *Response) IsLeader() bool { return r.MemberID == r.LeaderID }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.JoinGroup, r.ApiVersion)

	members := make([]*protocol.Struct, 0, len(r.Members))
	for _, memberID := range protocol.SortedKeys(r.Members) {
		members = append(members, b.Child("members").
			Set("member_id", memberID).
			Set("member_metadata", protocol.OrEmpty(r.Members[memberID])).
			Struct())
	}

	return b.Set("error_code", r.ErrorCode).
		Set("generation_id", r.GenerationID).
		Set("group_protocol", r.ProtocolName).
		Set("leader_id", r.LeaderID).
		Set("member_id", r.MemberID).
		Set("members", members).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:   version,
		ErrorCode:    v.Int16("error_code"),
		GenerationID: v.Int32("generation_id"),
		ProtocolName: v.String("group_protocol"),
		LeaderID:     v.String("leader_id"),
		MemberID:     v.String("member_id"),
		Members:      make(map[string][]byte),
	}
	for _, m := range v.Structs("members") {
		r.Members[m.String("member_id")] = m.Bytes("member_metadata")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.JoinGroup, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
