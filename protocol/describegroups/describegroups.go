package describegroups

import "github.com/kwire/kafka-protocol/protocol"

// State is the state of a consumer group as reported by its coordinator.
type State string

const (
	Dead               State = "Dead"
	Stable             State = "Stable"
	AwaitingSync       State = "AwaitingSync"
	PreparingRebalance State = "PreparingRebalance"
	Empty              State = "Empty"
)

func init() {
	protocol.Register(protocol.DescribeGroups,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
	GroupIDs   []string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.DescribeGroups }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.DescribeGroups, r.ApiVersion).
		Set("group_ids", protocol.NonNil(r.GroupIDs)).
		Build()
}

// ErrorResponse reports the error for every requested group, with no state,
// protocol, or members.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Groups:     make([]Group, len(r.GroupIDs)),
	}
	for i, groupID := range r.GroupIDs {
		res.Groups[i] = Group{
			ErrorCode: code,
			GroupID:   groupID,
			Members:   []GroupMember{},
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		GroupIDs:   v.Strings("group_ids"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.DescribeGroups, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	Groups     []Group
}

type Group struct {
	ErrorCode    int16
	GroupID      string
	State        State
	ProtocolType string
	Protocol     string
	Members      []GroupMember
}

type GroupMember struct {
	MemberID         string
	ClientID         string
	ClientHost       string
	MemberMetadata   []byte
	MemberAssignment []byte
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.DescribeGroups }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.DescribeGroups, r.ApiVersion)

	groups := make([]*protocol.Struct, len(r.Groups))
	for i, g := range r.Groups {
		gb := b.Child("groups")

		members := make([]*protocol.Struct, len(g.Members))
		for j, m := range g.Members {
			members[j] = gb.Child("members").
				Set("member_id", m.MemberID).
				Set("client_id", m.ClientID).
				Set("client_host", m.ClientHost).
				Set("member_metadata", protocol.OrEmpty(m.MemberMetadata)).
				Set("member_assignment", protocol.OrEmpty(m.MemberAssignment)).
				Struct()
		}

		groups[i] = gb.Set("error_code", g.ErrorCode).
			Set("group_id", g.GroupID).
			Set("state", string(g.State)).
			Set("protocol_type", g.ProtocolType).
			Set("protocol", g.Protocol).
			Set("members", members).
			Struct()
	}

	return b.Set("groups", groups).Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		Groups:     []Group{},
	}
	for _, g := range v.Structs("groups") {
		group := Group{
			ErrorCode:    g.Int16("error_code"),
			GroupID:      g.String("group_id"),
			State:        State(g.String("state")),
			ProtocolType: g.String("protocol_type"),
			Protocol:     g.String("protocol"),
			Members:      []GroupMember{},
		}
		for _, m := range g.Structs("members") {
			group.Members = append(group.Members, GroupMember{
				MemberID:         m.String("member_id"),
				ClientID:         m.String("client_id"),
				ClientHost:       m.String("client_host"),
				MemberMetadata:   m.Bytes("member_metadata"),
				MemberAssignment: m.Bytes("member_assignment"),
			})
		}
		r.Groups = append(r.Groups, group)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.DescribeGroups, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
