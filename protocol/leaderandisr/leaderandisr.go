// Package leaderandisr implements the LeaderAndIsr api, sent by the
// controller to brokers to assign partition leaders and followers.
package leaderandisr

import (
	"cmp"
	"slices"

	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.LeaderAndIsr,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

// PartitionState is the replication state of a partition as decided by the
// controller. UpdateMetadata requests carry it too.
type PartitionState struct {
	ControllerEpoch int32
	Leader          int32
	LeaderEpoch     int32
	ISR             []int32
	ZkVersion       int32
	Replicas        []int32
}

// ProjectPartitionStates builds the elements of the array field of b holding
// partition states, ordered by topic and partition.
func ProjectPartitionStates(b *protocol.Builder, field string, states map[protocol.TopicPartition]PartitionState) []*protocol.Struct {
	tps := protocol.KeysOf(states)
	protocol.SortTopicPartitions(tps)

	out := make([]*protocol.Struct, len(tps))
	for i, tp := range tps {
		s := states[tp]
		out[i] = b.Child(field).
			Set("topic", tp.Topic).
			Set("partition", tp.Partition).
			Set("controller_epoch", s.ControllerEpoch).
			Set("leader", s.Leader).
			Set("leader_epoch", s.LeaderEpoch).
			Set("isr", protocol.NonNil(s.ISR)).
			Set("zk_version", s.ZkVersion).
			Set("replicas", protocol.NonNil(s.Replicas)).
			Struct()
	}
	return out
}

// ReadPartitionStates is the inverse of ProjectPartitionStates.
func ReadPartitionStates(v *protocol.View, field string) map[protocol.TopicPartition]PartitionState {
	states := make(map[protocol.TopicPartition]PartitionState)
	for _, s := range v.Structs(field) {
		tp := protocol.TopicPartition{Topic: s.String("topic"), Partition: s.Int32("partition")}
		states[tp] = PartitionState{
			ControllerEpoch: s.Int32("controller_epoch"),
			Leader:          s.Int32("leader"),
			LeaderEpoch:     s.Int32("leader_epoch"),
			ISR:             s.Int32s("isr"),
			ZkVersion:       s.Int32("zk_version"),
			Replicas:        s.Int32s("replicas"),
		}
	}
	return states
}

type Request struct {
	ApiVersion      int16
	ControllerID    int32
	ControllerEpoch int32
	PartitionStates map[protocol.TopicPartition]PartitionState
	// LiveLeaders is the set of brokers leading the partitions of the
	// request. It is sent ordered by broker id.
	LiveLeaders []protocol.Node
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.LeaderAndIsr }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.LeaderAndIsr, r.ApiVersion)

	leaders := slices.Clone(r.LiveLeaders)
	slices.SortFunc(leaders, func(a, b protocol.Node) int { return cmp.Compare(a.ID, b.ID) })

	live := make([]*protocol.Struct, len(leaders))
	for i, n := range leaders {
		live[i] = b.Child("live_leaders").
			Set("id", n.ID).
			Set("host", n.Host).
			Set("port", n.Port).
			Struct()
	}

	return b.Set("controller_id", r.ControllerID).
		Set("controller_epoch", r.ControllerEpoch).
		Set("partition_states", ProjectPartitionStates(b, "partition_states", r.PartitionStates)).
		Set("live_leaders", live).
		Build()
}

// ErrorResponse reports the error at the top level and for every partition
// of the request.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  code,
		Partitions: make(map[protocol.TopicPartition]int16, len(r.PartitionStates)),
	}
	for tp := range r.PartitionStates {
		res.Partitions[tp] = code
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:      version,
		ControllerID:    v.Int32("controller_id"),
		ControllerEpoch: v.Int32("controller_epoch"),
		PartitionStates: ReadPartitionStates(v, "partition_states"),
		LiveLeaders:     []protocol.Node{},
	}
	for _, n := range v.Structs("live_leaders") {
		r.LiveLeaders = append(r.LiveLeaders, protocol.Node{
			ID:   n.Int32("id"),
			Host: n.String("host"),
			Port: n.Int32("port"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.LeaderAndIsr, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
	// Partitions holds the error code of each partition of the request.
	Partitions map[protocol.TopicPartition]int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.LeaderAndIsr }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.LeaderAndIsr, r.ApiVersion)
	return b.Set("error_code", r.ErrorCode).
		Set("partitions", ProjectPartitionErrors(b, "partitions", r.Partitions)).
		Build()
}

// ProjectPartitionErrors builds the elements of the array field of b holding
// per-partition error codes, ordered by topic and partition.
func ProjectPartitionErrors(b *protocol.Builder, field string, codes map[protocol.TopicPartition]int16) []*protocol.Struct {
	tps := protocol.KeysOf(codes)
	protocol.SortTopicPartitions(tps)

	out := make([]*protocol.Struct, len(tps))
	for i, tp := range tps {
		out[i] = b.Child(field).
			Set("topic", tp.Topic).
			Set("partition", tp.Partition).
			Set("error_code", codes[tp]).
			Struct()
	}
	return out
}

// ReadPartitionErrors is the inverse of ProjectPartitionErrors.
func ReadPartitionErrors(v *protocol.View, field string) map[protocol.TopicPartition]int16 {
	codes := make(map[protocol.TopicPartition]int16)
	for _, p := range v.Structs(field) {
		codes[protocol.TopicPartition{Topic: p.String("topic"), Partition: p.Int32("partition")}] = p.Int16("error_code")
	}
	return codes
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		ErrorCode:  v.Int16("error_code"),
		Partitions: ReadPartitionErrors(v, "partitions"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.LeaderAndIsr, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
