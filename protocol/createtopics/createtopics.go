package createtopics

import (
	"slices"

	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.CreateTopics,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

const (
	// NoNumPartitions and NoReplicationFactor are sent for topics created
	// with an explicit replica assignment.
	NoNumPartitions     int32 = -1
	NoReplicationFactor int16 = -1
)

type Request struct {
	ApiVersion int16
	Topics     map[string]TopicDetails
	TimeoutMS  int32
	// DuplicateTopics lists the topics that appeared more than once in a
	// decoded request, in ascending order. Brokers reject them. It is not
	// sent.
	DuplicateTopics []string
}

type TopicDetails struct {
	NumPartitions     int32
	ReplicationFactor int16
	// ReplicaAssignments maps partitions to the ids of their replicas, the
	// preferred leader first.
	ReplicaAssignments map[int32][]int32
	Configs            map[string]string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.CreateTopics }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.CreateTopics, r.ApiVersion)

	names := protocol.SortedKeys(r.Topics)
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		details := r.Topics[name]
		tb := b.Child("create_topic_requests")

		partitions := protocol.SortedKeys(details.ReplicaAssignments)
		assignments := make([]*protocol.Struct, len(partitions))
		for j, p := range partitions {
			assignments[j] = tb.Child("replica_assignment").
				Set("partition_id", p).
				Set("replicas", protocol.NonNil(details.ReplicaAssignments[p])).
				Struct()
		}

		keys := protocol.SortedKeys(details.Configs)
		configs := make([]*protocol.Struct, len(keys))
		for j, key := range keys {
			configs[j] = tb.Child("configs").
				Set("config_key", key).
				Set("config_value", details.Configs[key]).
				Struct()
		}

		topics[i] = tb.Set("topic", name).
			Set("num_partitions", details.NumPartitions).
			Set("replication_factor", details.ReplicationFactor).
			Set("replica_assignment", assignments).
			Set("configs", configs).
			Struct()
	}

	return b.Set("create_topic_requests", topics).
		Set("timeout", r.TimeoutMS).
		Build()
}

// ErrorResponse reports the error for every topic of the request.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Errors:     make(map[string]int16, len(r.Topics)),
	}
	for name := range r.Topics {
		res.Errors[name] = code
	}
	for _, name := range r.DuplicateTopics {
		res.Errors[name] = code
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		Topics:     make(map[string]TopicDetails),
		TimeoutMS:  v.Int32("timeout"),
	}
	for _, t := range v.Structs("create_topic_requests") {
		name := t.String("topic")
		if _, ok := r.Topics[name]; ok && !slices.Contains(r.DuplicateTopics, name) {
			r.DuplicateTopics = append(r.DuplicateTopics, name)
		}
		details := TopicDetails{
			NumPartitions:      t.Int32("num_partitions"),
			ReplicationFactor:  t.Int16("replication_factor"),
			ReplicaAssignments: make(map[int32][]int32),
			Configs:            make(map[string]string),
		}
		for _, a := range t.Structs("replica_assignment") {
			details.ReplicaAssignments[a.Int32("partition_id")] = a.Int32s("replicas")
		}
		for _, c := range t.Structs("configs") {
			details.Configs[c.String("config_key")] = c.String("config_value")
		}
		r.Topics[name] = details
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	slices.Sort(r.DuplicateTopics)
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.CreateTopics, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	// Errors holds the error code of each topic of the request.
	Errors map[string]int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.CreateTopics }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.CreateTopics, r.ApiVersion)
	return b.Set("topic_error_codes", projectTopicErrors(b, "topic_error_codes", r.Errors)).Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		Errors:     readTopicErrors(v, "topic_error_codes"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.CreateTopics, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}

func projectTopicErrors(b *protocol.Builder, field string, codes map[string]int16) []*protocol.Struct {
	names := protocol.SortedKeys(codes)
	out := make([]*protocol.Struct, len(names))
	for i, name := range names {
		out[i] = b.Child(field).
			Set("topic", name).
			Set("error_code", codes[name]).
			Struct()
	}
	return out
}

func readTopicErrors(v *protocol.View, field string) map[string]int16 {
	codes := make(map[string]int16)
	for _, t := range v.Structs(field) {
		codes[t.String("topic")] = t.Int16("error_code")
	}
	return codes
}
