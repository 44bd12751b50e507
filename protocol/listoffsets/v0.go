package listoffsets

import "github.com/kwire/kafka-protocol/protocol"

// RequestV0 asks for up to MaxNumOffsets offsets of each partition, starting
// before a timestamp.
type RequestV0 struct {
	ReplicaID  int32
	Partitions map[protocol.TopicPartition]PartitionDataV0
}

type PartitionDataV0 struct {
	Timestamp     int64
	MaxNumOffsets int32
}

func (r *RequestV0) ApiKey() protocol.ApiKey { return protocol.ListOffsets }

func (r *RequestV0) Version() int16 { return 0 }

func (r *RequestV0) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.ListOffsets, 0)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Partitions))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("topics")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			data := r.Partitions[protocol.TopicPartition{Topic: name, Partition: p}]
			ps[j] = tb.Child("partitions").
				Set("partition", p).
				Set("timestamp", data.Timestamp).
				Set("max_num_offsets", data.MaxNumOffsets).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partitions", ps).Struct()
	}

	return b.Set("replica_id", r.ReplicaID).
		Set("topics", topics).
		Build()
}

// ErrorResponse reports the error for every partition with an empty list of
// offsets.
func (r *RequestV0) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &ResponseV0{
		Responses: make(map[protocol.TopicPartition]PartitionResponseV0, len(r.Partitions)),
	}
	for tp := range r.Partitions {
		res.Responses[tp] = PartitionResponseV0{ErrorCode: code, Offsets: []int64{}}
	}
	return res
}

func RequestV0FromStruct(s *protocol.Struct) (*RequestV0, error) {
	v := protocol.NewView(s)
	r := &RequestV0{
		ReplicaID:  v.Int32("replica_id"),
		Partitions: make(map[protocol.TopicPartition]PartitionDataV0),
	}
	for _, t := range v.Structs("topics") {
		topic := t.String("topic")
		for _, p := range t.Structs("partitions") {
			r.Partitions[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = PartitionDataV0{
				Timestamp:     p.Int64("timestamp"),
				MaxNumOffsets: p.Int32("max_num_offsets"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequestV0(b []byte) (*RequestV0, error) {
	s, err := protocol.ParseStruct(protocol.ListOffsets, 0, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestV0FromStruct(s)
}

type ResponseV0 struct {
	Responses map[protocol.TopicPartition]PartitionResponseV0
}

type PartitionResponseV0 struct {
	ErrorCode int16
	// Offsets are listed in descending order.
	Offsets []int64
}

func (r *ResponseV0) ApiKey() protocol.ApiKey { return protocol.ListOffsets }

func (r *ResponseV0) Version() int16 { return 0 }

func (r *ResponseV0) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.ListOffsets, 0)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Responses))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("responses")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			res := r.Responses[protocol.TopicPartition{Topic: name, Partition: p}]
			ps[j] = tb.Child("partition_responses").
				Set("partition", p).
				Set("error_code", res.ErrorCode).
				Set("offsets", protocol.NonNil(res.Offsets)).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partition_responses", ps).Struct()
	}

	return b.Set("responses", topics).Build()
}

func ResponseV0FromStruct(s *protocol.Struct) (*ResponseV0, error) {
	v := protocol.NewView(s)
	r := &ResponseV0{
		Responses: make(map[protocol.TopicPartition]PartitionResponseV0),
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			r.Responses[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = PartitionResponseV0{
				ErrorCode: p.Int16("error_code"),
				Offsets:   p.Int64s("offsets"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponseV0(b []byte) (*ResponseV0, error) {
	s, err := protocol.ParseStruct(protocol.ListOffsets, 0, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseV0FromStruct(s)
}
