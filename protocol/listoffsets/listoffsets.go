// Package listoffsets implements the ListOffsets api. The shape of the
// messages changed in v1: v0 requests ask for up to a number of offsets
// before a timestamp and receive a list, v1 requests ask for the single
// offset of a timestamp. RequestV0 and ResponseV0 model v0, Request and
// Response model v1.
package listoffsets

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.ListOffsets,
		func(s *protocol.Struct, version int16) (protocol.Request, error) {
			if version == 0 {
				return decodeRequest(RequestV0FromStruct(s))
			}
			return decodeRequest(RequestFromStruct(s, version))
		},
		func(s *protocol.Struct, version int16) (protocol.Message, error) {
			if version == 0 {
				return decodeResponse(ResponseV0FromStruct(s))
			}
			return decodeResponse(ResponseFromStruct(s, version))
		},
	)
}

func decodeRequest[T protocol.Request](r T, err error) (protocol.Request, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func decodeResponse[T protocol.Message](r T, err error) (protocol.Message, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

const (
	// LatestTimestamp asks for the offset of the next message appended to a
	// partition.
	LatestTimestamp int64 = -1
	// EarliestTimestamp asks for the first offset available in a partition.
	EarliestTimestamp int64 = -2
	// ConsumerReplicaID is the replica id sent by clients.
	ConsumerReplicaID int32 = -1
	// NoOffset is reported for partitions whose offset could not be listed.
	NoOffset int64 = -1
)

// Request asks for the earliest offset whose timestamp is greater than or
// equal to the timestamp given for each partition. It supports v1 only.
type Request struct {
	ApiVersion int16
	ReplicaID  int32
	Timestamps map[protocol.TopicPartition]int64
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.ListOffsets }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	if r.ApiVersion == 0 {
		return nil, &protocol.UnsupportedVersionError{ApiKey: protocol.ListOffsets, Version: 0}
	}
	b := protocol.NewRequestBuilder(protocol.ListOffsets, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Timestamps))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("topics")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			ps[j] = tb.Child("partitions").
				Set("partition", p).
				Set("timestamp", r.Timestamps[protocol.TopicPartition{Topic: name, Partition: p}]).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partitions", ps).Struct()
	}

	return b.Set("replica_id", r.ReplicaID).
		Set("topics", topics).
		Build()
}

// ErrorResponse reports the error for every partition, with no timestamp and
// no offset.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Responses:  make(map[protocol.TopicPartition]PartitionResponse, len(r.Timestamps)),
	}
	for tp := range r.Timestamps {
		res.Responses[tp] = PartitionResponse{
			ErrorCode: code,
			Timestamp: protocol.NoTimestamp,
			Offset:    NoOffset,
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		ReplicaID:  v.Int32("replica_id"),
		Timestamps: make(map[protocol.TopicPartition]int64),
	}
	for _, t := range v.Structs("topics") {
		topic := t.String("topic")
		for _, p := range t.Structs("partitions") {
			r.Timestamps[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = p.Int64("timestamp")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseRequest decodes a v1 request.
func ParseRequest(b []byte, version int16) (*Request, error) {
	if version == 0 {
		return nil, &protocol.UnsupportedVersionError{ApiKey: protocol.ListOffsets, Version: 0}
	}
	s, err := protocol.ParseStruct(protocol.ListOffsets, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	Responses  map[protocol.TopicPartition]PartitionResponse
}

type PartitionResponse struct {
	ErrorCode int16
	Timestamp int64
	Offset    int64
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.ListOffsets }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	if r.ApiVersion == 0 {
		return nil, &protocol.UnsupportedVersionError{ApiKey: protocol.ListOffsets, Version: 0}
	}
	b := protocol.NewResponseBuilder(protocol.ListOffsets, r.ApiVersion)

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
				Set("timestamp", res.Timestamp).
				Set("offset", res.Offset).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partition_responses", ps).Struct()
	}

	return b.Set("responses", topics).Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		Responses:  make(map[protocol.TopicPartition]PartitionResponse),
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			r.Responses[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = PartitionResponse{
				ErrorCode: p.Int16("error_code"),
				Timestamp: p.Int64("timestamp"),
				Offset:    p.Int64("offset"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseResponse decodes a v1 response.
func ParseResponse(b []byte, version int16) (*Response, error) {
	if version == 0 {
		return nil, &protocol.UnsupportedVersionError{ApiKey: protocol.ListOffsets, Version: 0}
	}
	s, err := protocol.ParseStruct(protocol.ListOffsets, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
