package fetch

import (
	"math"

	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.Fetch,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

const (
	// ConsumerReplicaID is the replica id sent by consumers, as opposed to
	// followers replicating a partition.
	ConsumerReplicaID int32 = -1
	// DefaultMaxBytes is the response size limit of versions that predate it.
	DefaultMaxBytes int32 = math.MaxInt32
	// NoHighWatermark is reported for partitions that could not be read.
	NoHighWatermark int64 = -1
)

// Request fetches records from a list of partitions. The order of the list is
// significant: from v3, brokers fill the response in request order until
// MaxBytes is reached.
type Request struct {
	ApiVersion  int16
	ReplicaID   int32
	MaxWaitTime int32
	MinBytes    int32
	// MaxBytes is carried from v3. Requests decoded at older versions report
	// DefaultMaxBytes.
	MaxBytes   int32
	Partitions []RequestPartition
}

type RequestPartition struct {
	protocol.TopicPartition
	FetchOffset int64
	MaxBytes    int32
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.Fetch }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.Fetch, r.ApiVersion)

	var topics []*protocol.Struct
	for _, batch := range batchByTopic(r.Partitions, func(p RequestPartition) string { return p.Topic }) {
		tb := b.Child("topics")
		partitions := make([]*protocol.Struct, len(batch))
		for i, p := range batch {
			partitions[i] = tb.Child("partitions").
				Set("partition", p.Partition).
				Set("fetch_offset", p.FetchOffset).
				Set("max_bytes", p.MaxBytes).
				Struct()
		}
		topics = append(topics, tb.Set("topic", batch[0].Topic).Set("partitions", partitions).Struct())
	}

	return b.Set("replica_id", r.ReplicaID).
		Set("max_wait_time", r.MaxWaitTime).
		Set("min_bytes", r.MinBytes).
		Set("max_bytes", r.MaxBytes).
		Set("topics", protocol.NonNil(topics)).
		Build()
}

// ErrorResponse reports the error for every requested partition, in request
// order, with no high watermark and an empty record set.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Responses:  make([]PartitionResponse, len(r.Partitions)),
	}
	for i, p := range r.Partitions {
		res.Responses[i] = PartitionResponse{
			TopicPartition: p.TopicPartition,
			ErrorCode:      code,
			HighWatermark:  NoHighWatermark,
			RecordSet:      []byte{},
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:  version,
		ReplicaID:   v.Int32("replica_id"),
		MaxWaitTime: v.Int32("max_wait_time"),
		MinBytes:    v.Int32("min_bytes"),
		MaxBytes:    v.Int32("max_bytes"),
		Partitions:  []RequestPartition{},
	}
	for _, t := range v.Structs("topics") {
		topic := t.String("topic")
		for _, p := range t.Structs("partitions") {
			r.Partitions = append(r.Partitions, RequestPartition{
				TopicPartition: protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")},
				FetchOffset:    p.Int64("fetch_offset"),
				MaxBytes:       p.Int32("max_bytes"),
			})
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.Fetch, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion     int16
	ThrottleTimeMS int32
	Responses      []PartitionResponse
}

type PartitionResponse struct {
	protocol.TopicPartition
	ErrorCode     int16
	HighWatermark int64
	// RecordSet holds the encoded records read from the partition. It is
	// opaque to this package.
	RecordSet []byte
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.Fetch }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.Fetch, r.ApiVersion)

	var topics []*protocol.Struct
	for _, batch := range batchByTopic(r.Responses, func(p PartitionResponse) string { return p.Topic }) {
		tb := b.Child("responses")
		responses := make([]*protocol.Struct, len(batch))
		for i, p := range batch {
			pb := tb.Child("partition_responses")
			header := pb.Child("partition_header").
				Set("partition", p.Partition).
				Set("error_code", p.ErrorCode).
				Set("high_watermark", p.HighWatermark)
			responses[i] = pb.Set("partition_header", header.Struct()).
				Set("record_set", protocol.OrEmpty(p.RecordSet)).
				Struct()
		}
		topics = append(topics, tb.Set("topic", batch[0].Topic).Set("partition_responses", responses).Struct())
	}

	return b.Set("throttle_time_ms", r.ThrottleTimeMS).
		Set("responses", protocol.NonNil(topics)).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:     version,
		ThrottleTimeMS: v.Int32("throttle_time_ms"),
		Responses:      []PartitionResponse{},
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			h := p.Struct("partition_header")
			r.Responses = append(r.Responses, PartitionResponse{
				TopicPartition: protocol.TopicPartition{Topic: topic, Partition: h.Int32("partition")},
				ErrorCode:      h.Int16("error_code"),
				HighWatermark:  h.Int64("high_watermark"),
				RecordSet:      p.Bytes("record_set"),
			})
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.Fetch, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}

// batchByTopic splits items into runs of consecutive items of the same topic.
// A topic that reappears after another one starts a new run, so the wire
// order of partitions is the order of items.
func batchByTopic[T any](items []T, topicOf func(T) string) [][]T {
	var batches [][]T
	for i := 0; i < len(items); {
		j := i + 1
		for j < len(items) && topicOf(items[j]) == topicOf(items[i]) {
			j++
		}
		batches = append(batches, items[i:j])
		i = j
	}
	return batches
}
