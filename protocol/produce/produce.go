package produce

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.Produce,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

const (
	// NoOffset is the base offset reported for partitions that were not
	// written to.
	NoOffset int64 = -1
	// DefaultThrottleTimeMS is the throttle time of responses to versions
	// that predate it.
	DefaultThrottleTimeMS int32 = 0
)

type Request struct {
	ApiVersion int16
	Acks       int16
	Timeout    int32
	// RecordSets holds the encoded record set sent to each partition. Record
	// sets are opaque to this package.
	RecordSets map[protocol.TopicPartition][]byte
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.Produce }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.Produce, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.RecordSets))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("topic_data")
		data := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			data[j] = tb.Child("data").
				Set("partition", p).
				Set("record_set", protocol.OrEmpty(r.RecordSets[protocol.TopicPartition{Topic: name, Partition: p}])).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("data", data).Struct()
	}

	return b.Set("acks", r.Acks).
		Set("timeout", r.Timeout).
		Set("topic_data", topics).
		Build()
}

// ErrorResponse reports the error for every partition of the request. It is
// built even for requests with acks=0, which brokers do not answer; callers
// decide whether to send it.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Responses:  make(map[protocol.TopicPartition]PartitionResponse, len(r.RecordSets)),
	}
	for tp := range r.RecordSets {
		res.Responses[tp] = PartitionResponse{
			ErrorCode:  code,
			BaseOffset: NoOffset,
			Timestamp:  protocol.NoTimestamp,
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		Acks:       v.Int16("acks"),
		Timeout:    v.Int32("timeout"),
		RecordSets: make(map[protocol.TopicPartition][]byte),
	}
	for _, t := range v.Structs("topic_data") {
		topic := t.String("topic")
		for _, p := range t.Structs("data") {
			tp := protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}
			r.RecordSets[tp] = p.Bytes("record_set")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.Produce, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion     int16
	Responses      map[protocol.TopicPartition]PartitionResponse
	ThrottleTimeMS int32
}

type PartitionResponse struct {
	ErrorCode  int16
	BaseOffset int64
	// Timestamp is the log append time of the records, or NoTimestamp when
	// the topic uses create time. Carried from v2.
	Timestamp int64
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.Produce }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.Produce, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Responses))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("responses")
		responses := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			res := r.Responses[protocol.TopicPartition{Topic: name, Partition: p}]
			responses[j] = tb.Child("partition_responses").
				Set("partition", p).
				Set("error_code", res.ErrorCode).
				Set("base_offset", res.BaseOffset).
				Set("timestamp", res.Timestamp).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partition_responses", responses).Struct()
	}

	return b.Set("responses", topics).
		Set("throttle_time_ms", r.ThrottleTimeMS).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:     version,
		Responses:      make(map[protocol.TopicPartition]PartitionResponse),
		ThrottleTimeMS: v.Int32("throttle_time_ms"),
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			tp := protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}
			r.Responses[tp] = PartitionResponse{
				ErrorCode:  p.Int16("error_code"),
				BaseOffset: p.Int64("base_offset"),
				Timestamp:  p.Int64("timestamp"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.Produce, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
