package offsetfetch

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.OffsetFetch,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

const (
	// InvalidOffset is reported for partitions without committed offset.
	InvalidOffset int64 = -1
	// NoMetadata is the metadata of partitions without committed offset.
	NoMetadata = ""
)

type Request struct {
	ApiVersion int16
	GroupID    string
	// Partitions are sent grouped by topic, in ascending order.
	Partitions []protocol.TopicPartition
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.OffsetFetch }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.OffsetFetch, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(r.Partitions)
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("topics")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			ps[j] = tb.Child("partitions").Set("partition", p).Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partitions", ps).Struct()
	}

	return b.Set("group_id", r.GroupID).
		Set("topics", topics).
		Build()
}

// ErrorResponse reports the error for every requested partition, with an
// invalid offset and no metadata.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Responses:  make(map[protocol.TopicPartition]PartitionData, len(r.Partitions)),
	}
	for _, tp := range r.Partitions {
		res.Responses[tp] = PartitionData{
			Offset:    InvalidOffset,
			Metadata:  protocol.NewNullString(NoMetadata),
			ErrorCode: code,
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		GroupID:    v.String("group_id"),
		Partitions: []protocol.TopicPartition{},
	}
	for _, t := range v.Structs("topics") {
		topic := t.String("topic")
		for _, p := range t.Structs("partitions") {
			r.Partitions = append(r.Partitions, protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")})
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.OffsetFetch, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	Responses  map[protocol.TopicPartition]PartitionData
}

type PartitionData struct {
	Offset    int64
	Metadata  protocol.NullString
	ErrorCode int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.OffsetFetch }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.OffsetFetch, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Responses))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("responses")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			data := r.Responses[protocol.TopicPartition{Topic: name, Partition: p}]
			ps[j] = tb.Child("partition_responses").
				Set("partition", p).
				Set("offset", data.Offset).
				Set("metadata", data.Metadata).
				Set("error_code", data.ErrorCode).
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
		Responses:  make(map[protocol.TopicPartition]PartitionData),
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			r.Responses[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = PartitionData{
				Offset:    p.Int64("offset"),
				Metadata:  p.NullString("metadata"),
				ErrorCode: p.Int16("error_code"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.OffsetFetch, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
