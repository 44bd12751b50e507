package offsetcommit

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.OffsetCommit,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

// Values reported by requests decoded at versions that predate the fields.
const (
	DefaultGenerationID  int32 = -1
	DefaultMemberID            = ""
	DefaultRetentionTime int64 = -1
	DefaultTimestamp           = protocol.NoTimestamp
)

type Request struct {
	ApiVersion int16
	GroupID    string
	// GenerationID and MemberID are carried from v1.
	GenerationID int32
	MemberID     string
	// RetentionTime is carried from v2.
	RetentionTime int64
	Offsets       map[protocol.TopicPartition]PartitionData
}

type PartitionData struct {
	Offset int64
	// Timestamp is carried by v1 only.
	Timestamp int64
	Metadata  protocol.NullString
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.OffsetCommit }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.OffsetCommit, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Offsets))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("topics")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			data := r.Offsets[protocol.TopicPartition{Topic: name, Partition: p}]
			ps[j] = tb.Child("partitions").
				Set("partition", p).
				Set("offset", data.Offset).
				Set("timestamp", data.Timestamp).
				Set("metadata", data.Metadata).
				Struct()
		}
		topics[i] = tb.Set("topic", name).Set("partitions", ps).Struct()
	}

	return b.Set("group_id", r.GroupID).
		Set("group_generation_id", r.GenerationID).
		Set("member_id", r.MemberID).
		Set("retention_time", r.RetentionTime).
		Set("topics", topics).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Responses:  make(map[protocol.TopicPartition]int16, len(r.Offsets)),
	}
	for tp := range r.Offsets {
		res.Responses[tp] = code
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:    version,
		GroupID:       v.String("group_id"),
		GenerationID:  v.Int32("group_generation_id"),
		MemberID:      v.String("member_id"),
		RetentionTime: v.Int64("retention_time"),
		Offsets:       make(map[protocol.TopicPartition]PartitionData),
	}
	for _, t := range v.Structs("topics") {
		topic := t.String("topic")
		for _, p := range t.Structs("partitions") {
			r.Offsets[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = PartitionData{
				Offset:    p.Int64("offset"),
				Timestamp: p.Int64("timestamp"),
				Metadata:  p.NullString("metadata"),
			}
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.OffsetCommit, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	// Responses holds the error code of each partition of the request.
	Responses map[protocol.TopicPartition]int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.OffsetCommit }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.OffsetCommit, r.ApiVersion)

	names, partitions := protocol.GroupByTopic(protocol.KeysOf(r.Responses))
	topics := make([]*protocol.Struct, len(names))
	for i, name := range names {
		tb := b.Child("responses")
		ps := make([]*protocol.Struct, len(partitions[name]))
		for j, p := range partitions[name] {
			ps[j] = tb.Child("partition_responses").
				Set("partition", p).
				Set("error_code", r.Responses[protocol.TopicPartition{Topic: name, Partition: p}]).
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
		Responses:  make(map[protocol.TopicPartition]int16),
	}
	for _, t := range v.Structs("responses") {
		topic := t.String("topic")
		for _, p := range t.Structs("partition_responses") {
			r.Responses[protocol.TopicPartition{Topic: topic, Partition: p.Int32("partition")}] = p.Int16("error_code")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.OffsetCommit, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
