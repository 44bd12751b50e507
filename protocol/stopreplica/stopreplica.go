package stopreplica

import (
	"slices"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/leaderandisr"
)

func init() {
	protocol.Register(protocol.StopReplica,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion       int16
	ControllerID     int32
	ControllerEpoch  int32
	DeletePartitions bool
	// Partitions is a set; it is sent ordered by topic and partition.
	Partitions []protocol.TopicPartition
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.StopReplica }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.StopReplica, r.ApiVersion)

	tps := slices.Clone(r.Partitions)
	protocol.SortTopicPartitions(tps)

	partitions := make([]*protocol.Struct, len(tps))
	for i, tp := range tps {
		partitions[i] = b.Child("partitions").
			Set("topic", tp.Topic).
			Set("partition", tp.Partition).
			Struct()
	}

	return b.Set("controller_id", r.ControllerID).
		Set("controller_epoch", r.ControllerEpoch).
		Set("delete_partitions", r.DeletePartitions).
		Set("partitions", partitions).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  code,
		Partitions: make(map[protocol.TopicPartition]int16, len(r.Partitions)),
	}
	for _, tp := range r.Partitions {
		res.Partitions[tp] = code
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:       version,
		ControllerID:     v.Int32("controller_id"),
		ControllerEpoch:  v.Int32("controller_epoch"),
		DeletePartitions: v.Bool("delete_partitions"),
		Partitions:       []protocol.TopicPartition{},
	}
	for _, p := range v.Structs("partitions") {
		r.Partitions = append(r.Partitions, protocol.TopicPartition{
			Topic:     p.String("topic"),
			Partition: p.Int32("partition"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.StopReplica, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
	Partitions map[protocol.TopicPartition]int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.StopReplica }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.StopReplica, r.ApiVersion)
	return b.Set("error_code", r.ErrorCode).
		Set("partitions", leaderandisr.ProjectPartitionErrors(b, "partitions", r.Partitions)).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		ErrorCode:  v.Int16("error_code"),
		Partitions: leaderandisr.ReadPartitionErrors(v, "partitions"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.StopReplica, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
