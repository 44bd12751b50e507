// Package controlledshutdown implements the ControlledShutdown api. Only v1
// is supported; v0 was not framed with a standard request header.
package controlledshutdown

import (
	"slices"

	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.ControlledShutdown,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
	BrokerID   int32
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.ControlledShutdown }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	return protocol.NewRequestBuilder(protocol.ControlledShutdown, r.ApiVersion).
		Set("broker_id", r.BrokerID).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion:          r.ApiVersion,
		ErrorCode:           int16(protocol.CodeFor(cause)),
		PartitionsRemaining: []protocol.TopicPartition{},
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{ApiVersion: version, BrokerID: v.Int32("broker_id")}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.ControlledShutdown, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
	// PartitionsRemaining is the set of partitions the broker still leads. It
	// is sent ordered by topic and partition.
	PartitionsRemaining []protocol.TopicPartition
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.ControlledShutdown }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.ControlledShutdown, r.ApiVersion)

	tps := slices.Clone(r.PartitionsRemaining)
	protocol.SortTopicPartitions(tps)

	remaining := make([]*protocol.Struct, len(tps))
	for i, tp := range tps {
		remaining[i] = b.Child("partitions_remaining").
			Set("topic", tp.Topic).
			Set("partition", tp.Partition).
			Struct()
	}

	return b.Set("error_code", r.ErrorCode).
		Set("partitions_remaining", remaining).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion:          version,
		ErrorCode:           v.Int16("error_code"),
		PartitionsRemaining: []protocol.TopicPartition{},
	}
	for _, p := range v.Structs("partitions_remaining") {
		r.PartitionsRemaining = append(r.PartitionsRemaining, protocol.TopicPartition{
			Topic:     p.String("topic"),
			Partition: p.Int32("partition"),
		})
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.ControlledShutdown, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
