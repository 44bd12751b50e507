package deletetopics

import (
	"slices"

	"github.com/kwire/kafka-protocol/protocol"
)

func init() {
	protocol.Register(protocol.DeleteTopics,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

type Request struct {
	ApiVersion int16
	// Topics is a set; it is sent in ascending order.
	Topics    []string
	TimeoutMS int32
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.DeleteTopics }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	topics := slices.Clone(protocol.NonNil(r.Topics))
	slices.Sort(topics)
	return protocol.NewRequestBuilder(protocol.DeleteTopics, r.ApiVersion).
		Set("topics", topics).
		Set("timeout", r.TimeoutMS).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Errors:     make(map[string]int16, len(r.Topics)),
	}
	for _, topic := range r.Topics {
		res.Errors[topic] = code
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		Topics:     v.Strings("topics"),
		TimeoutMS:  v.Int32("timeout"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.DeleteTopics, version, protocol.RequestDirection, b)
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

func (r *Response) ApiKey() protocol.ApiKey { return protocol.DeleteTopics }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.DeleteTopics, r.ApiVersion)

	names := protocol.SortedKeys(r.Errors)
	codes := make([]*protocol.Struct, len(names))
	for i, name := range names {
		codes[i] = b.Child("topic_error_codes").
			Set("topic", name).
			Set("error_code", r.Errors[name]).
			Struct()
	}

	return b.Set("topic_error_codes", codes).Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		Errors:     make(map[string]int16),
	}
	for _, t := range v.Structs("topic_error_codes") {
		r.Errors[t.String("topic")] = t.Int16("error_code")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.DeleteTopics, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
