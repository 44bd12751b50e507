// Package updatemetadata implements the UpdateMetadata api, sent by the
// controller to propagate cluster metadata to every broker.
package updatemetadata

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/leaderandisr"
)

func init() {
	protocol.Register(protocol.UpdateMetadata,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

// SecurityProtocol identifies the security protocol of a broker listener.
type SecurityProtocol int16

const (
	Plaintext     SecurityProtocol = 0
	SSL           SecurityProtocol = 1
	SaslPlaintext SecurityProtocol = 2
	SaslSSL       SecurityProtocol = 3
)

func (p SecurityProtocol) String() string {
	switch p {
	case Plaintext:
		return "PLAINTEXT"
	case SSL:
		return "SSL"
	case SaslPlaintext:
		return "SASL_PLAINTEXT"
	case SaslSSL:
		return "SASL_SSL"
	}
	return "SecurityProtocol(" + strconv.Itoa(int(p)) + ")"
}

type EndPoint struct {
	Host string
	Port int32
}

type Broker struct {
	ID int32
	// EndPoints maps the security protocols of the broker to the address of
	// their listener. v0 carries the PLAINTEXT listener only.
	EndPoints map[SecurityProtocol]EndPoint
	// Rack is carried from v2.
	Rack protocol.NullString
}

type Request struct {
	ApiVersion      int16
	ControllerID    int32
	ControllerEpoch int32
	PartitionStates map[protocol.TopicPartition]leaderandisr.PartitionState
	// LiveBrokers is a set; it is sent ordered by broker id.
	LiveBrokers []Broker
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.UpdateMetadata }

func (r *Request) Version() int16 { return r.ApiVersion }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.UpdateMetadata, r.ApiVersion)

	brokers := slices.Clone(r.LiveBrokers)
	slices.SortFunc(brokers, func(x, y Broker) int { return cmp.Compare(x.ID, y.ID) })

	live := make([]*protocol.Struct, len(brokers))
	for i, broker := range brokers {
		bb := b.Child("live_brokers")

		if r.ApiVersion == 0 {
			plaintext, ok := broker.EndPoints[Plaintext]
			if !ok {
				return nil, &protocol.ValueError{Field: "live_brokers.end_points", Type: "PLAINTEXT", Value: broker.EndPoints}
			}
			bb.Set("host", plaintext.Host).Set("port", plaintext.Port)
		}

		protocols := protocol.SortedKeys(broker.EndPoints)
		endPoints := make([]*protocol.Struct, len(protocols))
		for j, sp := range protocols {
			ep := broker.EndPoints[sp]
			endPoints[j] = bb.Child("end_points").
				Set("port", ep.Port).
				Set("host", ep.Host).
				Set("security_protocol_type", int16(sp)).
				Struct()
		}

		live[i] = bb.Set("id", broker.ID).
			Set("end_points", endPoints).
			Set("rack", broker.Rack).
			Struct()
	}

	return b.Set("controller_id", r.ControllerID).
		Set("controller_epoch", r.ControllerEpoch).
		Set("partition_states", leaderandisr.ProjectPartitionStates(b, "partition_states", r.PartitionStates)).
		Set("live_brokers", live).
		Build()
}

func (r *Request) ErrorResponse(cause error) protocol.Message {
	return &Response{
		ApiVersion: r.ApiVersion,
		ErrorCode:  int16(protocol.CodeFor(cause)),
	}
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion:      version,
		ControllerID:    v.Int32("controller_id"),
		ControllerEpoch: v.Int32("controller_epoch"),
		PartitionStates: leaderandisr.ReadPartitionStates(v, "partition_states"),
		LiveBrokers:     []Broker{},
	}
	for _, b := range v.Structs("live_brokers") {
		broker := Broker{
			ID:        b.Int32("id"),
			EndPoints: make(map[SecurityProtocol]EndPoint),
			Rack:      b.NullString("rack"),
		}
		if b.Has("end_points") {
			for _, ep := range b.Structs("end_points") {
				broker.EndPoints[SecurityProtocol(ep.Int16("security_protocol_type"))] = EndPoint{
					Host: ep.String("host"),
					Port: ep.Int32("port"),
				}
			}
		} else {
			broker.EndPoints[Plaintext] = EndPoint{Host: b.String("host"), Port: b.Int32("port")}
		}
		r.LiveBrokers = append(r.LiveBrokers, broker)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.UpdateMetadata, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	ErrorCode  int16
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.UpdateMetadata }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	return protocol.NewResponseBuilder(protocol.UpdateMetadata, r.ApiVersion).
		Set("error_code", r.ErrorCode).
		Build()
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{ApiVersion: version, ErrorCode: v.Int16("error_code")}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.UpdateMetadata, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
