package metadata

import "github.com/kwire/kafka-protocol/protocol"

func init() {
	protocol.Register(protocol.Metadata,
		protocol.RequestDecoderOf(RequestFromStruct),
		protocol.ResponseDecoderOf(ResponseFromStruct),
	)
}

// Request asks for the metadata of a list of topics. A nil list asks for all
// topics; an empty list asks for none, which only v1 and above can express.
type Request struct {
	ApiVersion int16
	Topics     []string
}

func (r *Request) ApiKey() protocol.ApiKey { return protocol.Metadata }

func (r *Request) Version() int16 { return r.ApiVersion }

// AllTopics reports whether the request asks for the metadata of all topics.
func (r *Request) AllTopics() bool { return r.Topics == nil }

func (r *Request) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewRequestBuilder(protocol.Metadata, r.ApiVersion)
	if r.ApiVersion == 0 {
		// v0 sends an empty list to ask for all topics.
		if r.Topics != nil && len(r.Topics) == 0 {
			return nil, &protocol.ValueError{Field: "topics", Type: "ARRAY(STRING)", Value: r.Topics}
		}
		return b.Set("topics", protocol.NonNil(r.Topics)).Build()
	}
	return b.Set("topics", r.Topics).Build()
}

// ErrorResponse reports the error for every requested topic, with no
// brokers, no partitions, and no controller.
func (r *Request) ErrorResponse(cause error) protocol.Message {
	code := int16(protocol.CodeFor(cause))
	res := &Response{
		ApiVersion: r.ApiVersion,
		Brokers:    []Broker{},
		Controller: protocol.NoNode,
		Topics:     make([]TopicMetadata, len(r.Topics)),
	}
	for i, topic := range r.Topics {
		res.Topics[i] = TopicMetadata{
			ErrorCode:  code,
			Topic:      topic,
			Partitions: []PartitionMetadata{},
		}
	}
	return res
}

func RequestFromStruct(s *protocol.Struct, version int16) (*Request, error) {
	v := protocol.NewView(s)
	r := &Request{
		ApiVersion: version,
		Topics:     v.Strings("topics"),
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if version == 0 && len(r.Topics) == 0 {
		r.Topics = nil
	}
	return r, nil
}

func ParseRequest(b []byte, version int16) (*Request, error) {
	s, err := protocol.ParseStruct(protocol.Metadata, version, protocol.RequestDirection, b)
	if err != nil {
		return nil, err
	}
	return RequestFromStruct(s, version)
}

type Response struct {
	ApiVersion int16
	Brokers    []Broker
	// ClusterID is carried from v2.
	ClusterID protocol.NullString
	// Controller is carried from v1, and is NoNode for older versions.
	Controller protocol.Node
	Topics     []TopicMetadata
}

type Broker struct {
	protocol.Node
	// Rack is carried from v1.
	Rack protocol.NullString
}

type TopicMetadata struct {
	ErrorCode int16
	Topic     string
	// IsInternal is carried from v1.
	IsInternal bool
	Partitions []PartitionMetadata
}

// PartitionMetadata describes the replicas of a partition. Brokers that are
// not listed in the response are reported with their id only, and a partition
// without leader reports NoNode.
type PartitionMetadata struct {
	ErrorCode int16
	Partition int32
	Leader    protocol.Node
	Replicas  []protocol.Node
	ISR       []protocol.Node
}

func (r *Response) ApiKey() protocol.ApiKey { return protocol.Metadata }

func (r *Response) Version() int16 { return r.ApiVersion }

func (r *Response) ToStruct() (*protocol.Struct, error) {
	b := protocol.NewResponseBuilder(protocol.Metadata, r.ApiVersion)

	brokers := make([]*protocol.Struct, len(r.Brokers))
	for i, broker := range r.Brokers {
		brokers[i] = b.Child("brokers").
			Set("node_id", broker.ID).
			Set("host", broker.Host).
			Set("port", broker.Port).
			Set("rack", broker.Rack).
			Struct()
	}

	topics := make([]*protocol.Struct, len(r.Topics))
	for i, t := range r.Topics {
		tb := b.Child("topic_metadata")
		partitions := make([]*protocol.Struct, len(t.Partitions))
		for j, p := range t.Partitions {
			partitions[j] = tb.Child("partition_metadata").
				Set("partition_error_code", p.ErrorCode).
				Set("partition_id", p.Partition).
				Set("leader", p.Leader.ID).
				Set("replicas", nodeIDs(p.Replicas)).
				Set("isr", nodeIDs(p.ISR)).
				Struct()
		}
		topics[i] = tb.Set("topic_error_code", t.ErrorCode).
			Set("topic", t.Topic).
			Set("is_internal", t.IsInternal).
			Set("partition_metadata", partitions).
			Struct()
	}

	return b.Set("brokers", brokers).
		Set("cluster_id", r.ClusterID).
		Set("controller_id", r.Controller.ID).
		Set("topic_metadata", topics).
		Build()
}

func nodeIDs(nodes []protocol.Node) []int32 {
	ids := make([]int32, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func ResponseFromStruct(s *protocol.Struct, version int16) (*Response, error) {
	v := protocol.NewView(s)
	r := &Response{
		ApiVersion: version,
		Brokers:    []Broker{},
		ClusterID:  v.NullString("cluster_id"),
		Topics:     []TopicMetadata{},
	}

	nodes := make(map[int32]protocol.Node)
	for _, b := range v.Structs("brokers") {
		broker := Broker{
			Node: protocol.Node{
				ID:   b.Int32("node_id"),
				Host: b.String("host"),
				Port: b.Int32("port"),
			},
			Rack: b.NullString("rack"),
		}
		nodes[broker.ID] = broker.Node
		r.Brokers = append(r.Brokers, broker)
	}

	lookup := func(id int32) protocol.Node {
		if id < 0 {
			return protocol.NoNode
		}
		if n, ok := nodes[id]; ok {
			return n
		}
		return protocol.Node{ID: id, Host: "", Port: -1}
	}
	lookupAll := func(ids []int32) []protocol.Node {
		out := make([]protocol.Node, len(ids))
		for i, id := range ids {
			out[i] = lookup(id)
		}
		return out
	}

	r.Controller = lookup(v.Int32("controller_id"))

	for _, t := range v.Structs("topic_metadata") {
		topic := TopicMetadata{
			ErrorCode:  t.Int16("topic_error_code"),
			Topic:      t.String("topic"),
			IsInternal: t.Bool("is_internal"),
			Partitions: []PartitionMetadata{},
		}
		for _, p := range t.Structs("partition_metadata") {
			topic.Partitions = append(topic.Partitions, PartitionMetadata{
				ErrorCode: p.Int16("partition_error_code"),
				Partition: p.Int32("partition_id"),
				Leader:    lookup(p.Int32("leader")),
				Replicas:  lookupAll(p.Int32s("replicas")),
				ISR:       lookupAll(p.Int32s("isr")),
			})
		}
		r.Topics = append(r.Topics, topic)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func ParseResponse(b []byte, version int16) (*Response, error) {
	s, err := protocol.ParseStruct(protocol.Metadata, version, protocol.ResponseDirection, b)
	if err != nil {
		return nil, err
	}
	return ResponseFromStruct(s, version)
}
