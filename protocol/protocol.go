package protocol

import (
	"cmp"
	"fmt"
	"io"
	"net"
	"slices"
	"sort"
	"strconv"
)

// Message is an interface implemented by all request and response types of the
// kafka protocol.
//
// A message knows the version it was built for (or parsed as) and how to
// project itself into a Struct bound to the catalog schema of that version.
type Message interface {
	ApiKey() ApiKey

	Version() int16

	ToStruct() (*Struct, error)
}

// Request is an extension of the Message interface implemented by every
// request type.
type Request interface {
	Message

	// Builds the response paired with the request, at the same version,
	// with every per-entity error slot set to the code derived from cause.
	// The method never fails, any cause (including nil) maps to a code.
	ErrorResponse(cause error) Message
}

type ApiKey int16

func (k ApiKey) String() string {
	if i := int(k); i >= 0 && i < len(apiNames) {
		return apiNames[i]
	}
	return strconv.Itoa(int(k))
}

func (k ApiKey) MinVersion() int16 { return k.apiType().minVersion }

func (k ApiKey) MaxVersion() int16 { return k.apiType().maxVersion }

func (k ApiKey) SelectVersion(minVersion, maxVersion int16) int16 {
	min := k.MinVersion()
	max := k.MaxVersion()
	switch {
	case min > maxVersion:
		return min
	case max < maxVersion:
		return max
	default:
		return maxVersion
	}
}

func (k ApiKey) apiType() *apiType {
	if i := int(k); i >= 0 && i < len(apiTypes) {
		return &apiTypes[i]
	}
	return &apiType{minVersion: -1, maxVersion: -1}
}

const (
	Produce            ApiKey = 0
	Fetch              ApiKey = 1
	ListOffsets        ApiKey = 2
	Metadata           ApiKey = 3
	LeaderAndIsr       ApiKey = 4
	StopReplica        ApiKey = 5
	UpdateMetadata     ApiKey = 6
	ControlledShutdown ApiKey = 7
	OffsetCommit       ApiKey = 8
	OffsetFetch        ApiKey = 9
	FindCoordinator    ApiKey = 10
	JoinGroup          ApiKey = 11
	Heartbeat          ApiKey = 12
	LeaveGroup         ApiKey = 13
	SyncGroup          ApiKey = 14
	DescribeGroups     ApiKey = 15
	ListGroups         ApiKey = 16
	SaslHandshake      ApiKey = 17
	ApiVersions        ApiKey = 18
	CreateTopics       ApiKey = 19
	DeleteTopics       ApiKey = 20

	numApis = 21
)

var apiNames = [numApis]string{
	Produce:            "Produce",
	Fetch:              "Fetch",
	ListOffsets:        "ListOffsets",
	Metadata:           "Metadata",
	LeaderAndIsr:       "LeaderAndIsr",
	StopReplica:        "StopReplica",
	UpdateMetadata:     "UpdateMetadata",
	ControlledShutdown: "ControlledShutdown",
	OffsetCommit:       "OffsetCommit",
	OffsetFetch:        "OffsetFetch",
	FindCoordinator:    "FindCoordinator",
	JoinGroup:          "JoinGroup",
	Heartbeat:          "Heartbeat",
	LeaveGroup:         "LeaveGroup",
	SyncGroup:          "SyncGroup",
	DescribeGroups:     "DescribeGroups",
	ListGroups:         "ListGroups",
	SaslHandshake:      "SaslHandshake",
	ApiVersions:        "ApiVersions",
	CreateTopics:       "CreateTopics",
	DeleteTopics:       "DeleteTopics",
}

// Direction selects the request or response half of the catalog.
type Direction int8

const (
	RequestDirection Direction = iota
	ResponseDirection
)

func (d Direction) String() string {
	if d == ResponseDirection {
		return "response"
	}
	return "request"
}

// RequestDecoder reconstructs a typed request from a struct read with the
// catalog schema of the given version.
type RequestDecoder func(s *Struct, version int16) (Request, error)

// ResponseDecoder reconstructs a typed response from a struct read with the
// catalog schema of the given version.
type ResponseDecoder func(s *Struct, version int16) (Message, error)

type apiType struct {
	minVersion int16
	maxVersion int16
	requests   []*Schema
	responses  []*Schema
	decodeReq  RequestDecoder
	decodeRes  ResponseDecoder
}

func (t *apiType) schema(dir Direction, version int16) *Schema {
	if len(t.requests) == 0 || version < t.minVersion || version > t.maxVersion {
		return nil
	}
	if dir == ResponseDirection {
		return t.responses[version-t.minVersion]
	}
	return t.requests[version-t.minVersion]
}

var apiTypes [numApis]apiType

// Register is automatically called when sub-packages are imported to install
// the typed decoders of an API kind. The schemas themselves come from the
// static catalog; registering a kind that the catalog does not describe is a
// programming error and panics.
func Register(k ApiKey, req RequestDecoder, res ResponseDecoder) {
	t := k.apiType()
	if len(t.requests) == 0 {
		panic(fmt.Sprintf("[%s]: api key is not described by the catalog", k))
	}
	t.decodeReq = req
	t.decodeRes = res
}

// Registered returns the list of api keys with installed decoders, in
// ascending order.
func Registered() []ApiKey {
	keys := make([]ApiKey, 0, numApis)
	for i := range apiTypes {
		if apiTypes[i].decodeReq != nil {
			keys = append(keys, ApiKey(i))
		}
	}
	return keys
}

// TopicPartition identifies a partition of a topic. It is comparable and used
// as map key by the message types.
type TopicPartition struct {
	Topic     string
	Partition int32
}

func (tp TopicPartition) String() string {
	return tp.Topic + "-" + strconv.Itoa(int(tp.Partition))
}

// SortTopicPartitions orders partitions by topic name, then partition index.
func SortTopicPartitions(tps []TopicPartition) {
	sort.Slice(tps, func(i, j int) bool {
		if tps[i].Topic != tps[j].Topic {
			return tps[i].Topic < tps[j].Topic
		}
		return tps[i].Partition < tps[j].Partition
	})
}

// GroupByTopic returns the topic names found in tps in ascending order, along
// with the sorted partition indexes of each topic.
func GroupByTopic(tps []TopicPartition) (topics []string, partitions map[string][]int32) {
	partitions = make(map[string][]int32)
	for _, tp := range tps {
		if _, ok := partitions[tp.Topic]; !ok {
			topics = append(topics, tp.Topic)
		}
		partitions[tp.Topic] = append(partitions[tp.Topic], tp.Partition)
	}
	sort.Strings(topics)
	for _, p := range partitions {
		sort.Slice(p, func(i, j int) bool { return p[i] < p[j] })
	}
	return topics, partitions
}

// KeysOf returns the partitions used as keys of m, in no particular order.
func KeysOf[V any](m map[TopicPartition]V) []TopicPartition {
	keys := make([]TopicPartition, 0, len(m))
	for tp := range m {
		keys = append(keys, tp)
	}
	return keys
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// OrEmpty returns b, or an empty non-nil slice if b is nil. It is used to
// project optional payloads into non-nullable bytes fields.
func OrEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Node is the identity of a broker.
type Node struct {
	ID   int32
	Host string
	Port int32
}

// NoNode is the placeholder used where the protocol reports the absence of a
// broker (e.g. a coordinator that could not be found, or a partition without
// leader).
var NoNode = Node{ID: -1, Host: "", Port: -1}

func (n Node) IsEmpty() bool { return n == NoNode }

func (n Node) String() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(int(n.Port)))
}

func (n Node) Format(w fmt.State, v rune) {
	switch v {
	case 'd':
		io.WriteString(w, strconv.Itoa(int(n.ID)))
	case 's':
		io.WriteString(w, n.String())
	case 'v':
		io.WriteString(w, strconv.Itoa(int(n.ID)))
		io.WriteString(w, " ")
		io.WriteString(w, n.String())
	}
}

// NoTimestamp is the sentinel used by timestamp fields that carry no value.
const NoTimestamp int64 = -1

// NonNil returns s, or an empty non-nil slice if s is nil. Non-nullable
// arrays reject nil, so projections pass optional lists through it.
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
