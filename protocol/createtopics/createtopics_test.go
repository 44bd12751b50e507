package createtopics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/createtopics"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func createTopicsRequest() *createtopics.Request {
	return &createtopics.Request{
		Topics: map[string]createtopics.TopicDetails{
			"my_t1": {NumPartitions: 3, ReplicationFactor: 5},
			"my_t2": {
				NumPartitions:     createtopics.NoNumPartitions,
				ReplicationFactor: createtopics.NoReplicationFactor,
				ReplicaAssignments: map[int32][]int32{
					1: {1, 2, 3},
					2: {2, 3, 4},
				},
				Configs: map[string]string{"config1": "value1"},
			},
		},
		TimeoutMS: 0,
	}
}

func TestCreateTopicsRequest(t *testing.T) {
	req := createTopicsRequest()
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, errors.New("unknown"))
}

func TestCreateTopicsResponse(t *testing.T) {
	prototest.TestResponse(t, &createtopics.Response{
		Errors: map[string]int16{
			"t1": int16(protocol.InvalidTopic),
			"t2": int16(protocol.LeaderNotAvailable),
		},
	})
}

func TestCreateTopicsDuplicateTopics(t *testing.T) {
	b, err := protocol.Marshal(createTopicsRequest())
	require.NoError(t, err)

	// Brokers receive the same topic twice when a client sends my_t1 again.
	s, err := protocol.RequestSchema(protocol.CreateTopics, 0)
	require.NoError(t, err)
	st, err := s.Read(protocol.NewSource(b))
	require.NoError(t, err)

	topics, err := st.Get("create_topic_requests")
	require.NoError(t, err)
	entries := topics.([]any)
	require.NoError(t, st.Set("create_topic_requests", append(entries, entries[0])))

	req, err := createtopics.RequestFromStruct(st, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"my_t1"}, req.DuplicateTopics)
	assert.Len(t, req.Topics, 2)

	res := req.ErrorResponse(protocol.InvalidRequest).(*createtopics.Response)
	assert.Equal(t, map[string]int16{
		"my_t1": int16(protocol.InvalidRequest),
		"my_t2": int16(protocol.InvalidRequest),
	}, res.Errors)
}
