package deletetopics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/deletetopics"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func TestDeleteTopicsRequest(t *testing.T) {
	req := &deletetopics.Request{Topics: []string{"my_t2", "my_t1"}, TimeoutMS: 10000}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, protocol.NotController)

	same := &deletetopics.Request{Topics: []string{"my_t1", "my_t2"}, TimeoutMS: 10000}
	assert.True(t, protocol.Equal(req, same))
	assert.Equal(t, protocol.Hash(req), protocol.Hash(same))
}

func TestDeleteTopicsResponse(t *testing.T) {
	prototest.TestResponse(t, &deletetopics.Response{
		Errors: map[string]int16{
			"t1": int16(protocol.InvalidTopic),
			"t2": int16(protocol.TopicAuthorizationFailed),
		},
	})
}
