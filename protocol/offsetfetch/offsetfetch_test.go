package offsetfetch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/offsetfetch"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func TestOffsetFetchRequest(t *testing.T) {
	for _, version := range []int16{0, 1} {
		req := &offsetfetch.Request{
			ApiVersion: version,
			GroupID:    "group1",
			Partitions: []protocol.TopicPartition{
				{Topic: "test11", Partition: 1},
				{Topic: "test10", Partition: 4},
				{Topic: "test11", Partition: 0},
			},
		}
		prototest.TestRequest(t, req)
		prototest.TestErrorResponse(t, req, protocol.NotCoordinatorForGroup)
	}
}

func TestOffsetFetchResponse(t *testing.T) {
	for _, version := range []int16{0, 1} {
		prototest.TestResponse(t, &offsetfetch.Response{
			ApiVersion: version,
			Responses: map[protocol.TopicPartition]offsetfetch.PartitionData{
				{Topic: "test", Partition: 0}: {Offset: 100, Metadata: protocol.NewNullString("")},
				{Topic: "test", Partition: 1}: {Offset: 100},
			},
		})
	}
}

func TestOffsetFetchErrorResponse(t *testing.T) {
	req := &offsetfetch.Request{
		GroupID:    "group1",
		Partitions: []protocol.TopicPartition{{Topic: "test11", Partition: 1}},
	}
	res := req.ErrorResponse(protocol.GroupLoadInProgress).(*offsetfetch.Response)

	require.Len(t, res.Responses, 1)
	p := res.Responses[protocol.TopicPartition{Topic: "test11", Partition: 1}]
	assert.Equal(t, int16(protocol.GroupLoadInProgress), p.ErrorCode)
	assert.Equal(t, offsetfetch.InvalidOffset, p.Offset)
	assert.Equal(t, protocol.NewNullString(offsetfetch.NoMetadata), p.Metadata)
}
