package listoffsets_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/listoffsets"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

var test0 = protocol.TopicPartition{Topic: "test", Partition: 0}

func TestListOffsetsRequestV0(t *testing.T) {
	req := &listoffsets.RequestV0{
		ReplicaID: listoffsets.ConsumerReplicaID,
		Partitions: map[protocol.TopicPartition]listoffsets.PartitionDataV0{
			test0: {Timestamp: 1000000, MaxNumOffsets: 10},
			{Topic: "test", Partition: 1}: {Timestamp: listoffsets.EarliestTimestamp, MaxNumOffsets: 1},
		},
	}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, errors.New("unknown"))

	res := req.ErrorResponse(protocol.UnknownTopicOrPartition).(*listoffsets.ResponseV0)
	require.Len(t, res.Responses, 2)
	assert.Equal(t, int16(3), res.Responses[test0].ErrorCode)
	assert.Equal(t, []int64{}, res.Responses[test0].Offsets)
}

func TestListOffsetsResponseV0(t *testing.T) {
	prototest.TestResponse(t, &listoffsets.ResponseV0{
		Responses: map[protocol.TopicPartition]listoffsets.PartitionResponseV0{
			test0: {Offsets: []int64{100}},
			{Topic: "other", Partition: 2}: {ErrorCode: int16(protocol.NotLeaderForPartition), Offsets: []int64{}},
		},
	})
}

func TestListOffsetsRequestV1(t *testing.T) {
	req := &listoffsets.Request{
		ApiVersion: 1,
		ReplicaID:  listoffsets.ConsumerReplicaID,
		Timestamps: map[protocol.TopicPartition]int64{
			test0:                          1000000,
			{Topic: "test", Partition: 1}:  listoffsets.LatestTimestamp,
			{Topic: "other", Partition: 0}: listoffsets.EarliestTimestamp,
		},
	}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, protocol.NotLeaderForPartition)

	res := req.ErrorResponse(nil).(*listoffsets.Response)
	for _, p := range res.Responses {
		assert.Equal(t, int16(protocol.UnknownServerError), p.ErrorCode)
		assert.Equal(t, protocol.NoTimestamp, p.Timestamp)
		assert.Equal(t, listoffsets.NoOffset, p.Offset)
	}
}

func TestListOffsetsResponseV1(t *testing.T) {
	prototest.TestResponse(t, &listoffsets.Response{
		ApiVersion: 1,
		Responses: map[protocol.TopicPartition]listoffsets.PartitionResponse{
			test0: {Timestamp: 10000, Offset: 100},
		},
	})
}

func TestListOffsetsVersionVariants(t *testing.T) {
	v0, err := protocol.Marshal(&listoffsets.RequestV0{
		Partitions: map[protocol.TopicPartition]listoffsets.PartitionDataV0{
			test0: {Timestamp: 1000000, MaxNumOffsets: 10},
		},
	})
	require.NoError(t, err)

	req, err := protocol.ParseRequest(protocol.ListOffsets, 0, v0)
	require.NoError(t, err)
	assert.IsType(t, &listoffsets.RequestV0{}, req)

	v1, err := protocol.Marshal(&listoffsets.Request{
		ApiVersion: 1,
		Timestamps: map[protocol.TopicPartition]int64{test0: 1000000},
	})
	require.NoError(t, err)

	req, err = protocol.ParseRequest(protocol.ListOffsets, 1, v1)
	require.NoError(t, err)
	assert.IsType(t, &listoffsets.Request{}, req)

	_, err = protocol.Marshal(&listoffsets.Request{ApiVersion: 0})
	assert.ErrorIs(t, err, protocol.ErrUnsupportedVersion)

	_, err = listoffsets.ParseResponse(nil, 0)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedVersion)
}
