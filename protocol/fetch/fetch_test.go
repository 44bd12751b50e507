package fetch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/fetch"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func tp(topic string, partition int32) protocol.TopicPartition {
	return protocol.TopicPartition{Topic: topic, Partition: partition}
}

func fetchRequest(version int16) *fetch.Request {
	req := &fetch.Request{
		ApiVersion:  version,
		ReplicaID:   fetch.ConsumerReplicaID,
		MaxWaitTime: 100,
		MinBytes:    100000,
		MaxBytes:    fetch.DefaultMaxBytes,
		Partitions: []fetch.RequestPartition{
			{TopicPartition: tp("test1", 0), FetchOffset: 100, MaxBytes: 1000000},
			{TopicPartition: tp("test2", 0), FetchOffset: 200, MaxBytes: 1000000},
		},
	}
	if version >= 3 {
		req.MaxBytes = 1000
	}
	return req
}

func TestFetchRequest(t *testing.T) {
	for _, version := range []int16{0, 1, 2, 3} {
		req := fetchRequest(version)
		prototest.TestRequest(t, req)
		prototest.TestErrorResponse(t, req, errors.New("unknown"))
	}
}

func TestFetchRequestKeepsOrder(t *testing.T) {
	req := &fetch.Request{
		ApiVersion: 3,
		MaxBytes:   1000,
		Partitions: []fetch.RequestPartition{
			{TopicPartition: tp("b", 1), FetchOffset: 1},
			{TopicPartition: tp("b", 0), FetchOffset: 2},
			{TopicPartition: tp("a", 0), FetchOffset: 3},
			{TopicPartition: tp("b", 2), FetchOffset: 4},
		},
	}

	b, err := protocol.Marshal(req)
	require.NoError(t, err)

	found, err := fetch.ParseRequest(b, 3)
	require.NoError(t, err)
	assert.Equal(t, req.Partitions, found.Partitions)
}

func TestFetchRequestMaxBytesDefault(t *testing.T) {
	req := fetchRequest(2)
	req.MaxBytes = 1000

	b, err := protocol.Marshal(req)
	require.NoError(t, err)

	found, err := fetch.ParseRequest(b, 2)
	require.NoError(t, err)
	assert.Equal(t, fetch.DefaultMaxBytes, found.MaxBytes)
}

func TestFetchResponse(t *testing.T) {
	for _, version := range []int16{0, 1, 2, 3} {
		prototest.TestResponse(t, &fetch.Response{
			ApiVersion:     version,
			ThrottleTimeMS: 25,
			Responses: []fetch.PartitionResponse{
				{TopicPartition: tp("test", 0), HighWatermark: 1000000, RecordSet: make([]byte, 10)},
				{TopicPartition: tp("test", 1), ErrorCode: int16(protocol.OffsetOutOfRange), HighWatermark: fetch.NoHighWatermark, RecordSet: []byte{}},
			},
		})
	}
}

func TestFetchErrorResponse(t *testing.T) {
	req := fetchRequest(1)
	res := req.ErrorResponse(protocol.NotLeaderForPartition).(*fetch.Response)

	require.Len(t, res.Responses, len(req.Partitions))
	for i, p := range res.Responses {
		assert.Equal(t, req.Partitions[i].TopicPartition, p.TopicPartition)
		assert.Equal(t, int16(protocol.NotLeaderForPartition), p.ErrorCode)
		assert.Equal(t, fetch.NoHighWatermark, p.HighWatermark)
		assert.NotNil(t, p.RecordSet)
		assert.Empty(t, p.RecordSet)
	}
	assert.Zero(t, res.ThrottleTimeMS)
}

func BenchmarkFetchResponse(b *testing.B) {
	prototest.BenchmarkResponse(b, &fetch.Response{
		ApiVersion: 3,
		Responses: []fetch.PartitionResponse{
			{TopicPartition: tp("test", 0), HighWatermark: 1000000, RecordSet: make([]byte, 4096)},
		},
	})
}
