package leaderandisr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/leaderandisr"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func partitionStates() map[protocol.TopicPartition]leaderandisr.PartitionState {
	isr := []int32{1, 2}
	replicas := []int32{1, 2, 3, 4}
	return map[protocol.TopicPartition]leaderandisr.PartitionState{
		{Topic: "topic5", Partition: 105}: {ControllerEpoch: 0, Leader: 2, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
		{Topic: "topic5", Partition: 1}:   {ControllerEpoch: 1, Leader: 1, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
		{Topic: "topic20", Partition: 1}:  {ControllerEpoch: 1, Leader: 0, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
	}
}

func TestLeaderAndIsrRequest(t *testing.T) {
	req := &leaderandisr.Request{
		ControllerID:    1,
		ControllerEpoch: 10,
		PartitionStates: partitionStates(),
		LiveLeaders: []protocol.Node{
			{ID: 1, Host: "test1", Port: 1223},
			{ID: 0, Host: "test0", Port: 1223},
		},
	}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, errors.New("unknown"))

	b, err := protocol.Marshal(req)
	require.NoError(t, err)
	found, err := leaderandisr.ParseRequest(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []protocol.Node{
		{ID: 0, Host: "test0", Port: 1223},
		{ID: 1, Host: "test1", Port: 1223},
	}, found.LiveLeaders)
	assert.Equal(t, partitionStates(), found.PartitionStates)
}

func TestLeaderAndIsrResponse(t *testing.T) {
	prototest.TestResponse(t, &leaderandisr.Response{
		ErrorCode: 0,
		Partitions: map[protocol.TopicPartition]int16{
			{Topic: "test", Partition: 0}: 0,
			{Topic: "test", Partition: 1}: int16(protocol.StaleControllerEpoch),
		},
	})
}

func TestLeaderAndIsrErrorResponse(t *testing.T) {
	req := &leaderandisr.Request{PartitionStates: partitionStates()}
	res := req.ErrorResponse(protocol.StaleControllerEpoch).(*leaderandisr.Response)

	assert.Equal(t, int16(11), res.ErrorCode)
	assert.Len(t, res.Partitions, 3)
	for tp, code := range res.Partitions {
		assert.Contains(t, req.PartitionStates, tp)
		assert.Equal(t, int16(11), code)
	}
}
