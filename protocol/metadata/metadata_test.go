package metadata_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/metadata"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func TestMetadataRequest(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		req := &metadata.Request{ApiVersion: version, Topics: []string{"topic1"}}
		prototest.TestRequest(t, req)
		prototest.TestErrorResponse(t, req, protocol.TopicAuthorizationFailed)

		all := &metadata.Request{ApiVersion: version}
		prototest.TestRequest(t, all)
		prototest.TestErrorResponse(t, all, errors.New("unknown"))
	}

	prototest.TestRequest(t, &metadata.Request{ApiVersion: 1, Topics: []string{}})
}

func TestMetadataRequestAllTopics(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		b, err := protocol.Marshal(&metadata.Request{ApiVersion: version})
		require.NoError(t, err)

		req, err := metadata.ParseRequest(b, version)
		require.NoError(t, err)
		assert.True(t, req.AllTopics(), "v%d", version)
	}

	b, err := protocol.Marshal(&metadata.Request{ApiVersion: 1, Topics: []string{}})
	require.NoError(t, err)
	req, err := metadata.ParseRequest(b, 1)
	require.NoError(t, err)
	assert.False(t, req.AllTopics())
	assert.Empty(t, req.Topics)

	_, err = protocol.Marshal(&metadata.Request{ApiVersion: 0, Topics: []string{}})
	var ve *protocol.ValueError
	assert.ErrorAs(t, err, &ve)
}

func metadataResponse(version int16) *metadata.Response {
	node := protocol.Node{ID: 1, Host: "host1", Port: 1001}
	return &metadata.Response{
		ApiVersion: version,
		Brokers: []metadata.Broker{
			{Node: node, Rack: protocol.NewNullString("rack1")},
			{Node: protocol.Node{ID: 2, Host: "host2", Port: 1002}},
		},
		Controller: protocol.NoNode,
		Topics: []metadata.TopicMetadata{
			{
				Topic:      "__consumer_offsets",
				IsInternal: true,
				Partitions: []metadata.PartitionMetadata{
					{
						Partition: 1,
						Leader:    node,
						Replicas:  []protocol.Node{node},
						ISR:       []protocol.Node{node},
					},
				},
			},
			{
				ErrorCode:  int16(protocol.LeaderNotAvailable),
				Topic:      "topic2",
				Partitions: []metadata.PartitionMetadata{},
			},
		},
	}
}

func TestMetadataResponse(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		prototest.TestResponse(t, metadataResponse(version))
	}

	res := metadataResponse(2)
	res.ClusterID = protocol.NewNullString("cluster")
	res.Controller = res.Brokers[1].Node
	prototest.TestResponse(t, res)
}

func TestMetadataResponseNodes(t *testing.T) {
	res := metadataResponse(2)
	res.Controller = protocol.Node{ID: 2, Host: "host2", Port: 1002}
	res.Topics[0].Partitions[0].Replicas = append(res.Topics[0].Partitions[0].Replicas, protocol.Node{ID: 7})
	res.Topics[0].Partitions = append(res.Topics[0].Partitions, metadata.PartitionMetadata{
		Partition: 2,
		Leader:    protocol.NoNode,
	})

	b, err := protocol.Marshal(res)
	require.NoError(t, err)
	found, err := metadata.ParseResponse(b, 2)
	require.NoError(t, err)

	assert.Equal(t, res.Controller, found.Controller)
	p := found.Topics[0].Partitions
	assert.Equal(t, []protocol.Node{
		{ID: 1, Host: "host1", Port: 1001},
		{ID: 7, Host: "", Port: -1},
	}, p[0].Replicas)
	assert.True(t, p[1].Leader.IsEmpty())
}

func TestMetadataResponseVersionDefaults(t *testing.T) {
	res := metadataResponse(0)
	res.ClusterID = protocol.NewNullString("cluster")
	res.Controller = res.Brokers[0].Node

	b, err := protocol.Marshal(res)
	require.NoError(t, err)
	found, err := metadata.ParseResponse(b, 0)
	require.NoError(t, err)

	assert.Equal(t, protocol.NoNode, found.Controller)
	assert.False(t, found.ClusterID.Valid)
	assert.False(t, found.Brokers[0].Rack.Valid)
	assert.False(t, found.Topics[0].IsInternal)
}

func TestMetadataErrorResponse(t *testing.T) {
	req := &metadata.Request{ApiVersion: 1, Topics: []string{"a", "b"}}
	res := req.ErrorResponse(protocol.InvalidTopic).(*metadata.Response)

	assert.Empty(t, res.Brokers)
	assert.Equal(t, protocol.NoNode, res.Controller)
	require.Len(t, res.Topics, 2)
	for i, topic := range res.Topics {
		assert.Equal(t, req.Topics[i], topic.Topic)
		assert.Equal(t, int16(protocol.InvalidTopic), topic.ErrorCode)
		assert.Empty(t, topic.Partitions)
	}
}
