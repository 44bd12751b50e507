package updatemetadata_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/leaderandisr"
	"github.com/kwire/kafka-protocol/protocol/prototest"
	"github.com/kwire/kafka-protocol/protocol/updatemetadata"
)

func updateMetadataRequest(version int16) *updatemetadata.Request {
	isr := []int32{1, 2}
	replicas := []int32{1, 2, 3, 4}

	var rack protocol.NullString
	if version >= 2 {
		rack = protocol.NewNullString("rack1")
	}

	endPoints1 := map[updatemetadata.SecurityProtocol]updatemetadata.EndPoint{
		updatemetadata.Plaintext: {Host: "host1", Port: 1244},
	}
	if version >= 1 {
		endPoints1[updatemetadata.SSL] = updatemetadata.EndPoint{Host: "host2", Port: 1234}
	}

	return &updatemetadata.Request{
		ApiVersion:      version,
		ControllerID:    1,
		ControllerEpoch: 10,
		PartitionStates: map[protocol.TopicPartition]leaderandisr.PartitionState{
			{Topic: "topic5", Partition: 105}: {ControllerEpoch: 0, Leader: 2, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
			{Topic: "topic5", Partition: 1}:   {ControllerEpoch: 1, Leader: 1, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
			{Topic: "topic20", Partition: 1}:  {ControllerEpoch: 1, Leader: 0, LeaderEpoch: 1, ISR: isr, ZkVersion: 2, Replicas: replicas},
		},
		LiveBrokers: []updatemetadata.Broker{
			{
				ID: 0,
				EndPoints: map[updatemetadata.SecurityProtocol]updatemetadata.EndPoint{
					updatemetadata.Plaintext: {Host: "host1", Port: 1223},
				},
				Rack: rack,
			},
			{ID: 1, EndPoints: endPoints1},
		},
	}
}

func TestUpdateMetadataRequest(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		req := updateMetadataRequest(version)
		prototest.TestRequest(t, req)
		prototest.TestErrorResponse(t, req, errors.New("unknown"))

		b, err := protocol.Marshal(req)
		require.NoError(t, err)
		found, err := updatemetadata.ParseRequest(b, version)
		require.NoError(t, err)
		assert.Equal(t, req.LiveBrokers, found.LiveBrokers, "v%d", version)
	}
}

func TestUpdateMetadataRequestV0RequiresPlaintext(t *testing.T) {
	req := &updatemetadata.Request{
		LiveBrokers: []updatemetadata.Broker{{
			ID: 0,
			EndPoints: map[updatemetadata.SecurityProtocol]updatemetadata.EndPoint{
				updatemetadata.SSL: {Host: "host2", Port: 1234},
			},
		}},
	}
	_, err := protocol.Marshal(req)
	var ve *protocol.ValueError
	assert.ErrorAs(t, err, &ve)

	req.ApiVersion = 1
	_, err = protocol.Marshal(req)
	assert.NoError(t, err)
}

func TestUpdateMetadataResponse(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		prototest.TestResponse(t, &updatemetadata.Response{ApiVersion: version})
		prototest.TestResponse(t, &updatemetadata.Response{ApiVersion: version, ErrorCode: int16(protocol.StaleControllerEpoch)})
	}
}

func TestSecurityProtocolString(t *testing.T) {
	assert.Equal(t, "PLAINTEXT", updatemetadata.Plaintext.String())
	assert.Equal(t, "SASL_SSL", updatemetadata.SaslSSL.String())
	assert.Equal(t, "SecurityProtocol(9)", updatemetadata.SecurityProtocol(9).String())
}
