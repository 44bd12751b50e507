package offsetcommit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/offsetcommit"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

var (
	test0 = protocol.TopicPartition{Topic: "test", Partition: 0}
	test1 = protocol.TopicPartition{Topic: "test", Partition: 1}
)

func offsetCommitRequest(version int16) *offsetcommit.Request {
	return &offsetcommit.Request{
		ApiVersion:    version,
		GroupID:       "group1",
		GenerationID:  100,
		MemberID:      "consumer1",
		RetentionTime: 1000000,
		Offsets: map[protocol.TopicPartition]offsetcommit.PartitionData{
			test0: {Offset: 100, Timestamp: offsetcommit.DefaultTimestamp, Metadata: protocol.NewNullString("")},
			test1: {Offset: 200, Timestamp: 1500000000000},
		},
	}
}

func TestOffsetCommitRequest(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		req := offsetCommitRequest(version)
		prototest.TestRequest(t, req)
		prototest.TestErrorResponse(t, req, errors.New("unknown"))
	}
}

func TestOffsetCommitRequestVersionDefaults(t *testing.T) {
	tests := []struct {
		version    int16
		generation int32
		member     string
		retention  int64
		timestamp  int64
	}{
		{0, offsetcommit.DefaultGenerationID, offsetcommit.DefaultMemberID, offsetcommit.DefaultRetentionTime, offsetcommit.DefaultTimestamp},
		{1, 100, "consumer1", offsetcommit.DefaultRetentionTime, 1500000000000},
		{2, 100, "consumer1", 1000000, offsetcommit.DefaultTimestamp},
	}

	for _, test := range tests {
		b, err := protocol.Marshal(offsetCommitRequest(test.version))
		require.NoError(t, err)

		req, err := offsetcommit.ParseRequest(b, test.version)
		require.NoError(t, err)
		assert.Equal(t, test.generation, req.GenerationID, "v%d", test.version)
		assert.Equal(t, test.member, req.MemberID, "v%d", test.version)
		assert.Equal(t, test.retention, req.RetentionTime, "v%d", test.version)
		assert.Equal(t, test.timestamp, req.Offsets[test1].Timestamp, "v%d", test.version)
		assert.Equal(t, protocol.NewNullString(""), req.Offsets[test0].Metadata, "v%d", test.version)
		assert.False(t, req.Offsets[test1].Metadata.Valid, "v%d", test.version)
	}
}

func TestOffsetCommitResponse(t *testing.T) {
	for _, version := range []int16{0, 1, 2} {
		prototest.TestResponse(t, &offsetcommit.Response{
			ApiVersion: version,
			Responses: map[protocol.TopicPartition]int16{
				test0: 0,
				test1: int16(protocol.OffsetMetadataTooLarge),
			},
		})
	}
}
