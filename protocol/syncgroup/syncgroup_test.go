package syncgroup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/prototest"
	"github.com/kwire/kafka-protocol/protocol/syncgroup"
)

func TestSyncGroupReq(t *testing.T) {
	req := &syncgroup.Request{
		GroupID:      "group-id",
		GenerationID: 10,
		MemberID:     "member-id",
		Assignments: map[string][]byte{
			"member-2": {0, 1, 2},
			"member-1": {},
			"member-3": nil,
		},
	}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, errors.New("unexpected"))

	prototest.TestRequest(t, &syncgroup.Request{
		GroupID:      "group-id",
		GenerationID: 10,
		MemberID:     "follower",
	})
}

func TestSyncGroupResp(t *testing.T) {
	prototest.TestResponse(t, &syncgroup.Response{
		ErrorCode:        0,
		MemberAssignment: []byte{0, 1, 2, 3, 4},
	})
	prototest.TestResponse(t, &syncgroup.Response{
		ErrorCode: int16(protocol.RebalanceInProgress),
	})
}

func TestSyncGroupErrorResponseHasEmptyAssignment(t *testing.T) {
	req := &syncgroup.Request{GroupID: "g", MemberID: "m"}
	res := req.ErrorResponse(protocol.NotCoordinatorForGroup).(*syncgroup.Response)

	assert.Equal(t, int16(protocol.NotCoordinatorForGroup), res.ErrorCode)
	assert.NotNil(t, res.MemberAssignment)
	assert.Empty(t, res.MemberAssignment)

	b, err := protocol.Marshal(res)
	require.NoError(t, err)
	found, err := syncgroup.ParseResponse(b, 0)
	require.NoError(t, err)
	assert.Equal(t, res, found)
}
