package describegroups_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/describegroups"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func TestDescribeGroupsRequest(t *testing.T) {
	prototest.TestRequest(t, &describegroups.Request{})

	req := &describegroups.Request{GroupIDs: []string{"test-group", "g2", "g1"}}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, protocol.NotCoordinatorForGroup)
}

func TestDescribeGroupsResponse(t *testing.T) {
	prototest.TestResponse(t, &describegroups.Response{})

	prototest.TestResponse(t, &describegroups.Response{
		Groups: []describegroups.Group{
			{
				GroupID:      "test-group",
				State:        describegroups.Stable,
				ProtocolType: "consumer",
				Protocol:     "roundrobin",
				Members: []describegroups.GroupMember{
					{
						MemberID:         "memberId",
						ClientID:         "consumer-1",
						ClientHost:       "localhost",
						MemberMetadata:   []byte{},
						MemberAssignment: []byte{},
					},
				},
			},
			{
				ErrorCode:    12,
				GroupID:      "g2",
				State:        describegroups.AwaitingSync,
				ProtocolType: "t2",
				Protocol:     "proto2",
				Members: []describegroups.GroupMember{
					{
						MemberID:         "abd",
						ClientID:         "c1",
						ClientHost:       "foo.bar.com",
						MemberMetadata:   []byte("metadata"),
						MemberAssignment: []byte("assignment"),
					},
				},
			},
		},
	})
}

func TestDescribeGroupsErrorResponse(t *testing.T) {
	req := &describegroups.Request{GroupIDs: []string{"a", "b"}}
	res := req.ErrorResponse(errors.New("boom")).(*describegroups.Response)

	require.Len(t, res.Groups, 2)
	for i, g := range res.Groups {
		assert.Equal(t, req.GroupIDs[i], g.GroupID)
		assert.Equal(t, int16(protocol.UnknownServerError), g.ErrorCode)
		assert.Equal(t, describegroups.State(""), g.State)
		assert.Empty(t, g.Protocol)
		assert.Empty(t, g.Members)
	}
}
