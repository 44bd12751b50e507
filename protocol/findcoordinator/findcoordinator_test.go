package findcoordinator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/findcoordinator"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

func TestFindCoordinatorRequest(t *testing.T) {
	req := &findcoordinator.Request{GroupID: "test-group"}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, nil)
}

func TestFindCoordinatorResponse(t *testing.T) {
	prototest.TestResponse(t, &findcoordinator.Response{
		ErrorCode:   0,
		Coordinator: protocol.Node{ID: 10, Host: "host1", Port: 2014},
	})
}

func TestFindCoordinatorErrorResponse(t *testing.T) {
	res := (&findcoordinator.Request{GroupID: "g"}).
		ErrorResponse(protocol.GroupCoordinatorNotAvailable).(*findcoordinator.Response)

	assert.Equal(t, int16(protocol.GroupCoordinatorNotAvailable), res.ErrorCode)
	assert.True(t, res.Coordinator.IsEmpty())
	assert.Equal(t, protocol.Node{ID: -1, Host: "", Port: -1}, res.Coordinator)
}
