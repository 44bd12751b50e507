package apiversions_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/apiversions"
	"github.com/kwire/kafka-protocol/protocol/prototest"
)

const (
	v0 = 0
)

func TestApiversionsRequest(t *testing.T) {
	req := &apiversions.Request{ApiVersion: v0}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, errors.New("unknown"))
}

func TestApiversionsResponse(t *testing.T) {
	prototest.TestResponse(t, &apiversions.Response{
		ApiVersion: v0,
		ErrorCode:  0,
		ApiKeys: []apiversions.ApiKeyResponse{
			{
				ApiKey:     0,
				MinVersion: 0,
				MaxVersion: 2,
			},
		},
	})

	prototest.TestResponse(t, apiversions.Advertise(v0,
		protocol.Produce,
		protocol.Fetch,
		protocol.ControlledShutdown,
	))
}

func TestApiversionsAdvertise(t *testing.T) {
	res := apiversions.Advertise(v0, protocol.Fetch, protocol.ControlledShutdown)

	fetch, ok := res.Lookup(protocol.Fetch)
	assert.True(t, ok)
	assert.Equal(t, apiversions.ApiKeyResponse{ApiKey: 1, MinVersion: 0, MaxVersion: 3}, fetch)

	shutdown, ok := res.Lookup(protocol.ControlledShutdown)
	assert.True(t, ok)
	assert.Equal(t, int16(1), shutdown.MinVersion)

	_, ok = res.Lookup(protocol.Produce)
	assert.False(t, ok)
}
