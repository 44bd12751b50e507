package saslhandshake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/prototest"
	"github.com/kwire/kafka-protocol/protocol/saslhandshake"
)

func TestSaslHandshakeRequest(t *testing.T) {
	req := &saslhandshake.Request{Mechanism: "PLAIN"}
	prototest.TestRequest(t, req)
	prototest.TestErrorResponse(t, req, protocol.UnsupportedSaslMechanism)
}

func TestSaslHandshakeResponse(t *testing.T) {
	prototest.TestResponse(t, &saslhandshake.Response{
		EnabledMechanisms: []string{"GSSAPI"},
	})
	prototest.TestResponse(t, &saslhandshake.Response{
		ErrorCode:         int16(protocol.UnsupportedSaslMechanism),
		EnabledMechanisms: []string{"PLAIN", "SCRAM-SHA-256"},
	})
}

func TestSaslHandshakeErrorResponse(t *testing.T) {
	res := (&saslhandshake.Request{Mechanism: "OAUTHBEARER"}).
		ErrorResponse(protocol.UnsupportedSaslMechanism).(*saslhandshake.Response)

	assert.Equal(t, int16(33), res.ErrorCode)
	assert.Empty(t, res.EnabledMechanisms)
}
