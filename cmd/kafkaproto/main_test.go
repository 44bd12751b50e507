package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/heartbeat"
)

func frames(t *testing.T) []byte {
	t.Helper()

	b := &bytes.Buffer{}
	require.NoError(t, protocol.WriteRequest(b, 1, "cli", &heartbeat.Request{GroupID: "g", GenerationID: 2, MemberID: "m"}))
	require.NoError(t, protocol.WriteRequest(b, 2, "cli", &heartbeat.Request{GroupID: "h", GenerationID: 3, MemberID: "n"}))
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, decode(nil, bytes.NewReader(frames(t)), out))

	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "Heartbeat")
	assert.Contains(t, out.String(), "correlation_id=2")
}

func TestDecodeHex(t *testing.T) {
	encoded := hex.EncodeToString(frames(t))
	text := encoded[:10] + "\n  " + encoded[10:] + "\n"

	out := &bytes.Buffer{}
	require.NoError(t, decode([]string{"-hex"}, strings.NewReader(text), out))
	assert.Contains(t, out.String(), "client_id=cli")
}

func TestDecodeRespond(t *testing.T) {
	b := &bytes.Buffer{}
	h := protocol.RequestHeader{ApiKey: protocol.Heartbeat, ApiVersion: 0, CorrelationID: 5}
	payload := append(h.AppendTo(nil), 0, 1, 'g')
	b.Write([]byte{0, 0, 0, byte(len(payload))})
	b.Write(payload)

	out := &bytes.Buffer{}
	require.NoError(t, decode([]string{"-respond"}, b, out))
	assert.Contains(t, out.String(), "error response")
	assert.Contains(t, out.String(), hex.EncodeToString([]byte{0, 0, 0, 6, 0, 0, 0, 5, 0, 42}))
}

func TestVersions(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, versions(out))
	assert.Contains(t, out.String(), "DeleteTopics")
	assert.Equal(t, 22, strings.Count(out.String(), "\n"))
}
