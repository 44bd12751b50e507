package protocol

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaderEncoding(t *testing.T) {
	h := RequestHeader{ApiKey: Fetch, ApiVersion: 3, CorrelationID: 15, ClientID: "ab"}

	b := h.AppendTo(nil)
	assert.Equal(t, []byte{
		0, 1, // api_key
		0, 3, // api_version
		0, 0, 0, 15, // correlation_id
		0, 2, 'a', 'b', // client_id
	}, b)
	assert.Equal(t, len(b), h.Size())

	src := NewSource(append(b, 0xff))
	found, err := ParseRequestHeader(src)
	require.NoError(t, err)
	assert.Equal(t, h, found)
	assert.Equal(t, 1, src.Len(), "the body must be left unread")
}

func TestRequestHeaderNullClientID(t *testing.T) {
	h := NewRequestHeader(Metadata, 1, NullString{}, 4)
	assert.Equal(t, "", h.ClientID)

	b := []byte{0, 3, 0, 1, 0, 0, 0, 4, 0xff, 0xff}
	found, err := ParseRequestHeader(NewSource(b))
	require.NoError(t, err)
	assert.Equal(t, h, found)
	assert.Equal(t, ResponseHeader{CorrelationID: 4}, found.ResponseHeader())

	encoded := h.AppendTo(nil)
	assert.Equal(t, []byte{0, 3, 0, 1, 0, 0, 0, 4, 0, 0}, encoded, "an absent client id is written as empty")
	assert.Equal(t, len(encoded), h.Size())

	src := NewSource(encoded)
	found, err = ParseRequestHeader(src)
	require.NoError(t, err)
	assert.Equal(t, h, found)
	assert.Zero(t, src.Len())
}

func TestRequestHeaderValidate(t *testing.T) {
	h := RequestHeader{ApiKey: Heartbeat, ClientID: strings.Repeat("c", math.MaxInt16)}
	assert.NoError(t, h.Validate())

	h.ClientID += "c"
	var ve *ValueError
	require.ErrorAs(t, h.Validate(), &ve)
	assert.Equal(t, "client_id", ve.Field)
}

func TestResponseHeader(t *testing.T) {
	h := NewResponseHeader(-2)
	b := h.AppendTo(nil)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xfe}, b)
	assert.Equal(t, 4, h.Size())

	found, err := ParseResponseHeader(NewSource(b))
	require.NoError(t, err)
	assert.Equal(t, h, found)

	_, err = ParseResponseHeader(NewSource(b[:3]))
	assert.ErrorIs(t, err, ErrTruncated)
}
