package protocol

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trickleWriter accepts at most n bytes per call.
type trickleWriter struct {
	bytes.Buffer
	n   int
	err error
}

func (w *trickleWriter) Write(b []byte) (int, error) {
	if len(b) > w.n {
		w.Buffer.Write(b[:w.n])
		return w.n, w.err
	}
	return w.Buffer.Write(b)
}

func TestFrameSize(t *testing.T) {
	msg := heartbeatRequest(t, "g", 1, "m")
	h := RequestHeader{ApiKey: Heartbeat, CorrelationID: 1, ClientID: "client"}

	f, err := NewFrame(h, msg)
	require.NoError(t, err)

	body, _ := Size(msg)
	assert.Equal(t, h.Size()+body, f.Size())
	assert.Equal(t, f.Size()+4, f.Len())
	assert.Equal(t, []byte{0, 0, 0, byte(f.Size())}, f.Bytes()[:4])

	payload, err := SplitFrame(append(f.Bytes(), 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, f.Bytes()[4:], payload)

	header, req, err := ParseRequestPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, h, header)
	assert.True(t, Equal(msg, req))
}

func TestFramePartialWrites(t *testing.T) {
	f, err := NewFrame(NewResponseHeader(15), heartbeatRequest(t, "group", 1, "member"))
	require.NoError(t, err)

	w := &trickleWriter{n: 3, err: io.ErrShortWrite}
	calls := 0
	for !f.Completed() {
		n, err := f.WriteTo(w)
		require.NoError(t, err)
		assert.LessOrEqual(t, n, int64(3))
		assert.Equal(t, f.Len()-f.Written(), f.Remaining())
		calls++
	}

	assert.Equal(t, (f.Len()+2)/3, calls)
	assert.Equal(t, f.Bytes(), w.Bytes())

	n, err := f.WriteTo(w)
	assert.NoError(t, err)
	assert.Zero(t, n, "writing a completed frame is a no-op")
}

func TestFrameWriteError(t *testing.T) {
	f := NewHeaderFrame(NewResponseHeader(1))
	assert.Equal(t, 4, f.Size())

	boom := errors.New("boom")
	w := &trickleWriter{n: 2, err: boom}

	n, err := f.WriteTo(w)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2, f.Written(), "accepted bytes are accounted for on error")

	w.err = nil
	w.n = 100
	_, err = f.WriteTo(w)
	require.NoError(t, err)
	assert.True(t, f.Completed())
	assert.Equal(t, []byte{0, 0, 0, 4, 0, 0, 0, 1}, w.Bytes())
}

func TestNewFrameError(t *testing.T) {
	_, err := NewFrame(NewResponseHeader(1), &structMessage{key: Heartbeat, err: ErrCorrupted})
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestNewFrameRejectsLongClientID(t *testing.T) {
	h := RequestHeader{ApiKey: Heartbeat, ClientID: strings.Repeat("c", math.MaxInt16+1)}
	f, err := NewFrame(h, heartbeatRequest(t, "g", 1, "m"))
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	assert.Nil(t, f)

	b := &bytes.Buffer{}
	err = WriteRequest(b, 1, h.ClientID, heartbeatRequest(t, "g", 1, "m"))
	assert.ErrorAs(t, err, &ve)
	assert.Zero(t, b.Len(), "nothing is written for an unrepresentable header")
}

func TestSplitFrame(t *testing.T) {
	tests := []struct {
		scenario string
		bytes    []byte
		err      error
	}{
		{"short prefix", []byte{0, 0}, ErrTruncated},
		{"negative size", []byte{0xff, 0xff, 0xff, 0xff}, ErrCorrupted},
		{"short payload", []byte{0, 0, 0, 3, 1, 2}, ErrTruncated},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := SplitFrame(test.bytes)
			assert.ErrorIs(t, err, test.err)
		})
	}

	payload, err := SplitFrame([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Empty(t, payload)
}
