package protocol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/twmb/franz-go/pkg/kbin"
)

// ReadRequest reads a size-prefixed request frame from r and decodes its
// header and body. Frames declaring more than maxSize bytes are rejected
// before their payload is read; a maxSize of zero or less disables the check.
func ReadRequest(r *bufio.Reader, maxSize int) (RequestHeader, Request, error) {
	b, err := ReadFrame(r, maxSize)
	if err != nil {
		return RequestHeader{}, nil, err
	}
	return ParseRequestPayload(b)
}

// WriteRequest frames msg behind a request header and writes it to w.
func WriteRequest(w io.Writer, correlationID int32, clientID string, msg Request) error {
	h := RequestHeader{
		ApiKey:        msg.ApiKey(),
		ApiVersion:    msg.Version(),
		CorrelationID: correlationID,
		ClientID:      clientID,
	}
	f, err := NewFrame(h, msg)
	if err != nil {
		return err
	}
	return writeFrame(w, f)
}

// DefaultMaxFrameSize is the frame size limit applied by RoundTrip, matching
// the default socket.request.max.bytes of brokers.
const DefaultMaxFrameSize = 100 * 1024 * 1024

// ReadFrame reads a size-prefixed frame from r and returns its payload.
// Frames declaring more than maxSize bytes are rejected before their payload
// is read; a maxSize of zero or less disables the check.
func ReadFrame(r *bufio.Reader, maxSize int) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	size := (&kbin.Reader{Src: prefix[:]}).Int32()
	if size < 0 {
		return nil, &DecodeError{Type: "Frame", Err: fmt.Errorf("%w: frame size %d", ErrCorrupted, size)}
	}
	if maxSize > 0 && int(size) > maxSize {
		return nil, &DecodeError{Type: "Frame", Err: fmt.Errorf("%w: frame of %d bytes exceeds the limit of %d", ErrCorrupted, size, maxSize)}
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = &DecodeError{Type: "Frame", Err: ErrTruncated}
		}
		return nil, err
	}
	return b, nil
}

// writeFrame drives f to completion on a blocking writer. A write that makes
// no progress is reported as io.ErrShortWrite.
func writeFrame(w io.Writer, f *Frame) error {
	for !f.Completed() {
		n, err := f.WriteTo(w)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}
