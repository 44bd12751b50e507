package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/twmb/franz-go/pkg/kbin"
)

// Frame is a size-prefixed header and body, serialized once at construction
// and written to a sink that may accept fewer bytes than offered. The write
// position persists across calls to WriteTo, so a caller resumes a partial
// transfer by calling WriteTo again until Completed returns true.
//
// A frame must not be written by concurrent goroutines.
type Frame struct {
	buffer []byte
	offset int
}

// NewFrame serializes header and body behind an int32 size equal to the sum
// of their sizes.
func NewFrame(header Header, body Message) (*Frame, error) {
	if h, ok := header.(RequestHeader); ok {
		if err := h.Validate(); err != nil {
			return nil, err
		}
	}
	bodySize, err := Size(body)
	if err != nil {
		return nil, err
	}
	size := header.Size() + bodySize

	b := make([]byte, 0, 4+size)
	b = kbin.AppendInt32(b, int32(size))
	b = header.AppendTo(b)
	if b, err = appendMessage(b, body); err != nil {
		return nil, err
	}
	if len(b) != 4+size {
		return nil, fmt.Errorf("%s v%d: encoded %d bytes for a frame of %d: %w",
			body.ApiKey(), body.Version(), len(b)-4, size, io.ErrShortBuffer)
	}
	return &Frame{buffer: b}, nil
}

// NewHeaderFrame returns a frame carrying only a header, used when no body
// can be produced for a request.
func NewHeaderFrame(header Header) *Frame {
	size := header.Size()
	b := make([]byte, 0, 4+size)
	b = kbin.AppendInt32(b, int32(size))
	return &Frame{buffer: header.AppendTo(b)}
}

// Size returns the declared size of the frame, which excludes the 4 bytes of
// the size prefix.
func (f *Frame) Size() int { return len(f.buffer) - 4 }

// Len returns the total number of bytes of the frame, prefix included.
func (f *Frame) Len() int { return len(f.buffer) }

// Written returns the number of bytes accepted by sinks so far.
func (f *Frame) Written() int { return f.offset }

// Remaining returns the number of bytes not yet accepted by a sink.
func (f *Frame) Remaining() int { return len(f.buffer) - f.offset }

// Completed reports whether every byte of the frame was written.
func (f *Frame) Completed() bool { return f.offset == len(f.buffer) }

// Bytes returns the serialized frame. The slice must not be modified.
func (f *Frame) Bytes() []byte { return f.buffer }

// WriteTo makes a single write of the unsent remainder of the frame to w and
// returns the number of bytes it accepted. A short write is progress, not a
// failure: it is reported with a nil error (io.ErrShortWrite is absorbed) and
// the next call continues from where it stopped. Other errors are returned
// after accounting for the bytes that were accepted.
//
// Unlike io.WriterTo implementations, WriteTo does not loop until the frame
// is fully written; callers own the retry policy.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	if f.Completed() {
		return 0, nil
	}
	n, err := w.Write(f.buffer[f.offset:])
	if n < 0 {
		n = 0
	}
	if n > f.Remaining() {
		n = f.Remaining()
	}
	f.offset += n
	if errors.Is(err, io.ErrShortWrite) {
		err = nil
	}
	return int64(n), err
}

// SplitFrame validates the size prefix of a received frame and returns the
// payload it declares, excluding any bytes that follow.
func SplitFrame(b []byte) ([]byte, error) {
	src := NewSource(b)
	size, err := src.readInt32()
	if err != nil {
		return nil, &DecodeError{Type: "Frame", Err: err}
	}
	if size < 0 {
		return nil, &DecodeError{Type: "Frame", Err: fmt.Errorf("%w: frame size %d", ErrCorrupted, size)}
	}
	payload, err := src.readSpan(int(size))
	if err != nil {
		return nil, &DecodeError{Type: "Frame", Err: err}
	}
	return payload, nil
}
