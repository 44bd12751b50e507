package protocol

import (
	"bufio"
)

// ReadResponse reads a size-prefixed response frame from r and decodes it as
// the response to a request of the given api key and version. Frames
// declaring more than maxSize bytes are rejected before their payload is
// allocated; a maxSize of zero or less disables the check.
func ReadResponse(r *bufio.Reader, apiKey ApiKey, apiVersion int16, maxSize int) (correlationID int32, msg Message, err error) {
	if _, err = ResponseSchema(apiKey, apiVersion); err != nil {
		return
	}

	var b []byte
	if b, err = ReadFrame(r, maxSize); err != nil {
		return
	}

	h, res, err := ParseResponsePayload(b, apiKey, apiVersion)
	return h.CorrelationID, res, err
}

// WriteResponse frames msg behind a response header and flushes it to w.
func WriteResponse(w *bufio.Writer, correlationID int32, msg Message) error {
	f, err := NewFrame(NewResponseHeader(correlationID), msg)
	if err != nil {
		return err
	}
	if err := writeFrame(w, f); err != nil {
		return err
	}
	return w.Flush()
}
