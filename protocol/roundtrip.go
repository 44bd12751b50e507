package protocol

import (
	"bufio"
	"fmt"
)

// RoundTrip writes a request to rw and reads back the response to it. Response
// frames larger than DefaultMaxFrameSize are rejected.
//
// The function expects that there were no other concurrent requests served by
// the stream wrapped by rw, and therefore uses a fixed correlation id.
func RoundTrip(rw *bufio.ReadWriter, clientID string, msg Request) (Message, error) {
	const correlationID = 42
	if err := WriteRequest(rw.Writer, correlationID, clientID, msg); err != nil {
		return nil, err
	}
	if err := rw.Flush(); err != nil {
		return nil, err
	}
	id, res, err := ReadResponse(rw.Reader, msg.ApiKey(), msg.Version(), DefaultMaxFrameSize)
	if err != nil {
		return nil, err
	}
	if id != correlationID {
		return nil, fmt.Errorf("correlation id mismatch (expected=%d, found=%d)", correlationID, id)
	}
	return res, nil
}
