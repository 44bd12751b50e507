package kafka

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/kwire/kafka-protocol/protocol/apiversions"
)

// Codec decodes request frames and frames responses with the catalog of the
// protocol package. Its methods are safe to use concurrently.
type Codec struct {
	config  Config
	metrics *Metrics
}

// NewCodec validates config, applies its defaults, and returns a codec using
// it.
func NewCodec(config Config) (*Codec, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.MaxFrameSize == 0 {
		config.MaxFrameSize = DefaultMaxFrameSize
	}
	return &Codec{
		config:  config,
		metrics: NewMetrics(config.Registerer),
	}, nil
}

// Metrics returns the metrics updated by the codec.
func (c *Codec) Metrics() *Metrics { return c.metrics }

// ReadRequest decodes the payload of a request frame, the bytes that follow
// its size prefix. When the header could be read but the body could not, the
// header is returned along with the error so that the caller can answer with
// ErrorResponse.
func (c *Codec) ReadRequest(b []byte) (protocol.RequestHeader, protocol.Request, error) {
	if len(b) > c.config.MaxFrameSize {
		err := &protocol.DecodeError{
			Type: "Frame",
			Err:  fmt.Errorf("%w: frame of %d bytes exceeds the limit of %d", protocol.ErrCorrupted, len(b), c.config.MaxFrameSize),
		}
		c.frameFailed(len(b), err)
		return protocol.RequestHeader{}, nil, err
	}

	src := protocol.NewSource(b)
	h, err := protocol.ParseRequestHeader(src)
	if err != nil {
		c.frameFailed(len(b), err)
		return h, nil, err
	}

	req, err := protocol.ReadRequestBody(src, h.ApiKey, h.ApiVersion)
	if err != nil {
		c.withErrorLogger(func(l Logger) {
			l.Printf("decoding %s v%d request (correlation id %d, client %q): %v",
				h.ApiKey, h.ApiVersion, h.CorrelationID, h.ClientID, err)
		})
		c.metrics.RecordDecodeError(h.ApiKey.String(), len(b))
		return h, nil, err
	}

	c.metrics.RecordDecoded(h.ApiKey, h.ApiVersion, len(b))
	return h, req, nil
}

// ReadFrame reads a size-prefixed request frame from r and decodes it, see
// ReadRequest. Frames above the configured limit are rejected before their
// payload is read.
func (c *Codec) ReadFrame(r *bufio.Reader) (protocol.RequestHeader, protocol.Request, error) {
	b, err := protocol.ReadFrame(r, c.config.MaxFrameSize)
	if err != nil {
		var de *protocol.DecodeError
		if errors.As(err, &de) {
			c.frameFailed(0, err)
		}
		return protocol.RequestHeader{}, nil, err
	}
	return c.ReadRequest(b)
}

func (c *Codec) frameFailed(size int, err error) {
	c.withErrorLogger(func(l Logger) {
		l.Printf("decoding request frame of %d bytes: %v", size, err)
	})
	c.metrics.RecordDecodeError("", size)
}

// Request frames req behind a header carrying the configured client id.
func (c *Codec) Request(correlationID int32, req protocol.Request) (*protocol.Frame, error) {
	h := protocol.RequestHeader{
		ApiKey:        req.ApiKey(),
		ApiVersion:    req.Version(),
		CorrelationID: correlationID,
		ClientID:      c.config.ClientID,
	}
	return protocol.NewFrame(h, req)
}

// Respond frames res as the response to the request carrying header.
func (c *Codec) Respond(header protocol.RequestHeader, res protocol.Message) (*protocol.Frame, error) {
	if res.ApiKey() != header.ApiKey || res.Version() != header.ApiVersion {
		return nil, fmt.Errorf("%s v%d response to a %s v%d request",
			res.ApiKey(), res.Version(), header.ApiKey, header.ApiVersion)
	}
	f, err := protocol.NewFrame(header.ResponseHeader(), res)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordResponse(f.Len())
	return f, nil
}

// ErrorResponse frames the response reporting cause to the request carrying
// header. req may be nil when the body of the request could not be decoded,
// in which case the response carries no per-entity results.
//
// ErrorResponse never fails: when no response can be produced at the version
// of the request, the frame carries the response header only, which lets the
// peer match it with its request before dropping the connection.
func (c *Codec) ErrorResponse(header protocol.RequestHeader, req protocol.Request, cause error) *protocol.Frame {
	code := protocol.CodeFor(cause)

	res := c.errorResponse(header, req, cause)
	if res != nil {
		f, err := protocol.NewFrame(header.ResponseHeader(), res)
		if err == nil {
			c.metrics.RecordErrorResponse(header.ApiKey, code)
			c.metrics.RecordResponse(f.Len())
			c.withLogger(func(l Logger) {
				l.Printf("responding to %s v%d request (correlation id %d) with %s",
					header.ApiKey, header.ApiVersion, header.CorrelationID, code.Name())
			})
			return f
		}
		c.withErrorLogger(func(l Logger) {
			l.Printf("framing %s v%d error response: %v", header.ApiKey, header.ApiVersion, err)
		})
	}

	f := protocol.NewHeaderFrame(header.ResponseHeader())
	c.metrics.RecordErrorResponse(header.ApiKey, code)
	c.metrics.RecordResponse(f.Len())
	c.withLogger(func(l Logger) {
		l.Printf("responding to %s v%d request (correlation id %d) with a bare header",
			header.ApiKey, header.ApiVersion, header.CorrelationID)
	})
	return f
}

func (c *Codec) errorResponse(header protocol.RequestHeader, req protocol.Request, cause error) protocol.Message {
	if req != nil {
		return req.ErrorResponse(cause)
	}

	// Peers probing with a version we do not support expect a v0 ApiVersions
	// response listing what we do support.
	if header.ApiKey == protocol.ApiVersions && errors.Is(cause, protocol.ErrUnsupportedVersion) {
		res := c.ApiVersions(0)
		res.ErrorCode = int16(protocol.UnsupportedVersion)
		return res
	}

	s, err := protocol.RequestSchema(header.ApiKey, header.ApiVersion)
	if err != nil {
		return nil
	}
	empty, err := protocol.DecodeRequest(header.ApiKey, header.ApiVersion, protocol.NewStruct(s))
	if err != nil {
		return nil
	}
	return empty.ErrorResponse(cause)
}

// ApiVersions returns the response advertising every registered api kind
// with the version range of the catalog.
func (c *Codec) ApiVersions(version int16) *apiversions.Response {
	return apiversions.Advertise(version, protocol.Registered()...)
}

func (c *Codec) withLogger(do func(Logger)) {
	if c.config.Logger != nil {
		do(c.config.Logger)
	}
}

func (c *Codec) withErrorLogger(do func(Logger)) {
	if c.config.ErrorLogger != nil {
		do(c.config.ErrorLogger)
	} else {
		c.withLogger(do)
	}
}
