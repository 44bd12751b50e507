package kafka

import (
	"errors"
	"fmt"
	"math"

	"github.com/kwire/kafka-protocol/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxFrameSize is the default limit on the size of request frames.
const DefaultMaxFrameSize = protocol.DefaultMaxFrameSize

// Config is a configuration object used to create new instances of Codec.
type Config struct {
	// The client id written in the header of the requests framed by the
	// codec.
	ClientID string

	// Limit on the size of request frames read by the codec, the 4 bytes of
	// the size prefix excluded. Larger frames are rejected before their
	// payload is read.
	//
	// Default: 100 MiB
	MaxFrameSize int

	// If not nil, specifies a logger used to report internal changes within
	// the codec.
	Logger Logger

	// ErrorLogger is the logger used to report errors. If nil, the codec
	// falls back to using Logger instead.
	ErrorLogger Logger

	// If not nil, the metrics of the codec are registered with it.
	Registerer prometheus.Registerer
}

// Validate method validates Config properties.
func (config *Config) Validate() error {
	if len(config.ClientID) > math.MaxInt16 {
		return errors.New("client id must not exceed 32767 bytes")
	}

	if config.MaxFrameSize < 0 {
		return fmt.Errorf("max frame size must not be negative (max frame size = %d)", config.MaxFrameSize)
	}

	if config.MaxFrameSize > math.MaxInt32 {
		return fmt.Errorf("max frame size must fit in an int32 (max frame size = %d)", config.MaxFrameSize)
	}

	return nil
}
