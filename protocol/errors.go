package protocol

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kerr"
)

// ErrorCode is the int16 carried by the error slots of responses. The zero
// value, None, means success. ErrorCode implements error so codes can be
// returned, wrapped, and mapped back with CodeFor.
type ErrorCode int16

const (
	UnknownServerError           ErrorCode = -1
	None                         ErrorCode = 0
	OffsetOutOfRange             ErrorCode = 1
	CorruptMessage               ErrorCode = 2
	UnknownTopicOrPartition      ErrorCode = 3
	InvalidFetchSize             ErrorCode = 4
	LeaderNotAvailable           ErrorCode = 5
	NotLeaderForPartition        ErrorCode = 6
	RequestTimedOut              ErrorCode = 7
	BrokerNotAvailable           ErrorCode = 8
	ReplicaNotAvailable          ErrorCode = 9
	MessageTooLarge              ErrorCode = 10
	StaleControllerEpoch         ErrorCode = 11
	OffsetMetadataTooLarge       ErrorCode = 12
	NetworkException             ErrorCode = 13
	GroupLoadInProgress          ErrorCode = 14
	GroupCoordinatorNotAvailable ErrorCode = 15
	NotCoordinatorForGroup       ErrorCode = 16
	InvalidTopic                 ErrorCode = 17
	RecordListTooLarge           ErrorCode = 18
	NotEnoughReplicas            ErrorCode = 19
	NotEnoughReplicasAfterAppend ErrorCode = 20
	InvalidRequiredAcks          ErrorCode = 21
	IllegalGeneration            ErrorCode = 22
	InconsistentGroupProtocol    ErrorCode = 23
	InvalidGroupID               ErrorCode = 24
	UnknownMemberID              ErrorCode = 25
	InvalidSessionTimeout        ErrorCode = 26
	RebalanceInProgress          ErrorCode = 27
	InvalidCommitOffsetSize      ErrorCode = 28
	TopicAuthorizationFailed     ErrorCode = 29
	GroupAuthorizationFailed     ErrorCode = 30
	ClusterAuthorizationFailed   ErrorCode = 31
	InvalidTimestamp             ErrorCode = 32
	UnsupportedSaslMechanism     ErrorCode = 33
	IllegalSaslState             ErrorCode = 34
	UnsupportedVersion           ErrorCode = 35
	TopicAlreadyExists           ErrorCode = 36
	InvalidPartitions            ErrorCode = 37
	InvalidReplicationFactor     ErrorCode = 38
	InvalidReplicaAssignment     ErrorCode = 39
	InvalidConfig                ErrorCode = 40
	NotController                ErrorCode = 41
	InvalidRequest               ErrorCode = 42
)

// Kind returns the symbolic error kind of the code. Codes unknown to the
// protocol version implemented here report the kind of UnknownServerError,
// and None reports nil.
func (c ErrorCode) Kind() *kerr.Error {
	if c == None {
		return nil
	}
	if k, ok := kerr.ErrorForCode(int16(c)).(*kerr.Error); ok && k.Code == int16(c) {
		return k
	}
	return kerr.UnknownServerError
}

// Known reports whether c is one of the codes defined by the protocol.
func (c ErrorCode) Known() bool {
	return c >= UnknownServerError && c <= InvalidRequest
}

// Name returns the symbolic name of the code, e.g. UNKNOWN_TOPIC_OR_PARTITION.
func (c ErrorCode) Name() string {
	if c == None {
		return "NONE"
	}
	if !c.Known() {
		return "UNKNOWN_ERROR_CODE_" + strconv.Itoa(int(c))
	}
	return c.Kind().Message
}

// Message returns a human readable description of the code.
func (c ErrorCode) Message() string {
	if c == None {
		return ""
	}
	if !c.Known() {
		return "error code " + strconv.Itoa(int(c)) + " is not defined by the protocol"
	}
	return c.Kind().Description
}

// Retriable reports whether a request failing with this code may succeed if
// sent again.
func (c ErrorCode) Retriable() bool {
	if k := c.Kind(); k != nil && c.Known() {
		return k.Retriable
	}
	return false
}

func (c ErrorCode) Error() string {
	return fmt.Sprintf("[%d] %s: %s", int16(c), c.Name(), c.Message())
}

// Is allows errors.Is to match codes against the kinds of the kerr package.
func (c ErrorCode) Is(target error) bool {
	if k, ok := target.(*kerr.Error); ok {
		return k.Code == int16(c)
	}
	return false
}

// Err returns nil for None, and the code as an error otherwise.
func (c ErrorCode) Err() error {
	if c == None {
		return nil
	}
	return c
}

// Static mapping of sentinel errors to the codes reported to peers.
var errorCodes = [...]struct {
	err  error
	code ErrorCode
}{
	{ErrUnsupportedVersion, UnsupportedVersion},
	{ErrTruncated, InvalidRequest},
	{ErrCorrupted, InvalidRequest},
	{context.DeadlineExceeded, RequestTimedOut},
}

// CodeFor returns the error code reported to peers for a failure. The wrap
// chain of cause is inspected from the outermost error inwards, and the first
// error that is an ErrorCode, a *kerr.Error, a *DecodeError, or one of the
// mapped sentinel errors decides the code. A nil cause, or a cause that
// nothing in its chain maps, is reported as UnknownServerError.
//
// CodeFor never panics, so it can be used while building error responses.
func CodeFor(cause error) ErrorCode {
	for err := cause; err != nil; err = unwrap(err) {
		if code, ok := codeOf(err); ok {
			return code
		}
	}
	return UnknownServerError
}

func codeOf(err error) (ErrorCode, bool) {
	switch e := err.(type) {
	case ErrorCode:
		return e, true
	case *kerr.Error:
		if e == nil {
			return 0, false
		}
		return ErrorCode(e.Code), true
	case *DecodeError:
		return InvalidRequest, true
	case *UnsupportedVersionError:
		return UnsupportedVersion, true
	}
	for _, m := range errorCodes {
		if err == m.err {
			return m.code, true
		}
	}
	return 0, false
}

func unwrap(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := e.Unwrap(); len(errs) != 0 {
			return errs[0]
		}
	}
	return nil
}

// KindFor returns the symbolic kind of a code received from a peer, see
// ErrorCode.Kind.
func KindFor(code int16) *kerr.Error { return ErrorCode(code).Kind() }

// MessageFor returns the description of a code received from a peer.
func MessageFor(code int16) string { return ErrorCode(code).Message() }

// AsErrorCode reports whether err carries an error code in its chain, and
// which one.
func AsErrorCode(err error) (ErrorCode, bool) {
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}
	return 0, false
}
