package protocol

import (
	"errors"
	"fmt"
)

const (
	ErrCorrupted = Error("corrupted")
	ErrTruncated = Error("truncated")

	// ErrUnsupportedVersion is matched by every *UnsupportedVersionError.
	ErrUnsupportedVersion = Error("unsupported version")
)

// Error is a string type implementing the error interface and used to declare
// constants representing recoverable protocol errors.
type Error string

func (e Error) Error() string { return string(e) }

func errorf(msg string, args ...any) error {
	return Error(fmt.Sprintf(msg, args...))
}

// DecodeError is returned when a byte sequence does not conform to the schema
// it is read with. Err is ErrTruncated when the input ended early, and
// ErrCorrupted (or an error wrapping it) otherwise.
type DecodeError struct {
	Field string // dotted path of the field being read, empty at top level
	Type  string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decoding %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("decoding field %q of type %s: %v", e.Field, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) within(field string) *DecodeError {
	if e.Field == "" {
		e.Field = field
	} else {
		e.Field = field + "." + e.Field
	}
	return e
}

func decodeError(t Type, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Type: t.String(), Err: err}
}

// FieldError is returned when a struct or builder is asked for a field name
// that its schema does not declare.
type FieldError struct {
	Schema string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s has no field named %q", e.Schema, e.Field)
}

// ValueError is returned when a value cannot be represented by the type of
// the field it is written to, for example an absent string written to a
// non-nullable string field.
type ValueError struct {
	Field string
	Type  string
	Value any
	// Reason, when set, says why a value of the right Go type was refused,
	// such as a string too long for its length prefix.
	Reason string
}

func (e *ValueError) Error() string {
	msg := fmt.Sprintf("value of type %T cannot be represented as %s", e.Value, e.Type)
	if e.Field != "" {
		msg += fmt.Sprintf(" in field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValueError) within(field string) *ValueError {
	if e.Field == "" {
		e.Field = field
	} else {
		e.Field = field + "." + e.Field
	}
	return e
}

// UnsupportedVersionError is returned when the catalog has no schema for an
// api key and version pair.
type UnsupportedVersionError struct {
	ApiKey  ApiKey
	Version int16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s v%d: %s", e.ApiKey, e.Version, ErrUnsupportedVersion)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }
