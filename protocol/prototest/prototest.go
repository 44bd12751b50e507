// Package prototest provides the round trip checks shared by the tests of the
// api sub-packages.
package prototest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/kwire/kafka-protocol/protocol"
)

// checkSize verifies that Size, Marshal, and Encode agree on the encoded size
// of msg, and that Encode rejects a buffer one byte too short.
func checkSize(t *testing.T, msg protocol.Message) {
	t.Helper()

	size, err := protocol.Size(msg)
	if err != nil {
		t.Fatal(err)
	}

	b, err := protocol.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != size {
		t.Errorf("size mismatch: marshaled %d bytes but the size is %d", len(b), size)
	}

	buf := make([]byte, size)
	n, err := protocol.Encode(buf, msg)
	if err != nil {
		t.Fatal(err)
	}
	if n != size {
		t.Errorf("size mismatch: encoded %d bytes but the size is %d", n, size)
	}
	if !bytes.Equal(buf, b) {
		t.Error("encoded and marshaled bytes differ")
	}

	if size > 0 {
		if _, err := protocol.Encode(buf[:size-1], msg); !errors.Is(err, io.ErrShortBuffer) {
			t.Errorf("encoding in a short buffer: expected io.ErrShortBuffer but got %v", err)
		}
	}
}

// checkEqual verifies that found, decoded from the encoding of expected, is
// equal to it and hashes the same, and that decoding is deterministic.
func checkEqual(t *testing.T, what string, expected, found protocol.Message) {
	t.Helper()

	if !protocol.Equal(expected, found) {
		t.Errorf("%s message mismatch:", what)
		t.Logf("expected: %+v", expected)
		t.Logf("found:    %+v", found)
		return
	}
	if h1, h2 := protocol.Hash(expected), protocol.Hash(found); h1 != h2 {
		t.Errorf("%s hash mismatch: %016x != %016x", what, h1, h2)
	}

	b, err := protocol.Marshal(found)
	if err != nil {
		t.Fatal(err)
	}
	again, err := parse(found, b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(found, again) {
		t.Errorf("%s decoding is not deterministic:", what)
		t.Logf("first:  %+v", found)
		t.Logf("second: %+v", again)
	}
}

func parse(m protocol.Message, b []byte) (protocol.Message, error) {
	if _, ok := m.(protocol.Request); ok {
		return protocol.ParseRequest(m.ApiKey(), m.Version(), b)
	}
	return protocol.ParseResponse(m.ApiKey(), m.Version(), b)
}

// ErrorCodes returns the error codes carried by msg, keyed by the path of the
// field holding them. Fields named error_code or ending in _error_code are
// error slots.
func ErrorCodes(t testing.TB, msg protocol.Message) map[string]protocol.ErrorCode {
	t.Helper()

	st, err := msg.ToStruct()
	if err != nil {
		t.Fatal(err)
	}
	codes := make(map[string]protocol.ErrorCode)
	walk(st, "", codes)
	return codes
}

func walk(st *protocol.Struct, prefix string, codes map[string]protocol.ErrorCode) {
	for _, f := range st.Schema().Fields() {
		v, _ := st.Get(f.Name)
		path := prefix + f.Name

		switch x := v.(type) {
		case int16:
			if f.Name == "error_code" || strings.HasSuffix(f.Name, "_error_code") {
				codes[path] = protocol.ErrorCode(x)
			}
		case *protocol.Struct:
			walk(x, path+".", codes)
		case []any:
			for i, e := range x {
				if s, ok := e.(*protocol.Struct); ok {
					walk(s, fmt.Sprintf("%s[%d].", path, i), codes)
				}
			}
		}
	}
}
