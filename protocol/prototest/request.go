package prototest

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/kwire/kafka-protocol/protocol"
)

// TestRequest checks that msg survives a round trip through a request frame
// at its version: the decoded request equals the original and hashes the
// same, and the encoded size is exact.
func TestRequest(t *testing.T, msg protocol.Request) {
	t.Helper()

	t.Run(fmt.Sprintf("v%d", msg.Version()), func(t *testing.T) {
		checkSize(t, msg)

		b := &bytes.Buffer{}

		if err := protocol.WriteRequest(b, 1234, "me", msg); err != nil {
			t.Fatal(err)
		}

		t.Logf("\n%s\n", hex.Dump(b.Bytes()))

		header, req, err := protocol.ReadRequest(bufio.NewReader(b), 0)
		if err != nil {
			t.Fatal(err)
		}
		if header.ApiKey != msg.ApiKey() {
			t.Errorf("api key mismatch: %s != %s", header.ApiKey, msg.ApiKey())
		}
		if header.ApiVersion != msg.Version() {
			t.Errorf("api version mismatch: %d != %d", header.ApiVersion, msg.Version())
		}
		if header.CorrelationID != 1234 {
			t.Errorf("correlation id mismatch: %d != %d", header.CorrelationID, 1234)
		}
		if header.ClientID != "me" {
			t.Errorf("client id mismatch: %q != %q", header.ClientID, "me")
		}
		checkEqual(t, "request", msg, req)
	})
}

// TestErrorResponse checks that the error response of msg is built at the
// version of msg, reports the code derived from cause in every error slot,
// and survives a round trip.
func TestErrorResponse(t *testing.T, msg protocol.Request, cause error) {
	t.Helper()

	t.Run(fmt.Sprintf("v%d/error", msg.Version()), func(t *testing.T) {
		res := msg.ErrorResponse(cause)
		if res == nil {
			t.Fatal("error response is nil")
		}
		if res.ApiKey() != msg.ApiKey() {
			t.Errorf("api key mismatch: %s != %s", res.ApiKey(), msg.ApiKey())
		}
		if res.Version() != msg.Version() {
			t.Errorf("api version mismatch: %d != %d", res.Version(), msg.Version())
		}

		code := protocol.CodeFor(cause)
		for path, found := range ErrorCodes(t, res) {
			if found != code {
				t.Errorf("error code mismatch at %s: %d != %d", path, found, code)
			}
		}

		checkSize(t, res)
		checkResponseRoundTrip(t, res)
	})
}

func BenchmarkRequest(b *testing.B, msg protocol.Request) {
	b.Run(fmt.Sprintf("v%d", msg.Version()), func(b *testing.B) {
		buffer := &bytes.Buffer{}
		buffer.Grow(1024)

		b.Run("read", func(b *testing.B) {
			if err := protocol.WriteRequest(buffer, 1234, "client", msg); err != nil {
				b.Fatal(err)
			}

			p := buffer.Bytes()
			x := bytes.NewReader(p)
			r := bufio.NewReader(x)

			for i := 0; i < b.N; i++ {
				if _, _, err := protocol.ReadRequest(r, 0); err != nil {
					b.Fatal(err)
				}
				x.Reset(p)
				r.Reset(x)
			}

			b.SetBytes(int64(len(p)))
			buffer.Reset()
		})

		b.Run("write", func(b *testing.B) {
			n := int64(0)

			for i := 0; i < b.N; i++ {
				if err := protocol.WriteRequest(buffer, 1234, "client", msg); err != nil {
					b.Fatal(err)
				}
				n = int64(buffer.Len())
				buffer.Reset()
			}

			b.SetBytes(n)
		})
	})
}
