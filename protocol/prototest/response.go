package prototest

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/kwire/kafka-protocol/protocol"
)

// TestResponse checks that msg survives a round trip through a response frame
// at its version.
func TestResponse(t *testing.T, msg protocol.Message) {
	t.Helper()

	t.Run(fmt.Sprintf("v%d", msg.Version()), func(t *testing.T) {
		checkSize(t, msg)
		checkResponseRoundTrip(t, msg)
	})
}

func checkResponseRoundTrip(t *testing.T, msg protocol.Message) {
	t.Helper()

	b := &bytes.Buffer{}
	w := bufio.NewWriter(b)

	if err := protocol.WriteResponse(w, 1234, msg); err != nil {
		t.Fatal(err)
	}

	t.Logf("\n%s", hex.Dump(b.Bytes()))

	correlationID, res, err := protocol.ReadResponse(bufio.NewReader(b), msg.ApiKey(), msg.Version(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if correlationID != 1234 {
		t.Errorf("correlation id mismatch: %d != %d", correlationID, 1234)
	}
	checkEqual(t, "response", msg, res)
}

func BenchmarkResponse(b *testing.B, msg protocol.Message) {
	b.Run(fmt.Sprintf("v%d", msg.Version()), func(b *testing.B) {
		apiKey := msg.ApiKey()
		buffer := &bytes.Buffer{}
		buffer.Grow(1024)

		b.Run("read", func(b *testing.B) {
			w := bufio.NewWriter(buffer)

			if err := protocol.WriteResponse(w, 1234, msg); err != nil {
				b.Fatal(err)
			}

			p := buffer.Bytes()
			x := bytes.NewReader(p)
			r := bufio.NewReader(x)

			for i := 0; i < b.N; i++ {
				if _, _, err := protocol.ReadResponse(r, apiKey, msg.Version(), 0); err != nil {
					b.Fatal(err)
				}
				x.Reset(p)
				r.Reset(x)
			}

			b.SetBytes(int64(len(p)))
			buffer.Reset()
		})

		b.Run("write", func(b *testing.B) {
			w := bufio.NewWriter(buffer)
			n := int64(0)

			for i := 0; i < b.N; i++ {
				if err := protocol.WriteResponse(w, 1234, msg); err != nil {
					b.Fatal(err)
				}
				n = int64(buffer.Len())
				buffer.Reset()
			}

			b.SetBytes(n)
		})
	})
}
