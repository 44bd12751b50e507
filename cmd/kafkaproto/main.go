package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	kafka "github.com/kwire/kafka-protocol"
	"github.com/kwire/kafka-protocol/protocol"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "decode":
		err = decode(os.Args[2:], os.Stdin, os.Stdout)
	case "versions":
		err = versions(os.Stdout)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: kafkaproto <command> [options]

Commands:
  decode      Decode the request frames read from stdin
  versions    Print the api keys and versions supported
  version     Print version information`)
}

func decode(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	hexInput := fs.Bool("hex", false, "Read hex encoded frames (whitespace is ignored)")
	maxFrameSize := fs.Int("max-frame-size", kafka.DefaultMaxFrameSize, "Reject frames larger than this many bytes")
	respond := fs.Bool("respond", false, "Log the error response owed for frames that cannot be decoded")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	codec, err := kafka.NewCodec(kafka.Config{
		MaxFrameSize: *maxFrameSize,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) { logger.Info().Msgf(msg, args...) }),
		ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...any) { logger.Error().Msgf(msg, args...) }),
	})
	if err != nil {
		return err
	}

	if *hexInput {
		text, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		b, err := hex.DecodeString(strings.Join(strings.Fields(string(text)), ""))
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
		in = bytes.NewReader(b)
	}

	r := bufio.NewReader(in)
	for {
		h, req, err := codec.ReadFrame(r)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil && h == (protocol.RequestHeader{}):
			return err
		case err != nil:
			if *respond {
				f := codec.ErrorResponse(h, nil, err)
				logger.Info().
					Int32("correlation_id", h.CorrelationID).
					Int("size", f.Size()).
					Str("frame", hex.EncodeToString(f.Bytes())).
					Msg("error response")
			}
			continue
		}

		logger.Info().
			Str("api", h.ApiKey.String()).
			Int16("version", h.ApiVersion).
			Int32("correlation_id", h.CorrelationID).
			Str("client_id", h.ClientID).
			Str("request", fmt.Sprintf("%+v", req)).
			Msg("request")
	}
}

func versions(out io.Writer) error {
	codec, err := kafka.NewCodec(kafka.Config{})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tMIN\tMAX")
	for _, k := range codec.ApiVersions(0).ApiKeys {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", k.ApiKey, protocol.ApiKey(k.ApiKey), k.MinVersion, k.MaxVersion)
	}
	return w.Flush()
}
