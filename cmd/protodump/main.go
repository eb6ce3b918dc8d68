// Command protodump decodes a capture of client-protocol traffic: it reads
// wire frames, reassembles fragmented messages, resolves message types
// against the operations declared in its config, and logs one line per
// message.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/maduhu/hazelcast/internal/logging"
	"github.com/maduhu/hazelcast/internal/observability"
	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/fragment"
	"github.com/maduhu/hazelcast/internal/proto/schema"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "protodump: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "protodump.toml", "path to protodump config")
	inputPath := flag.String("input", "", "capture file to read, overrides config ('-' for stdin)")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("protodump")

	cfg, err := loadDumpConfig(*configPath)
	if err != nil {
		return err
	}
	if *inputPath != "" {
		cfg.Input = *inputPath
	}

	registry := schema.NewRegistry()
	for _, op := range cfg.Operations {
		if err := registry.Register(op); err != nil {
			return err
		}
	}

	if cfg.MetricsListen != "" {
		observability.RegisterMetrics()
		go serveMetrics(cfg.MetricsListen)
	}

	in, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	return dump(in, cfg, registry)
}

func dump(in io.Reader, cfg dumpConfig, registry *schema.Registry) error {
	limits := proto.Limits{MaxFrameBytes: cfg.MaxFrameBytes}
	reassembler := fragment.NewReassembler()
	count := 0

	for {
		wireMsg, err := proto.ReadMessage(in, limits)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			observability.RecordDecodeFailure(failureKind(err))
			return fmt.Errorf("read message %d: %w", count+1, err)
		}

		observability.RecordFragmentChunk()
		msg, done, err := reassembler.Accept(wireMsg)
		if err != nil {
			observability.RecordDecodeFailure("fragment")
			return fmt.Errorf("reassemble message %d: %w", count+1, err)
		}
		if !done {
			log.Debug().Int("frames", len(wireMsg.Frames)).Msg("buffered fragment chunk")
			continue
		}
		if msg != wireMsg {
			observability.RecordReassembly()
		}

		count++
		report(msg, registry)
	}

	if pending := reassembler.Pending(); pending > 0 {
		log.Warn().Int("pending", pending).Msg("capture ended with incomplete fragmented messages")
	}
	log.Info().Int("messages", count).Msg("capture decoded")
	return nil
}

func report(msg *proto.Message, registry *schema.Registry) {
	event := log.Info().
		Uint16("type", msg.MessageType()).
		Int64("correlation_id", msg.CorrelationID()).
		Int("bytes", msg.TotalLength()).
		Int("frames", len(msg.Frames)).
		Bool("event", msg.IsEvent())

	operation := "unknown"
	op, err := registry.LookupRequest(msg.MessageType())
	if err == nil {
		operation = op.Name
		if checkErr := op.CheckRequestFrame(msg.InitialFrame()); checkErr != nil {
			observability.RecordDecodeFailure("offset_out_of_bounds")
			log.Error().Err(checkErr).Str("operation", op.Name).Msg("initial frame shorter than declared schema")
			return
		}
		if op.Partitioned {
			event = event.Int32("partition_id", msg.PartitionID())
		}
	} else {
		observability.RecordDecodeFailure("unknown_message_type")
	}

	observability.RecordMessage(operation, msg.IsEvent(), msg.TotalLength())
	event.Str("operation", operation).Msg("message")
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, proto.ErrTruncated):
		return "truncated"
	case errors.Is(err, proto.ErrMalformedStructure):
		return "malformed_structure"
	case errors.Is(err, proto.ErrOffsetOutOfBounds):
		return "offset_out_of_bounds"
	case errors.Is(err, proto.ErrFrameTooLarge):
		return "frame_too_large"
	default:
		return "io"
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	return f, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
	}
}
