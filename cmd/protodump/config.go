package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/schema"
)

type dumpConfig struct {
	Input         string
	MaxFrameBytes int
	MetricsListen string
	Operations    []*schema.Operation
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{
		Input:         "-",
		MaxFrameBytes: proto.DefaultLimits().MaxFrameBytes,
	}
}

type fileConfig struct {
	Input         string          `toml:"input"`
	MaxFrameBytes int64           `toml:"max_frame_bytes"`
	MetricsListen string          `toml:"metrics_listen"`
	Operations    []fileOperation `toml:"operation"`
}

type fileOperation struct {
	Name             string      `toml:"name"`
	RequestType      uint16      `toml:"request_type"`
	ResponseType     uint16      `toml:"response_type"`
	Retryable        bool        `toml:"retryable"`
	AcquiresResource bool        `toml:"acquires_resource"`
	Partitioned      bool        `toml:"partitioned"`
	Fixed            []fileField `toml:"fixed"`
}

type fileField struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

func loadDumpConfig(path string) (dumpConfig, error) {
	cfg := defaultDumpConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load protodump config: %w", err)
	}

	if meta.IsDefined("input") {
		input := strings.TrimSpace(raw.Input)
		if input != "" {
			cfg.Input = input
		}
	}

	if meta.IsDefined("max_frame_bytes") {
		if raw.MaxFrameBytes <= 0 {
			return dumpConfig{}, fmt.Errorf("max_frame_bytes must be positive, got %d", raw.MaxFrameBytes)
		}
		cfg.MaxFrameBytes = int(raw.MaxFrameBytes)
	}

	if meta.IsDefined("metrics_listen") {
		cfg.MetricsListen = strings.TrimSpace(raw.MetricsListen)
	}

	for _, op := range raw.Operations {
		compiled, err := toOperation(op)
		if err != nil {
			return dumpConfig{}, err
		}
		cfg.Operations = append(cfg.Operations, compiled)
	}

	return cfg, nil
}

func toOperation(raw fileOperation) (*schema.Operation, error) {
	op := &schema.Operation{
		Name:             strings.TrimSpace(raw.Name),
		RequestType:      raw.RequestType,
		ResponseType:     raw.ResponseType,
		Retryable:        raw.Retryable,
		AcquiresResource: raw.AcquiresResource,
		Partitioned:      raw.Partitioned,
	}
	for _, f := range raw.Fixed {
		width, err := fieldWidth(f.Type)
		if err != nil {
			return nil, fmt.Errorf("operation %q field %q: %w", raw.Name, f.Name, err)
		}
		op.Fixed = append(op.Fixed, schema.FixedField{
			Name:  strings.TrimSpace(f.Name),
			Width: width,
		})
	}
	return op, nil
}

func fieldWidth(fieldType string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(fieldType)) {
	case "bool", "boolean":
		return schema.WidthBool, nil
	case "int", "int32":
		return schema.WidthInt32, nil
	case "long", "int64":
		return schema.WidthInt64, nil
	case "uuid":
		return schema.WidthUUID, nil
	default:
		return 0, fmt.Errorf("unknown fixed field type %q", fieldType)
	}
}
