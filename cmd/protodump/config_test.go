package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/schema"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "protodump.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDumpConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := loadDumpConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Input != "-" {
		t.Fatalf("default input: %q", cfg.Input)
	}
	if cfg.MaxFrameBytes != proto.DefaultLimits().MaxFrameBytes {
		t.Fatalf("default max frame bytes: %d", cfg.MaxFrameBytes)
	}
	if len(cfg.Operations) != 0 {
		t.Fatalf("default operations: %d", len(cfg.Operations))
	}
}

func TestLoadDumpConfigOperations(t *testing.T) {
	path := writeConfig(t, `
input = "capture.bin"
max_frame_bytes = 65536
metrics_listen = "127.0.0.1:2112"

[[operation]]
name = "config.addTopic"
request_type = 7688
response_type = 100
retryable = false
partitioned = true

  [[operation.fixed]]
  name = "globalOrderingEnabled"
  type = "bool"

  [[operation.fixed]]
  name = "backupCount"
  type = "int"
`)
	cfg, err := loadDumpConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Input != "capture.bin" || cfg.MaxFrameBytes != 65536 || cfg.MetricsListen != "127.0.0.1:2112" {
		t.Fatalf("config: %+v", cfg)
	}
	if len(cfg.Operations) != 1 {
		t.Fatalf("operations: %d", len(cfg.Operations))
	}
	op := cfg.Operations[0]
	if op.Name != "config.addTopic" || op.RequestType != 7688 || !op.Partitioned {
		t.Fatalf("operation: %+v", op)
	}
	if len(op.Fixed) != 2 || op.Fixed[0].Width != schema.WidthBool || op.Fixed[1].Width != schema.WidthInt32 {
		t.Fatalf("fixed fields: %+v", op.Fixed)
	}
}

func TestLoadDumpConfigRejectsBadFieldType(t *testing.T) {
	path := writeConfig(t, `
[[operation]]
name = "broken"
request_type = 1

  [[operation.fixed]]
  name = "x"
  type = "float"
`)
	if _, err := loadDumpConfig(path); err == nil {
		t.Fatalf("expected error for unknown field type")
	}
}

func TestLoadDumpConfigRejectsBadFrameLimit(t *testing.T) {
	path := writeConfig(t, "max_frame_bytes = -1\n")
	if _, err := loadDumpConfig(path); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}
