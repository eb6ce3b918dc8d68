package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLoggerTagsAppName(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	defer func() { log.Logger = prev }()
	log.Logger = zerolog.New(&buf)

	logger := InitLogger("protodump")
	logger.Info().Msg("ready")
	if !strings.Contains(buf.String(), `"app":"protodump"`) {
		t.Fatalf("app tag missing from output: %s", buf.String())
	}

	buf.Reset()
	log.Info().Msg("global")
	if !strings.Contains(buf.String(), `"app":"protodump"`) {
		t.Fatalf("global logger not tagged: %s", buf.String())
	}
}
