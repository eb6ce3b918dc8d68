package observability

import (
	"testing"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordMessage("config.addTopic", false, 128)
	RecordMessage("topic.onMessage", true, 64)
	RecordDecodeFailure("truncated")
	RecordFragmentChunk()
	RecordReassembly()
}
