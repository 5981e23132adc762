package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveInputRows(3)
	m.ObserveLongRecords(78)
	m.ObserveSummaryRecords(26)
	m.ObservePublish("kafka", nil)
	m.ObservePublish("kafka", errors.New("broker down"))
	m.ObservePublish("influxdb", nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.inputRows))
	assert.Equal(t, 78.0, testutil.ToFloat64(m.longRecords))
	assert.Equal(t, 26.0, testutil.ToFloat64(m.summaryRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sinkPublish.WithLabelValues("kafka", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sinkPublish.WithLabelValues("kafka", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sinkPublish.WithLabelValues("influxdb", ResultSuccess)))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveStage("transpose", 1500*time.Millisecond)
	m.MarkRunFinished(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "mfred.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mfred_stage_duration_seconds{stage="transpose"} 1.5`)
	assert.Contains(t, string(data), "mfred_last_run_timestamp_seconds")
}
