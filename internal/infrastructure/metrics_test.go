package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RowsLoaded(3)
	m.RowRejected()
	m.Aggregation("mean", nil)
	m.Aggregation("mean", errors.New("empty"))
	m.Aggregation("mean", errors.New("empty"))
	m.Chart("dashboard", nil)
	m.Export("xlsx", nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues("mean", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.aggregations.WithLabelValues("mean", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.charts.WithLabelValues("dashboard", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("xlsx", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RowsLoaded(1)
		m.RowRejected()
		m.Aggregation("count", nil)
		m.Chart("x", nil)
		m.Export("csv", nil)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "none.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsLoaded(42)

	path := filepath.Join(t.TempDir(), "startupcli.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "startupcli_dataset_rows_loaded_total 42")
}
