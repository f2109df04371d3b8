package output

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
)

func TestExportSeriesCSV(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	series := []compute.SeriesPoint{
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Value: 0.42},
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Value: 0.37},
	}

	path, err := ExportSeriesCSV(series, "series_test")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,value", lines[0])
	assert.Contains(t, lines[1], "2024-01-05")
	assert.Contains(t, lines[1], "0.42")
}

func TestExportSeriesCSVEmpty(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	_, err := ExportSeriesCSV(nil, "empty_series")
	assert.Error(t, err)
}

func TestExportStatsCSV(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	stats := []analysis.Stat{
		{Label: "Mean AGB (t/ha)", Value: "52.4"},
		{Label: "Total carbon (t C)", Value: "1180.7"},
	}

	path, err := ExportStatsCSV(stats, "stats_test")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "metric,value")
	assert.Contains(t, content, "Total carbon (t C)")
}

func TestExportStatsCSVEmpty(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	_, err := ExportStatsCSV(nil, "empty_stats")
	assert.Error(t, err)
}
