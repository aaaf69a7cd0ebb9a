package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/internal/infrastructure"
	"startupcli/internal/shared/testutil"
	"startupcli/pkg/contracts"
	"startupcli/pkg/contracts/domain"
)

// setupCLI writes a dataset and a config pointing every output into a
// temp dir and returns the leading flags for run.
func setupCLI(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()

	dataFile := testutil.WriteDataset(t, dir, testutil.StartupsCSV)
	configFile := testutil.WriteConfig(t, dir)

	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	return dir, []string{"--config", configFile, "--data", dataFile}
}

func execute(t *testing.T, flags []string, args ...string) (string, error) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	var out bytes.Buffer
	err := run(context.Background(), append(append([]string{}, flags...), args...), &out)
	return out.String(), err
}

func TestSummary(t *testing.T) {
	_, flags := setupCLI(t)

	out, err := execute(t, flags, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Startups")
	assert.Contains(t, out, "Fintech (3 startups)")

	out, err = execute(t, flags, "summary", "--region", "Europe", "--json")
	require.NoError(t, err)

	var cards []dataprocessing.MetricCard
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 8)
	assert.Equal(t, dataprocessing.CardTotalStartups, cards[0].Title)
	assert.Equal(t, "2", cards[0].Value)
}

func TestAggregate(t *testing.T) {
	dir, flags := setupCLI(t)

	out, err := execute(t, flags, "aggregate",
		"--metric", "mean", "--column", "valuation", "--group-by", "country",
		"--sort", "desc", "--top", "2", "--out", "mean_by_country.csv", "--json")
	require.NoError(t, err)

	var res domain.AggregationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "United States", res.Groups[0].Key)
	assert.InDelta(t, 97.65, res.Groups[0].Value.Number, 1e-9)
	assert.Equal(t, "China", res.Groups[1].Key)

	written, err := os.ReadFile(filepath.Join(dir, "reports", "mean_by_country.csv"))
	require.NoError(t, err)
	content := strings.TrimPrefix(string(written), "\ufeff")
	assert.True(t, strings.HasPrefix(content, "Country,mean Valuation ($B)\n"), content)
}

func TestAggregate_InvalidRequests(t *testing.T) {
	_, flags := setupCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown metric", args: []string{"--metric", "variance"}},
		{name: "unknown column", args: []string{"--metric", "mode", "--column", "founder"}},
		{name: "non-numeric mean", args: []string{"--metric", "mean", "--column", "city"}},
		{name: "unknown sort", args: []string{"--group-by", "city", "--sort", "random"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, flags, append([]string{"aggregate"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidAggregation(err), err.Error())
		})
	}
}

func TestTopAndBins(t *testing.T) {
	_, flags := setupCLI(t)

	out, err := execute(t, flags, "top", "industry", "-n", "1", "--region", "Europe")
	require.NoError(t, err)
	assert.Contains(t, out, "Fintech")
	assert.NotContains(t, out, "Aerospace")

	out, err = execute(t, flags, "bins", "--json")
	require.NoError(t, err)

	var dist []dataprocessing.BinCount
	require.NoError(t, json.Unmarshal([]byte(out), &dist))
	require.Len(t, dist, 5)
	assert.Equal(t, 1, dist[3].Count)
	assert.Equal(t, 5, dist[4].Count)
}

func TestInvestors(t *testing.T) {
	_, flags := setupCLI(t)

	out, err := execute(t, flags, "investors", "--by", "count", "-n", "1", "--json")
	require.NoError(t, err)

	var totals []dataprocessing.InvestorTotal
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, "Sequoia Capital", totals[0].Investor)
	assert.Equal(t, 3.0, totals[0].Value)

	out, err = execute(t, flags, "investors", "--by", "value", "--attribution", "split", "-n", "1", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	assert.Equal(t, "Sequoia Capital", totals[0].Investor)
	assert.InDelta(t, 101.0, totals[0].Value, 1e-9)

	_, err = execute(t, flags, "investors", "--by", "age")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	_, flags := setupCLI(t)

	out, err := execute(t, flags, "compare", "--json")
	require.NoError(t, err)

	var cmp dataprocessing.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, []string{"USA", "China", "Europe"}, cmp.Regions)
	for _, u := range cmp.Unicorns {
		assert.Equal(t, 2.0, u.Value, u.Region)
	}

	out, err = execute(t, flags, "compare", "--region", "China", "--region", "USA")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean Valuation ($B)")
	assert.Less(t, strings.Index(out, "USA"), strings.Index(out, "China"))
}

func TestView(t *testing.T) {
	_, flags := setupCLI(t)

	out, err := execute(t, flags, "view", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Valuation Distribution")
	assert.Contains(t, out, "Total Valuation")

	out, err = execute(t, flags, "view", "map", "--region", "Europe")
	require.NoError(t, err)
	assert.Contains(t, out, "Klarna")
	assert.NotContains(t, out, "Stripe")

	_, err = execute(t, flags, "view", "weather")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = execute(t, flags, "summary", "--region", "Mars")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestArtifacts(t *testing.T) {
	dir, flags := setupCLI(t)

	out, err := execute(t, flags, "charts", "compare")
	require.NoError(t, err)
	files := strings.Fields(out)
	assert.Len(t, files, 4)
	for _, f := range files {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	out, err = execute(t, flags, "export")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("reports", "startup_insights.xlsx"), strings.TrimSpace(out))

	out, err = execute(t, flags, "export", "--xlsx=false", "--csv", "--region", "USA")
	require.NoError(t, err)
	files = strings.Fields(out)
	require.NotEmpty(t, files)
	assert.Equal(t, filepath.Join("reports", "data", "startups.csv"), files[0])

	_, err = execute(t, flags, "export", "--xlsx=false")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))

	out, err = execute(t, flags, "charts", "dashboard", "--out", "png")
	require.NoError(t, err)
	for _, f := range strings.Fields(out) {
		assert.True(t, strings.HasPrefix(f, "png"+string(filepath.Separator)), f)
	}

	out, err = execute(t, flags, "map")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("reports", "circle_marker_cluster_map.html"), strings.TrimSpace(out))
}

func TestDataLoadErrorIsFatal(t *testing.T) {
	_, flags := setupCLI(t)
	flags[3] = filepath.Join(t.TempDir(), "missing.csv")

	_, err := execute(t, flags, "summary")
	require.Error(t, err)
	assert.True(t, apperrors.IsDataLoad(err))
}

func TestVersionNeedsNoDataset(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	flags := []string{"--data", filepath.Join(t.TempDir(), "missing.csv")}

	out, err := execute(t, flags, "version")
	require.NoError(t, err)
	assert.Contains(t, out, contracts.Version)

	out, err = execute(t, flags, "version", "--json")
	require.NoError(t, err)
	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, contracts.Version, info.Version)
}
