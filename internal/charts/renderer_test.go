package charts

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "startupcli/internal/errors"
	"startupcli/internal/services"
	"startupcli/internal/shared/testutil"
	"startupcli/pkg/contracts/domain"
)

type exportCounter struct {
	ok, failed int
}

func (c *exportCounter) Export(kind string, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func testRegions() []domain.RegionRule {
	usa := domain.ExactCountry("USA", "United States")
	usa.Color = "#1a73e8"
	china := domain.ExactCountry("China", "China")
	china.Color = "#dc3912"
	return []domain.RegionRule{usa, china}
}

func series(name string, points ...services.Point) services.Series {
	return services.Series{Name: name, Points: points}
}

func TestRenderer_RenderKinds(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(testRegions(), nil, nil)

	industries := []services.Point{{Label: "Fintech", Y: 3}, {Label: "Aerospace", Y: 1}}

	tests := []services.Chart{
		{ID: "bar", Title: "Bar", Kind: services.ChartBar, Series: []services.Series{series("USA", industries...)}},
		{ID: "hbar", Title: "HBar", Kind: services.ChartHBar, Series: []services.Series{series("USA", industries...)}},
		{ID: "pie", Title: "Pie", Kind: services.ChartPie, Series: []services.Series{
			series("Startups", services.Point{Label: "USA", Y: 3}, services.Point{Label: "China", Y: 2}),
		}},
		{ID: "box", Title: "Box", Kind: services.ChartBox, Notes: []string{"Median: 2.00"}, Series: []services.Series{
			series("China", services.Point{Label: "a", Y: 1}, services.Point{Label: "b", Y: 2}, services.Point{Label: "c", Y: 40}),
		}},
		{ID: "scatter", Title: "Scatter", Kind: services.ChartScatter, Series: []services.Series{
			series("USA", services.Point{Label: "Fintech", X: 3, Y: 12.5}, services.Point{Label: "Aerospace", X: 1, Y: 100}),
		}},
		{ID: "grouped", Title: "Grouped", Kind: services.ChartGrouped, Series: []services.Series{
			series("USA", industries...),
			series("China", services.Point{Label: "Fintech", Y: 0}, services.Point{Label: "Aerospace", Y: 2}),
		}},
		{ID: "heatmap", Title: "Heatmap", Kind: services.ChartHeatmap, Series: []services.Series{
			series("USA", industries...),
			series("China", services.Point{Label: "Fintech", Y: 0}, services.Point{Label: "Aerospace", Y: 2}),
		}},
	}

	for _, c := range tests {
		t.Run(c.ID, func(t *testing.T) {
			path, err := r.Render(c, dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, c.ID+".png"), path)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestRenderer_FlatHeatmap(t *testing.T) {
	r := NewRenderer(nil, nil, nil)
	c := services.Chart{ID: "flat", Kind: services.ChartHeatmap, Series: []services.Series{
		series("USA", services.Point{Label: "Fintech", Y: 1}),
		series("China", services.Point{Label: "Fintech", Y: 1}),
	}}

	_, err := r.Render(c, t.TempDir())
	assert.NoError(t, err)
}

func TestRenderer_Errors(t *testing.T) {
	rec := &exportCounter{}
	r := NewRenderer(nil, rec, nil)
	dir := t.TempDir()

	tests := []services.Chart{
		{ID: "failed", Kind: services.ChartBar, Err: "[INVALID_AGGREGATION] mean of empty subset"},
		{ID: "empty", Kind: services.ChartBar},
		{ID: "unknown", Kind: "radar", Series: []services.Series{series("x", services.Point{Label: "a", Y: 1})}},
		{ID: "zero_pie", Kind: services.ChartPie, Series: []services.Series{series("x", services.Point{Label: "a", Y: 0})}},
	}

	for _, c := range tests {
		t.Run(c.ID, func(t *testing.T) {
			_, err := r.Render(c, dir)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRender))
		})
	}
	assert.Equal(t, 4, rec.failed)
	assert.NoFileExists(t, filepath.Join(dir, "zero_pie.png"))
}

func TestRenderer_RenderAllSkipsFailedCharts(t *testing.T) {
	rec := &exportCounter{}
	logger, logs := testutil.NewTestLogger(t)
	r := NewRenderer(testRegions(), rec, logger)

	charts := []services.Chart{
		{ID: "ok", Kind: services.ChartBar, Series: []services.Series{series("USA", services.Point{Label: "a", Y: 1})}},
		{ID: "bad", Kind: services.ChartBar, Err: "no data"},
	}

	paths := r.RenderAll(charts, t.TempDir())
	require.Len(t, paths, 1)
	assert.Equal(t, "ok.png", filepath.Base(paths[0]))
	assert.Equal(t, 1, rec.ok)
	assert.Zero(t, rec.failed)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Skipping chart")
	testutil.AssertLogAttr(t, logs, "chart", "bad")
}

func TestRenderer_RenderAllContinuesAfterRenderError(t *testing.T) {
	rec := &exportCounter{}
	logger, logs := testutil.NewTestLogger(t)
	r := NewRenderer(testRegions(), rec, logger)
	dir := t.TempDir()

	charts := []services.Chart{
		{ID: "empty_pie", Kind: services.ChartPie, Series: []services.Series{series("USA")}},
		{ID: "zero_pie", Kind: services.ChartPie, Series: []services.Series{series("USA", services.Point{Label: "a", Y: 0})}},
		{ID: "bar", Kind: services.ChartBar, Series: []services.Series{series("USA", services.Point{Label: "Fintech", Y: 3})}},
	}

	paths := r.RenderAll(charts, dir)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "bar.png"), paths[0])
	assert.FileExists(t, paths[0])
	assert.NoFileExists(t, filepath.Join(dir, "empty_pie.png"))
	assert.NoFileExists(t, filepath.Join(dir, "zero_pie.png"))
	assert.Equal(t, 1, rec.ok)
	assert.Equal(t, 2, rec.failed)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Chart not rendered")
	testutil.AssertLogAttr(t, logs, "chart", "empty_pie")
}

func TestFileName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "top_investors_USA", want: "top_investors_usa.png"},
		{id: "industry counts/Europe", want: "industry_counts_europe.png"},
		{id: "***", want: "chart.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(services.Chart{ID: tt.id}))
	}
}
