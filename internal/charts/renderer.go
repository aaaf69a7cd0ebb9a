package charts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/vg"

	apperrors "startupcli/internal/errors"
	"startupcli/internal/services"
	"startupcli/pkg/contracts/domain"
)

// DefaultColor is used for series that belong to no configured region.
const DefaultColor = "#1a73e8"

// Recorder counts written artifacts. *infrastructure.Metrics satisfies it.
type Recorder interface {
	Export(kind string, err error)
}

type noopRecorder struct{}

func (noopRecorder) Export(string, error) {}

// Renderer draws charts to PNG files: pies with go-chart, everything else
// with gonum/plot.
type Renderer struct {
	Width  vg.Length
	Height vg.Length

	colors   map[string]string
	logger   *slog.Logger
	recorder Recorder
}

// NewRenderer creates a renderer that colors regions as configured.
func NewRenderer(regions []domain.RegionRule, recorder Recorder, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	colors := make(map[string]string, len(regions))
	for _, r := range regions {
		if r.Color != "" {
			colors[r.Name] = r.Color
		}
	}
	return &Renderer{
		Width:    10 * vg.Inch,
		Height:   6 * vg.Inch,
		colors:   colors,
		logger:   logger.With(slog.String("component", "charts")),
		recorder: recorder,
	}
}

// Render writes chart to dir and returns the file path. Charts that failed
// to build cannot be rendered.
func (r *Renderer) Render(chart services.Chart, dir string) (string, error) {
	path, err := r.render(chart, dir)
	r.recorder.Export("chart", err)
	return path, err
}

func (r *Renderer) render(chart services.Chart, dir string) (string, error) {
	if chart.Failed() {
		return "", apperrors.NewRenderError("chart has no data", nil).
			WithContext("chart", chart.ID).
			WithContext("reason", chart.Err)
	}
	if len(chart.Series) == 0 {
		return "", apperrors.NewRenderError("chart has no series", nil).WithContext("chart", chart.ID)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewRenderError("failed to create charts directory", err).WithContext("dir", dir)
	}
	path := filepath.Join(dir, FileName(chart))

	var err error
	switch chart.Kind {
	case services.ChartPie:
		err = r.renderPie(chart, path)
	case services.ChartBar, services.ChartHBar:
		err = r.renderBar(chart, path)
	case services.ChartGrouped:
		err = r.renderGrouped(chart, path)
	case services.ChartBox:
		err = r.renderBox(chart, path)
	case services.ChartScatter:
		err = r.renderScatter(chart, path)
	case services.ChartHeatmap:
		err = r.renderHeatmap(chart, path)
	default:
		err = fmt.Errorf("unsupported chart kind %q", chart.Kind)
	}
	if err != nil {
		return "", apperrors.NewRenderError("failed to render chart", err).WithContext("chart", chart.ID)
	}

	r.logger.Debug("Chart rendered",
		slog.String("chart", chart.ID),
		slog.String("kind", string(chart.Kind)),
		slog.String("path", path))
	return path, nil
}

// RenderAll renders every chart that was built and returns the written
// paths. Failed charts are skipped and a chart that cannot be drawn is
// logged and recorded; neither stops the remaining charts.
func (r *Renderer) RenderAll(charts []services.Chart, dir string) []string {
	var paths []string
	for _, c := range charts {
		if c.Failed() {
			r.logger.Warn("Skipping chart",
				slog.String("chart", c.ID),
				slog.String("error", c.Err))
			continue
		}
		path, err := r.Render(c, dir)
		if err != nil {
			r.logger.Warn("Chart not rendered",
				slog.String("chart", c.ID),
				slog.String("error", err.Error()))
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileName returns the PNG file name for a chart.
func FileName(chart services.Chart) string {
	name := unsafeChars.ReplaceAllString(chart.ID, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "chart"
	}
	return strings.ToLower(name) + ".png"
}

// color resolves a series or point name to a color, falling back to
// fallback and then DefaultColor.
func (r *Renderer) color(name, fallback string) drawing.Color {
	hex := r.colors[name]
	if hex == "" {
		hex = fallback
	}
	if hex == "" {
		hex = DefaultColor
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
