package charts

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"startupcli/internal/services"
)

func (r *Renderer) newPlot(c services.Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	if len(c.Notes) > 0 {
		p.Title.Text += "\n" + strings.Join(c.Notes, "\n")
	}
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	return p
}

func rotateXLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func (r *Renderer) renderBar(c services.Chart, path string) error {
	p := r.newPlot(c)
	s := c.Series[0]

	values := make(plotter.Values, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		values[i] = pt.Y
		labels[i] = pt.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = r.color(s.Name, s.Color)
	bars.LineStyle.Width = vg.Length(0)

	if c.Kind == services.ChartHBar {
		bars.Horizontal = true
		p.Add(bars)
		p.NominalY(labels...)
	} else {
		p.Add(bars)
		p.NominalX(labels...)
		rotateXLabels(p)
	}
	p.Add(plotter.NewGrid())

	return p.Save(r.Width, r.Height, path)
}

func (r *Renderer) renderGrouped(c services.Chart, path string) error {
	p := r.newPlot(c)

	width := vg.Points(12)
	n := len(c.Series)
	for i, s := range c.Series {
		values := make(plotter.Values, len(s.Points))
		for j, pt := range s.Points {
			values[j] = pt.Y
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.Color = r.color(s.Name, s.Color)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width

		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.Legend.Top = true
	p.NominalX(c.Labels()...)
	rotateXLabels(p)
	p.Add(plotter.NewGrid())

	return p.Save(r.Width, r.Height, path)
}

func (r *Renderer) renderBox(c services.Chart, path string) error {
	p := r.newPlot(c)
	s := c.Series[0]

	values := make(plotter.Values, len(s.Points))
	for i, pt := range s.Points {
		values[i] = pt.Y
	}

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, values)
	if err != nil {
		return err
	}
	box.FillColor = r.color(s.Name, s.Color)

	p.Add(box)
	p.NominalX(s.Name)
	p.Add(plotter.NewGrid())

	return p.Save(r.Width, r.Height, path)
}

func (r *Renderer) renderScatter(c services.Chart, path string) error {
	p := r.newPlot(c)
	s := c.Series[0]

	xys := make(plotter.XYs, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
		labels[i] = pt.Label
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = r.color(s.Name, s.Color)
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}

	p.Add(scatter, names, plotter.NewGrid())

	return p.Save(r.Width, r.Height, path)
}

// grid adapts region-by-category counts to plotter.GridXYZ. Columns are
// categories, rows are series.
type grid struct {
	series []services.Series
}

func (g grid) Dims() (c, r int) {
	if len(g.series) == 0 {
		return 0, 0
	}
	return len(g.series[0].Points), len(g.series)
}

func (g grid) Z(c, r int) float64 { return g.series[r].Points[c].Y }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func (r *Renderer) renderHeatmap(c services.Chart, path string) error {
	p := r.newPlot(c)
	g := grid{series: c.Series}

	heat := plotter.NewHeatMap(g, palette.Heat(12, 1))
	// a flat grid would give the palette a zero range
	if heat.Min == heat.Max {
		heat.Max = heat.Min + 1
	}
	p.Add(heat)

	cols, rows := g.Dims()
	var labels plotter.XYLabels
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: g.X(col), Y: g.Y(row)})
			labels.Labels = append(labels.Labels, formatCount(g.Z(col, row)))
		}
	}
	values, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(values)

	names := make([]string, rows)
	for i, s := range c.Series {
		names[i] = s.Name
	}
	p.NominalX(c.Labels()...)
	p.NominalY(names...)
	rotateXLabels(p)

	return p.Save(r.Width, r.Height, path)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
