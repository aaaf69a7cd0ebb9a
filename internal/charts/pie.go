package charts

import (
	"errors"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"startupcli/internal/services"
)

// pieColors cycle for slices that are not regions.
var pieColors = []string{"#1a73e8", "#dc3912", "#ff9900", "#109618", "#990099", "#0099c6", "#dd4477", "#66aa00"}

func (r *Renderer) renderPie(c services.Chart, path string) error {
	points := c.Series[0].Points
	values := make([]chart.Value, 0, len(points))
	var total float64
	for i, p := range points {
		total += p.Y
		values = append(values, chart.Value{
			Label: p.Label,
			Value: p.Y,
			Style: chart.Style{
				FillColor: r.color(p.Label, pieColors[i%len(pieColors)]),
			},
		})
	}

	if total <= 0 {
		return errors.New("pie chart needs at least one positive value")
	}

	pie := chart.PieChart{
		Title:  c.Title,
		Width:  int(r.Width.Points()),
		Height: int(r.Height.Points()),
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pie.Render(chart.PNG, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
