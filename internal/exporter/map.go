package exporter

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	apperrors "startupcli/internal/errors"
	"startupcli/internal/services"
)

//go:embed templates/map.html.tmpl
var mapTemplateText string

var mapTemplate = template.Must(template.New("map").Parse(mapTemplateText))

const markerRadius = 7

type mapMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

type mapGroup struct {
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Radius  int         `json:"radius"`
	Markers []mapMarker `json:"markers"`
}

type mapPage struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Groups    []mapGroup
}

// MapExporter writes an interactive Leaflet map with one marker cluster
// per region and a layer control to toggle them.
type MapExporter struct {
	Title    string
	recorder Recorder
	logger   *slog.Logger
}

// NewMapExporter creates a map exporter.
func NewMapExporter(recorder Recorder, logger *slog.Logger) *MapExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &MapExporter{
		Title:    "Startup Map",
		recorder: recorder,
		logger:   logger.With(slog.String("component", "map_exporter")),
	}
}

// Export writes the map for groups to path.
func (e *MapExporter) Export(path string, groups []services.MarkerGroup) error {
	err := e.export(path, groups)
	e.recorder.Export("map", err)
	return err
}

func (e *MapExporter) export(path string, groups []services.MarkerGroup) error {
	var buf bytes.Buffer
	if err := e.Write(&buf, groups); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err).WithContext("path", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewExportError("failed to write map", err).WithContext("path", path)
	}

	markers := 0
	for _, g := range groups {
		markers += len(g.Markers)
	}
	e.logger.Info("Map exported",
		slog.String("path", path),
		slog.Int("clusters", len(groups)),
		slog.Int("markers", markers))
	return nil
}

// Write renders the map page to w. The output depends only on groups.
func (e *MapExporter) Write(w io.Writer, groups []services.MarkerGroup) error {
	page := mapPage{
		Title:     e.Title,
		CenterLat: 20,
		CenterLon: 0,
		Zoom:      2,
		Groups:    make([]mapGroup, len(groups)),
	}

	for i, g := range groups {
		mg := mapGroup{
			Name:    g.Region + " Startups",
			Color:   g.Color,
			Radius:  markerRadius,
			Markers: make([]mapMarker, len(g.Markers)),
		}
		if mg.Color == "" {
			mg.Color = "#1a73e8"
		}
		for j, m := range g.Markers {
			mg.Markers[j] = mapMarker{Lat: m.Latitude, Lon: m.Longitude, Popup: popup(m)}
		}
		page.Groups[i] = mg
	}

	if err := mapTemplate.Execute(w, page); err != nil {
		return apperrors.NewExportError("failed to render map", err)
	}
	return nil
}

func popup(m services.Marker) string {
	return fmt.Sprintf("Company: %s<br>City: %s<br>Country: %s<br>Valuation ($B): %s",
		template.HTMLEscapeString(m.Company),
		template.HTMLEscapeString(m.City),
		template.HTMLEscapeString(m.Country),
		strconv.FormatFloat(m.Valuation, 'f', -1, 64))
}
