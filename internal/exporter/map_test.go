package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupcli/internal/services"
)

func TestMapExporter_Write(t *testing.T) {
	svc := testService(t)
	groups, err := svc.MapMarkers(services.Filter{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewMapExporter(nil, nil).Write(&buf, groups))
	page := buf.String()

	assert.Contains(t, page, "leaflet.markercluster")
	assert.Contains(t, page, "L.control.layers")
	for _, name := range []string{"USA Startups", "China Startups", "Europe Startups"} {
		assert.Contains(t, page, name)
	}
	assert.Contains(t, page, "#dc3912")
	assert.Contains(t, page, "Stripe")
	assert.NotContains(t, page, "Plaid", "no coordinates")
	assert.NotContains(t, page, "Klarna <AB>", "popup text is escaped")
}

func TestMapExporter_Deterministic(t *testing.T) {
	svc := testService(t)
	groups, err := svc.MapMarkers(services.Filter{})
	require.NoError(t, err)

	var first, second bytes.Buffer
	exp := NewMapExporter(nil, nil)
	require.NoError(t, exp.Write(&first, groups))
	require.NoError(t, exp.Write(&second, groups))
	assert.Equal(t, first.String(), second.String())
}

func TestMapExporter_Export(t *testing.T) {
	svc := testService(t)
	groups, err := svc.MapMarkers(services.Filter{Regions: []string{"USA"}})
	require.NoError(t, err)

	rec := &exportCounter{}
	path := filepath.Join(t.TempDir(), "reports", "circle_marker_cluster_map.html")
	require.NoError(t, NewMapExporter(rec, nil).Export(path, groups))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<!DOCTYPE html>"))
	assert.NotContains(t, string(content), "China Startups")
	assert.Equal(t, 1, rec.counts["map_ok"])
}

func TestPopup(t *testing.T) {
	got := popup(services.Marker{Company: "A&B", City: "Paris", Country: "France", Valuation: 1.5})
	assert.Equal(t, "Company: A&amp;B<br>City: Paris<br>Country: France<br>Valuation ($B): 1.5", got)
}
