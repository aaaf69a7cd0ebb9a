package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// StartupsCSV is a small dataset covering the three default regions: two
// United States, two China and two European startups. Every row has
// coordinates and investors.
const StartupsCSV = `Company,Valuation ($B),Country,City,Industry,Select Investors,Latitude,Longitude
Stripe,95,United States,San Francisco,Fintech,"Sequoia Capital, Khosla Ventures",37.77,-122.42
SpaceX,100.3,United States,Hawthorne,Aerospace,"Founders Fund, Sequoia Capital",33.92,-118.33
ByteDance,140,China,Beijing,Artificial intelligence,"Sequoia Capital China, SIG Asia Investments",39.9,116.4
Shein,15,China,Shenzhen,E-commerce,"Tiger Global Management, Sequoia Capital China",22.54,114.06
Klarna,6.7,Sweden,Stockholm,Fintech,"Institutional Venture Partners, Sequoia Capital",59.33,18.07
Revolut,33,United Kingdom,London,Fintech,"index ventures, DST Global",51.51,-0.13
`

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteDataset writes csv as startups.csv in dir.
func WriteDataset(t *testing.T, dir, csv string) string {
	t.Helper()
	return WriteFile(t, dir, "startups.csv", csv)
}

// WriteConfig writes a YAML config rooted at dir that logs errors only.
// extra lines are appended verbatim and may add further sections.
func WriteConfig(t *testing.T, dir string, extra ...string) string {
	t.Helper()

	lines := []string{
		"paths:",
		"  base_dir: " + dir,
		"logging:",
		"  level: error",
	}
	lines = append(lines, extra...)
	return WriteFile(t, dir, "startupcli.yaml", strings.Join(lines, "\n")+"\n")
}
