package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/monitoring"
)

var requiredColumns = []string{"x", "y", "speed", "steering_angle"}

// LoadEpisodeCSV reads one episode from a CSV file. The episode is named
// after the file's base name.
func LoadEpisodeCSV(path string) (Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return Episode{}, err
	}
	defer f.Close()

	ep, err := ReadEpisodeCSV(f, filepath.Base(path))
	if err != nil {
		return Episode{}, fmt.Errorf("%s: %w", path, err)
	}
	return ep, nil
}

// LoadEpisodes loads every path, skipping (and logging) files that fail.
func LoadEpisodes(paths []string) StaticSource {
	var out StaticSource
	for _, path := range paths {
		ep, err := LoadEpisodeCSV(path)
		if err != nil {
			monitoring.Logf("skipping episode: %v", err)
			continue
		}
		out = append(out, ep)
	}
	return out
}

// ReadEpisodeCSV parses telemetry rows. Columns are matched
// case-insensitively; x, y, speed and steering_angle are required, while
// step, heading (or bearing) and slide are optional. Missing headings are
// derived from consecutive positions.
func ReadEpisodeCSV(r io.Reader, name string) (Episode, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return Episode{}, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return Episode{}, fmt.Errorf("missing required column: %s", c)
		}
	}

	headingCol, hasHeading := cols["heading"]
	if !hasHeading {
		headingCol, hasHeading = cols["bearing"]
	}
	slideCol, hasSlide := cols["slide"]
	stepCol, hasStep := cols["step"]

	rows, err := reader.ReadAll()
	if err != nil {
		return Episode{}, fmt.Errorf("read rows: %w", err)
	}

	parseOrZero := func(row []string, col int) float64 {
		if col >= len(row) {
			return 0
		}
		v, ok := parseFinite(row[col])
		if !ok {
			return 0
		}
		return v
	}

	samples := make([]Sample, 0, len(rows))
	for i, row := range rows {
		s := Sample{
			Step:            i,
			Position:        geometry.Point{X: parseOrZero(row, cols["x"]), Y: parseOrZero(row, cols["y"])},
			Speed:           parseOrZero(row, cols["speed"]),
			SteeringDegrees: parseOrZero(row, cols["steering_angle"]),
		}
		if hasStep {
			s.Step = int(parseOrZero(row, stepCol))
		}
		if hasHeading {
			s.Heading = geometry.Normalize(parseOrZero(row, headingCol))
		}
		if hasSlide && slideCol < len(row) {
			if v, ok := parseFinite(row[slideCol]); ok {
				s.Slide = &v
			}
		}
		samples = append(samples, s)
	}

	if !hasHeading {
		DeriveHeadings(samples)
	}

	return NewEpisode(name, samples), nil
}

// parseFinite parses a numeric cell. NaN and infinities count as malformed.
func parseFinite(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DeriveHeadings fills Heading from the direction of travel between
// consecutive samples. A stationary sample keeps the previous heading and
// the first sample takes the first heading that could be derived.
func DeriveHeadings(samples []Sample) {
	if len(samples) < 2 {
		return
	}
	first := -1
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1].Position, samples[i].Position
		if geometry.Distance(prev, cur) == 0 {
			samples[i].Heading = samples[i-1].Heading
			continue
		}
		samples[i].Heading = geometry.BearingBetween(prev, cur)
		if first < 0 {
			first = i
		}
	}
	if first > 0 {
		for i := 0; i < first; i++ {
			samples[i].Heading = samples[first].Heading
		}
	}
}
