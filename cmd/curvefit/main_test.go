package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/sequence"
)

// writeEpisode writes a northbound run with a left-hand steering burst
// between samples 10 and 21.
func writeEpisode(t *testing.T, dir, name string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("step,x,y,speed,steering_angle\n")
	for i := 0; i < 30; i++ {
		steer := 0
		if i >= 10 && i < 22 {
			steer = 15
		}
		fmt.Fprintf(&b, "%d,0,%g,%g,%d\n", i, float64(i)*0.5, 1+float64(i)*0.1, steer)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func writeTrack(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "straight.json")
	data := `{"name": "straight", "width": 2, "closed": false, "waypoints": [{"x": 0, "y": 0}, {"x": 0, "y": 5}, {"x": 0, "y": 10}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func quietLogs(t *testing.T) {
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })
}

func TestIngestAndMatch(t *testing.T) {
	for _, history := range []string{"curves.db", "curves.json"} {
		t.Run(history, func(t *testing.T) {
			quietLogs(t)
			dir := t.TempDir()
			db := filepath.Join(dir, history)
			ep1 := writeEpisode(t, dir, "one.csv")
			ep2 := writeEpisode(t, dir, "two.csv")

			var out bytes.Buffer
			require.NoError(t, runIngest([]string{"-db", db, "-episodes", ep1 + "," + ep2}, &out))
			assert.Contains(t, out.String(), "2 new sequences, 2 in history")

			// a second ingest appends duplicates
			out.Reset()
			require.NoError(t, runIngest([]string{"-db", db, ep1}, &out))
			assert.Contains(t, out.String(), "1 new sequences, 3 in history")

			png := filepath.Join(dir, "overlay.png")
			out.Reset()
			require.NoError(t, runMatch([]string{
				"-db", db, "-track", writeTrack(t, dir),
				"-click", "0,5", "-steering", "10:20", "-out", png,
			}, &out))
			assert.Contains(t, out.String(), "3 of 3 sequences match")
			info, err := os.Stat(png)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))

			// right-hand curves mirror the steering range
			out.Reset()
			require.NoError(t, runMatch([]string{
				"-db", db, "-track", writeTrack(t, dir),
				"-click", "0,5", "-steering", "10:20", "-right",
			}, &out))
			assert.Contains(t, out.String(), "0 of 3 sequences match")
		})
	}
}

func TestMatch_HTMLAndUnits(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "curves.json")
	require.NoError(t, runIngest([]string{"-db", db, "-episodes", writeEpisode(t, dir, "e.csv")}, &bytes.Buffer{}))

	// entry speed is 1.9 m/s, about 6.84 km/h
	html := filepath.Join(dir, "overlay.html")
	var out bytes.Buffer
	require.NoError(t, runMatch([]string{
		"-db", db, "-track", writeTrack(t, dir), "-click", "3,5",
		"-entry-speed", "6:7", "-units", "kph", "-out", html,
	}, &out))
	assert.Contains(t, out.String(), "1 of 1 sequences match")

	data, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "straight")

	out.Reset()
	require.NoError(t, runMatch([]string{
		"-db", db, "-track", writeTrack(t, dir), "-click", "3,5",
		"-entry-speed", "6:7",
	}, &out))
	assert.Contains(t, out.String(), "0 of 1 sequences match")
}

func TestMatch_Errors(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	track := writeTrack(t, dir)

	assert.ErrorContains(t, runMatch([]string{"-click", "0,0"}, &bytes.Buffer{}), "-track")
	assert.ErrorContains(t, runMatch([]string{"-track", track}, &bytes.Buffer{}), "-click")
	assert.Error(t, runMatch([]string{"-track", track, "-click", "0"}, &bytes.Buffer{}))
	assert.ErrorContains(t, runMatch([]string{"-track", track, "-click", "0,0", "-units", "knots"}, &bytes.Buffer{}), "unknown speed unit")
	assert.ErrorContains(t, runMatch([]string{"-track", track, "-click", "0,0", "-steering", "5"}, &bytes.Buffer{}), "lo:hi")
}

func TestIngest_Errors(t *testing.T) {
	quietLogs(t)
	dir := t.TempDir()
	assert.ErrorContains(t, runIngest([]string{"-db", filepath.Join(dir, "c.db")}, &bytes.Buffer{}), "no episodes")
	assert.ErrorContains(t, runIngest([]string{"-db", filepath.Join(dir, "c.db"), filepath.Join(dir, "missing.csv")}, &bytes.Buffer{}), "could be loaded")
}

func TestMigrate(t *testing.T) {
	quietLogs(t)
	db := filepath.Join(t.TempDir(), "curves.db")

	var out bytes.Buffer
	require.NoError(t, runMigrate([]string{"-db", db, "version"}, &out))
	assert.Contains(t, out.String(), "schema version 0")

	out.Reset()
	require.NoError(t, runMigrate([]string{"-db", db, "up"}, &out))
	assert.Contains(t, out.String(), "schema version 2 (dirty: false)")

	out.Reset()
	require.NoError(t, runMigrate([]string{"-db", db, "status"}, &out))
	assert.Contains(t, out.String(), "0 sequences from 0 episodes")

	out.Reset()
	require.NoError(t, runMigrate([]string{"-db", db, "down"}, &out))
	assert.Contains(t, out.String(), "schema version 1")

	assert.Error(t, runMigrate([]string{"-db", db, "sideways"}, &out))
	assert.Error(t, runMigrate([]string{"-db", db}, &out))
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = parseRange(" -5 : 10 ")
	require.NoError(t, err)
	assert.Equal(t, sequence.NewRange(-5, 10), r)

	_, err = parseRange("a:b")
	assert.Error(t, err)

	r, err = parseSpeedRange("36:72", "kph")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, r.Low, 1e-12)
	assert.InDelta(t, 20.0, r.High, 1e-12)
}

func TestPointList(t *testing.T) {
	var p pointList
	require.NoError(t, p.Set("1.5,-2"))
	require.NoError(t, p.Set(" 3 , 4 "))
	assert.Equal(t, pointList{{X: 1.5, Y: -2}, {X: 3, Y: 4}}, p)
	assert.Equal(t, "1.5,-2 3,4", p.String())
	assert.Error(t, p.Set("1;2"))
	assert.Equal(t, geometry.Point{X: 3, Y: 4}, p[1])
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.csv", "b.csv"}, splitList(" a.csv, ,b.csv,"))
	assert.Nil(t, splitList(""))
}
