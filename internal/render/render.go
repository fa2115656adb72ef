// Package render draws curve-fitting overlays onto static images
// (gonum/plot) and interactive HTML charts (go-echarts).
package render

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/curvefit/internal/analyzer"
	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/track"
)

var (
	_ analyzer.Surface = (*PlotSurface)(nil)
	_ analyzer.Surface = (*ChartSurface)(nil)
)

var trackColour = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}

type angleLine struct {
	from, to geometry.Point
	width    float64
	colour   color.Color
}

type dot struct {
	p      geometry.Point
	radius float64
	colour color.Color
}

// recorder accumulates primitives until the surface is rendered.
type recorder struct {
	title string
	track *track.Track
	lines []angleLine
	dots  []dot
}

func (r *recorder) AngleLine(origin geometry.Point, bearing geometry.Bearing, length, width float64, colour color.Color) {
	r.lines = append(r.lines, angleLine{
		from:   origin,
		to:     geometry.PointAtBearing(origin, bearing, length),
		width:  width,
		colour: colour,
	})
}

func (r *recorder) Dot(p geometry.Point, radius float64, colour color.Color) {
	r.dots = append(r.dots, dot{p: p, radius: radius, colour: colour})
}

// SetTrack draws t's waypoints behind the overlay. Nil removes it.
func (r *recorder) SetTrack(t *track.Track) { r.track = t }

// Reset discards everything drawn so far, keeping the track.
func (r *recorder) Reset() {
	r.lines = nil
	r.dots = nil
}

// Len reports the number of primitives drawn.
func (r *recorder) Len() int { return len(r.lines) + len(r.dots) }

func (r *recorder) trackPath() []geometry.Point {
	if r.track == nil || len(r.track.Waypoints) == 0 {
		return nil
	}
	path := append([]geometry.Point(nil), r.track.Waypoints...)
	if r.track.Closed {
		path = append(path, path[0])
	}
	return path
}

// dotGroups buckets dots by colour and radius, preserving first-seen
// order so output is stable.
func (r *recorder) dotGroups() []dotGroup {
	var groups []dotGroup
	index := make(map[string]int)
	for _, d := range r.dots {
		key := fmt.Sprintf("%s/%g", hexColour(d.colour), d.radius)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, dotGroup{colour: d.colour, radius: d.radius})
		}
		groups[i].points = append(groups[i].points, d.p)
	}
	return groups
}

type dotGroup struct {
	colour color.Color
	radius float64
	points []geometry.Point
}

func hexColour(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
