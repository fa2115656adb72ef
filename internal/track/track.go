// Package track loads racing-line waypoint files.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/curvefit/internal/geometry"
)

const maxTrackFileSize = 4 * 1024 * 1024

// Track is an ordered list of waypoints with a uniform width.
type Track struct {
	Name       string           `json:"name"`
	TrackWidth float64          `json:"width"`
	Closed     bool             `json:"closed"`
	Waypoints  []geometry.Point `json:"waypoints"`
}

// New builds a track from waypoints.
func New(name string, width float64, closed bool, waypoints []geometry.Point) *Track {
	return &Track{Name: name, TrackWidth: width, Closed: closed, Waypoints: waypoints}
}

// Load reads a track from a JSON file of the form
//
//	{"name": "oval", "width": 2.0, "closed": true, "waypoints": [{"x": 0, "y": 0}, ...]}
func Load(path string) (*Track, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("track file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat track file: %w", err)
	}
	if info.Size() > maxTrackFileSize {
		return nil, fmt.Errorf("track file too large: %d bytes (max %d)", info.Size(), maxTrackFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}

	var t Track
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse track JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track %s: %w", cleanPath, err)
	}
	if t.Name == "" {
		t.Name = filepath.Base(cleanPath)
	}
	return &t, nil
}

func (t *Track) Validate() error {
	if len(t.Waypoints) == 0 {
		return errors.New("no waypoints")
	}
	if t.TrackWidth < 0 || math.IsNaN(t.TrackWidth) {
		return fmt.Errorf("width must be non-negative, got %v", t.TrackWidth)
	}
	return nil
}

// Width returns the track width.
func (t *Track) Width() float64 { return t.TrackWidth }

// ClosestWaypointID returns the index of the waypoint nearest to p, or -1
// for a track with no waypoints. Ties go to the lower index.
func (t *Track) ClosestWaypointID(p geometry.Point) int {
	best := -1
	bestDist := math.Inf(1)
	for i, w := range t.Waypoints {
		if d := geometry.Distance(p, w); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Waypoint returns waypoint id. Out-of-range ids wrap on closed tracks and
// clamp on open ones.
func (t *Track) Waypoint(id int) geometry.Point {
	return t.Waypoints[t.index(id)]
}

// BearingAtWaypoint is the bearing from waypoint id to the next one. The
// final waypoint of an open track takes the bearing of the last segment.
func (t *Track) BearingAtWaypoint(id int) geometry.Bearing {
	n := len(t.Waypoints)
	if n < 2 {
		return 0
	}
	i := t.index(id)
	switch {
	case t.Closed:
		return geometry.BearingBetween(t.Waypoints[i], t.Waypoints[(i+1)%n])
	case i == n-1:
		return geometry.BearingBetween(t.Waypoints[i-1], t.Waypoints[i])
	default:
		return geometry.BearingBetween(t.Waypoints[i], t.Waypoints[i+1])
	}
}

func (t *Track) index(id int) int {
	n := len(t.Waypoints)
	if t.Closed {
		return ((id % n) + n) % n
	}
	if id < 0 {
		return 0
	}
	if id >= n {
		return n - 1
	}
	return id
}
