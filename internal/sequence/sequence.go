// Package sequence owns curve maneuvers: their extraction from episode
// telemetry, the in-memory range-matching store, and persistence ports.
//
// Sequences are immutable once created. Nothing in this package is safe
// for concurrent use; callers that share a Store across goroutines must
// add their own exclusion.
package sequence

import (
	"math"

	"github.com/banshee-data/curvefit/internal/geometry"
)

// RelativeOffset is one sample's position relative to a sequence origin.
// Bearing is measured from the origin's own heading, not from plan north.
type RelativeOffset struct {
	Distance float64          `json:"distance"`
	Bearing  geometry.Bearing `json:"bearing"`
}

// Sequence is one detected curve maneuver.
type Sequence struct {
	EpisodeID string `json:"episode_id,omitempty"`
	StartStep int    `json:"start_step"`

	EntrySpeed float64 `json:"entry_speed"`
	// EntrySlide is nil when the telemetry carried no slip angle.
	EntrySlide *float64 `json:"entry_slide,omitempty"`

	ActionSpeed float64 `json:"action_speed"`
	// ActionSteeringDegrees is signed: positive steers left.
	ActionSteeringDegrees float64 `json:"action_steering_degrees"`

	Offsets []RelativeOffset `json:"offsets"`
}

// PlotPoints re-projects the sequence onto a new origin and heading.
func (s Sequence) PlotPoints(origin geometry.Point, bearing geometry.Bearing) []geometry.Point {
	points := make([]geometry.Point, len(s.Offsets))
	for i, o := range s.Offsets {
		points[i] = geometry.PointAtBearing(origin, bearing.Add(float64(o.Bearing)), o.Distance)
	}
	return points
}

// Clone returns a copy that shares no memory with s.
func (s Sequence) Clone() Sequence {
	c := s
	if s.EntrySlide != nil {
		slide := *s.EntrySlide
		c.EntrySlide = &slide
	}
	if s.Offsets != nil {
		c.Offsets = append([]RelativeOffset(nil), s.Offsets...)
	}
	return c
}

// finite reports whether every value can be persisted.
func (s Sequence) finite() bool {
	vals := []float64{s.EntrySpeed, s.ActionSpeed, s.ActionSteeringDegrees}
	if s.EntrySlide != nil {
		vals = append(vals, *s.EntrySlide)
	}
	for _, o := range s.Offsets {
		vals = append(vals, o.Distance, float64(o.Bearing))
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// relativeOffset expresses p relative to origin facing originBearing.
func relativeOffset(origin geometry.Point, originBearing geometry.Bearing, p geometry.Point) RelativeOffset {
	d := geometry.Distance(origin, p)
	if d == 0 {
		return RelativeOffset{}
	}
	return RelativeOffset{
		Distance: d,
		Bearing:  geometry.BearingBetween(origin, p).Add(-float64(originBearing)),
	}
}
