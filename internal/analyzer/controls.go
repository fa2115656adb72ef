package analyzer

import (
	"image/color"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/sequence"
	"github.com/banshee-data/curvefit/internal/telemetry"
)

// Track is the waypoint model clicks are snapped to.
type Track interface {
	ClosestWaypointID(p geometry.Point) int
	Waypoint(id int) geometry.Point
	BearingAtWaypoint(id int) geometry.Bearing
	Width() float64
}

// EpisodeSource supplies every episode currently available.
type EpisodeSource interface {
	Episodes() []telemetry.Episode
}

// Surface receives drawing primitives.
type Surface interface {
	AngleLine(origin geometry.Point, bearing geometry.Bearing, length, width float64, colour color.Color)
	Dot(p geometry.Point, radius float64, colour color.Color)
}

// RangeControl yields the range currently selected by the user. A nil
// range leaves the dimension unconstrained.
type RangeControl interface {
	Range() *sequence.Range
}

// DirectionControl reports whether a right-hand curve is selected.
type DirectionControl interface {
	Right() bool
}

// Controls groups the user-facing selectors. Nil members are
// unconstrained (or, for Direction, left).
type Controls struct {
	Direction   DirectionControl
	Steering    RangeControl
	EntrySpeed  RangeControl
	ActionSpeed RangeControl
}

// FixedRange is a RangeControl that always returns the same range.
type FixedRange struct {
	R *sequence.Range
}

func (f FixedRange) Range() *sequence.Range { return f.R }

// FixedDirection is a DirectionControl with a static answer.
type FixedDirection bool

func (f FixedDirection) Right() bool { return bool(f) }

func rangeOf(c RangeControl) *sequence.Range {
	if c == nil {
		return nil
	}
	return c.Range()
}
