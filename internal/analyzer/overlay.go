package analyzer

import (
	"image/color"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/sequence"
)

var overlayColour = color.RGBA{G: 0x80, A: 0xff}

const (
	leadLineWidth = 2
	dotRadius     = 2
)

// Overlay is the geometry drawn for the current reference.
type Overlay struct {
	Origin  geometry.Point
	Bearing geometry.Bearing
	// The lead line runs from Origin along LeadBearing, opposite Bearing.
	LeadBearing geometry.Bearing
	LeadLength  float64
	Query       sequence.Query
	// Paths holds one re-projected point list per matched sequence.
	Paths [][]geometry.Point
}

// Query builds the store query from the current control selections. The
// steering range is mirrored for right-hand curves; entry slide is never
// constrained.
func (a *CurveFitting) Query() sequence.Query {
	steering := rangeOf(a.controls.Steering)
	if a.controls.Direction != nil && a.controls.Direction.Right() {
		steering = steering.Mirror()
	}
	return sequence.Query{
		EntrySpeed:     rangeOf(a.controls.EntrySpeed),
		ActionSpeed:    rangeOf(a.controls.ActionSpeed),
		ActionSteering: steering,
	}
}

// Overlay computes what Redraw would draw. ok is false when no reference
// point is chosen.
func (a *CurveFitting) Overlay() (Overlay, bool) {
	point, bearing, _, ok := a.Reference()
	if !ok {
		return Overlay{}, false
	}

	q := a.Query()
	matches := a.store.Matches(q)
	paths := make([][]geometry.Point, 0, len(matches))
	for _, s := range matches {
		paths = append(paths, s.PlotPoints(point, bearing))
	}
	return Overlay{
		Origin:      point,
		Bearing:     bearing,
		LeadBearing: bearing.Add(-180),
		LeadLength:  a.cfg.BackwardsDistance,
		Query:       q,
		Paths:       paths,
	}, true
}

// Redraw draws the overlay onto surface. Nothing is drawn until a
// reference point has been chosen.
func (a *CurveFitting) Redraw(surface Surface) {
	ov, ok := a.Overlay()
	if !ok {
		return
	}
	surface.AngleLine(ov.Origin, ov.LeadBearing, ov.LeadLength, leadLineWidth, overlayColour)
	for _, path := range ov.Paths {
		for _, p := range path {
			surface.Dot(p, dotRadius, overlayColour)
		}
	}
}
