// Package geometry provides planar helpers for the track plan.
//
// Bearings are compass style: degrees in [0, 360), clockwise, with 0
// pointing along +Y ("up" the plan) and 90 along +X.
package geometry

import "math"

// Point is a coordinate on the track plan.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Equal reports whether p and q are within tol of each other on both axes.
func (p Point) Equal(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Bearing is a compass heading in degrees. Values produced by this package
// are always normalized to [0, 360).
type Bearing float64

// Normalize wraps deg into [0, 360).
func Normalize(deg float64) Bearing {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// -1e-15 + 360 rounds to 360.
	if m >= 360 || m == 0 {
		m = 0
	}
	return Bearing(m)
}

// Add returns b+delta re-normalized into [0, 360).
func (b Bearing) Add(delta float64) Bearing {
	return Normalize(float64(b) + delta)
}

// Reverse returns the opposite heading.
func (b Bearing) Reverse() Bearing {
	return b.Add(-180)
}

// Radians converts the bearing to radians, still in compass orientation.
func (b Bearing) Radians() float64 {
	return float64(b) * math.Pi / 180
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// BearingBetween returns the compass bearing from p1 facing p2. Coincident
// points have bearing 0.
func BearingBetween(p1, p2 Point) Bearing {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return Normalize(math.Atan2(dx, dy) * 180 / math.Pi)
}

// PointAtBearing projects distance units from origin along bearing. It is
// the inverse of the (BearingBetween, Distance) pair.
func PointAtBearing(origin Point, bearing Bearing, distance float64) Point {
	rad := Normalize(float64(bearing)).Radians()
	return Point{
		X: origin.X + distance*math.Sin(rad),
		Y: origin.Y + distance*math.Cos(rad),
	}
}
