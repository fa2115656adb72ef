package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-6

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   float64
		want Bearing
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{-90, 270},
		{-180, 180},
		{-360, 0},
		{45, 45},
		{359.5, 359.5},
		{-1e-15, 0},
		{1000, 280},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.InDelta(t, float64(tt.want), float64(got), 1e-9, "Normalize(%v)", tt.in)
		assert.GreaterOrEqual(t, float64(got), 0.0)
		assert.Less(t, float64(got), 360.0)
	}
}

func TestBearingAdd(t *testing.T) {
	assert.InDelta(t, 180.0, float64(Bearing(0).Add(-180)), 1e-9)
	assert.InDelta(t, 10.0, float64(Bearing(350).Add(20)), 1e-9)
	assert.InDelta(t, 270.0, float64(Bearing(90).Reverse()), 1e-9)
}

func TestBearingBetween_Compass(t *testing.T) {
	origin := Point{0, 0}
	assert.InDelta(t, 0.0, float64(BearingBetween(origin, Point{0, 5})), tol)
	assert.InDelta(t, 90.0, float64(BearingBetween(origin, Point{5, 0})), tol)
	assert.InDelta(t, 180.0, float64(BearingBetween(origin, Point{0, -5})), tol)
	assert.InDelta(t, 270.0, float64(BearingBetween(origin, Point{-5, 0})), tol)
	assert.InDelta(t, 45.0, float64(BearingBetween(origin, Point{1, 1})), tol)
	assert.Equal(t, Bearing(0), BearingBetween(origin, origin))
}

func TestBearingBetween_AlwaysInRange(t *testing.T) {
	for i := 0; i < 360; i += 7 {
		rad := float64(i) * math.Pi / 180
		p := Point{X: 3 * math.Cos(rad), Y: 3 * math.Sin(rad)}
		b := BearingBetween(Point{}, p)
		if b < 0 || b >= 360 {
			t.Fatalf("bearing %v out of range for %+v", b, p)
		}
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{0, 0}, Point{3, 4}), tol)
	assert.InDelta(t, 0.0, Distance(Point{2, 2}, Point{2, 2}), tol)
}

func TestPointAtBearing(t *testing.T) {
	got := PointAtBearing(Point{0, 0}, 90, 1.5)
	assert.True(t, got.Equal(Point{1.5, 0}, tol), "got %+v", got)

	got = PointAtBearing(Point{0, 0}, Bearing(0).Add(-180), 2)
	assert.True(t, got.Equal(Point{0, -2}, tol), "got %+v", got)
}

func TestGeometryRoundTrip(t *testing.T) {
	pairs := [][2]Point{
		{{0, 0}, {3, 4}},
		{{-2.5, 7}, {10, -3}},
		{{1, 1}, {1, 2}},
		{{100, 200}, {99.999, 200.001}},
		{{-5, -5}, {-6, -4}},
		{{0.125, -9}, {-0.125, 9}},
	}
	for _, pair := range pairs {
		p1, p2 := pair[0], pair[1]
		got := PointAtBearing(p1, BearingBetween(p1, p2), Distance(p1, p2))
		if !got.Equal(p2, tol) {
			t.Errorf("round trip %+v -> %+v gave %+v", p1, p2, got)
		}
	}
}
