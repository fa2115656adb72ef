package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/sequence"
	"github.com/banshee-data/curvefit/internal/units"
)

// pointList collects repeated -click x,y flags.
type pointList []geometry.Point

func (p *pointList) String() string {
	parts := make([]string, len(*p))
	for i, pt := range *p {
		parts[i] = fmt.Sprintf("%g,%g", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

func (p *pointList) Set(s string) error {
	pt, err := parsePoint(s)
	if err != nil {
		return err
	}
	*p = append(*p, pt)
	return nil
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

// parseRange parses "lo:hi". An empty string is unconstrained.
func parseRange(s string) (*sequence.Range, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	los, his, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid range %q, want lo:hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(los), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range low in %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(his), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range high in %q: %w", s, err)
	}
	return sequence.NewRange(lo, hi), nil
}

// parseSpeedRange parses a range given in unit and converts it to m/s.
func parseSpeedRange(s, unit string) (*sequence.Range, error) {
	r, err := parseRange(s)
	if err != nil || r == nil {
		return r, err
	}
	return sequence.NewRange(units.ToMPS(r.Low, unit), units.ToMPS(r.High, unit)), nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
