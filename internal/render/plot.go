package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/banshee-data/curvefit/internal/geometry"
)

// PlotSurface renders to PNG or SVG through gonum/plot.
type PlotSurface struct {
	recorder
	Width, Height vg.Length
}

func NewPlotSurface(title string) *PlotSurface {
	return &PlotSurface{
		recorder: recorder{title: title},
		Width:    8 * vg.Inch,
		Height:   8 * vg.Inch,
	}
}

// Save writes the plot to path; the extension picks the format.
func (s *PlotSurface) Save(path string) error {
	p, err := s.build()
	if err != nil {
		return err
	}
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// Render writes the plot in format ("png", "svg", ...) to w.
func (s *PlotSurface) Render(w io.Writer, format string) error {
	p, err := s.build()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(s.Width, s.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func (s *PlotSurface) build() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	if path := s.trackPath(); len(path) > 0 {
		l, err := plotter.NewLine(toXYs(path))
		if err != nil {
			return nil, err
		}
		l.Color = trackColour
		l.Width = vg.Points(1)
		p.Add(l)
	}

	for _, al := range s.lines {
		l, err := plotter.NewLine(toXYs([]geometry.Point{al.from, al.to}))
		if err != nil {
			return nil, err
		}
		l.Color = al.colour
		l.Width = vg.Points(al.width)
		p.Add(l)
	}

	for _, g := range s.dotGroups() {
		sc, err := plotter.NewScatter(toXYs(g.points))
		if err != nil {
			return nil, err
		}
		sc.Color = g.colour
		sc.Radius = vg.Points(g.radius)
		sc.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}
	return p, nil
}

func toXYs(points []geometry.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}
