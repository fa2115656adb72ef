package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/curvefit/internal/geometry"
)

// lineStep is the spacing of samples used to draw angle lines as points.
const lineStep = 0.1

// ChartSurface renders to a standalone go-echarts HTML page.
type ChartSurface struct {
	recorder
	// AssetsHost overrides where echarts JS is loaded from.
	AssetsHost string
}

func NewChartSurface(title string) *ChartSurface {
	return &ChartSurface{recorder: recorder{title: title}}
}

// Render writes the chart HTML to w.
func (s *ChartSurface) Render(w io.Writer) error {
	minX, minY, maxX, maxY := s.bounds()
	pad := math.Max(maxX-minX, maxY-minY) * 0.05

	initOpts := opts.Initialization{PageTitle: s.title, Width: "900px", Height: "900px"}
	if s.AssetsHost != "" {
		initOpts.AssetsHost = s.AssetsHost
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: s.title, Subtitle: fmt.Sprintf("lines=%d dots=%d", len(s.lines), len(s.dots))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: minX - pad, Max: maxX + pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: minY - pad, Max: maxY + pad, Name: "Y", NameLocation: "middle", NameGap: 30}),
	)

	if path := s.trackPath(); len(path) > 0 {
		scatter.AddSeries("track", scatterData(path),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColour(trackColour)}))
	}

	for i, al := range s.lines {
		scatter.AddSeries(fmt.Sprintf("line %d", i+1), scatterData(sampleLine(al.from, al.to)),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: int(math.Max(1, al.width))}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColour(al.colour)}))
	}

	for i, g := range s.dotGroups() {
		scatter.AddSeries(fmt.Sprintf("sequences %d", i+1), scatterData(g.points),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: int(math.Max(1, 2*g.radius))}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColour(g.colour)}))
	}

	return scatter.Render(w)
}

func (s *ChartSurface) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	visit := func(p geometry.Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, p := range s.trackPath() {
		visit(p)
	}
	for _, l := range s.lines {
		visit(l.from)
		visit(l.to)
	}
	for _, d := range s.dots {
		visit(d.p)
	}
	if math.IsInf(minX, 1) {
		return -1, -1, 1, 1
	}
	return minX, minY, maxX, maxY
}

func scatterData(points []geometry.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	return data
}

// sampleLine returns evenly spaced points from a to b inclusive.
func sampleLine(a, b geometry.Point) []geometry.Point {
	n := int(math.Ceil(geometry.Distance(a, b) / lineStep))
	if n < 1 {
		return []geometry.Point{a, b}
	}
	points := make([]geometry.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		points = append(points, geometry.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)})
	}
	return points
}
