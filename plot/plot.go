// Package plot renders clustering runs as interactive HTML charts.
//
// Render draws the points coloured by cluster together with the path every
// centroid took through the refinement history. RenderSizes draws a bar
// chart of cluster populations. Points of more than two dimensions are
// projected onto two chosen axes.
package plot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/hupe1980/clustergo/internal/kmeans"
)

// palette cycles for clusters beyond its length.
var palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc", "#6e7074",
}

// Color returns the colour used for cluster i.
func Color(i int) string {
	return palette[i%len(palette)]
}

// Options configures rendering.
type Options struct {
	Title string
	// X and Y select the coordinates drawn on each axis.
	X, Y int
	// Trajectories draws the centroid paths through the history.
	Trajectories bool
}

// Option configures Render and RenderSizes.
type Option func(*Options)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *Options) { o.Title = title }
}

// WithAxes projects points onto coordinates x and y.
func WithAxes(x, y int) Option {
	return func(o *Options) { o.X, o.Y = x, y }
}

// WithoutTrajectories draws only the final centroids.
func WithoutTrajectories() Option {
	return func(o *Options) { o.Trajectories = false }
}

func newOptions(optFns []Option) Options {
	o := Options{
		Title:        "k-means clustering",
		X:            0,
		Y:            1,
		Trajectories: true,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Render writes an HTML scatter chart of points grouped by assignment, with
// the centroid trajectories recorded in history.
func Render(w io.Writer, points [][]float64, history []kmeans.CentroidSet, assignment []int, optFns ...Option) error {
	o := newOptions(optFns)

	if len(history) == 0 {
		return fmt.Errorf("%w: empty history", kmeans.ErrInvalidInput)
	}
	if len(assignment) != len(points) {
		return fmt.Errorf("%w: %d assignments for %d points", kmeans.ErrInvalidInput, len(assignment), len(points))
	}
	dim, err := kmeans.Validate(points)
	if err != nil {
		return err
	}
	if o.X < 0 || o.X >= dim || o.Y < 0 || (o.Y >= dim && dim > 1) {
		return fmt.Errorf("%w: axes (%d, %d) out of range for dimension %d", kmeans.ErrInvalidParameter, o.X, o.Y, dim)
	}
	k := len(history[0])

	project := func(p []float64) []interface{} {
		if dim == 1 {
			return []interface{}{p[0], 0.0}
		}
		return []interface{}{p[o.X], p[o.Y]}
	}

	clusters := make([][]opts.ScatterData, k)
	for i, p := range points {
		c := assignment[i]
		if c < 0 || c >= k {
			return fmt.Errorf("%w: assignment %d of point %d outside [0, %d)", kmeans.ErrInvalidInput, c, i, k)
		}
		clusters[c] = append(clusters[c], opts.ScatterData{
			Name:  strconv.Itoa(i),
			Value: project(p),
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x" + strconv.Itoa(o.X)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "x" + strconv.Itoa(o.Y)}),
		charts.WithToolboxOpts(opts.Toolbox{
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Type:  "png",
					Title: "k-means_scatter",
				},
			},
		}),
	)
	for c, data := range clusters {
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: Color(c)}))
	}

	final := history[len(history)-1]
	centroids := make([]opts.ScatterData, 0, len(final))
	for c, centroid := range final {
		centroids = append(centroids, opts.ScatterData{
			Name:       "centroid " + strconv.Itoa(c),
			Value:      project(centroid),
			Symbol:     "diamond",
			SymbolSize: 16,
		})
	}
	scatter.AddSeries("Centroids", centroids,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))

	if o.Trajectories && len(history) > 1 {
		line := charts.NewLine()
		for c := 0; c < k; c++ {
			path := make([]opts.LineData, 0, len(history))
			for _, snapshot := range history {
				path = append(path, opts.LineData{Value: project(snapshot[c])})
			}
			line.AddSeries(fmt.Sprintf("Centroid %d", c), path,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: Color(c)}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: Color(c), Type: "dashed"}))
		}
		scatter.Overlap(line)
	}

	return scatter.Render(w)
}

// RenderSizes writes an HTML bar chart with the population of each cluster.
func RenderSizes(w io.Writer, sizes []int, optFns ...Option) error {
	o := newOptions(optFns)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
	)

	xAxis := make([]string, 0, len(sizes))
	items := make([]opts.BarData, 0, len(sizes))
	for c, n := range sizes {
		xAxis = append(xAxis, strconv.Itoa(c))
		items = append(items, opts.BarData{
			Name:      strconv.Itoa(c),
			Value:     n,
			ItemStyle: &opts.ItemStyle{Color: Color(c)},
		})
	}
	bar.SetXAxis(xAxis).AddSeries("points", items)

	return bar.Render(w)
}
