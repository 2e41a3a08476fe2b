// Package chart turns a validated chart request into plottable series and
// renders them as interactive HTML (go-echarts) or PNG (go-chart).
package chart

import (
	"fmt"
	"math"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// BlankLabel names the group of rows whose category or color cell is missing.
const BlankLabel = "(blank)"

// Point is one scatter sample on a numeric X axis.
type Point struct {
	X, Y float64
}

// Box is a five-number summary: min, Q1, median, Q3, max.
type Box [5]float64

// Series is one colored trace. Exactly one of Values, Points or Boxes is
// used, depending on the figure kind. Values holds NaN where a category has
// no data.
type Series struct {
	Name   string
	Values []float64
	Points []Point
	Boxes  []Box
}

// Figure is the renderer-independent form of a chart.
type Figure struct {
	Kind   core.ChartKind
	Title  string
	XLabel string
	YLabel string

	// Categories labels the X axis; it is nil when NumericX is set.
	Categories []string
	NumericX   bool

	// Grouped is set when series come from a color column.
	Grouped bool
	Series  []Series
}

// Build computes the figure for req over t. The request must come from
// core.ValidateChart; unknown columns are reported as errors.
func Build(t *core.Table, req core.ChartRequest) (Figure, error) {
	x, ok := t.Column(req.X)
	if !ok {
		return Figure{}, fmt.Errorf("unknown x column %q", req.X)
	}
	var y core.Column
	if req.Y != "" {
		if y, ok = t.Column(req.Y); !ok {
			return Figure{}, fmt.Errorf("unknown y column %q", req.Y)
		}
	}
	groups := groupRows(t, req.ColorColumn)

	fig := Figure{
		Kind:    req.Kind,
		Title:   req.Title,
		XLabel:  req.X,
		YLabel:  req.Y,
		Grouped: req.ColorColumn != "",
	}

	switch req.Kind {
	case core.ChartBar:
		buildBar(&fig, x, y, groups)
	case core.ChartScatter:
		buildScatter(&fig, x, y, groups)
	case core.ChartLine, core.ChartArea:
		buildLine(&fig, x, y, groups)
	case core.ChartBox:
		buildBox(&fig, x, y, req.Y != "", groups)
	default:
		fig.Kind = core.ChartHistogram
		fig.YLabel = "count"
		buildHistogram(&fig, x, groups)
	}
	return fig, nil
}

// group is a named subset of row indices.
type group struct {
	name string
	rows []int
}

// groupRows splits rows by the color column in first-seen order. Without a
// color column every row is in a single group named after nothing.
func groupRows(t *core.Table, colorColumn string) []group {
	col, ok := t.Column(colorColumn)
	if colorColumn == "" || !ok {
		all := make([]int, t.NumRows())
		for i := range all {
			all[i] = i
		}
		return []group{{rows: all}}
	}

	index := map[string]int{}
	var groups []group
	for i, v := range col.Values {
		name := label(v)
		gi, seen := index[name]
		if !seen {
			gi = len(groups)
			index[name] = gi
			groups = append(groups, group{name: name})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	return groups
}

func label(v core.Value) string {
	if v.IsMissing() {
		return BlankLabel
	}
	return v.String()
}

// categoriesOf returns the distinct non-missing labels of c in first-seen order.
func categoriesOf(c core.Column) ([]string, map[string]int) {
	index := map[string]int{}
	var cats []string
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if _, ok := index[s]; !ok {
			index[s] = len(cats)
			cats = append(cats, s)
		}
	}
	return cats, index
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func buildHistogram(fig *Figure, x core.Column, groups []group) {
	if !core.IsNumericColumn(x) {
		cats, index := categoriesOf(x)
		fig.Categories = cats
		for _, g := range groups {
			counts := make([]float64, len(cats))
			for _, r := range g.rows {
				if v := x.Values[r]; !v.IsMissing() {
					counts[index[v.String()]]++
				}
			}
			fig.Series = append(fig.Series, Series{Name: g.name, Values: counts})
		}
		return
	}

	bins := sturgesBins(numbers(x, nil))
	fig.Categories = bins.labels()
	for _, g := range groups {
		counts := make([]float64, bins.count())
		for _, r := range g.rows {
			if v := x.Values[r]; v.IsNumber() {
				counts[bins.index(v.Num)]++
			}
		}
		fig.Series = append(fig.Series, Series{Name: g.name, Values: counts})
	}
}

func buildBar(fig *Figure, x, y core.Column, groups []group) {
	cats, index := categoriesOf(x)
	fig.Categories = cats
	for _, g := range groups {
		sums := nanSlice(len(cats))
		for _, r := range g.rows {
			xv, yv := x.Values[r], y.Values[r]
			if xv.IsMissing() || !yv.IsNumber() {
				continue
			}
			i := index[xv.String()]
			if math.IsNaN(sums[i]) {
				sums[i] = 0
			}
			sums[i] += yv.Num
		}
		fig.Series = append(fig.Series, Series{Name: g.name, Values: sums})
	}
}

func buildScatter(fig *Figure, x, y core.Column, groups []group) {
	if core.IsNumericColumn(x) {
		fig.NumericX = true
		for _, g := range groups {
			s := Series{Name: g.name, Points: []Point{}}
			for _, r := range g.rows {
				xv, yv := x.Values[r], y.Values[r]
				if xv.IsNumber() && yv.IsNumber() {
					s.Points = append(s.Points, Point{X: xv.Num, Y: yv.Num})
				}
			}
			fig.Series = append(fig.Series, s)
		}
		return
	}
	buildRowSeries(fig, x, y, groups)
}

func buildLine(fig *Figure, x, y core.Column, groups []group) {
	buildRowSeries(fig, x, y, groups)
}

// buildRowSeries plots one point per row, in row order, on a category axis.
// Each group keeps its values at its own rows and NaN elsewhere.
func buildRowSeries(fig *Figure, x, y core.Column, groups []group) {
	var rows []int
	for r, v := range x.Values {
		if !v.IsMissing() {
			rows = append(rows, r)
		}
	}
	pos := make(map[int]int, len(rows))
	fig.Categories = make([]string, len(rows))
	for i, r := range rows {
		pos[r] = i
		fig.Categories[i] = x.Values[r].String()
	}

	for _, g := range groups {
		vals := nanSlice(len(rows))
		for _, r := range g.rows {
			i, ok := pos[r]
			if ok && y.Values[r].IsNumber() {
				vals[i] = y.Values[r].Num
			}
		}
		fig.Series = append(fig.Series, Series{Name: g.name, Values: vals})
	}
}

func buildBox(fig *Figure, x, y core.Column, hasY bool, groups []group) {
	if !hasY {
		fig.YLabel = x.Name
		fig.Categories = []string{x.Name}
		for _, g := range groups {
			s := Series{Name: g.name, Boxes: []Box{}}
			if vals := numbers(x, g.rows); len(vals) > 0 {
				s.Boxes = append(s.Boxes, fiveNumber(vals))
			}
			fig.Series = append(fig.Series, s)
		}
		return
	}

	cats, index := categoriesOf(x)
	fig.Categories = cats
	for _, g := range groups {
		byCat := make([][]float64, len(cats))
		for _, r := range g.rows {
			xv, yv := x.Values[r], y.Values[r]
			if xv.IsMissing() || !yv.IsNumber() {
				continue
			}
			i := index[xv.String()]
			byCat[i] = append(byCat[i], yv.Num)
		}
		s := Series{Name: g.name, Boxes: make([]Box, len(cats))}
		for i, vals := range byCat {
			if len(vals) == 0 {
				s.Boxes[i] = Box{math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()}
				continue
			}
			s.Boxes[i] = fiveNumber(vals)
		}
		fig.Series = append(fig.Series, s)
	}
}

// numbers returns the numeric cells of c, restricted to rows when non-nil.
func numbers(c core.Column, rows []int) []float64 {
	var out []float64
	if rows == nil {
		for _, v := range c.Values {
			if v.IsNumber() {
				out = append(out, v.Num)
			}
		}
		return out
	}
	for _, r := range rows {
		if v := c.Values[r]; v.IsNumber() {
			out = append(out, v.Num)
		}
	}
	return out
}
