package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// ErrUnsupportedFormat is returned for figures a renderer cannot draw.
var ErrUnsupportedFormat = errors.New("chart kind not supported in this format")

// PNG image size in pixels.
const (
	pngWidth  = 1024
	pngHeight = 640
)

// PNG draws fig as a static image. Grouped bar-style figures are drawn as
// category totals; box plots are only available as HTML.
func PNG(w io.Writer, fig Figure, style Style) error {
	style = style.withDefaults()
	base := hexColor(style.BaseColor)

	switch fig.Kind {
	case core.ChartBar, core.ChartHistogram:
		return pngBar(w, fig, base)
	case core.ChartLine, core.ChartArea, core.ChartScatter:
		return pngSeries(w, fig, style)
	default:
		return fmt.Errorf("%w: %s as png", ErrUnsupportedFormat, fig.Kind)
	}
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func background() gochart.Style {
	return gochart.Style{
		Padding: gochart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorFromHex("efefef"),
		StrokeWidth: 1,
	}
}

func pngBar(w io.Writer, fig Figure, color drawing.Color) error {
	totals := make([]float64, len(fig.Categories))
	for _, s := range fig.Series {
		for i, v := range s.Values {
			if !math.IsNaN(v) {
				totals[i] += v
			}
		}
	}

	bars := make([]gochart.Value, 0, len(totals))
	for i, v := range totals {
		bars = append(bars, gochart.Value{
			Label: fig.Categories[i],
			Value: v,
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return fmt.Errorf("render %s: no values to plot", fig.Kind)
	}

	graph := gochart.BarChart{
		Title:      fig.Title,
		Background: background(),
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   min(60, max(4, (pngWidth-100)/len(bars)-10)),
		Bars:       bars,
		YAxis:      gochart.YAxis{Name: fig.YLabel},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", fig.Kind, err)
	}
	return nil
}

func pngSeries(w io.Writer, fig Figure, style Style) error {
	var series []gochart.Series
	var ticks []gochart.Tick

	if !fig.NumericX {
		for i, c := range fig.Categories {
			ticks = append(ticks, gochart.Tick{Value: float64(i), Label: c})
		}
	}

	for i, s := range fig.Series {
		xs, ys := seriesXY(fig, s)
		if len(xs) == 0 {
			continue
		}
		color := hexColor(seriesColor(fig, style, i))
		st := gochart.Style{StrokeColor: color, StrokeWidth: 2}
		switch fig.Kind {
		case core.ChartArea:
			st.FillColor = color.WithAlpha(100)
		case core.ChartScatter:
			st = gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4, DotColor: color}
		}
		series = append(series, gochart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st})
	}
	if len(series) == 0 {
		return fmt.Errorf("render %s: no values to plot", fig.Kind)
	}

	graph := gochart.Chart{
		Title:      fig.Title,
		Background: background(),
		Width:      pngWidth,
		Height:     pngHeight,
		XAxis:      gochart.XAxis{Name: fig.XLabel, Ticks: ticks},
		YAxis:      gochart.YAxis{Name: fig.YLabel},
		Series:     series,
	}
	if fig.Grouped {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", fig.Kind, err)
	}
	return nil
}

// seriesXY flattens a series into parallel coordinates. Category axes use
// the category index as X; NaN gaps are dropped.
func seriesXY(fig Figure, s Series) (xs, ys []float64) {
	if fig.NumericX {
		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		return xs, ys
	}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	return xs, ys
}
