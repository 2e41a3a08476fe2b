package chart

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/google/uuid"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// Renderer writes a complete chart document.
type Renderer interface {
	Render(w io.Writer) error
}

// Base colors of the two dashboard views.
const (
	DefaultBaseColor    = "#636efa"
	ComparisonBaseColor = "#b95c70"
)

// Palette colors grouped series in order, wrapping around.
var Palette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// Style controls presentation only; it never changes the plotted data.
type Style struct {
	BaseColor string
	Dark      bool
	ChartID   string
	Width     string
	Height    string
}

func (s Style) withDefaults() Style {
	if s.BaseColor == "" {
		s.BaseColor = DefaultBaseColor
	}
	if s.ChartID == "" {
		s.ChartID = "chart-" + uuid.NewString()[:8]
	}
	if s.Width == "" {
		s.Width = "100%"
	}
	if s.Height == "" {
		s.Height = "420px"
	}
	return s
}

// seriesColor is the base color for an ungrouped figure and the palette
// color for the i-th group otherwise.
func seriesColor(fig Figure, style Style, i int) string {
	if !fig.Grouped {
		return style.BaseColor
	}
	return Palette[i%len(Palette)]
}

// HTML renders fig as a standalone go-echarts page.
func HTML(fig Figure, style Style) Renderer {
	style = style.withDefaults()
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts(style)),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.YLabel}),
	}

	switch fig.Kind {
	case core.ChartBar, core.ChartHistogram:
		bar := charts.NewBar()
		bar.SetGlobalOptions(append(global, charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel}))...)
		bar.SetXAxis(fig.Categories)
		for i, s := range fig.Series {
			bar.AddSeries(s.Name, barData(s.Values),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(fig, style, i)}))
		}
		return bar

	case core.ChartLine, core.ChartArea:
		line := charts.NewLine()
		line.SetGlobalOptions(append(global, charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel}))...)
		line.SetXAxis(fig.Categories)
		for i, s := range fig.Series {
			seriesOpts := []charts.SeriesOpts{
				charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(fig, style, i)}),
			}
			if fig.Kind == core.ChartArea {
				seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{}))
			}
			line.AddSeries(s.Name, lineData(s.Values), seriesOpts...)
		}
		return line

	case core.ChartScatter:
		scatter := charts.NewScatter()
		xAxis := opts.XAxis{Name: fig.XLabel}
		if fig.NumericX {
			xAxis.Type = "value"
		}
		scatter.SetGlobalOptions(append(global, charts.WithXAxisOpts(xAxis))...)
		if !fig.NumericX {
			scatter.SetXAxis(fig.Categories)
		}
		for i, s := range fig.Series {
			scatter.AddSeries(s.Name, scatterData(fig, s),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(fig, style, i)}))
		}
		return scatter

	default:
		box := charts.NewBoxPlot()
		box.SetGlobalOptions(append(global, charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel}))...)
		box.SetXAxis(fig.Categories)
		for i, s := range fig.Series {
			box.AddSeries(s.Name, boxData(s.Boxes),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(fig, style, i)}))
		}
		return box
	}
}

func initOpts(style Style) opts.Initialization {
	initialization := opts.Initialization{
		ChartID: style.ChartID,
		Width:   style.Width,
		Height:  style.Height,
	}
	if style.Dark {
		initialization.Theme = types.ThemeChalk
	}
	return initialization
}

// dataValue maps NaN gaps to null, which echarts draws as a gap.
func dataValue(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func barData(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: dataValue(v)}
	}
	return out
}

func lineData(vals []float64) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: dataValue(v)}
	}
	return out
}

func scatterData(fig Figure, s Series) []opts.ScatterData {
	if fig.NumericX {
		out := make([]opts.ScatterData, len(s.Points))
		for i, p := range s.Points {
			out[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y}}
		}
		return out
	}
	out := make([]opts.ScatterData, len(s.Values))
	for i, v := range s.Values {
		out[i] = opts.ScatterData{Value: dataValue(v)}
	}
	return out
}

func boxData(boxes []Box) []opts.BoxPlotData {
	out := make([]opts.BoxPlotData, len(boxes))
	for i, b := range boxes {
		if math.IsNaN(b[0]) {
			continue
		}
		out[i] = opts.BoxPlotData{Value: []float64{b[0], b[1], b[2], b[3], b[4]}}
	}
	return out
}
