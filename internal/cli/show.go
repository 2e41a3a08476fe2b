package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dashbored/internal/chart"
	"github.com/JonMunkholm/dashbored/internal/core"
)

type showOptions struct {
	mode       string
	chartKind  string
	x, y       string
	color      string
	colorValue string
	theme      string
	out        string
	png        bool
}

func (a *app) showCommand() *cobra.Command {
	o := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show <dataset>",
		Short: "Print a table preview or summary, or export a chart",
		Long: `show renders a dataset the way the dashboard's view panel does.

  dashctl show example_sales.csv
  dashctl show example_sales.csv --mode summary
  dashctl show uploads/q3.csv --mode chart --chart bar --x region --y sales --out q3.html
  dashctl show uploads/q3.csv --mode chart --chart line --x month --y sales --png --out q3.png

Empty --x and --y fall back to the default axes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.mode, "mode", string(core.ModeTable), "view mode: table, summary or chart")
	f.StringVar(&o.chartKind, "chart", string(core.ChartHistogram), "chart type: histogram, bar, scatter, line, area or box")
	f.StringVar(&o.x, "x", "", "x axis column")
	f.StringVar(&o.y, "y", "", "y axis column")
	f.StringVar(&o.color, "color", "", "column to color by")
	f.StringVar(&o.colorValue, "color-value", chart.DefaultBaseColor, "base color as #rrggbb")
	f.StringVar(&o.theme, "theme", "light", "chart theme: light or dark")
	f.StringVarP(&o.out, "out", "o", "", "write the chart to this file instead of stdout")
	f.BoolVar(&o.png, "png", false, "export the chart as PNG instead of HTML")
	return cmd
}

func (a *app) show(cmd *cobra.Command, dataset string, o *showOptions) error {
	t, err := a.service.Load(a.ctx(cmd), dataset)
	if err != nil {
		return err
	}

	res := a.service.Render(t, o.selection(t))
	w := a.out(cmd)
	switch res.Kind {
	case core.ResultTable:
		return writeTable(w, res.Table, a.format)
	case core.ResultSummary:
		return writeSummary(w, res, a.format)
	case core.ResultChart:
		return a.exportChart(cmd, t, *res.Chart, o)
	default:
		_, err := fmt.Fprintln(w, res.Message)
		return err
	}
}

// selection fills empty axes with the dataset defaults. Box plots keep an
// empty Y.
func (o *showOptions) selection(t *core.Table) core.Selection {
	sel := core.Selection{
		Mode:        core.ViewMode(o.mode),
		ChartKind:   core.ChartKind(o.chartKind),
		X:           o.x,
		Y:           o.y,
		ColorColumn: o.color,
		ColorValue:  o.colorValue,
	}
	defX, defY := core.DefaultAxes(t)
	if sel.X == "" {
		sel.X = defX
	}
	if sel.Y == "" && sel.ChartKind != core.ChartBox {
		sel.Y = defY
	}
	return sel
}

func (a *app) exportChart(cmd *cobra.Command, t *core.Table, req core.ChartRequest, o *showOptions) error {
	fig, err := chart.Build(t, req)
	if err != nil {
		return err
	}
	style := chart.Style{BaseColor: req.ColorValue, Dark: o.theme == "dark"}

	if o.out == "" {
		if err := writeChart(a.out(cmd), fig, style, o.png); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		return nil
	}

	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", o.out, err)
	}
	if err := writeChart(f, fig, style, o.png); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", o.out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", o.out, req.Title)
	return nil
}

func writeChart(w io.Writer, fig chart.Figure, style chart.Style, png bool) error {
	if png {
		return chart.PNG(w, fig, style)
	}
	return chart.HTML(fig, style).Render(w)
}
