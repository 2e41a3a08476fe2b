package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// Output formats for --format.
const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
)

func validFormat(f string) error {
	switch f {
	case formatTable, formatMarkdown, formatCSV:
		return nil
	}
	return fmt.Errorf("unknown format %q: use table, markdown or csv", f)
}

func newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func render(w io.Writer, t table.Writer, format string) error {
	var out string
	switch format {
	case formatMarkdown:
		out = t.RenderMarkdown()
	case formatCSV:
		out = t.RenderCSV()
	default:
		out = t.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func headerRow(names []string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = n
	}
	return row
}

// writeOptions prints label/value pairs, e.g. the dataset listing.
func writeOptions(w io.Writer, opts []core.Option, format string) error {
	t := newWriter()
	t.AppendHeader(table.Row{"Dataset", "Label"})
	for _, o := range opts {
		t.AppendRow(table.Row{o.Value, o.Label})
	}
	return render(w, t, format)
}

// writeTable prints a table preview with numbers right-aligned.
func writeTable(w io.Writer, tbl *core.Table, format string) error {
	t := newWriter()
	t.AppendHeader(headerRow(tbl.ColumnNames()))

	configs := make([]table.ColumnConfig, 0, tbl.NumColumns())
	for i, c := range tbl.Columns() {
		if core.IsNumericColumn(c) {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.SetColumnConfigs(configs)

	for i := 0; i < tbl.NumRows(); i++ {
		cells := tbl.Row(i)
		row := make(table.Row, len(cells))
		for j, v := range cells {
			row[j] = v.String()
		}
		t.AppendRow(row)
	}
	return render(w, t, format)
}

// writeSummary prints the counts followed by the mean/min/max grid.
func writeSummary(w io.Writer, res core.Result, format string) error {
	s := res.Summary
	counts := newWriter()
	counts.AppendRows([]table.Row{
		{"Rows", strconv.Itoa(s.Rows)},
		{"Columns", strconv.Itoa(s.Columns)},
		{"Column Names", strings.Join(s.Names, ", ")},
	})
	if err := render(w, counts, format); err != nil {
		return err
	}
	if len(s.Numeric) == 0 {
		return nil
	}

	stats := newWriter()
	stats.SetTitle("Numeric Summary")
	header := table.Row{"Metric"}
	for _, st := range s.Numeric {
		header = append(header, st.Column)
	}
	stats.AppendHeader(header)
	for _, row := range res.Stats {
		r := table.Row{row.Metric}
		for _, st := range s.Numeric {
			r = append(r, core.Number(row.Values[st.Column]).String())
		}
		stats.AppendRow(r)
	}
	return render(w, stats, format)
}

// writeColumns prints each column with its kind and chart roles.
func writeColumns(w io.Writer, tbl *core.Table, format string) error {
	defX, defY := core.DefaultAxes(tbl)
	t := newWriter()
	t.AppendHeader(table.Row{"Column", "Kind", "Default"})
	for _, c := range tbl.Columns() {
		kind := "text"
		if core.IsNumericColumn(c) {
			kind = "numeric"
		}
		var roles []string
		if c.Name == defX {
			roles = append(roles, "x")
		}
		if c.Name == defY {
			roles = append(roles, "y")
		}
		t.AppendRow(table.Row{c.Name, kind, strings.Join(roles, "/")})
	}
	return render(w, t, format)
}

// writeUploads prints upload records newest first.
func writeUploads(w io.Writer, recs []core.UploadRecord, format string) error {
	t := newWriter()
	t.AppendHeader(table.Row{"Uploaded At", "Dataset", "Original Name", "Size", "IP"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	for _, r := range recs {
		t.AppendRow(table.Row{
			r.UploadedAt.Format("2006-01-02 15:04:05"),
			r.Dataset,
			r.OriginalName,
			r.Size,
			r.IP,
		})
	}
	return render(w, t, format)
}
