package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// ResultView renders a view Result. chartSrc is the frame URL used when the
// result is a chart.
func ResultView(res core.Result, chartSrc string) templ.Component {
	switch res.Kind {
	case core.ResultTable:
		return tableView(res.Table)
	case core.ResultSummary:
		return summaryView(res)
	case core.ResultChart:
		return chartFrame(res.Chart, chartSrc)
	default:
		return Message(res.Message)
	}
}

// Message renders the placeholder and validation texts.
func Message(text string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="view-message">`)
		h.text(text)
		h.raw(`</div>`)
	})
}

func tableView(t *core.Table) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="table-container"><table class="data-table"><thead><tr>`)
		for _, name := range t.ColumnNames() {
			h.raw(`<th>`)
			h.text(name)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for i := 0; i < t.NumRows(); i++ {
			h.raw(`<tr>`)
			for _, v := range t.Row(i) {
				if v.IsNumber() {
					h.raw(`<td class="num">`)
				} else {
					h.raw(`<td>`)
				}
				h.text(v.String())
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
	})
}

func summaryCard(h *htmlWriter, title, body string) {
	h.raw(`<div class="summary-card"><h4>`)
	h.text(title)
	h.raw(`</h4><p>`)
	h.text(body)
	h.raw(`</p></div>`)
}

func summaryView(res core.Result) templ.Component {
	return component(func(h *htmlWriter) {
		s := res.Summary
		h.raw(`<div class="summary-grid">`)
		summaryCard(h, "Rows", strconv.Itoa(s.Rows))
		summaryCard(h, "Columns", strconv.Itoa(s.Columns))
		summaryCard(h, "Column Names", strings.Join(s.Names, ", "))

		if len(s.Numeric) > 0 {
			h.raw(`<div class="summary-card summary-wide"><h4>Numeric Summary</h4>`)
			h.raw(`<div class="table-container"><table class="data-table"><thead><tr><th>Metric</th>`)
			for _, st := range s.Numeric {
				h.raw(`<th>`)
				h.text(st.Column)
				h.raw(`</th>`)
			}
			h.raw(`</tr></thead><tbody>`)
			for _, row := range res.Stats {
				h.raw(`<tr><td>`)
				h.text(row.Metric)
				h.raw(`</td>`)
				for _, st := range s.Numeric {
					h.raw(`<td class="num">`)
					h.text(core.Number(row.Values[st.Column]).String())
					h.raw(`</td>`)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table></div></div>`)
		}
		h.raw(`</div>`)
	})
}

func chartFrame(req *core.ChartRequest, src string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="chart-frame"><iframe loading="lazy"`)
		h.attr("src", src)
		if req != nil {
			h.attr("title", req.Title)
		}
		h.raw(`></iframe></div>`)
	})
}

// ChartMessage is the frame document shown instead of a chart.
func ChartMessage(text, theme string) templ.Component {
	return Layout("Chart", theme, component(func(h *htmlWriter) {
		h.raw(`<div class="frame-body">`)
		h.render(Message(text))
		h.raw(`</div>`)
	}))
}
