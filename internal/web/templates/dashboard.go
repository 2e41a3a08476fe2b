package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// Panel is one view card and the controls that drive it. Prefix namespaces
// the query parameters ("" for the primary view, "c" for the comparison).
type Panel struct {
	Title      string
	Prefix     string
	View       string
	Chart      string
	X          string
	Y          string
	Color      string
	ColorValue string
	Axes       core.AxisChoices
	Content    templ.Component
}

// Dashboard is the data behind the home and example pages.
type Dashboard struct {
	Title      string
	Heading    string
	Intro      string
	Action     string
	Theme      string
	Compare    bool
	ShowUpload bool
	Status     string
	Datasets   []core.Option
	Dataset    string
	Primary    Panel
	Comparison Panel
	Footer     string
}

var (
	viewOptions = []core.Option{
		{Label: "Table", Value: string(core.ModeTable)},
		{Label: "Summary", Value: string(core.ModeSummary)},
		{Label: "Chart", Value: string(core.ModeChart)},
	}
	chartOptions = []core.Option{
		{Label: "Histogram", Value: string(core.ChartHistogram)},
		{Label: "Bar", Value: string(core.ChartBar)},
		{Label: "Scatter", Value: string(core.ChartScatter)},
		{Label: "Line", Value: string(core.ChartLine)},
		{Label: "Area", Value: string(core.ChartArea)},
		{Label: "Box", Value: string(core.ChartBox)},
	}
	themeOptions = []core.Option{
		{Label: "Light", Value: "light"},
		{Label: "Dark", Value: "dark"},
	}
	layoutOptions = []core.Option{
		{Label: "Single", Value: ""},
		{Label: "Side by side", Value: "1"},
	}
)

// DashboardPage renders the full dashboard document.
func DashboardPage(d Dashboard) templ.Component {
	return Layout(d.Title, d.Theme, dashboardBody(d))
}

func dashboardBody(d Dashboard) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="container"><h1>`)
		h.text(d.Heading)
		h.raw(`</h1><p>`)
		h.text(d.Intro)
		h.raw(`</p>`)

		if d.ShowUpload {
			uploadForm(h)
			h.raw(`<div class="status-text" id="last-uploaded-filename">`)
			h.text(d.Status)
			h.raw(`</div>`)
		}

		h.raw(`<form method="get" class="controls"`)
		h.attr("action", d.Action)
		h.raw(`><div class="controls-row">`)

		card(h, "Dataset", false, func() {
			h.raw(`<select name="dataset" onchange="this.form.submit()">`)
			if len(d.Datasets) == 0 {
				h.raw(`<option value="">Select a dataset</option>`)
			}
			for _, opt := range d.Datasets {
				option(h, opt, d.Dataset)
			}
			h.raw(`</select>`)
		})
		card(h, "View", false, func() { radios(h, "view", viewOptions, d.Primary.View) })
		card(h, "Theme", false, func() { radios(h, "theme", themeOptions, d.Theme) })
		compare := ""
		if d.Compare {
			compare = "1"
		}
		card(h, "Layout", false, func() { radios(h, "compare", layoutOptions, compare) })
		h.raw(`</div>`)

		panelControls(h, d.Primary, "")
		if d.Compare {
			panelControls(h, d.Comparison, "Compare ")
		}
		h.raw(`<div class="controls-actions"><button type="submit">Apply</button></div></form><hr>`)

		if d.Compare {
			h.raw(`<div id="view-container" class="view-split">`)
		} else {
			h.raw(`<div id="view-container" class="view-single">`)
		}
		viewCard(h, d.Primary)
		if d.Compare {
			viewCard(h, d.Comparison)
		}
		h.raw(`</div>`)

		if d.Footer != "" {
			h.raw(`<div class="footer-note">`)
			h.text(d.Footer)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}

func uploadForm(h *htmlWriter) {
	h.raw(`<div class="control-card"><form method="post" action="/upload" enctype="multipart/form-data" class="upload-box">`)
	h.raw(`<label for="upload-data">Drag and drop a CSV/Excel file here, or click to select.</label>`)
	h.raw(`<input id="upload-data" type="file" name="file" accept=".csv,.xlsx,.xls" required onchange="this.form.submit()">`)
	h.raw(`<button type="submit">Upload</button></form></div>`)
}

// panelControls renders the chart controls; the comparison row also carries
// its own view selector.
func panelControls(h *htmlWriter, p Panel, label string) {
	h.raw(`<div class="controls-row">`)
	if p.Prefix != "" {
		card(h, "Compare View", false, func() { radios(h, p.Prefix+"view", viewOptions, p.View) })
	}
	card(h, label+"Chart Type", false, func() { radios(h, p.Prefix+"chart", chartOptions, p.Chart) })
	card(h, "X Axis", false, func() { columnSelect(h, p.Prefix+"x", p.Axes.X, p.X, "Select column") })
	card(h, "Y Axis", false, func() { columnSelect(h, p.Prefix+"y", p.Axes.Y, p.Y, "Select column") })
	card(h, "Color By", false, func() { columnSelect(h, p.Prefix+"color", p.Axes.X, p.Color, "Optional") })
	card(h, "Base Color", true, func() {
		h.raw(`<input type="color"`)
		h.attr("name", p.Prefix+"color_value")
		h.attr("value", p.ColorValue)
		h.raw(`>`)
	})
	h.raw(`</div>`)
}

func viewCard(h *htmlWriter, p Panel) {
	h.raw(`<div class="view-card"><h3>`)
	h.text(p.Title)
	h.raw(`</h3><div class="view-content">`)
	h.render(p.Content)
	h.raw(`</div></div>`)
}

func card(h *htmlWriter, title string, narrow bool, body func()) {
	if narrow {
		h.raw(`<div class="control-card narrow-card"><strong>`)
	} else {
		h.raw(`<div class="control-card"><strong>`)
	}
	h.text(title)
	h.raw(`</strong>`)
	body()
	h.raw(`</div>`)
}

func radios(h *htmlWriter, name string, opts []core.Option, selected string) {
	h.raw(`<div class="radio-group">`)
	for _, opt := range opts {
		h.raw(`<label class="form-check-label"><input type="radio" class="form-check-input"`)
		h.attr("name", name)
		h.attr("value", opt.Value)
		h.flag("checked", opt.Value == selected)
		h.raw(`> `)
		h.text(opt.Label)
		h.raw(`</label>`)
	}
	h.raw(`</div>`)
}

func columnSelect(h *htmlWriter, name string, opts []core.Option, selected, placeholder string) {
	h.raw(`<select`)
	h.attr("name", name)
	h.raw(`><option value="">`)
	h.text(placeholder)
	h.raw(`</option>`)
	for _, opt := range opts {
		option(h, opt, selected)
	}
	h.raw(`</select>`)
}

func option(h *htmlWriter, opt core.Option, selected string) {
	h.raw(`<option`)
	h.attr("value", opt.Value)
	h.flag("selected", opt.Value == selected)
	h.raw(`>`)
	h.text(opt.Label)
	h.raw(`</option>`)
}
