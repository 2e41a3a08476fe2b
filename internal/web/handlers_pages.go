package web

import (
	"net/http"

	"github.com/JonMunkholm/dashbored/internal/chart"
	"github.com/JonMunkholm/dashbored/internal/core"
	"github.com/JonMunkholm/dashbored/internal/logging"
	"github.com/JonMunkholm/dashbored/internal/web/templates"
)

const (
	noUploadStatus = "No file uploaded yet."
	homeIntro      = "Upload a CSV/Excel file or explore the example data to see quick summaries and charts."
	exampleIntro   = "Explore the bundled example sales data with the same controls."
	homeFooter     = "Tip: Visit /example to see the example dataset with the same controls."
)

// handleHome serves the dashboard with the upload form.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, templates.Dashboard{
		Title:      "Dashboard",
		Heading:    "DASH-BORED: Simple Drag-and-Drop Dashboard",
		Intro:      homeIntro,
		Action:     "/",
		ShowUpload: true,
		Footer:     homeFooter,
	}, "")
}

// handleExample serves the dashboard preset to the example dataset.
func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, templates.Dashboard{
		Title:   "Example Dashboard",
		Heading: "DASH-BORED: Example Dataset",
		Intro:   exampleIntro,
		Action:  "/example",
	}, core.ExampleDataset)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, page templates.Dashboard, defaultDataset string) {
	ctx := r.Context()
	params, err := s.parseDashboard(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	datasets, err := s.service.Datasets(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	dataset := params.Dataset
	if dataset == "" {
		dataset = defaultDataset
	}
	if dataset == "" && len(datasets) > 0 {
		dataset = datasets[0].Value
	}

	page.Theme = params.Theme
	if page.Theme == "" {
		page.Theme = "light"
	}
	page.Compare = params.compare()
	page.Datasets = datasets
	page.Dataset = dataset
	page.Status = noUploadStatus
	if last, ok := s.service.LastUpload(ctx); ok {
		page.Status = "Last uploaded file: " + last.OriginalName
	}

	// One load serves both panels.
	t, loadErr := s.service.Load(ctx, dataset)
	page.Primary = s.panel("Primary View", "", dataset, t, loadErr, panelDefaults(params.Primary, false), page.Theme)
	if page.Compare {
		page.Comparison = s.panel("Comparison View", "c", dataset, t, loadErr, panelDefaults(params.Comparison, true), page.Theme)
	}

	writeHTML(w, r, templates.DashboardPage(page))
}

// panel renders one view card. A dataset that fails to parse shows the
// mapped error instead of the no-data placeholder.
func (s *Server) panel(title, prefix, dataset string, t *core.Table, loadErr error, p panelParams, theme string) templates.Panel {
	out := templates.Panel{Title: title, Prefix: prefix}
	if loadErr != nil {
		msg := core.MapError(loadErr)
		out.View, out.Chart, out.ColorValue = p.View, p.Chart, p.ColorValue
		out.Content = templates.ErrorAlert(msg.Message, msg.Action, msg.Code)
		return out
	}

	p = withAxes(p, t)
	res := s.service.Render(t, p.selection())

	out.View, out.Chart = p.View, p.Chart
	out.X, out.Y, out.Color, out.ColorValue = p.X, p.Y, p.Color, p.ColorValue
	out.Axes = core.AxisOptions(t)
	out.Content = templates.ResultView(res, chartSrc(dataset, p, theme))
	return out
}

// handleChart renders a single chart document for the dashboard's frames.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dataset, p, err := s.parsePanel(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	theme := r.URL.Query().Get("theme")
	if err := s.validate.Var(theme, "omitempty,oneof=light dark"); err != nil {
		s.respondError(w, r, validationError(err), http.StatusBadRequest)
		return
	}

	p.View = string(core.ModeChart)
	t, res, err := s.service.View(ctx, dataset, p.selection())
	if err != nil {
		msg := core.MapError(err)
		writeHTML(w, r, templates.Layout("Chart", theme, templates.ErrorAlert(msg.Message, msg.Action, msg.Code)))
		return
	}
	if res.Kind != core.ResultChart {
		writeHTML(w, r, templates.ChartMessage(res.Message, theme))
		return
	}

	fig, err := chart.Build(t, *res.Chart)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	style := chart.Style{BaseColor: p.ColorValue, Dark: theme == "dark"}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.HTML(fig, style).Render(w); err != nil {
		logging.FromContext(ctx).Error("render chart", "dataset", dataset, "error", err)
	}
}
