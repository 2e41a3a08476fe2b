package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/dashbored/internal/chart"
	"github.com/JonMunkholm/dashbored/internal/core"
)

// panelParams is one view's query parameters.
type panelParams struct {
	View       string `validate:"omitempty,oneof=table summary chart"`
	Chart      string `validate:"omitempty,oneof=histogram bar scatter line area box"`
	X          string `validate:"max=256"`
	Y          string `validate:"max=256"`
	Color      string `validate:"max=256"`
	ColorValue string `validate:"omitempty,hexcolor"`
}

// dashboardParams are the query parameters of / and /example.
type dashboardParams struct {
	Dataset    string `validate:"max=512"`
	Theme      string `validate:"omitempty,oneof=light dark"`
	Compare    string `validate:"omitempty,oneof=0 1 true false on"`
	Primary    panelParams
	Comparison panelParams
}

func (p dashboardParams) compare() bool {
	switch p.Compare {
	case "1", "true", "on":
		return true
	}
	return false
}

func readPanel(q url.Values, prefix string) panelParams {
	get := func(name string) string { return strings.TrimSpace(q.Get(prefix + name)) }
	return panelParams{
		View:       get("view"),
		Chart:      get("chart"),
		X:          get("x"),
		Y:          get("y"),
		Color:      get("color"),
		ColorValue: get("color_value"),
	}
}

func (s *Server) parseDashboard(r *http.Request) (dashboardParams, error) {
	q := r.URL.Query()
	p := dashboardParams{
		Dataset:    strings.TrimSpace(q.Get("dataset")),
		Theme:      q.Get("theme"),
		Compare:    q.Get("compare"),
		Primary:    readPanel(q, ""),
		Comparison: readPanel(q, "c"),
	}
	if err := s.validate.Struct(p); err != nil {
		return p, validationError(err)
	}
	return p, nil
}

// parsePanel reads one unprefixed panel plus the dataset, for /chart and
// /api/view.
func (s *Server) parsePanel(r *http.Request) (string, panelParams, error) {
	q := r.URL.Query()
	p := readPanel(q, "")
	dataset := strings.TrimSpace(q.Get("dataset"))
	if err := s.validate.Var(dataset, "max=512"); err != nil {
		return "", p, validationError(err)
	}
	if err := s.validate.Struct(p); err != nil {
		return "", p, validationError(err)
	}
	return dataset, p, nil
}

// validationError flattens validator output into one VAL001 error naming
// each failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", errInvalidRequest, strings.Join(fields, "; "))
}

// panelDefaults fills the view, chart and base color a panel starts with.
func panelDefaults(p panelParams, comparison bool) panelParams {
	if comparison {
		if p.View == "" {
			p.View = string(core.ModeChart)
		}
		if p.Chart == "" {
			p.Chart = string(core.ChartScatter)
		}
		if p.ColorValue == "" {
			p.ColorValue = chart.ComparisonBaseColor
		}
		return p
	}
	if p.View == "" {
		p.View = string(core.ModeTable)
	}
	if p.Chart == "" {
		p.Chart = string(core.ChartHistogram)
	}
	if p.ColorValue == "" {
		p.ColorValue = chart.DefaultBaseColor
	}
	return p
}

// withAxes replaces axis selections that name no column of t with the
// default axes, the way a dataset switch resets the dropdowns.
func withAxes(p panelParams, t *core.Table) panelParams {
	if t == nil {
		return p
	}
	defX, defY := core.DefaultAxes(t)
	if p.X == "" || !t.HasColumn(p.X) {
		p.X = defX
	}
	switch {
	case p.Y != "" && !t.HasColumn(p.Y):
		p.Y = defY
	case p.Y == "" && p.Chart != string(core.ChartBox):
		// Box plots keep an empty Y: one box over X.
		p.Y = defY
	}
	if p.Color != "" && !t.HasColumn(p.Color) {
		p.Color = ""
	}
	return p
}

func (p panelParams) selection() core.Selection {
	return core.Selection{
		Mode:        core.ViewMode(p.View),
		ChartKind:   core.ChartKind(p.Chart),
		X:           p.X,
		Y:           p.Y,
		ColorColumn: p.Color,
		ColorValue:  p.ColorValue,
	}
}

// chartSrc is the /chart frame URL for a panel.
func chartSrc(dataset string, p panelParams, theme string) string {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("view", string(core.ModeChart))
	q.Set("chart", p.Chart)
	q.Set("x", p.X)
	if p.Y != "" {
		q.Set("y", p.Y)
	}
	if p.Color != "" {
		q.Set("color", p.Color)
	}
	if p.ColorValue != "" {
		q.Set("color_value", p.ColorValue)
	}
	if theme != "" {
		q.Set("theme", theme)
	}
	return "/chart?" + q.Encode()
}
