package core

// ViewMode selects how a dataset is presented.
type ViewMode string

const (
	ModeTable   ViewMode = "table"
	ModeSummary ViewMode = "summary"
	ModeChart   ViewMode = "chart"
)

// ChartKind selects the chart type in chart mode.
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartBar       ChartKind = "bar"
	ChartScatter   ChartKind = "scatter"
	ChartLine      ChartKind = "line"
	ChartArea      ChartKind = "area"
	ChartBox       ChartKind = "box"
)

// ChartKinds lists every chart kind in display order.
var ChartKinds = []ChartKind{ChartHistogram, ChartBar, ChartScatter, ChartLine, ChartArea, ChartBox}

// TablePreviewRows caps the rows returned by table mode.
const TablePreviewRows = 50

// Fixed user-facing messages.
const (
	NoDataMessage         = "No data available for this selection."
	InvalidColumnsMessage = "Please select valid columns to build this chart."
)

// StatMetrics are the rows of the numeric summary table, in order.
var StatMetrics = []string{"mean", "min", "max"}

// Selection is a transient view request. Empty strings mean "not selected".
type Selection struct {
	Mode        ViewMode
	ChartKind   ChartKind
	X           string
	Y           string
	ColorColumn string
	ColorValue  string
}

// normalized applies the fallbacks for unrecognized modes and chart kinds.
func (s Selection) normalized() Selection {
	switch s.Mode {
	case ModeTable, ModeSummary, ModeChart:
	default:
		s.Mode = ModeTable
	}
	switch s.ChartKind {
	case ChartHistogram, ChartBar, ChartScatter, ChartLine, ChartArea, ChartBox:
	default:
		s.ChartKind = ChartHistogram
	}
	return s
}

// ResultKind says which rendering path a Result took.
type ResultKind string

const (
	ResultPlaceholder ResultKind = "placeholder"
	ResultTable       ResultKind = "table"
	ResultSummary     ResultKind = "summary"
	ResultChart       ResultKind = "chart"
	ResultValidation  ResultKind = "validation"
)

// StatsRow is one metric across all numeric columns. Values are keyed by
// column name; order follows Summary.Numeric.
type StatsRow struct {
	Metric string             `json:"metric"`
	Values map[string]float64 `json:"values"`
}

// ChartRequest is a validated chart request handed to the chart renderer.
// ColorColumn is empty when the selected color column is not in the table.
type ChartRequest struct {
	Kind        ChartKind `json:"kind"`
	X           string    `json:"x"`
	Y           string    `json:"y,omitempty"`
	ColorColumn string    `json:"color_column,omitempty"`
	ColorValue  string    `json:"color_value,omitempty"`
	Title       string    `json:"title"`
}

// Result is the outcome of Render. Exactly the fields for Kind are set.
type Result struct {
	Kind    ResultKind       `json:"kind"`
	Message string           `json:"message,omitempty"`
	Table   *Table           `json:"-"`
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
	Summary *Summary         `json:"summary,omitempty"`
	Stats   []StatsRow       `json:"stats,omitempty"`
	Chart   *ChartRequest    `json:"chart,omitempty"`
}

// Render decides how to present t for sel. It never fails: an empty table
// yields the no-data placeholder and bad chart columns a validation message.
func Render(t *Table, sel Selection) Result {
	if t == nil || t.IsEmpty() {
		return Result{Kind: ResultPlaceholder, Message: NoDataMessage}
	}

	sel = sel.normalized()
	switch sel.Mode {
	case ModeSummary:
		return renderSummary(t)
	case ModeChart:
		return renderChart(t, sel)
	default:
		head := t.Head(TablePreviewRows)
		return Result{
			Kind:    ResultTable,
			Table:   head,
			Columns: head.ColumnNames(),
			Rows:    head.Records(),
		}
	}
}

func renderSummary(t *Table) Result {
	summary := Summarize(t)
	res := Result{Kind: ResultSummary, Summary: &summary}
	if len(summary.Numeric) == 0 {
		return res
	}

	res.Stats = make([]StatsRow, 0, len(StatMetrics))
	for _, metric := range StatMetrics {
		row := StatsRow{Metric: metric, Values: make(map[string]float64, len(summary.Numeric))}
		for _, st := range summary.Numeric {
			switch metric {
			case "mean":
				row.Values[st.Column] = st.Mean
			case "min":
				row.Values[st.Column] = st.Min
			case "max":
				row.Values[st.Column] = st.Max
			}
		}
		res.Stats = append(res.Stats, row)
	}
	return res
}

func renderChart(t *Table, sel Selection) Result {
	req, ok := ValidateChart(t, sel)
	if !ok {
		return Result{Kind: ResultValidation, Message: InvalidColumnsMessage}
	}
	return Result{Kind: ResultChart, Chart: &req}
}

// ValidateChart checks the column selection for sel.ChartKind against t.
//
//   - histogram needs X
//   - bar, scatter, line and area need X and Y
//   - box needs X; Y is optional but must be valid when given
//
// An invalid color column is dropped rather than rejected.
func ValidateChart(t *Table, sel Selection) (ChartRequest, bool) {
	sel = sel.normalized()
	valid := func(name string) bool { return name != "" && t.HasColumn(name) }

	if !valid(sel.X) {
		return ChartRequest{}, false
	}

	req := ChartRequest{Kind: sel.ChartKind, X: sel.X, ColorValue: sel.ColorValue}
	switch sel.ChartKind {
	case ChartBar, ChartScatter, ChartLine, ChartArea:
		if !valid(sel.Y) {
			return ChartRequest{}, false
		}
		req.Y = sel.Y
	case ChartBox:
		if sel.Y != "" {
			if !t.HasColumn(sel.Y) {
				return ChartRequest{}, false
			}
			req.Y = sel.Y
		}
	}

	if valid(sel.ColorColumn) {
		req.ColorColumn = sel.ColorColumn
	}
	req.Title = chartTitle(req)
	return req, true
}

func chartTitle(req ChartRequest) string {
	switch req.Kind {
	case ChartBar:
		return "Bar chart of " + req.Y + " by " + req.X
	case ChartScatter:
		return "Scatter plot of " + req.Y + " vs " + req.X
	case ChartLine:
		return "Line chart of " + req.Y + " over " + req.X
	case ChartArea:
		return "Area chart of " + req.Y + " over " + req.X
	case ChartBox:
		return "Box plot"
	default:
		return "Histogram of " + req.X
	}
}
