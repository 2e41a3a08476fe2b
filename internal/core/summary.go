package core

import "math"

// ColumnStats holds rounded statistics for one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary describes the shape of a table and its numeric columns.
type Summary struct {
	Rows    int           `json:"n_rows"`
	Columns int           `json:"n_columns"`
	Names   []string      `json:"columns"`
	Numeric []ColumnStats `json:"numeric_summary"`
}

// Stat looks up the statistics for a column.
func (s Summary) Stat(column string) (ColumnStats, bool) {
	for _, st := range s.Numeric {
		if st.Column == column {
			return st, true
		}
	}
	return ColumnStats{}, false
}

// IsNumericColumn reports whether every non-missing cell is a number.
// A column with no values at all counts as numeric.
func IsNumericColumn(c Column) bool {
	for _, v := range c.Values {
		if v.Kind == KindText {
			return false
		}
	}
	return true
}

// NumericColumns returns the names of numeric columns in table order.
func NumericColumns(t *Table) []string {
	var names []string
	for _, c := range t.Columns() {
		if IsNumericColumn(c) {
			names = append(names, c.Name)
		}
	}
	return names
}

// Summarize computes row/column counts, column names and mean/min/max of each
// numeric column, rounded to two decimals half-to-even. Numeric columns
// without any values are left out of the statistics.
func Summarize(t *Table) Summary {
	s := Summary{
		Rows:    t.NumRows(),
		Columns: t.NumColumns(),
		Names:   t.ColumnNames(),
		Numeric: []ColumnStats{},
	}

	for _, c := range t.Columns() {
		if !IsNumericColumn(c) {
			continue
		}
		if st, ok := columnStats(c); ok {
			s.Numeric = append(s.Numeric, st)
		}
	}
	return s
}

func columnStats(c Column) (ColumnStats, bool) {
	var (
		n      int
		sum    float64
		lo, hi = math.Inf(1), math.Inf(-1)
	)
	for _, v := range c.Values {
		if v.Kind != KindNumber {
			continue
		}
		n++
		sum += v.Num
		lo = math.Min(lo, v.Num)
		hi = math.Max(hi, v.Num)
	}
	if n == 0 {
		return ColumnStats{}, false
	}

	mean := sum / float64(n)
	if math.IsInf(sum, 0) {
		mean = runningMean(c)
	}
	// Summation error can push the mean just outside the observed range.
	mean = math.Max(lo, math.Min(hi, mean))

	return ColumnStats{
		Column: c.Name,
		Mean:   Round2(mean),
		Min:    Round2(lo),
		Max:    Round2(hi),
	}, true
}

// runningMean averages without a running sum, for columns whose total
// overflows float64.
func runningMean(c Column) float64 {
	var mean float64
	n := 0
	for _, v := range c.Values {
		if v.Kind != KindNumber {
			continue
		}
		n++
		mean += (v.Num - mean) / float64(n)
	}
	return mean
}

// Round2 rounds to two decimal places, ties to even. Values too large to
// scale are already whole and come back unchanged.
func Round2(f float64) float64 {
	scaled := f * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return f
	}
	return math.RoundToEven(scaled) / 100
}

// DefaultAxes returns the initial chart axes: X is the first numeric column,
// or the first column when none is numeric; Y is the first numeric column or "".
func DefaultAxes(t *Table) (x, y string) {
	if t.NumColumns() == 0 {
		return "", ""
	}
	if numeric := NumericColumns(t); len(numeric) > 0 {
		return numeric[0], numeric[0]
	}
	return t.Columns()[0].Name, ""
}

// Option is a label/value pair for selection controls.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AxisChoices lists selectable chart columns and their defaults.
type AxisChoices struct {
	X        []Option `json:"x_options"`
	Y        []Option `json:"y_options"`
	DefaultX string   `json:"x_default,omitempty"`
	DefaultY string   `json:"y_default,omitempty"`
}

// AxisOptions returns every column as an X choice and numeric columns as Y
// choices. An empty table has no choices.
func AxisOptions(t *Table) AxisChoices {
	choices := AxisChoices{X: []Option{}, Y: []Option{}}
	if t.IsEmpty() {
		return choices
	}
	for _, name := range t.ColumnNames() {
		choices.X = append(choices.X, Option{Label: name, Value: name})
	}
	for _, name := range NumericColumns(t) {
		choices.Y = append(choices.Y, Option{Label: name, Value: name})
	}
	choices.DefaultX, choices.DefaultY = DefaultAxes(t)
	return choices
}
