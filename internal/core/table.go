package core

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies what a cell holds.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
)

// Value is a single table cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// missingTokens are cell contents treated as missing, matched after trimming.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
}

// Missing returns the missing cell value.
func Missing() Value { return Value{Kind: KindMissing} }

// Number returns a numeric cell value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a text cell value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// ParseValue classifies raw cell text as missing, number or text.
// Non-finite floats ("inf", "1e999") are kept as text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if missingTokens[s] {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return Text(raw)
}

// IsMissing reports whether the cell is empty.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// IsNumber reports whether the cell holds a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// String renders the cell the way table views show it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Interface returns the cell as a JSON-friendly value: float64, string or nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindText:
		return v.Str
	default:
		return nil
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Table is an in-memory dataset of equal-length named columns.
// Tables are never mutated after construction.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// EmptyTable returns a table with zero rows and zero columns.
func EmptyTable() *Table {
	return &Table{index: map[string]int{}}
}

// NewTable builds a table from a header and raw text rows.
// Header names are normalized (blank names become "Unnamed: i", duplicates
// are suffixed ".1", ".2", ...). Short rows are padded with missing cells;
// cells beyond the header are ignored, callers must reject or widen first.
func NewTable(header []string, rows [][]string) *Table {
	names := normalizeHeader(header)
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Values: make([]Value, len(rows))}
	}
	for r, row := range rows {
		for c := range cols {
			if c < len(row) {
				cols[c].Values[r] = ParseValue(row[c])
			} else {
				cols[c].Values[r] = Missing()
			}
		}
	}
	return newTableFromColumns(cols, len(rows))
}

func newTableFromColumns(cols []Column, rows int) *Table {
	t := &Table{columns: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// normalizeHeader makes header names non-empty and unique.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = base + "." + strconv.Itoa(suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.rows == 0 }

// Columns returns the table columns in order. The slice must not be modified.
func (t *Table) Columns() []Column { return t.columns }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n >= t.rows {
		return t
	}
	if n < 0 {
		n = 0
	}
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = Column{Name: c.Name, Values: c.Values[:n:n]}
	}
	return newTableFromColumns(cols, n)
}

// Records returns rows as column-name keyed maps, suitable for JSON.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, t.rows)
	for r := 0; r < t.rows; r++ {
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			rec[c.Name] = c.Values[r].Interface()
		}
		out[r] = rec
	}
	return out
}

// Equal reports whether two tables have identical shape, names and cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name {
			return false
		}
		for r, v := range c.Values {
			if v != oc.Values[r] {
				return false
			}
		}
	}
	return true
}
