package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"12.5", Number(12.5)},
		{" 42 ", Number(42)},
		{"-3e2", Number(-300)},
		{"", Missing()},
		{"   ", Missing()},
		{"NA", Missing()},
		{"N/A", Missing()},
		{"NaN", Missing()},
		{"null", Missing()},
		{"<NA>", Missing()},
		{"north", Text("north")},
		{" padded ", Text(" padded ")},
		{"inf", Text("inf")},
		{"1e999", Text("1e999")},
		{"2024-01-05", Text("2024-01-05")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.raw))
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "12.5", Number(12.5).String())
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "abc", Text("abc").String())
	assert.Equal(t, "", Missing().String())

	assert.Equal(t, 1.5, Number(1.5).Interface())
	assert.Equal(t, "x", Text("x").Interface())
	assert.Nil(t, Missing().Interface())
}

func TestNormalizeHeader(t *testing.T) {
	got := normalizeHeader([]string{"a", "", "a", "a", "a.1", " b "})
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2", "a.1.1", "b"}, got)
}

func TestNewTable(t *testing.T) {
	tbl := NewTable([]string{"region", "sales"}, [][]string{
		{"north", "10"},
		{"south"},
		{"east", "NA"},
	})

	require.Equal(t, 3, tbl.NumRows())
	require.Equal(t, 2, tbl.NumColumns())
	assert.False(t, tbl.IsEmpty())
	assert.Equal(t, []string{"region", "sales"}, tbl.ColumnNames())
	assert.True(t, tbl.HasColumn("sales"))
	assert.False(t, tbl.HasColumn("Sales"))

	sales, ok := tbl.Column("sales")
	require.True(t, ok)
	assert.Equal(t, []Value{Number(10), Missing(), Missing()}, sales.Values)

	assert.Equal(t, []Value{Text("north"), Number(10)}, tbl.Row(0))
}

func TestTableHead(t *testing.T) {
	tbl := NewTable([]string{"n"}, [][]string{{"1"}, {"2"}, {"3"}})

	head := tbl.Head(2)
	assert.Equal(t, 2, head.NumRows())
	assert.Equal(t, 3, tbl.NumRows(), "source table must be unchanged")
	assert.Same(t, tbl, tbl.Head(10))
	assert.Equal(t, 0, tbl.Head(-1).NumRows())
}

func TestTableRecords(t *testing.T) {
	tbl := NewTable([]string{"name", "score"}, [][]string{{"ann", "9.5"}, {"bob", ""}})

	assert.Equal(t, []map[string]any{
		{"name": "ann", "score": 9.5},
		{"name": "bob", "score": nil},
	}, tbl.Records())
}

func TestEmptyTable(t *testing.T) {
	tbl := EmptyTable()
	assert.True(t, tbl.IsEmpty())
	assert.Equal(t, 0, tbl.NumColumns())
	assert.Empty(t, tbl.ColumnNames())
	assert.False(t, tbl.HasColumn(""))
	assert.True(t, tbl.Equal(EmptyTable()))
}

func TestTableEqual(t *testing.T) {
	a := NewTable([]string{"x"}, [][]string{{"1"}})
	b := NewTable([]string{"x"}, [][]string{{"1"}})
	c := NewTable([]string{"x"}, [][]string{{"2"}})
	d := NewTable([]string{"y"}, [][]string{{"1"}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
