package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseXLSXFile reads the first sheet of a workbook. The first non-blank row is
// the header; blank rows are skipped and raw (unformatted) cell values are used,
// except that date-styled numbers are read as dates in text form.
// A sheet with no rows yields an empty table.
func ParseXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid xlsx: %v", ErrParse, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: invalid xlsx: workbook has no sheets", ErrParse)
	}
	sheet := sheets[0]

	iter, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid xlsx: open sheet %s: %v", ErrParse, sheet, err)
	}
	defer iter.Close()

	var (
		records [][]string
		rowNums []int
		rowNum  int
	)
	width := 0
	for iter.Next() {
		rowNum++
		row, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: invalid xlsx: read row in sheet %s: %v", ErrParse, sheet, err)
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		records = append(records, row)
		rowNums = append(rowNums, rowNum)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: invalid xlsx: %v", ErrParse, err)
	}

	dates := newDateCells(f, sheet)
	for i, row := range records {
		for j, cell := range row {
			if text, ok := dates.text(j+1, rowNums[i], cell); ok {
				row[j] = text
			}
		}
	}

	if len(records) == 0 {
		return EmptyTable(), nil
	}

	// Rows wider than the header extend it with blank, later "Unnamed: i", names.
	header := make([]string, width)
	copy(header, records[0])
	return NewTable(header, records[1:]), nil
}

// dateCells converts date-styled serial numbers to text, caching the
// verdict per style.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, isDate: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// text returns the date form of a raw cell value when its style is a date
// format. Whole days render as 2006-01-02, others with the time of day.
func (d *dateCells) text(col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	styleID, err := d.f.GetCellStyle(d.sheet, ref)
	if err != nil || styleID == 0 || !d.styleIsDate(styleID) {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(time.DateOnly), true
	}
	return t.Format(time.DateTime), true
}

func (d *dateCells) styleIsDate(id int) bool {
	if v, ok := d.isDate[id]; ok {
		return v
	}
	v := false
	if style, err := d.f.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			v = isDateFormatCode(*style.CustomNumFmt)
		} else {
			v = isBuiltinDateFormat(style.NumFmt)
		}
	}
	d.isDate[id] = v
	return v
}

// isBuiltinDateFormat reports whether a built-in number format ID displays a
// date or time.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or
// time tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}
