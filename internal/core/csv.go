package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses comma-separated data whose first record is the header.
//
// Errors wrap ErrParse:
//   - "empty file" when there is no header record
//   - "encoding error" when the data is not valid UTF-8
//   - "invalid csv" for tokenizer failures or rows wider than the header
func ParseCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file: no columns to parse", ErrParse)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: encoding error: file is not valid UTF-8", ErrParse)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file: no columns to parse", ErrParse)
		}
		return nil, fmt.Errorf("%w: invalid csv: %v", ErrParse, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid csv: %v", ErrParse, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: invalid csv: expected %d fields in line %d, saw %d",
				ErrParse, len(header), line, len(rec))
		}
		rows = append(rows, rec)
	}

	return NewTable(header, rows), nil
}

// isEmptyRow reports whether every cell in row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
