package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: 200 bytes exceeds 100", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the upload size limit",
		},
		{
			name:        "http body limit maps to file too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the upload size limit",
		},
		{
			name:        "csv parse error maps correctly",
			err:         fmt.Errorf("%w: invalid csv: expected 2 fields in line 3, saw 3", ErrParse),
			wantCode:    "FILE002",
			wantMessage: "This dataset could not be read as CSV",
		},
		{
			name:        "encoding error maps correctly",
			err:         fmt.Errorf("%w: encoding error: file is not valid UTF-8", ErrParse),
			wantCode:    "FILE003",
			wantMessage: "File contains invalid characters",
		},
		{
			name:        "empty file maps correctly",
			err:         fmt.Errorf("%w: empty file: no columns to parse", ErrParse),
			wantCode:    "FILE005",
			wantMessage: "The file is empty",
		},
		{
			name:        "xlsx error maps correctly",
			err:         fmt.Errorf("%w: invalid xlsx: zip: not a valid zip file", ErrParse),
			wantCode:    "FILE006",
			wantMessage: "This workbook could not be opened",
		},
		{
			name:        "bad envelope maps correctly",
			err:         ErrInvalidUpload,
			wantCode:    "FILE007",
			wantMessage: "The upload payload could not be decoded",
		},
		{
			name:        "bad filename maps correctly",
			err:         fmt.Errorf("%w: %q", ErrInvalidFilename, "***"),
			wantCode:    "FILE008",
			wantMessage: "The filename has no usable characters",
		},
		{
			name:        "busy limiter maps correctly",
			err:         ErrTooManyUploads,
			wantCode:    "UPL001",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "cancelled context maps correctly",
			err:         context.Canceled,
			wantCode:    "UPL003",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("INVALID CSV: bare quote"),
			wantCode:    "FILE002",
			wantMessage: "This dataset could not be read as CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := fmt.Errorf("%w: invalid xlsx: bad zip", ErrParse)
	result := FormatUserError(err)

	expected := "This workbook could not be opened (Code: FILE006). Save the workbook as .xlsx and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrInvalidUpload,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
