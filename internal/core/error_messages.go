// Package core provides the business logic for the dashboard.
//
// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: The file exceeds the upload size limit
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV: The file could not be read as CSV
//	          Patterns: "invalid csv"
//	FILE003 - Encoding error: The file is not UTF-8 text
//	          Patterns: "encoding error"
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The file has no header row
//	          Patterns: "empty file"
//	FILE006 - Invalid workbook: The spreadsheet could not be opened
//	          Patterns: "invalid xlsx"
//	FILE007 - Invalid upload: The upload payload is not a base64 envelope
//	          Patterns: "invalid upload contents"
//	FILE008 - Invalid filename: The filename has no usable characters
//	          Patterns: "invalid filename"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid request: A query or form value is not allowed
//	         Patterns: "invalid request"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: Too many uploads in progress
//	         Patterns: "too many concurrent uploads"
//	UPL002 - Upload not saved: The file could not be written
//	         Patterns: "write upload", "store upload", "create data dir"
//	UPL003 - Request cancelled
//	         Patterns: "context canceled"
//	UPL004 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Dataset Errors (DS001-DS099)
//
//	DS001 - Listing failed: Uploaded datasets could not be listed
//	        Patterns: "list uploads"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check application logs for the original
// technical error when users report ERR000.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "This dataset could not be read as CSV",
			Action:  "Ensure the file is comma-separated with a header row and consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file with UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV or Excel file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "This workbook could not be opened",
			Action:  "Save the workbook as .xlsx and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid upload contents",
		msg: UserMessage{
			Message: "The upload payload could not be decoded",
			Action:  "Send the file as a base64 data URL",
			Code:    "FILE007",
		},
	},
	{
		pattern: "invalid filename",
		msg: UserMessage{
			Message: "The filename has no usable characters",
			Action:  "Rename the file using letters, digits, '_' or '.'",
			Code:    "FILE008",
		},
	},

	// Validation errors
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request contains a value that is not allowed",
			Action:  "Check the selected view, chart type, theme and colors",
			Code:    "VAL001",
		},
	},

	// Upload errors
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "write upload",
		msg: UserMessage{
			Message: "The upload could not be saved",
			Action:  "Please try again or contact support",
			Code:    "UPL002",
		},
	},
	{
		pattern: "store upload",
		msg: UserMessage{
			Message: "The upload could not be saved",
			Action:  "Please try again or contact support",
			Code:    "UPL002",
		},
	},
	{
		pattern: "create data dir",
		msg: UserMessage{
			Message: "The upload could not be saved",
			Action:  "Please try again or contact support",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL004",
		},
	},

	// Dataset errors
	{
		pattern: "list uploads",
		msg: UserMessage{
			Message: "Uploaded datasets could not be listed",
			Action:  "Please try again or contact support",
			Code:    "DS001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage.
//
// Example:
//
//	err := fmt.Errorf("%w: invalid csv: expected 3 fields in line 4, saw 5", ErrParse)
//	msg := MapError(err)
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action" for display.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
