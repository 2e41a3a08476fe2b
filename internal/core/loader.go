package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// UploadsPrefix marks identifiers that live in the uploads directory.
// Every other identifier names a bundled example file.
const UploadsPrefix = "uploads/"

// Directory names under the data root.
const (
	ExampleDirName = "example"
	UploadsDirName = "uploads"
)

// ErrParse wraps every failure to interpret the contents of a supported file.
// It is the only load failure surfaced to callers; absent or unsupported
// inputs load as an empty table instead.
var ErrParse = errors.New("parse error")

// Loader resolves dataset identifiers under a data root and parses them.
type Loader struct {
	root string
}

// NewLoader creates a loader rooted at dataRoot.
func NewLoader(dataRoot string) *Loader {
	return &Loader{root: dataRoot}
}

// Root returns the data root directory.
func (l *Loader) Root() string { return l.root }

// ExampleDir returns the directory of bundled datasets.
func (l *Loader) ExampleDir() string { return filepath.Join(l.root, ExampleDirName) }

// UploadsDir returns the directory of uploaded datasets.
func (l *Loader) UploadsDir() string { return filepath.Join(l.root, UploadsDirName) }

// Resolve maps an identifier to a file path. It returns false for empty
// identifiers and for identifiers that would escape their directory.
func (l *Loader) Resolve(id string) (string, bool) {
	if id == "" {
		return "", false
	}

	dir, name := l.ExampleDir(), id
	if strings.HasPrefix(id, UploadsPrefix) {
		dir, name = l.UploadsDir(), strings.TrimPrefix(id, UploadsPrefix)
	}
	if name == "" {
		return "", false
	}

	path := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

// Load reads the dataset named by id.
//
// Empty identifiers, missing files and unsupported extensions yield an empty
// table and a nil error. Malformed content in a .csv, .xlsx or .xls file
// returns an error wrapping ErrParse.
func (l *Loader) Load(id string) (*Table, error) {
	path, ok := l.Resolve(id)
	if !ok {
		return EmptyTable(), nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return EmptyTable(), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return EmptyTable(), nil
		}
		return ParseCSV(data)
	case ".xlsx", ".xls":
		return ParseXLSXFile(path)
	default:
		return EmptyTable(), nil
	}
}

// SourceOf returns "uploads" or "example" for metrics and logs.
func SourceOf(id string) string {
	if strings.HasPrefix(id, UploadsPrefix) {
		return UploadsDirName
	}
	return ExampleDirName
}
