package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Bundled example dataset shown first in dataset listings.
const (
	ExampleDataset      = "example_sales.csv"
	ExampleDatasetLabel = "Example: Example Sales Data"
)

var (
	// ErrInvalidUpload is returned when an upload envelope has no
	// "<header>,<payload>" separator.
	ErrInvalidUpload = errors.New("invalid upload contents")

	// ErrInvalidFilename is returned when a filename sanitizes to nothing usable.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrFileTooLarge is returned when upload bytes exceed the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// listedExtensions are the upload extensions offered for selection.
var listedExtensions = map[string]bool{".csv": true, ".xlsx": true}

// Store writes uploaded datasets and enumerates selectable ones.
type Store struct {
	loader *Loader
}

// NewStore creates a store over the loader's data root.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// EnsureDirs creates the example and uploads directories.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.loader.ExampleDir(), s.loader.UploadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}

// SanitizeFilename replaces spaces with underscores and drops every rune
// that is not a letter, digit, '_' or '.'.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '.' {
			return r
		}
		return -1
	}, name)
}

// DecodeEnvelope extracts the bytes from a "<header>,<base64>" upload
// envelope such as "data:text/csv;base64,aGVsbG8=".
func DecodeEnvelope(contents string) ([]byte, error) {
	_, encoded, ok := strings.Cut(contents, ",")
	if !ok {
		return nil, ErrInvalidUpload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidUpload, err)
	}
	return data, nil
}

// Save writes data verbatim under the sanitized filename and returns its
// identifier, "uploads/<sanitized>". The file appears atomically; an existing
// file with the same name is replaced.
func (s *Store) Save(data []byte, filename string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if err := s.EnsureDirs(); err != nil {
		return "", err
	}

	dir := s.loader.UploadsDir()
	tmp := filepath.Join(dir, "."+uuid.NewString()+".part")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return UploadsPrefix + name, nil
}

// List returns the selectable datasets: the bundled example when present,
// then every .csv and .xlsx upload in name order.
func (s *Store) List() ([]Option, error) {
	options := []Option{}

	if info, err := os.Stat(filepath.Join(s.loader.ExampleDir(), ExampleDataset)); err == nil && info.Mode().IsRegular() {
		options = append(options, Option{Label: ExampleDatasetLabel, Value: ExampleDataset})
	}

	entries, err := os.ReadDir(s.loader.UploadsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return options, nil
		}
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	for _, e := range entries {
		if !listedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := os.Stat(filepath.Join(s.loader.UploadsDir(), e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		options = append(options, Option{
			Label: "Uploaded: " + e.Name(),
			Value: UploadsPrefix + e.Name(),
		})
	}
	return options, nil
}
