package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UploadRecord describes one ingested upload.
type UploadRecord struct {
	ID           string    `json:"id"`
	Dataset      string    `json:"dataset"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	IP           string    `json:"ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// UploadRecorder persists upload records. Implementations live in the
// history package.
type UploadRecorder interface {
	Record(ctx context.Context, rec UploadRecord) error
	Recent(ctx context.Context, limit int) ([]UploadRecord, error)
}

// Observer receives counts of service activity, usually for metrics.
type Observer interface {
	ObserveLoad(source, outcome string)
	ObserveUpload(outcome string)
	ObserveRender(mode ViewMode, kind ResultKind)
}

// Load and upload outcomes reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
)

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, UploadRecord) error { return nil }
func (nopRecorder) Recent(context.Context, int) ([]UploadRecord, error) {
	return []UploadRecord{}, nil
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, string)          {}
func (nopObserver) ObserveUpload(string)                {}
func (nopObserver) ObserveRender(ViewMode, ResultKind) {}

// ServiceConfig holds the settings the service needs from configuration.
type ServiceConfig struct {
	DataRoot             string
	MaxUploadSize        int64
	MaxConcurrentUploads int
	UploadWait           time.Duration
}

// DefaultMaxUploadSize applies when ServiceConfig.MaxUploadSize is not positive.
const DefaultMaxUploadSize = 100 << 20

// Service is the entry point shared by the web handlers and the CLI.
type Service struct {
	loader        *Loader
	store         *Store
	limiter       *UploadLimiter
	recorder      UploadRecorder
	observer      Observer
	maxUploadSize int64
}

// NewService wires a loader, store and upload limiter over cfg.DataRoot.
// A nil recorder or observer disables that concern.
func NewService(cfg ServiceConfig, recorder UploadRecorder, observer Observer) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	maxSize := cfg.MaxUploadSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	loader := NewLoader(cfg.DataRoot)
	return &Service{
		loader:        loader,
		store:         NewStore(loader),
		limiter:       NewUploadLimiter(cfg.MaxConcurrentUploads, cfg.UploadWait),
		recorder:      recorder,
		observer:      observer,
		maxUploadSize: maxSize,
	}
}

// Loader returns the dataset loader.
func (s *Service) Loader() *Loader { return s.loader }

// Store returns the upload store.
func (s *Service) Store() *Store { return s.store }

// MaxUploadSize returns the upload size limit in bytes.
func (s *Service) MaxUploadSize() int64 { return s.maxUploadSize }

// Init creates the data directories.
func (s *Service) Init() error {
	return s.store.EnsureDirs()
}

// Load reads a dataset and reports the outcome to the observer.
func (s *Service) Load(ctx context.Context, id string) (*Table, error) {
	t, err := s.loader.Load(id)
	source := SourceOf(id)
	switch {
	case err != nil:
		s.observer.ObserveLoad(source, OutcomeError)
		slog.WarnContext(ctx, "dataset parse failed", "dataset", id, "error", err)
		return nil, err
	case t.IsEmpty():
		s.observer.ObserveLoad(source, OutcomeEmpty)
	default:
		s.observer.ObserveLoad(source, OutcomeOK)
	}
	return t, nil
}

// View loads id and renders it for sel.
func (s *Service) View(ctx context.Context, id string, sel Selection) (*Table, Result, error) {
	t, err := s.Load(ctx, id)
	if err != nil {
		return nil, Result{}, err
	}
	return t, s.Render(t, sel), nil
}

// Render renders an already loaded table and reports the result kind.
func (s *Service) Render(t *Table, sel Selection) Result {
	res := Render(t, sel)
	s.observer.ObserveRender(sel.normalized().Mode, res.Kind)
	return res
}

// Summary loads id and summarizes it.
func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	t, err := s.Load(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(t), nil
}

// Columns loads id and returns its axis choices.
func (s *Service) Columns(ctx context.Context, id string) (AxisChoices, error) {
	t, err := s.Load(ctx, id)
	if err != nil {
		return AxisChoices{}, err
	}
	return AxisOptions(t), nil
}

// Datasets lists the selectable datasets.
func (s *Service) Datasets(ctx context.Context) ([]Option, error) {
	return s.store.List()
}

// Upload stores data under filename and records it in the upload log.
// It waits for an upload slot and rejects data over the size limit.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if int64(len(data)) > s.maxUploadSize {
		s.observer.ObserveUpload(OutcomeRejected)
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.maxUploadSize)
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		s.observer.ObserveUpload(OutcomeBusy)
		return "", err
	}
	defer release()

	id, err := s.store.Save(data, filename)
	if err != nil {
		if errors.Is(err, ErrInvalidFilename) {
			s.observer.ObserveUpload(OutcomeRejected)
		} else {
			s.observer.ObserveUpload(OutcomeError)
		}
		return "", err
	}
	s.observer.ObserveUpload(OutcomeOK)

	meta := RequestMetaFromContext(ctx)
	rec := UploadRecord{
		ID:           uuid.NewString(),
		Dataset:      id,
		OriginalName: filepath.Base(filename),
		Size:         int64(len(data)),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		slog.WarnContext(ctx, "record upload failed", "dataset", id, "error", err)
	}

	slog.InfoContext(ctx, "dataset uploaded", "dataset", id, "size", len(data))
	return id, nil
}

// UploadEnvelope decodes a "<header>,<base64>" envelope and uploads it.
// Nothing is written when the envelope is malformed.
func (s *Service) UploadEnvelope(ctx context.Context, filename, contents string) (string, error) {
	data, err := DecodeEnvelope(contents)
	if err != nil {
		s.observer.ObserveUpload(OutcomeRejected)
		return "", err
	}
	return s.Upload(ctx, filename, data)
}

// RecentUploads returns up to limit upload records, newest first.
func (s *Service) RecentUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	return s.recorder.Recent(ctx, limit)
}

// LastUpload returns the newest upload record, if any.
func (s *Service) LastUpload(ctx context.Context) (UploadRecord, bool) {
	recs, err := s.recorder.Recent(ctx, 1)
	if err != nil || len(recs) == 0 {
		return UploadRecord{}, false
	}
	return recs[0], true
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.Drain(ctx)
}
