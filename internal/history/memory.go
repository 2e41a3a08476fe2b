// Package history records ingested uploads so the dashboard can show the
// last uploaded file and a recent-uploads list.
package history

import (
	"context"
	"sync"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// Log is the upload log used by core.Service.
type Log = core.UploadRecorder

// DefaultCapacity is the number of records kept by a MemoryLog when none is given.
const DefaultCapacity = 100

// DefaultRecentLimit applies when Recent is called with a non-positive limit.
const DefaultRecentLimit = 20

// MemoryLog keeps the newest records in a fixed-size ring. It is the backend
// when no database is configured; records are lost on restart.
type MemoryLog struct {
	mu    sync.RWMutex
	buf   []core.UploadRecord
	next  int
	count int
}

// NewMemoryLog creates a log holding up to capacity records.
func NewMemoryLog(capacity int) *MemoryLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryLog{buf: make([]core.UploadRecord, capacity)}
}

// Record appends rec, evicting the oldest record when full.
func (m *MemoryLog) Record(ctx context.Context, rec core.UploadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buf[m.next] = rec
	m.next = (m.next + 1) % len(m.buf)
	if m.count < len(m.buf) {
		m.count++
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (m *MemoryLog) Recent(ctx context.Context, limit int) ([]core.UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(limit, m.count)
	out := make([]core.UploadRecord, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryLog) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}
