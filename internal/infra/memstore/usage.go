package memstore

import (
	"context"
	"sync"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// UsageLog is the default in-memory usage sink, used when no database
// DSN is configured. Append-only; nothing in the processing path reads
// it back.
type UsageLog struct {
	mu      sync.Mutex
	nextID  int64
	entries []domain.Usage
}

func NewUsageLog() *UsageLog {
	return &UsageLog{nextID: 1}
}

func (l *UsageLog) Record(_ context.Context, u domain.Usage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	u.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, u)
	return nil
}

// Entries returns a snapshot, used by tests.
func (l *UsageLog) Entries() []domain.Usage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Usage, len(l.entries))
	copy(out, l.entries)
	return out
}
