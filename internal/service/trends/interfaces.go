package trends

import (
	"context"
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

// SnapshotStore is the persistence contract for daily snapshots. Lookups
// that find nothing return (nil, nil); an error always means the read or
// write itself failed.
type SnapshotStore interface {
	FindByDate(ctx context.Context, date time.Time) (*governance.Snapshot, error)
	FindRange(ctx context.Context, start, end time.Time) ([]*governance.Snapshot, error)
	Upsert(ctx context.Context, snapshot *governance.Snapshot) error
	FindLatest(ctx context.Context) (*governance.Snapshot, error)
}

// SummaryProvider computes the current aggregate counts across the
// governance entities.
type SummaryProvider interface {
	CurrentSummary(ctx context.Context) (governance.SummaryMetrics, error)
}

// Clock abstracts wall-clock access so "today" is controllable in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// MetricsRecorder receives domain-level measurement events.
type MetricsRecorder interface {
	RecordSnapshotWrite(ok bool)
	RecordTrendRequest(rangeDays int)
}

type nopRecorder struct{}

func (nopRecorder) RecordSnapshotWrite(bool) {}
func (nopRecorder) RecordTrendRequest(int)   {}
