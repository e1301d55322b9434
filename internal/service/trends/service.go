package trends

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/errors"
	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

const (
	// MinRangeDays and MaxRangeDays bound the history length a caller can
	// request. Requests outside the bounds are clamped, not rejected.
	MinRangeDays = 7
	MaxRangeDays = 90
)

// TrendResponse is the assembled trend view: contiguous daily history,
// forward projection, the freshest snapshot, and a data-freshness
// timestamp. Assembled fresh on every request.
type TrendResponse struct {
	History        []*governance.Snapshot
	Forecast       []ForecastPoint
	LatestSnapshot *governance.Snapshot
	LastUpdatedAt  time.Time
}

// Service orchestrates snapshot upkeep, gap filling, and forecasting.
type Service struct {
	snapshots SnapshotStore
	summary   SummaryProvider
	clock     Clock
	logger    *slog.Logger
	recorder  MetricsRecorder
}

func NewService(snapshots SnapshotStore, summary SummaryProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		snapshots: snapshots,
		summary:   summary,
		clock:     realClock{},
		logger:    logger,
		recorder:  nopRecorder{},
	}
}

// WithMetrics attaches a metrics recorder.
func (s *Service) WithMetrics(recorder MetricsRecorder) *Service {
	if recorder != nil {
		s.recorder = recorder
	}
	return s
}

// GetTrend returns the trend view for the trailing rangeDays of history.
// A failed upstream summary computation fails the request; a failed
// snapshot write does not, because the stored history can still be
// served.
func (s *Service) GetTrend(ctx context.Context, rangeDays int) (*TrendResponse, error) {
	rangeDays = clampRange(rangeDays)
	s.recorder.RecordTrendRequest(rangeDays)
	today := governance.DayOf(s.clock.Now())

	if err := s.EnsureSnapshot(ctx, today); err != nil {
		if errors.IsType(err, errors.ErrorTypeExternal) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "snapshot write failed, serving stored history",
			"date", today.Format("2006-01-02"),
			"error", err)
	}

	start := today.AddDate(0, 0, -(rangeDays - 1))
	stored, err := s.snapshots.FindRange(ctx, start, today)
	if err != nil {
		return nil, errors.NewInternalError("failed to load snapshot range").WithCause(err)
	}

	history := FillDaily(stored, start, today)
	forecast := Forecast(history, ForecastHorizonDays)
	latest := s.latestOf(ctx, history, today)

	return &TrendResponse{
		History:        history,
		Forecast:       forecast,
		LatestSnapshot: latest,
		LastUpdatedAt:  governance.DayOf(latest.Date),
	}, nil
}

// EnsureSnapshot derives the snapshot for date from the current summary
// and upserts it. Upserting keeps the call idempotent: repeated calls for
// one day overwrite the same row. A summary failure comes back as an
// external error, a write failure as an internal one, so callers can
// decide which of the two they survive.
func (s *Service) EnsureSnapshot(ctx context.Context, date time.Time) error {
	summary, err := s.summary.CurrentSummary(ctx)
	if err != nil {
		return errors.NewExternalError("governance summary", "failed to compute current metrics").WithCause(err)
	}

	snapshot := governance.NewSnapshotFromSummary(date, summary)
	if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
		s.recorder.RecordSnapshotWrite(false)
		return errors.NewInternalError("failed to persist snapshot").WithCause(err)
	}
	s.recorder.RecordSnapshotWrite(true)
	return nil
}

// CurrentSummary exposes the live aggregate counts.
func (s *Service) CurrentSummary(ctx context.Context) (governance.SummaryMetrics, error) {
	summary, err := s.summary.CurrentSummary(ctx)
	if err != nil {
		return governance.SummaryMetrics{}, errors.NewExternalError("governance summary", "failed to compute current metrics").WithCause(err)
	}
	return summary, nil
}

// latestOf picks the freshest snapshot: the tail of the filled history,
// then the newest stored snapshot of any date, then an all-zero
// placeholder.
func (s *Service) latestOf(ctx context.Context, history []*governance.Snapshot, today time.Time) *governance.Snapshot {
	if len(history) > 0 {
		return history[len(history)-1]
	}

	latest, err := s.snapshots.FindLatest(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "latest snapshot lookup failed", "error", err)
	}
	if latest != nil {
		return latest
	}
	return governance.ZeroSnapshot(today)
}

func clampRange(days int) int {
	if days < MinRangeDays {
		return MinRangeDays
	}
	if days > MaxRangeDays {
		return MaxRangeDays
	}
	return days
}
