package fixtures

import (
	"testing"
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

// SnapshotBuilder builds test Snapshot entities
type SnapshotBuilder struct {
	t       *testing.T
	summary governance.SummaryMetrics
	date    time.Time
}

// NewSnapshotBuilder creates a SnapshotBuilder with a healthy mid-size
// posture as the default.
func NewSnapshotBuilder(t *testing.T) *SnapshotBuilder {
	t.Helper()
	return &SnapshotBuilder{
		t:    t,
		date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		summary: governance.SummaryMetrics{
			TotalControls:        40,
			ImplementedControls:  30,
			TotalAssessments:     10,
			CompletedAssessments: 7,
			TotalFindings:        12,
			OpenFindings:         4,
			CriticalFindings:     1,
			ApprovedEvidence:     15,
			PoliciesUnderReview:  2,
		},
	}
}

func (b *SnapshotBuilder) WithDate(date time.Time) *SnapshotBuilder {
	b.date = date
	return b
}

func (b *SnapshotBuilder) WithControls(implemented, total int) *SnapshotBuilder {
	b.summary.ImplementedControls = implemented
	b.summary.TotalControls = total
	return b
}

func (b *SnapshotBuilder) WithFindings(open, critical, total int) *SnapshotBuilder {
	b.summary.OpenFindings = open
	b.summary.CriticalFindings = critical
	b.summary.TotalFindings = total
	return b
}

func (b *SnapshotBuilder) WithAssessments(completed, total int) *SnapshotBuilder {
	b.summary.CompletedAssessments = completed
	b.summary.TotalAssessments = total
	return b
}

// Build derives the snapshot from the configured summary, so rates are
// always consistent with the counts.
func (b *SnapshotBuilder) Build() *governance.Snapshot {
	return governance.NewSnapshotFromSummary(b.date, b.summary)
}

// SummaryMetricsBuilder builds test SummaryMetrics values
type SummaryMetricsBuilder struct {
	t       *testing.T
	summary governance.SummaryMetrics
}

func NewSummaryMetricsBuilder(t *testing.T) *SummaryMetricsBuilder {
	t.Helper()
	return &SummaryMetricsBuilder{
		t: t,
		summary: governance.SummaryMetrics{
			TotalControls:        40,
			ImplementedControls:  30,
			TotalAssessments:     10,
			CompletedAssessments: 7,
			TotalFindings:        12,
			OpenFindings:         4,
			CriticalFindings:     1,
			ApprovedEvidence:     15,
			PoliciesUnderReview:  2,
		},
	}
}

func (b *SummaryMetricsBuilder) WithControls(implemented, total int) *SummaryMetricsBuilder {
	b.summary.ImplementedControls = implemented
	b.summary.TotalControls = total
	return b
}

func (b *SummaryMetricsBuilder) WithFindings(open, critical, total int) *SummaryMetricsBuilder {
	b.summary.OpenFindings = open
	b.summary.CriticalFindings = critical
	b.summary.TotalFindings = total
	return b
}

func (b *SummaryMetricsBuilder) Build() governance.SummaryMetrics {
	return b.summary
}
