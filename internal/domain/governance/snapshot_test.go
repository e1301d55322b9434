package governance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotFromSummary(t *testing.T) {
	date := time.Date(2025, 12, 1, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		name                string
		summary             SummaryMetrics
		wantCompliance      float64
		wantAssessmentRate  float64
		wantRiskClosureRate float64
	}{
		{
			name: "typical counts",
			summary: SummaryMetrics{
				TotalControls:        30,
				ImplementedControls:  20,
				TotalAssessments:     8,
				CompletedAssessments: 6,
				TotalFindings:        12,
				OpenFindings:         3,
			},
			wantCompliance:      66.7,
			wantAssessmentRate:  75.0,
			wantRiskClosureRate: 75.0,
		},
		{
			name: "zero denominators yield zero rates",
			summary: SummaryMetrics{
				TotalControls:    0,
				TotalAssessments: 0,
				TotalFindings:    0,
			},
			wantCompliance:      0,
			wantAssessmentRate:  0,
			wantRiskClosureRate: 0,
		},
		{
			name: "rounds half up to one decimal",
			summary: SummaryMetrics{
				// 1/16 = 6.25% -> 6.3
				TotalControls:       16,
				ImplementedControls: 1,
			},
			wantCompliance: 6.3,
		},
		{
			name: "full compliance",
			summary: SummaryMetrics{
				TotalControls:       10,
				ImplementedControls: 10,
			},
			wantCompliance: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshotFromSummary(date, tt.summary)
			require.NotNil(t, snap)

			assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), snap.Date)
			assert.Equal(t, tt.wantCompliance, snap.ComplianceRate)
			assert.Equal(t, tt.wantAssessmentRate, snap.AssessmentCompletionRate)
			assert.Equal(t, tt.wantRiskClosureRate, snap.RiskClosureRate)
			assert.Equal(t, tt.summary.ImplementedControls, snap.ImplementedControls)
			assert.Equal(t, tt.summary.OpenFindings, snap.OpenFindings)
		})
	}
}

func TestNewSnapshotFromSummary_Metadata(t *testing.T) {
	snap := NewSnapshotFromSummary(time.Now(), SummaryMetrics{PoliciesUnderReview: 4})

	require.NotNil(t, snap.Metadata)
	assert.Equal(t, 4, snap.Metadata["policies_under_review"])
}

func TestDayOf(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "truncates time of day",
			in:   time.Date(2025, 6, 15, 23, 59, 59, 999, time.UTC),
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "converts zones to UTC first",
			in:   time.Date(2025, 6, 15, 22, 30, 0, 0, est),
			want: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOf(tt.in))
		})
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := NewSnapshotFromSummary(time.Now(), SummaryMetrics{
		TotalControls:       10,
		ImplementedControls: 5,
		PoliciesUnderReview: 2,
	})

	c := orig.Clone()
	c.Date = c.Date.AddDate(0, 0, 1)
	c.Metadata["policies_under_review"] = 99

	assert.NotEqual(t, orig.Date, c.Date)
	assert.Equal(t, 2, orig.Metadata["policies_under_review"])
	assert.Equal(t, orig.ComplianceRate, c.ComplianceRate)
}

func TestZeroSnapshot(t *testing.T) {
	snap := ZeroSnapshot(time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), snap.Date)
	assert.Zero(t, snap.ComplianceRate)
	assert.Zero(t, snap.OpenFindings)
	assert.Nil(t, snap.Metadata)
}
