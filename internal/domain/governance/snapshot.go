package governance

import (
	"math"
	"time"
)

// Snapshot is one calendar day of compliance state. Date is the natural
// key: the store holds at most one snapshot per day, and all times are
// normalized to start-of-day UTC.
type Snapshot struct {
	Date                     time.Time      `json:"date"`
	ComplianceRate           float64        `json:"compliance_rate"`
	ImplementedControls      int            `json:"implemented_controls"`
	TotalControls            int            `json:"total_controls"`
	OpenFindings             int            `json:"open_findings"`
	CriticalFindings         int            `json:"critical_findings"`
	AssessmentCompletionRate float64        `json:"assessment_completion_rate"`
	RiskClosureRate          float64        `json:"risk_closure_rate"`
	CompletedAssessments     int            `json:"completed_assessments"`
	TotalAssessments         int            `json:"total_assessments"`
	ApprovedEvidence         int            `json:"approved_evidence"`
	Metadata                 map[string]any `json:"metadata,omitempty"`
}

// DayOf truncates t to the start of its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NewSnapshotFromSummary derives the snapshot for date from the current
// aggregate counts. Percentages are rounded to one decimal place and a
// zero denominator yields a zero rate.
func NewSnapshotFromSummary(date time.Time, m SummaryMetrics) *Snapshot {
	return &Snapshot{
		Date:                     DayOf(date),
		ComplianceRate:           rateOf(m.ImplementedControls, m.TotalControls),
		ImplementedControls:      m.ImplementedControls,
		TotalControls:            m.TotalControls,
		OpenFindings:             m.OpenFindings,
		CriticalFindings:         m.CriticalFindings,
		AssessmentCompletionRate: rateOf(m.CompletedAssessments, m.TotalAssessments),
		RiskClosureRate:          rateOf(m.TotalFindings-m.OpenFindings, m.TotalFindings),
		CompletedAssessments:     m.CompletedAssessments,
		TotalAssessments:         m.TotalAssessments,
		ApprovedEvidence:         m.ApprovedEvidence,
		Metadata: map[string]any{
			"policies_under_review": m.PoliciesUnderReview,
		},
	}
}

// ZeroSnapshot is the all-zero placeholder emitted for days with no data.
func ZeroSnapshot(date time.Time) *Snapshot {
	return &Snapshot{Date: DayOf(date)}
}

// Clone returns a deep copy. Carry-forward filling rewrites the date on a
// copy so stored snapshots are never mutated.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	if s.Metadata != nil {
		c.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func rateOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
