package rest

import (
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
	"github.com/meridiangrc/governance-backend/internal/service/trends"
)

const dateLayout = "2006-01-02"

// SnapshotResponse is the wire form of one daily snapshot. Dates are
// calendar dates without a time component.
type SnapshotResponse struct {
	Date                     string         `json:"date"`
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

// ForecastPointResponse is the wire form of one projected day.
type ForecastPointResponse struct {
	Date                    string  `json:"date"`
	ProjectedComplianceRate float64 `json:"projected_compliance_rate"`
	ProjectedOpenFindings   int     `json:"projected_open_findings"`
}

// TrendAPIResponse is the wire form of the trend view.
type TrendAPIResponse struct {
	History        []SnapshotResponse      `json:"history"`
	Forecast       []ForecastPointResponse `json:"forecast"`
	LatestSnapshot SnapshotResponse        `json:"latest_snapshot"`
	LastUpdatedAt  string                  `json:"last_updated_at"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toSnapshotResponse(s *governance.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Date:                     s.Date.Format(dateLayout),
		ComplianceRate:           s.ComplianceRate,
		ImplementedControls:      s.ImplementedControls,
		TotalControls:            s.TotalControls,
		OpenFindings:             s.OpenFindings,
		CriticalFindings:         s.CriticalFindings,
		AssessmentCompletionRate: s.AssessmentCompletionRate,
		RiskClosureRate:          s.RiskClosureRate,
		CompletedAssessments:     s.CompletedAssessments,
		TotalAssessments:         s.TotalAssessments,
		ApprovedEvidence:         s.ApprovedEvidence,
		Metadata:                 s.Metadata,
	}
}

func toTrendAPIResponse(t *trends.TrendResponse) TrendAPIResponse {
	history := make([]SnapshotResponse, len(t.History))
	for i, s := range t.History {
		history[i] = toSnapshotResponse(s)
	}

	forecast := make([]ForecastPointResponse, len(t.Forecast))
	for i, p := range t.Forecast {
		forecast[i] = ForecastPointResponse{
			Date:                    p.Date.Format(dateLayout),
			ProjectedComplianceRate: p.ProjectedComplianceRate,
			ProjectedOpenFindings:   p.ProjectedOpenFindings,
		}
	}

	return TrendAPIResponse{
		History:        history,
		Forecast:       forecast,
		LatestSnapshot: toSnapshotResponse(t.LatestSnapshot),
		LastUpdatedAt:  t.LastUpdatedAt.UTC().Format(time.RFC3339),
	}
}
