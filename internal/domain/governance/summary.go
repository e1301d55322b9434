package governance

// SummaryMetrics holds the current aggregate counts across the governance
// entities. It is computed fresh by an upstream aggregation query and is
// never persisted in this shape; snapshots are derived from it.
type SummaryMetrics struct {
	TotalControls        int `json:"total_controls"`
	ImplementedControls  int `json:"implemented_controls"`
	TotalAssessments     int `json:"total_assessments"`
	CompletedAssessments int `json:"completed_assessments"`
	TotalFindings        int `json:"total_findings"`
	OpenFindings         int `json:"open_findings"`
	CriticalFindings     int `json:"critical_findings"`
	ApprovedEvidence     int `json:"approved_evidence"`
	PoliciesUnderReview  int `json:"policies_under_review"`
}
