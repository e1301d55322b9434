package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridiangrc/governance-backend/internal/domain/errors"
	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

// SummaryRepository computes the current aggregate counts across the
// governance entity tables in a single round trip. Soft-deleted rows are
// excluded everywhere.
type SummaryRepository struct {
	db *pgxpool.Pool
}

func NewSummaryRepository(db *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) CurrentSummary(ctx context.Context) (governance.SummaryMetrics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM controls WHERE deleted_at IS NULL) AS total_controls,
			(SELECT COUNT(*) FROM controls WHERE deleted_at IS NULL AND status = 'implemented') AS implemented_controls,
			(SELECT COUNT(*) FROM assessments WHERE deleted_at IS NULL) AS total_assessments,
			(SELECT COUNT(*) FROM assessments WHERE deleted_at IS NULL AND status = 'completed') AS completed_assessments,
			(SELECT COUNT(*) FROM findings WHERE deleted_at IS NULL) AS total_findings,
			(SELECT COUNT(*) FROM findings WHERE deleted_at IS NULL AND status = 'open') AS open_findings,
			(SELECT COUNT(*) FROM findings WHERE deleted_at IS NULL AND status = 'open' AND severity = 'critical') AS critical_findings,
			(SELECT COUNT(*) FROM evidence WHERE deleted_at IS NULL AND status = 'approved') AS approved_evidence,
			(SELECT COUNT(*) FROM policies WHERE deleted_at IS NULL AND status = 'under_review') AS policies_under_review`

	var m governance.SummaryMetrics
	err := r.db.QueryRow(ctx, query).Scan(
		&m.TotalControls,
		&m.ImplementedControls,
		&m.TotalAssessments,
		&m.CompletedAssessments,
		&m.TotalFindings,
		&m.OpenFindings,
		&m.CriticalFindings,
		&m.ApprovedEvidence,
		&m.PoliciesUnderReview,
	)
	if err != nil {
		return governance.SummaryMetrics{}, errors.NewInternalError("failed to compute governance summary").WithCause(err)
	}
	return m, nil
}
