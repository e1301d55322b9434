package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridiangrc/governance-backend/internal/domain/errors"
	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

// SnapshotRepository persists daily governance snapshots in PostgreSQL.
// The unique index on snapshot_date enforces at most one row per day;
// Upsert relies on it so concurrent writers for the same day resolve to
// last-write-wins without a read-then-write race.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

const snapshotColumns = `
	snapshot_date, compliance_rate, implemented_controls, total_controls,
	open_findings, critical_findings, assessment_completion_rate,
	risk_closure_rate, completed_assessments, total_assessments,
	approved_evidence, metadata`

// FindByDate returns the snapshot for the given calendar day, or
// (nil, nil) when none is stored.
func (r *SnapshotRepository) FindByDate(ctx context.Context, date time.Time) (*governance.Snapshot, error) {
	query := `SELECT` + snapshotColumns + `
		FROM governance_snapshots
		WHERE snapshot_date = $1`

	row := r.db.QueryRow(ctx, query, governance.DayOf(date))
	snapshot, err := scanSnapshot(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to query snapshot by date").WithCause(err)
	}
	return snapshot, nil
}

// FindRange returns the stored snapshots inside [start, end] inclusive,
// ordered by date. Days without a snapshot are simply absent.
func (r *SnapshotRepository) FindRange(ctx context.Context, start, end time.Time) ([]*governance.Snapshot, error) {
	query := `SELECT` + snapshotColumns + `
		FROM governance_snapshots
		WHERE snapshot_date >= $1 AND snapshot_date <= $2
		ORDER BY snapshot_date`

	rows, err := r.db.Query(ctx, query, governance.DayOf(start), governance.DayOf(end))
	if err != nil {
		return nil, errors.NewInternalError("failed to query snapshot range").WithCause(err)
	}
	defer rows.Close()

	var snapshots []*governance.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, errors.NewInternalError("failed to scan snapshot row").WithCause(err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to iterate snapshot rows").WithCause(err)
	}
	return snapshots, nil
}

// Upsert writes the snapshot for its date, overwriting every derived
// field if a row for that day already exists.
func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot *governance.Snapshot) error {
	metadata, err := json.Marshal(snapshot.Metadata)
	if err != nil {
		return errors.NewInternalError("failed to marshal snapshot metadata").WithCause(err)
	}

	query := `
		INSERT INTO governance_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			compliance_rate = EXCLUDED.compliance_rate,
			implemented_controls = EXCLUDED.implemented_controls,
			total_controls = EXCLUDED.total_controls,
			open_findings = EXCLUDED.open_findings,
			critical_findings = EXCLUDED.critical_findings,
			assessment_completion_rate = EXCLUDED.assessment_completion_rate,
			risk_closure_rate = EXCLUDED.risk_closure_rate,
			completed_assessments = EXCLUDED.completed_assessments,
			total_assessments = EXCLUDED.total_assessments,
			approved_evidence = EXCLUDED.approved_evidence,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()`

	_, err = r.db.Exec(ctx, query,
		governance.DayOf(snapshot.Date),
		snapshot.ComplianceRate,
		snapshot.ImplementedControls,
		snapshot.TotalControls,
		snapshot.OpenFindings,
		snapshot.CriticalFindings,
		snapshot.AssessmentCompletionRate,
		snapshot.RiskClosureRate,
		snapshot.CompletedAssessments,
		snapshot.TotalAssessments,
		snapshot.ApprovedEvidence,
		metadata,
	)
	if err != nil {
		return errors.NewInternalError("failed to upsert snapshot").WithCause(err)
	}
	return nil
}

// FindLatest returns the most recent stored snapshot, or (nil, nil) when
// the table is empty.
func (r *SnapshotRepository) FindLatest(ctx context.Context) (*governance.Snapshot, error) {
	query := `SELECT` + snapshotColumns + `
		FROM governance_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, query)
	snapshot, err := scanSnapshot(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to query latest snapshot").WithCause(err)
	}
	return snapshot, nil
}

func scanSnapshot(row pgx.Row) (*governance.Snapshot, error) {
	var s governance.Snapshot
	var metadata []byte

	err := row.Scan(
		&s.Date,
		&s.ComplianceRate,
		&s.ImplementedControls,
		&s.TotalControls,
		&s.OpenFindings,
		&s.CriticalFindings,
		&s.AssessmentCompletionRate,
		&s.RiskClosureRate,
		&s.CompletedAssessments,
		&s.TotalAssessments,
		&s.ApprovedEvidence,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	s.Date = governance.DayOf(s.Date)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
