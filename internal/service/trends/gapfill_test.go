package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func snapshotOn(date time.Time, complianceRate float64, openFindings int) *governance.Snapshot {
	return &governance.Snapshot{
		Date:           date,
		ComplianceRate: complianceRate,
		OpenFindings:   openFindings,
	}
}

func TestFillDaily_NoGaps(t *testing.T) {
	start := day(2025, 6, 1)
	end := day(2025, 6, 30)
	stored := []*governance.Snapshot{
		snapshotOn(day(2025, 6, 3), 40, 10),
		snapshotOn(day(2025, 6, 20), 55, 6),
	}

	filled := FillDaily(stored, start, end)

	require.Len(t, filled, 30)
	for i, s := range filled {
		assert.Equal(t, start.AddDate(0, 0, i), s.Date, "index %d", i)
	}
}

func TestFillDaily_CarryForward(t *testing.T) {
	start := day(2025, 6, 1)
	end := day(2025, 6, 7)
	dayOne := snapshotOn(day(2025, 6, 1), 60, 8)
	dayFive := snapshotOn(day(2025, 6, 5), 70, 5)

	filled := FillDaily([]*governance.Snapshot{dayOne, dayFive}, start, end)

	require.Len(t, filled, 7)
	assert.Same(t, dayOne, filled[0])
	for i := 1; i <= 3; i++ {
		assert.Equal(t, dayOne.ComplianceRate, filled[i].ComplianceRate)
		assert.Equal(t, dayOne.OpenFindings, filled[i].OpenFindings)
		assert.Equal(t, start.AddDate(0, 0, i), filled[i].Date)
	}
	assert.Same(t, dayFive, filled[4])
	for i := 5; i <= 6; i++ {
		assert.Equal(t, dayFive.ComplianceRate, filled[i].ComplianceRate)
		assert.Equal(t, start.AddDate(0, 0, i), filled[i].Date)
	}

	// carry-forward copies must not alias the stored record
	assert.Equal(t, day(2025, 6, 1), dayOne.Date)
}

func TestFillDaily_ZeroFill(t *testing.T) {
	start := day(2025, 6, 1)
	end := day(2025, 6, 10)

	filled := FillDaily(nil, start, end)

	require.Len(t, filled, 10)
	for _, s := range filled {
		assert.Zero(t, s.ComplianceRate)
		assert.Zero(t, s.OpenFindings)
		assert.Zero(t, s.TotalControls)
	}
}

func TestFillDaily_ZeroFillBeforeFirstData(t *testing.T) {
	start := day(2025, 6, 1)
	end := day(2025, 6, 4)
	stored := []*governance.Snapshot{snapshotOn(day(2025, 6, 3), 80, 2)}

	filled := FillDaily(stored, start, end)

	require.Len(t, filled, 4)
	assert.Zero(t, filled[0].ComplianceRate)
	assert.Zero(t, filled[1].ComplianceRate)
	assert.Equal(t, 80.0, filled[2].ComplianceRate)
	assert.Equal(t, 80.0, filled[3].ComplianceRate)
}

func TestFillDaily_SingleDayRange(t *testing.T) {
	d := day(2025, 6, 1)

	filled := FillDaily([]*governance.Snapshot{snapshotOn(d, 50, 1)}, d, d)

	require.Len(t, filled, 1)
	assert.Equal(t, 50.0, filled[0].ComplianceRate)
}

func TestFillDaily_InvertedRange(t *testing.T) {
	assert.Nil(t, FillDaily(nil, day(2025, 6, 10), day(2025, 6, 1)))
}

func TestFillDaily_NormalizesStoredDates(t *testing.T) {
	start := day(2025, 6, 1)
	end := day(2025, 6, 2)
	// stored with a stray time-of-day component still matches its calendar day
	stored := []*governance.Snapshot{snapshotOn(time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), 45, 3)}

	filled := FillDaily(stored, start, end)

	require.Len(t, filled, 2)
	assert.Zero(t, filled[0].ComplianceRate)
	assert.Equal(t, 45.0, filled[1].ComplianceRate)
}
