package trends

import (
	"math"
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

const (
	// ForecastHorizonDays is how many future days each forecast covers.
	ForecastHorizonDays = 14

	// TrendWindowDays bounds how many trailing history points feed the
	// regression. Short on purpose: recent trajectory outweighs stale
	// history.
	TrendWindowDays = 14
)

// ForecastPoint is one projected future day. Derived only, never stored.
type ForecastPoint struct {
	Date                    time.Time `json:"date"`
	ProjectedComplianceRate float64   `json:"projected_compliance_rate"`
	ProjectedOpenFindings   int       `json:"projected_open_findings"`
}

// Forecast fits a least-squares line to the trailing window of history
// and extrapolates horizon days past the last history point. Projected
// compliance is clamped to [0, 100]; projected open findings are clamped
// to >= 0 and rounded to whole findings.
func Forecast(history []*governance.Snapshot, horizon int) []ForecastPoint {
	if len(history) == 0 || horizon <= 0 {
		return nil
	}

	window := history
	if len(window) > TrendWindowDays {
		window = window[len(window)-TrendWindowDays:]
	}

	compliance := make([]float64, len(window))
	findings := make([]float64, len(window))
	for i, s := range window {
		compliance[i] = s.ComplianceRate
		findings[i] = float64(s.OpenFindings)
	}

	complianceSlope, complianceIntercept := fitLine(compliance)
	findingsSlope, findingsIntercept := fitLine(findings)

	lastDay := governance.DayOf(history[len(history)-1].Date)
	n := len(window)

	points := make([]ForecastPoint, 0, horizon)
	for d := 1; d <= horizon; d++ {
		x := float64(n - 1 + d)

		rate := complianceIntercept + complianceSlope*x
		rate = math.Round(math.Min(math.Max(rate, 0), 100)*10) / 10

		open := math.Round(findingsIntercept + findingsSlope*x)
		if open < 0 {
			open = 0
		}

		points = append(points, ForecastPoint{
			Date:                    lastDay.AddDate(0, 0, d),
			ProjectedComplianceRate: rate,
			ProjectedOpenFindings:   int(open),
		})
	}
	return points
}

// fitLine computes the ordinary least-squares slope and intercept of ys
// over index positions 0..n-1.
func fitLine(ys []float64) (slope, intercept float64) {
	n := len(ys)
	switch n {
	case 0:
		return 0, 0
	case 1:
		return 0, ys[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return 0, ys[n-1]
	}
	slope = (float64(n)*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / float64(n)
	return slope, intercept
}
