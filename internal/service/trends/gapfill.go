package trends

import (
	"time"

	"github.com/meridiangrc/governance-backend/internal/domain/governance"
)

// FillDaily expands a sparse set of stored snapshots into a contiguous
// daily series covering [start, end] inclusive. Days without a stored
// snapshot carry the last known snapshot forward with the date rewritten;
// days before any data existed are zero-filled. Compliance metrics are
// step functions, so flat carry-forward is more honest than interpolation.
func FillDaily(stored []*governance.Snapshot, start, end time.Time) []*governance.Snapshot {
	startDay := governance.DayOf(start)
	endDay := governance.DayOf(end)
	if endDay.Before(startDay) {
		return nil
	}

	byDay := make(map[time.Time]*governance.Snapshot, len(stored))
	for _, s := range stored {
		byDay[governance.DayOf(s.Date)] = s
	}

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	filled := make([]*governance.Snapshot, 0, days)

	var last *governance.Snapshot
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if snap, ok := byDay[day]; ok {
			filled = append(filled, snap)
			last = snap
			continue
		}
		if last != nil {
			carried := last.Clone()
			carried.Date = day
			filled = append(filled, carried)
			continue
		}
		filled = append(filled, governance.ZeroSnapshot(day))
	}
	return filled
}
