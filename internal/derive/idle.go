package derive

import (
	"sort"

	"charterops/flightdeck/internal/models"
)

// computeIdleTime attributes the gap between consecutive legs of one
// aircraft-day to the later leg. The first leg of a day and legs without
// a usable clock time carry 0, never an error.
func computeIdleTime(records []models.FlightRecord) {
	byDay := make(map[string][]int)
	for i := range records {
		r := &records[i]
		r.IdleHours = 0
		if !r.HasClockTime {
			continue
		}
		key := r.DepartureKey()
		byDay[key] = append(byDay[key], i)
	}

	for _, idxs := range byDay {
		if len(idxs) < 2 {
			continue
		}
		sort.SliceStable(idxs, func(a, b int) bool {
			return records[idxs[a]].Date.Before(records[idxs[b]].Date)
		})
		for k := 1; k < len(idxs); k++ {
			prev := &records[idxs[k-1]]
			cur := &records[idxs[k]]

			gap := cur.Date.Sub(prev.Date).Hours() - prev.FlightHours
			if gap > 0 {
				cur.IdleHours = gap
			}
		}
	}
}
