// Package shiftwave collapses an hourly headcount curve into a small set of
// contiguous shifts. Headcount increases become arrival events, decreases
// become departures, and arrivals are matched to departures FIFO: the
// earliest arrivals have worked the longest, so they are the first cut.
// The result is a few overlapping open/mid/close waves instead of one shift
// per hour transition.
package shiftwave

// Point is one hour of a role's headcount curve.
type Point struct {
	Hour  int
	Count int
}

// Wave is a block of workers sharing the same start and end. Workers are on
// the floor for [ArrivalHour, DepartureHour); StartMinutes/EndMinutes widen
// that window by the setup and teardown allowances.
type Wave struct {
	Count         int
	ArrivalHour   int
	DepartureHour int
	StartMinutes  int
	EndMinutes    int
}

// PaidHours is the wave's per-worker paid duration including setup/teardown.
func (w Wave) PaidHours() float64 {
	return float64(w.EndMinutes-w.StartMinutes) / 60
}

type arrival struct {
	hour      int
	remaining int
}

// Derive matches the curve's arrival and departure events FIFO and returns
// the waves. Any count still on the floor at the final point departs one
// hour after the last data point. setupMinutes and teardownMinutes pad each
// wave's paid window outward; they do not affect the on-floor interval.
//
// Reconstructing occupancy from the returned waves reproduces the input
// curve exactly at every hour.
func Derive(curve []Point, setupMinutes, teardownMinutes int) []Wave {
	if len(curve) == 0 {
		return nil
	}

	var waves []Wave
	var queue []arrival
	prev := 0

	cut := func(n, departureHour int) {
		for n > 0 && len(queue) > 0 {
			head := &queue[0]
			take := head.remaining
			if take > n {
				take = n
			}
			waves = append(waves, Wave{
				Count:         take,
				ArrivalHour:   head.hour,
				DepartureHour: departureHour,
				StartMinutes:  head.hour*60 - setupMinutes,
				EndMinutes:    departureHour*60 + teardownMinutes,
			})
			head.remaining -= take
			n -= take
			if head.remaining == 0 {
				queue = queue[1:]
			}
		}
	}

	for _, pt := range curve {
		delta := pt.Count - prev
		if delta > 0 {
			queue = append(queue, arrival{hour: pt.Hour, remaining: delta})
		} else if delta < 0 {
			cut(-delta, pt.Hour)
		}
		prev = pt.Count
	}

	// Whoever is left works until one hour past the last data point.
	cut(prev, curve[len(curve)-1].Hour+1)

	return waves
}

// Reconstruct rebuilds the hourly on-floor count from waves. Used to verify
// that derived waves cover the demand curve they came from.
func Reconstruct(waves []Wave, hours []int) map[int]int {
	counts := make(map[int]int, len(hours))
	for _, h := range hours {
		counts[h] = 0
		for _, w := range waves {
			if h >= w.ArrivalHour && h < w.DepartureHour {
				counts[h] += w.Count
			}
		}
	}
	return counts
}
