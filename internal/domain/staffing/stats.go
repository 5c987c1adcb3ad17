package staffing

import (
	"math"
	"sort"
)

// Stats summarizes one (weekday, hour) cell's samples.
type Stats struct {
	Count  int
	Mean   float64
	P50    float64
	P75    float64
	P90    float64
	Max    float64
	Stddev float64
}

// Summarize computes the cell statistics. Returns a zero Stats for an empty
// input; callers gate on Count against their minimum sample requirement.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sqDiff float64
	for _, v := range sorted {
		d := v - mean
		sqDiff += d * d
	}

	return Stats{
		Count:  len(sorted),
		Mean:   mean,
		P50:    Percentile(sorted, 50),
		P75:    Percentile(sorted, 75),
		P90:    Percentile(sorted, 90),
		Max:    sorted[len(sorted)-1],
		Stddev: math.Sqrt(sqDiff / float64(len(sorted))),
	}
}

// Percentile returns the pth percentile of sorted values using linear
// interpolation between closest ranks. Input must be sorted ascending.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
