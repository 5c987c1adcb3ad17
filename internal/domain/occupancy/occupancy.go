// Package occupancy computes concurrent guest counts from check-level
// point-of-sale data. Staffing follows guests currently seated, not
// guests rung in, so every downstream number starts here.
package occupancy

import (
	"errors"
	"time"
)

var (
	ErrInvalidWindow     = errors.New("check close time is not after open time")
	ErrInvalidGuestCount = errors.New("check guest count is negative")
)

// Check is one table's visit: a half-open interval [OpenTime, CloseTime)
// carrying GuestCount covers.
type Check struct {
	ExternalID  string
	OpenTime    time.Time
	CloseTime   time.Time
	GuestCount  int
	TotalAmount float64
}

// Validate enforces the invariants imports rely on. A failing check is
// dropped by the caller, never silently repaired.
func (c Check) Validate() error {
	if c.GuestCount < 0 {
		return ErrInvalidGuestCount
	}
	if !c.CloseTime.After(c.OpenTime) {
		return ErrInvalidWindow
	}
	return nil
}

// ActiveCovers counts guests seated at t: open <= t < close.
func ActiveCovers(checks []Check, t time.Time) int {
	total := 0
	for _, c := range checks {
		if !c.OpenTime.After(t) && c.CloseTime.After(t) {
			total += c.GuestCount
		}
	}
	return total
}

// ActiveTables counts tables occupied at t.
func ActiveTables(checks []Check, t time.Time) int {
	total := 0
	for _, c := range checks {
		if !c.OpenTime.After(t) && c.CloseTime.After(t) {
			total++
		}
	}
	return total
}

// NewCovers counts guests whose check opened during [start, end).
func NewCovers(checks []Check, start, end time.Time) int {
	total := 0
	for _, c := range checks {
		if !c.OpenTime.Before(start) && c.OpenTime.Before(end) {
			total += c.GuestCount
		}
	}
	return total
}

// DepartingCovers counts guests whose check closed during [start, end).
func DepartingCovers(checks []Check, start, end time.Time) int {
	total := 0
	for _, c := range checks {
		if !c.CloseTime.Before(start) && c.CloseTime.Before(end) {
			total += c.GuestCount
		}
	}
	return total
}

// HourSample is the occupancy of one hour slot of a business day.
type HourSample struct {
	Hour            int
	ActiveCovers    int
	ActiveTables    int
	NewCovers       int
	DepartingCovers int
}

// HourlyCurve evaluates the checks at each hour of the operating window,
// openHour..closeHour inclusive. Active counts use the middle of the hour
// (HH:30); arrivals and departures use the hour boundaries.
func HourlyCurve(checks []Check, businessDate time.Time, openHour, closeHour int) []HourSample {
	day := time.Date(businessDate.Year(), businessDate.Month(), businessDate.Day(), 0, 0, 0, 0, businessDate.Location())

	samples := make([]HourSample, 0, closeHour-openHour+1)
	for hour := openHour; hour <= closeHour; hour++ {
		mid := day.Add(time.Duration(hour)*time.Hour + 30*time.Minute)
		start := day.Add(time.Duration(hour) * time.Hour)
		end := start.Add(time.Hour)

		samples = append(samples, HourSample{
			Hour:            hour,
			ActiveCovers:    ActiveCovers(checks, mid),
			ActiveTables:    ActiveTables(checks, mid),
			NewCovers:       NewCovers(checks, start, end),
			DepartingCovers: DepartingCovers(checks, start, end),
		})
	}
	return samples
}

// Intensity buckets an hour against the profiled p75/p90 for its slot.
type Intensity string

const (
	IntensityLow     Intensity = "low"
	IntensityNormal  Intensity = "normal"
	IntensityHigh    Intensity = "high"
	IntensityExtreme Intensity = "extreme"
)

func ClassifyIntensity(activeCovers int, p75, p90 float64) Intensity {
	ac := float64(activeCovers)
	switch {
	case ac <= p75*0.5:
		return IntensityLow
	case ac <= p75:
		return IntensityNormal
	case ac <= p90:
		return IntensityHigh
	default:
		return IntensityExtreme
	}
}

// EstimateCloseTime fills a missing close_time from the open time. Base
// dwell scales first by party size, then by per-guest spend; the two
// adjustments compound. Fine dining averages 90 minutes, large parties and
// multi-course checks skew longer.
func EstimateCloseTime(openTime time.Time, dwellMinutes int, totalAmount float64, guestCount int) time.Time {
	minutes := dwellMinutes

	if guestCount >= 6 {
		minutes = int(float64(minutes) * 1.3)
	} else if guestCount >= 4 {
		minutes = int(float64(minutes) * 1.15)
	}

	if totalAmount > 0 && guestCount > 0 {
		perGuest := totalAmount / float64(guestCount)
		if perGuest > 200 {
			minutes = int(float64(minutes) * 1.25)
		} else if perGuest > 100 {
			minutes = int(float64(minutes) * 1.1)
		}
	}

	return openTime.Add(time.Duration(minutes) * time.Minute)
}
