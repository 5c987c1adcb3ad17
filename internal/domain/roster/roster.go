// Package roster holds the pure rules of the assignment engine: shift
// templates, demand tiers, wave splits, employee scoring, and learning from
// manager overrides. Orchestration and persistence live in usecase/roster.
package roster

import "math"

// ShiftType names a templated service period.
type ShiftType string

const (
	ShiftBreakfast ShiftType = "breakfast"
	ShiftLunch     ShiftType = "lunch"
	ShiftDinner    ShiftType = "dinner"
	ShiftLateNight ShiftType = "late_night"
)

// Template is a fixed shift window. EndHour < StartHour means the shift
// crosses midnight.
type Template struct {
	StartHour int
	EndHour   int
	Hours     float64
}

var templates = map[ShiftType]Template{
	ShiftBreakfast: {StartHour: 7, EndHour: 14, Hours: 7},
	ShiftLunch:     {StartHour: 11, EndHour: 16, Hours: 5},
	ShiftDinner:    {StartHour: 17, EndHour: 23, Hours: 6},
	ShiftLateNight: {StartHour: 22, EndHour: 2, Hours: 4},
}

// TemplateFor returns the window for a shift type, defaulting to dinner.
func TemplateFor(s ShiftType) Template {
	if t, ok := templates[s]; ok {
		return t
	}
	return templates[ShiftDinner]
}

// DemandTier buckets a night by total expected covers.
type DemandTier string

const (
	TierLight    DemandTier = "light"
	TierModerate DemandTier = "moderate"
	TierBusy     DemandTier = "busy"
	TierPeak     DemandTier = "peak"
)

func ClassifyDemand(totalCovers float64) DemandTier {
	switch {
	case totalCovers < 150:
		return TierLight
	case totalCovers < 300:
		return TierModerate
	case totalCovers < 450:
		return TierBusy
	default:
		return TierPeak
	}
}

// ShortenForLight pulls a templated shift's end one hour earlier on light
// nights, never below four paid hours.
func ShortenForLight(t Template) Template {
	if t.Hours <= 4 {
		return t
	}
	end := t.EndHour - 1
	if end < 0 {
		end += 24
	}
	return Template{StartHour: t.StartHour, EndHour: end, Hours: t.Hours - 1}
}

// SplitOpenerCloser splits a headcount into opener and closer waves at
// roughly 40/60. Openers cover doors-open through mid-service; closers run
// through the end of service. Both sides stay >= 1.
func SplitOpenerCloser(headcount int) (openers, closers int) {
	if headcount < 2 {
		return headcount, 0
	}
	openers = int(math.Round(float64(headcount) * 0.4))
	if openers < 1 {
		openers = 1
	}
	if openers >= headcount {
		openers = headcount - 1
	}
	return openers, headcount - openers
}

// ScoreWeights tune the multi-objective employee ranking.
type ScoreWeights struct {
	Cost           float64
	Quality        float64
	RestDayPenalty float64
}

// ScoreEmployee ranks a candidate for a slot; lower is better. Cheap and
// under-utilized employees score low; anyone already at five worked days
// this week takes a flat penalty so rest days stay intact.
func ScoreEmployee(hourlyRate, weeklyHours, weeklyCap float64, daysWorked int, w ScoreWeights) float64 {
	costScore := hourlyRate / 35.0

	utilization := 1.0
	if weeklyCap > 0 {
		utilization = weeklyHours / weeklyCap
	}

	score := w.Cost*costScore + w.Quality*utilization
	if daysWorked >= 5 {
		score += w.RestDayPenalty
	}
	return score
}

// OverrideTally counts manager override directions for one
// (position, shift, weekday) cell.
type OverrideTally struct {
	Added   int
	Removed int
}

// LearnAdjustment converts a tally into a headcount delta. Only a clear
// signal moves the number: at least three overrides in one direction,
// strictly outnumbering the other.
func LearnAdjustment(t OverrideTally) int {
	if t.Added >= 3 && t.Added > t.Removed {
		return 1
	}
	if t.Removed >= 3 && t.Removed > t.Added {
		return -1
	}
	return 0
}
