// Package staffing converts cover counts into headcounts and aggregates
// occupancy samples into percentile statistics.
package staffing

import "math"

// Params sizes one role: covers handled per worker, demand buffer, and an
// absolute floor that holds even on dead hours.
type Params struct {
	CoversPerWorker float64
	BufferPct       float64
	Floor           int
}

// Needed returns the headcount for a cover load:
// max(floor, ceil(covers*(1+buffer)/ratio)). A non-positive load returns the
// floor exactly.
func Needed(covers float64, p Params) int {
	if covers <= 0 {
		return p.Floor
	}
	buffered := covers * (1 + p.BufferPct)
	needed := int(math.Ceil(buffered / p.CoversPerWorker))
	if needed < p.Floor {
		return p.Floor
	}
	return needed
}

// Scenario is a staffing risk posture.
type Scenario string

const (
	ScenarioLean     Scenario = "lean"     // p50, no buffer
	ScenarioBuffered Scenario = "buffered" // p75, configured buffer
	ScenarioSafe     Scenario = "safe"     // p90, no buffer
)

// Scenarios in canonical order.
var Scenarios = []Scenario{ScenarioLean, ScenarioBuffered, ScenarioSafe}

// ScenarioHeadcount holds one role's headcount per scenario.
type ScenarioHeadcount struct {
	Lean     int
	Buffered int
	Safe     int
}

// ScenarioStaffing sizes a role against the three percentile scenarios.
// Only buffered carries the buffer; lean and safe run it at zero.
func ScenarioStaffing(p50, p75, p90 float64, p Params) ScenarioHeadcount {
	noBuffer := Params{CoversPerWorker: p.CoversPerWorker, Floor: p.Floor}
	return ScenarioHeadcount{
		Lean:     Needed(p50, noBuffer),
		Buffered: Needed(p75, p),
		Safe:     Needed(p90, noBuffer),
	}
}

// ScenarioBase picks the base covers for a scenario from profile percentiles.
func ScenarioBase(s Scenario, p50, p75, p90 float64) float64 {
	switch s {
	case ScenarioLean:
		return p50
	case ScenarioSafe:
		return p90
	default:
		return p75
	}
}

// ScenarioBuffer returns the buffer a scenario carries.
func ScenarioBuffer(s Scenario, configured float64) float64 {
	if s == ScenarioBuffered {
		return configured
	}
	return 0
}
