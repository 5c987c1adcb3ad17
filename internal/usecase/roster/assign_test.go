package roster

import (
	"testing"

	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/ports"
)

var testWeights = domainroster.ScoreWeights{Cost: 0.4, Quality: 0.4, RestDayPenalty: 0.25}

func serverPosition() ports.PositionRecord {
	return ports.PositionRecord{ID: "pos-server", VenueID: "v1", Name: "Server", BaseHourlyRate: 18, Active: true}
}

func dinnerSlot(date string, pos ports.PositionRecord) slot {
	return slot{
		BusinessDate: date,
		Weekday:      4,
		ShiftType:    domainroster.ShiftDinner,
		Position:     pos,
		StartMinutes: 17 * 60,
		EndMinutes:   23 * 60,
		Hours:        6,
	}
}

func TestGreedyAssignerSpreadsSameDaySeats(t *testing.T) {
	pos := serverPosition()
	slots := []slot{dinnerSlot("2026-03-06", pos), dinnerSlot("2026-03-06", pos)}
	employees := []ports.EmployeeRecord{
		{ID: "e1", VenueID: "v1", FirstName: "Ana", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
		{ID: "e2", VenueID: "v1", FirstName: "Ben", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
	}

	plan := GreedyAssigner{}.Assign(slots, employees, testWeights)
	if plan.Unfilled != 0 || len(plan.Filled) != 2 {
		t.Fatalf("plan = %d filled %d unfilled, want 2/0", len(plan.Filled), plan.Unfilled)
	}
	if plan.Filled[0].Employee.ID == plan.Filled[1].Employee.ID {
		t.Fatalf("same employee took both seats on one date")
	}
}

func TestGreedyAssignerLeavesInfeasibleSeatUnfilled(t *testing.T) {
	pos := serverPosition()
	slots := []slot{dinnerSlot("2026-03-06", pos), dinnerSlot("2026-03-06", pos)}
	employees := []ports.EmployeeRecord{
		{ID: "e1", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
	}

	plan := GreedyAssigner{}.Assign(slots, employees, testWeights)
	if plan.Unfilled != 1 || len(plan.Filled) != 1 {
		t.Fatalf("plan = %d filled %d unfilled, want 1/1", len(plan.Filled), plan.Unfilled)
	}
}

func TestGreedyAssignerRespectsWeeklyCap(t *testing.T) {
	pos := serverPosition()
	slots := []slot{
		dinnerSlot("2026-03-03", pos),
		dinnerSlot("2026-03-04", pos),
		dinnerSlot("2026-03-05", pos),
	}
	employees := []ports.EmployeeRecord{
		{ID: "e1", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 10, Active: true},
	}

	plan := GreedyAssigner{}.Assign(slots, employees, testWeights)
	if len(plan.Filled) != 1 || plan.Unfilled != 2 {
		t.Fatalf("plan = %d filled %d unfilled, want the cap to stop a second 6h shift", len(plan.Filled), plan.Unfilled)
	}
}

func TestGreedyAssignerSkipsWrongPosition(t *testing.T) {
	pos := serverPosition()
	slots := []slot{dinnerSlot("2026-03-06", pos)}
	employees := []ports.EmployeeRecord{
		{ID: "e1", VenueID: "v1", PositionID: "pos-bartender", MaxHoursPerWeek: 40, Active: true},
	}

	plan := GreedyAssigner{}.Assign(slots, employees, testWeights)
	if plan.Unfilled != 1 {
		t.Fatalf("unfilled = %d, want 1 for a position mismatch", plan.Unfilled)
	}
}

func TestSalariedIgnoresWeeklyCap(t *testing.T) {
	pos := ports.PositionRecord{ID: "pos-mgr", VenueID: "v1", Name: "Manager", BaseHourlyRate: 30, Salaried: true, Active: true}
	var slots []slot
	for _, date := range []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08"} {
		slots = append(slots, dinnerSlot(date, pos))
	}
	employees := []ports.EmployeeRecord{
		{ID: "m1", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
	}

	plan := GreedyAssigner{}.Assign(slots, employees, testWeights)
	if plan.Unfilled != 0 || len(plan.Filled) != 7 {
		t.Fatalf("plan = %d filled %d unfilled, want the salaried lead on all seven nights", len(plan.Filled), plan.Unfilled)
	}
}

// Local search must never trade a feasible plan for an infeasible one:
// whatever it rebalances, the hard constraints still hold.
func TestLocalSearchKeepsPlanFeasible(t *testing.T) {
	pos := serverPosition()
	var slots []slot
	for _, date := range []string{"2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"} {
		slots = append(slots, dinnerSlot(date, pos), dinnerSlot(date, pos))
	}
	employees := []ports.EmployeeRecord{
		{ID: "e1", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
		{ID: "e2", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 40, Active: true},
		{ID: "e3", VenueID: "v1", PositionID: pos.ID, MaxHoursPerWeek: 12, Active: true},
	}

	plan := LocalSearchAssigner{}.Assign(slots, employees, testWeights)
	if plan.Unfilled != 0 || len(plan.Filled) != 8 {
		t.Fatalf("plan = %d filled %d unfilled, want 8/0", len(plan.Filled), plan.Unfilled)
	}
	assertFeasible(t, plan, employees)
}

func assertFeasible(t *testing.T, plan Plan, employees []ports.EmployeeRecord) {
	t.Helper()

	caps := map[string]float64{}
	positions := map[string]string{}
	for _, emp := range employees {
		caps[emp.ID] = emp.MaxHoursPerWeek
		positions[emp.ID] = emp.PositionID
	}

	hours := map[string]float64{}
	perDay := map[string]map[string]bool{}
	for _, f := range plan.Filled {
		if positions[f.Employee.ID] != f.Slot.Position.ID {
			t.Fatalf("employee %s assigned outside their position", f.Employee.ID)
		}
		days := perDay[f.Employee.ID]
		if days == nil {
			days = map[string]bool{}
			perDay[f.Employee.ID] = days
		}
		if days[f.Slot.BusinessDate] {
			t.Fatalf("employee %s works twice on %s", f.Employee.ID, f.Slot.BusinessDate)
		}
		days[f.Slot.BusinessDate] = true
		hours[f.Employee.ID] += f.Slot.Hours
	}
	for id, total := range hours {
		if limit := caps[id]; limit > 0 && total > limit {
			t.Fatalf("employee %s at %.1fh over the %.1fh cap", id, total, limit)
		}
	}
}
