package roster

import (
	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/ports"
)

// Assigner maps seats to employees. Strategies are interchangeable: both
// honor hard constraints (position match, one shift per day, weekly hour
// cap for hourly staff) and differ only in how they pick among feasible
// candidates.
type Assigner interface {
	Name() string
	Assign(slots []slot, employees []ports.EmployeeRecord, weights domainroster.ScoreWeights) Plan
}

// Filled is one seat with its worker.
type Filled struct {
	Slot     slot
	Employee ports.EmployeeRecord
}

// Plan is an assignment outcome. Unfilled counts seats no feasible
// candidate could take; each one is a quality violation.
type Plan struct {
	Filled   []Filled
	Unfilled int
}

// ledger tracks per-employee load while a plan is built.
type ledger struct {
	weeklyHours map[string]float64
	daysWorked  map[string]map[string]bool
}

func newLedger() *ledger {
	return &ledger{
		weeklyHours: map[string]float64{},
		daysWorked:  map[string]map[string]bool{},
	}
}

func (l *ledger) canTake(emp ports.EmployeeRecord, sl slot) bool {
	if emp.PositionID != sl.Position.ID {
		return false
	}
	if l.daysWorked[emp.ID][sl.BusinessDate] {
		return false
	}
	if !sl.Position.Salaried && emp.MaxHoursPerWeek > 0 &&
		l.weeklyHours[emp.ID]+sl.Hours > emp.MaxHoursPerWeek {
		return false
	}
	return true
}

func (l *ledger) take(emp ports.EmployeeRecord, sl slot) {
	l.weeklyHours[emp.ID] += sl.Hours
	days, ok := l.daysWorked[emp.ID]
	if !ok {
		days = map[string]bool{}
		l.daysWorked[emp.ID] = days
	}
	days[sl.BusinessDate] = true
}

func (l *ledger) release(emp ports.EmployeeRecord, sl slot) {
	l.weeklyHours[emp.ID] -= sl.Hours
	delete(l.daysWorked[emp.ID], sl.BusinessDate)
}

func (l *ledger) score(emp ports.EmployeeRecord, sl slot, w domainroster.ScoreWeights) float64 {
	return domainroster.ScoreEmployee(
		sl.Position.BaseHourlyRate,
		l.weeklyHours[emp.ID],
		emp.MaxHoursPerWeek,
		len(l.daysWorked[emp.ID]),
		w,
	)
}

// GreedyAssigner fills seats in order, always taking the lowest-scoring
// feasible candidate. Fast and good enough for a single venue's week.
type GreedyAssigner struct{}

func (GreedyAssigner) Name() string { return "greedy" }

func (GreedyAssigner) Assign(slots []slot, employees []ports.EmployeeRecord, weights domainroster.ScoreWeights) Plan {
	book := newLedger()
	var plan Plan

	for _, sl := range slots {
		best := -1
		bestScore := 0.0
		for i, emp := range employees {
			if !book.canTake(emp, sl) {
				continue
			}
			score := book.score(emp, sl, weights)
			if best == -1 || score < bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			plan.Unfilled++
			continue
		}
		book.take(employees[best], sl)
		plan.Filled = append(plan.Filled, Filled{Slot: sl, Employee: employees[best]})
	}
	return plan
}
