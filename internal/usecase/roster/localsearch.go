package roster

import (
	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/ports"
)

// LocalSearchAssigner starts from the greedy plan and then tries bounded
// improvement passes: for each filled seat it checks whether moving the
// seat to a different feasible employee lowers the plan's total score.
// Swaps that violate a hard constraint are never taken, so the result is
// feasible whenever the greedy plan was.
type LocalSearchAssigner struct {
	// MaxPasses bounds the improvement loop; zero means the default.
	MaxPasses int
}

const defaultMaxPasses = 3

func (LocalSearchAssigner) Name() string { return "localsearch" }

func (a LocalSearchAssigner) Assign(slots []slot, employees []ports.EmployeeRecord, weights domainroster.ScoreWeights) Plan {
	plan := GreedyAssigner{}.Assign(slots, employees, weights)
	if len(plan.Filled) == 0 {
		return plan
	}

	passes := a.MaxPasses
	if passes <= 0 {
		passes = defaultMaxPasses
	}

	// Rebuild the ledger from the greedy plan; moves mutate it in place.
	book := newLedger()
	for _, f := range plan.Filled {
		book.take(f.Employee, f.Slot)
	}

	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := range plan.Filled {
			current := plan.Filled[i]
			book.release(current.Employee, current.Slot)

			currentScore := book.score(current.Employee, current.Slot, weights)
			bestEmp := current.Employee
			bestScore := currentScore
			for _, candidate := range employees {
				if candidate.ID == current.Employee.ID {
					continue
				}
				if !book.canTake(candidate, current.Slot) {
					continue
				}
				if score := book.score(candidate, current.Slot, weights); score < bestScore {
					bestEmp = candidate
					bestScore = score
				}
			}

			book.take(bestEmp, current.Slot)
			if bestEmp.ID != current.Employee.ID {
				plan.Filled[i].Employee = bestEmp
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return plan
}
