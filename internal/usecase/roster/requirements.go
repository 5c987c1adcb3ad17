package roster

import (
	"math"
	"sort"

	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/domain/shiftwave"
	"shiftwise/internal/ports"
)

// slot is one position seat to fill on one date. StartMinutes/EndMinutes
// are minutes from the business date's midnight and may run past 1440 for
// shifts crossing into the next calendar day.
type slot struct {
	BusinessDate string
	Weekday      int
	ShiftType    domainroster.ShiftType
	Position     ports.PositionRecord
	StartMinutes int
	EndMinutes   int
	Hours        float64
}

// requirement is a block of identical slots.
type requirement struct {
	BusinessDate string
	Weekday      int
	ShiftType    domainroster.ShiftType
	Position     ports.PositionRecord
	Count        int
	StartMinutes int
	EndMinutes   int
	Hours        float64
}

func (r requirement) slots() []slot {
	out := make([]slot, 0, r.Count)
	for i := 0; i < r.Count; i++ {
		out = append(out, slot{
			BusinessDate: r.BusinessDate,
			Weekday:      r.Weekday,
			ShiftType:    r.ShiftType,
			Position:     r.Position,
			StartMinutes: r.StartMinutes,
			EndMinutes:   r.EndMinutes,
			Hours:        r.Hours,
		})
	}
	return out
}

// shiftTypeForHour labels a wave by its arrival hour.
func shiftTypeForHour(hour int) domainroster.ShiftType {
	switch {
	case hour < 11:
		return domainroster.ShiftBreakfast
	case hour < 16:
		return domainroster.ShiftLunch
	case hour < 22:
		return domainroster.ShiftDinner
	default:
		return domainroster.ShiftLateNight
	}
}

// waveRequirements turns a forecast role curve into wave-shaped
// requirements for one position.
func waveRequirements(businessDate string, weekday int, pos ports.PositionRecord, hours []ports.ForecastHour, count func(ports.ForecastHour) int, setupMinutes, teardownMinutes int) []requirement {
	curve := make([]shiftwave.Point, 0, len(hours))
	for _, h := range hours {
		curve = append(curve, shiftwave.Point{Hour: h.Hour, Count: count(h)})
	}

	waves := shiftwave.Derive(curve, setupMinutes, teardownMinutes)
	reqs := make([]requirement, 0, len(waves))
	for _, w := range waves {
		reqs = append(reqs, requirement{
			BusinessDate: businessDate,
			Weekday:      weekday,
			ShiftType:    shiftTypeForHour(w.ArrivalHour),
			Position:     pos,
			Count:        w.Count,
			StartMinutes: w.StartMinutes,
			EndMinutes:   w.EndMinutes,
			Hours:        w.PaidHours(),
		})
	}
	return reqs
}

// templateRequirement builds a template-shaped requirement, shortening the
// window on light nights and splitting big blocks into opener and closer
// waves so arrivals stagger.
func templateRequirements(businessDate string, weekday int, pos ports.PositionRecord, shiftType domainroster.ShiftType, count int, tier domainroster.DemandTier, splitThreshold int) []requirement {
	if count <= 0 {
		return nil
	}

	tmpl := domainroster.TemplateFor(shiftType)
	if tier == domainroster.TierLight {
		tmpl = domainroster.ShortenForLight(tmpl)
	}

	start := tmpl.StartHour * 60
	end := tmpl.EndHour * 60
	if tmpl.EndHour <= tmpl.StartHour {
		end += 24 * 60
	}

	base := requirement{
		BusinessDate: businessDate,
		Weekday:      weekday,
		ShiftType:    shiftType,
		Position:     pos,
		Count:        count,
		StartMinutes: start,
		EndMinutes:   end,
		Hours:        tmpl.Hours,
	}

	if splitThreshold <= 0 || count < splitThreshold {
		return []requirement{base}
	}

	openers, closers := domainroster.SplitOpenerCloser(count)
	if closers == 0 {
		return []requirement{base}
	}

	opener := base
	opener.Count = openers
	opener.EndMinutes = end - 60
	opener.Hours = tmpl.Hours - 1

	closer := base
	closer.Count = closers
	closer.StartMinutes = start + 60
	closer.Hours = tmpl.Hours - 1

	return []requirement{opener, closer}
}

// supportCounts sizes the support roles off the day's peak server count.
// The busier role (busser) rounds up first; any remaining fraction tops up
// the larger requirement.
func supportCounts(peakServers int, busserRatio, runnerRatio float64) (bussers, runners int) {
	if peakServers <= 0 {
		return 0, 0
	}
	bussers = int(math.Ceil(float64(peakServers) * busserRatio))
	runners = int(math.Ceil(float64(peakServers) * runnerRatio))
	return bussers, runners
}

// feedbackKey identifies a learned adjustment cell.
type feedbackKey struct {
	position string
	shift    string
	weekday  int
}

// applyFeedback shifts a requirement count by the learned manager
// adjustment. An adjusted requirement keeps at least one seat: removal
// feedback trims, it never empties a shift.
func applyFeedback(count int, adj map[feedbackKey]int, position string, shift domainroster.ShiftType, weekday int) int {
	delta := adj[feedbackKey{position: position, shift: string(shift), weekday: weekday}]
	if delta == 0 {
		return count
	}
	count += delta
	if count < 1 {
		return 1
	}
	return count
}

// sortSlots orders seats for filling: salaried roles first (their people
// are committed anyway and must not be crowded out), then by date, then by
// scarcity so the thinnest candidate pools pick first.
func sortSlots(slots []slot, candidatesByPosition map[string]int) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Position.Salaried != b.Position.Salaried {
			return a.Position.Salaried
		}
		if a.BusinessDate != b.BusinessDate {
			return a.BusinessDate < b.BusinessDate
		}
		ca := candidatesByPosition[a.Position.ID]
		cb := candidatesByPosition[b.Position.ID]
		if ca != cb {
			return ca < cb
		}
		if a.StartMinutes != b.StartMinutes {
			return a.StartMinutes < b.StartMinutes
		}
		return a.Position.Name < b.Position.Name
	})
}
