// Package roster builds the weekly schedule: it converts forecasts and
// demand signals into shift requirements, then fills them with employees
// under hard constraints. The two assignment strategies are pluggable; the
// rest of the pipeline is identical either way.
package roster

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/bootstrap/logging"
	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/domain/staffing"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/venue"
)

var shiftOrder = []domainroster.ShiftType{
	domainroster.ShiftBreakfast,
	domainroster.ShiftLunch,
	domainroster.ShiftDinner,
	domainroster.ShiftLateNight,
}

type Service struct {
	roster     ports.RosterRepository
	forecasts  ports.ForecastRepository
	demand     ports.DemandSignal
	venues     *venue.Resolver
	scheduling config.SchedulingConfig
	signals    config.SignalConfig
	assigner   Assigner
	now        func() time.Time
}

func NewService(roster ports.RosterRepository, forecasts ports.ForecastRepository, demand ports.DemandSignal, venues *venue.Resolver, scheduling config.SchedulingConfig, signals config.SignalConfig) *Service {
	return &Service{
		roster:     roster,
		forecasts:  forecasts,
		demand:     demand,
		venues:     venues,
		scheduling: scheduling,
		signals:    signals,
		assigner:   assignerFor(scheduling.Strategy),
		now:        time.Now,
	}
}

func assignerFor(strategy string) Assigner {
	if strings.EqualFold(strategy, "localsearch") {
		return LocalSearchAssigner{}
	}
	return GreedyAssigner{}
}

type WeekResult struct {
	Schedule    ports.ScheduleRecord
	Assignments []ports.AssignmentRecord
	Unfilled    int
}

// GenerateWeek builds and persists the schedule for the week starting at
// weekStart. A prior schedule for the same (venue, week) is replaced
// wholesale. Days without a forecast fall back to a fixed two-per-position
// dinner draft so the venue is never left without coverage.
func (s *Service) GenerateWeek(ctx context.Context, venueID, weekStart string) (WeekResult, error) {
	if ctx == nil {
		return WeekResult{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.roster"),
		slog.String("venue_id", venueID),
		slog.String("week_start", weekStart),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return WeekResult{}, errs.Wrap(err, "resolve venue config")
	}

	start, err := time.Parse(venue.DateLayout, weekStart)
	if err != nil {
		return WeekResult{}, errs.Wrapf(err, "parse week start %q", weekStart)
	}
	weekEnd := start.AddDate(0, 0, 6).Format(venue.DateLayout)

	positions, err := s.roster.ListPositions(ctx, venueID)
	if err != nil {
		return WeekResult{}, errs.Wrap(err, "list positions")
	}
	if len(positions) == 0 {
		return WeekResult{}, errs.Wrap(ports.ErrNoData, "no active positions")
	}
	employees, err := s.roster.ListEmployees(ctx, venueID)
	if err != nil {
		return WeekResult{}, errs.Wrap(err, "list employees")
	}

	adjustments := s.learnedAdjustments(logCtx, venueID, start)
	demandCells := s.resolveDemand(logCtx, venueID, weekStart, weekEnd)
	fallbackCells := s.fallbackDemand(logCtx, venueID, start)

	candidates := map[string]int{}
	for _, emp := range employees {
		candidates[emp.PositionID]++
	}

	var requirements []requirement
	shiftLoads := map[demandKey]float64{}
	projectedCovers := 0.0
	projectedRevenue := 0.0
	fallbackDays := 0
	openDays := 0

	for offset := 0; offset < 7; offset++ {
		day := start.AddDate(0, 0, offset)
		date := day.Format(venue.DateLayout)
		weekday := venue.WeekdayOf(day)
		if venue.IsClosed(cfg, weekday) {
			continue
		}
		openDays++

		covers, revenue, perShift := s.dayDemand(date, weekday, demandCells, fallbackCells)
		for shift, load := range perShift {
			shiftLoads[demandKey{date: date, shift: shift}] = load
		}

		forecast, err := s.forecasts.GetForecast(ctx, venueID, date, string(staffing.ScenarioBuffered))
		if err != nil {
			if !errors.Is(err, ports.ErrNoData) {
				return WeekResult{}, errs.Wrapf(err, "load forecast for %s", date)
			}
			fallbackDays++
			requirements = append(requirements, s.fallbackRequirements(date, weekday, positions, candidates)...)
			projectedCovers += covers
			projectedRevenue += revenue
			continue
		}

		if covers == 0 {
			covers = float64(forecast.EstimatedCovers)
			revenue = forecast.EstimatedRevenue
		}
		projectedCovers += covers
		projectedRevenue += revenue

		tier := domainroster.ClassifyDemand(covers)
		requirements = append(requirements, s.dayRequirements(date, weekday, positions, forecast, tier, covers, adjustments)...)
	}

	var slots []slot
	for _, req := range requirements {
		slots = append(slots, req.slots()...)
	}
	sortSlots(slots, candidates)

	weights := domainroster.ScoreWeights{
		Cost:           s.scheduling.CostWeight,
		Quality:        s.scheduling.QualityWeight,
		RestDayPenalty: s.scheduling.RestDayPenalty,
	}
	plan := s.assigner.Assign(slots, employees, weights)

	mode := "smart"
	if openDays > 0 && fallbackDays == openDays {
		mode = "fallback"
	}

	violations := s.coverageViolations(plan, shiftLoads)
	schedule, assignments := s.buildRecords(venueID, weekStart, weekEnd, mode, plan, projectedCovers, projectedRevenue, violations)
	if err := s.roster.ReplaceSchedule(ctx, schedule, assignments); err != nil {
		return WeekResult{}, errs.Wrap(err, "store schedule")
	}

	logging.Info(logCtx, "schedule generated",
		slog.String("schedule_id", schedule.ID),
		slog.String("strategy", s.assigner.Name()),
		slog.String("mode", mode),
		slog.Int("assignments", len(assignments)),
		slog.Int("unfilled", plan.Unfilled),
	)
	return WeekResult{Schedule: schedule, Assignments: assignments, Unfilled: plan.Unfilled}, nil
}

// dayDemand sums the day's predicted covers and revenue across shifts,
// preferring the forecaster's cells and filling gaps from history. The
// per-shift breakdown feeds the covers-per-server check after assignment.
func (s *Service) dayDemand(date string, weekday int, cells map[demandKey]demandCell, fallback map[fallbackKey]demandCell) (float64, float64, map[string]float64) {
	covers := 0.0
	revenue := 0.0
	perShift := map[string]float64{}
	for _, shift := range shiftOrder {
		cell, ok := cells[demandKey{date: date, shift: string(shift)}]
		if !ok {
			cell, ok = fallback[fallbackKey{weekday: weekday, shift: string(shift)}]
		}
		if !ok {
			continue
		}
		covers += cell.covers
		revenue += cell.revenue
		perShift[string(shift)] = cell.covers
	}
	return covers, revenue, perShift
}

// coverageViolations counts the (date, shift) groups whose predicted covers
// exceed the scheduled servers times the covers-per-server standard. Groups
// with no demand signal are not judged.
func (s *Service) coverageViolations(plan Plan, loads map[demandKey]float64) int {
	limit := s.scheduling.MaxCoversPerServer
	if limit <= 0 {
		limit = 12
	}

	servers := map[demandKey]int{}
	for _, f := range plan.Filled {
		if !strings.EqualFold(f.Slot.Position.Name, "server") {
			continue
		}
		servers[demandKey{date: f.Slot.BusinessDate, shift: string(f.Slot.ShiftType)}]++
	}

	violations := 0
	for key, covers := range loads {
		if covers <= 0 {
			continue
		}
		if covers > limit*float64(servers[key]) {
			violations++
		}
	}
	return violations
}

func (s *Service) dayRequirements(date string, weekday int, positions []ports.PositionRecord, forecast ports.ForecastRecord, tier domainroster.DemandTier, covers float64, adjustments map[feedbackKey]int) []requirement {
	var reqs []requirement

	server := findPosition(positions, "server")
	bartender := findPosition(positions, "bartender")
	busser := findPosition(positions, "busser")
	runner := findPosition(positions, "runner")

	if server != nil {
		reqs = append(reqs, waveRequirements(date, weekday, *server, forecast.Hourly,
			func(h ports.ForecastHour) int { return h.Servers },
			s.scheduling.SetupMinutes, s.scheduling.TeardownMinutes)...)
	}
	if bartender != nil {
		reqs = append(reqs, waveRequirements(date, weekday, *bartender, forecast.Hourly,
			func(h ports.ForecastHour) int { return h.Bartenders },
			s.scheduling.SetupMinutes, s.scheduling.TeardownMinutes)...)
	}

	bussers, runners := supportCounts(forecast.PeakServers, s.scheduling.BusserRatio, s.scheduling.RunnerRatio)
	if busser != nil {
		count := applyFeedback(bussers, adjustments, busser.Name, domainroster.ShiftDinner, weekday)
		reqs = append(reqs, templateRequirements(date, weekday, *busser, domainroster.ShiftDinner, count, tier, s.scheduling.SplitThreshold)...)
	}
	if runner != nil {
		count := applyFeedback(runners, adjustments, runner.Name, domainroster.ShiftDinner, weekday)
		reqs = append(reqs, templateRequirements(date, weekday, *runner, domainroster.ShiftDinner, count, tier, s.scheduling.SplitThreshold)...)
	}

	for _, pos := range positions {
		if isCore(pos, server, bartender, busser, runner) {
			continue
		}
		dinner := applyFeedback(baselineFor(pos, tier, covers), adjustments, pos.Name, domainroster.ShiftDinner, weekday)
		reqs = append(reqs, templateRequirements(date, weekday, pos, domainroster.ShiftDinner, dinner, tier, s.scheduling.SplitThreshold)...)

		if tier != domainroster.TierLight {
			lunch := applyFeedback(1, adjustments, pos.Name, domainroster.ShiftLunch, weekday)
			reqs = append(reqs, templateRequirements(date, weekday, pos, domainroster.ShiftLunch, lunch, tier, s.scheduling.SplitThreshold)...)
		}
	}

	// Manager feedback on the wave-shaped roles lands on the day's largest
	// wave for that (position, shift).
	reqs = applyWaveFeedback(reqs, adjustments, server, bartender)
	return reqs
}

// baselineFor sizes the non-wave, non-support roles. Hosts and dishwashers
// scale with the day's covers; anything else follows the demand tier.
// Salaried leads are always exactly one per shift.
func baselineFor(pos ports.PositionRecord, tier domainroster.DemandTier, covers float64) int {
	if pos.Salaried {
		return 1
	}
	switch strings.ToLower(pos.Name) {
	case "host":
		return coverScaled(covers, 80)
	case "dishwasher":
		return coverScaled(covers, 60)
	}
	switch tier {
	case domainroster.TierBusy:
		return 2
	case domainroster.TierPeak:
		return 3
	default:
		return 1
	}
}

func coverScaled(covers, perWorker float64) int {
	if covers <= 0 {
		return 1
	}
	n := int(math.Ceil(covers / perWorker))
	if n < 1 {
		return 1
	}
	return n
}

func applyWaveFeedback(reqs []requirement, adjustments map[feedbackKey]int, wavePositions ...*ports.PositionRecord) []requirement {
	for _, pos := range wavePositions {
		if pos == nil {
			continue
		}
		for _, shift := range shiftOrder {
			largest := -1
			for i, req := range reqs {
				if req.Position.ID != pos.ID || req.ShiftType != shift {
					continue
				}
				if largest == -1 || req.Count > reqs[largest].Count {
					largest = i
				}
			}
			if largest == -1 {
				continue
			}
			req := reqs[largest]
			adjusted := applyFeedback(req.Count, adjustments, pos.Name, shift, req.Weekday)
			reqs[largest].Count = adjusted
		}
	}

	out := reqs[:0]
	for _, req := range reqs {
		if req.Count > 0 {
			out = append(out, req)
		}
	}
	return out
}

// fallbackRequirements is the no-forecast draft: two of every position on
// the dinner template, one when the position has a single holder or is
// salaried.
func (s *Service) fallbackRequirements(date string, weekday int, positions []ports.PositionRecord, candidates map[string]int) []requirement {
	var reqs []requirement
	for _, pos := range positions {
		count := 2
		if pos.Salaried || candidates[pos.ID] == 1 {
			count = 1
		}
		reqs = append(reqs, templateRequirements(date, weekday, pos, domainroster.ShiftDinner, count, domainroster.TierModerate, 0)...)
	}
	return reqs
}

func (s *Service) buildRecords(venueID, weekStart, weekEnd, mode string, plan Plan, covers, revenue float64, violations int) (ports.ScheduleRecord, []ports.AssignmentRecord) {
	scheduleID := uuid.NewString()

	totalHours := 0.0
	totalCost := 0.0
	assignments := make([]ports.AssignmentRecord, 0, len(plan.Filled))
	for _, f := range plan.Filled {
		day, _ := time.Parse(venue.DateLayout, f.Slot.BusinessDate)
		startAt := day.Add(time.Duration(f.Slot.StartMinutes) * time.Minute)
		endAt := day.Add(time.Duration(f.Slot.EndMinutes) * time.Minute)
		cost := f.Slot.Hours * f.Slot.Position.BaseHourlyRate

		totalHours += f.Slot.Hours
		totalCost += cost
		assignments = append(assignments, ports.AssignmentRecord{
			ScheduleID:     scheduleID,
			VenueID:        venueID,
			EmployeeID:     f.Employee.ID,
			PositionID:     f.Slot.Position.ID,
			PositionName:   f.Slot.Position.Name,
			BusinessDate:   f.Slot.BusinessDate,
			ShiftType:      string(f.Slot.ShiftType),
			ScheduledStart: startAt,
			ScheduledEnd:   endAt,
			ScheduledHours: f.Slot.Hours,
			HourlyRate:     f.Slot.Position.BaseHourlyRate,
			ScheduledCost:  cost,
		})
	}

	cplh := 0.0
	if totalHours > 0 {
		cplh = covers / totalHours
	}
	laborPct := 0.0
	if revenue > 0 {
		laborPct = 100 * totalCost / revenue
	}
	// Quality grades service pressure, not fill rate: each (date, shift)
	// scheduled over the covers-per-server standard costs a tenth.
	quality := math.Max(0, 1-0.1*float64(violations))

	schedule := ports.ScheduleRecord{
		ID:               scheduleID,
		VenueID:          venueID,
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		Status:           "draft",
		OptimizationMode: mode,
		TotalLaborHours:  totalHours,
		TotalLaborCost:   totalCost,
		OverallCPLH:      cplh,
		LaborPct:         laborPct,
		QualityScore:     quality,
		ProjectedRevenue: revenue,
		GeneratedAt:      s.now().UTC(),
	}
	return schedule, assignments
}

func findPosition(positions []ports.PositionRecord, name string) *ports.PositionRecord {
	for i := range positions {
		if strings.EqualFold(positions[i].Name, name) {
			return &positions[i]
		}
	}
	return nil
}

func isCore(pos ports.PositionRecord, core ...*ports.PositionRecord) bool {
	for _, c := range core {
		if c != nil && c.ID == pos.ID {
			return true
		}
	}
	return false
}
