// Package backtest scores past recommendations against realized occupancy.
// Standard runs grade the current profile; rolling runs rebuild the
// statistics from a window that ends the day before the tested date, so a
// date never scores against numbers that already include it.
package backtest

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/domain/staffing"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/profile"
	"shiftwise/internal/usecase/venue"
)

const (
	TypeStandard = "standard"
	TypeRolling  = "rolling"
)

type Service struct {
	snapshots ports.SnapshotRepository
	profiles  *profile.Service
	results   ports.BacktestRepository
	venues    *venue.Resolver
	cfg       config.ProfileConfig
}

func NewService(snapshots ports.SnapshotRepository, profiles *profile.Service, results ports.BacktestRepository, venues *venue.Resolver, cfg config.ProfileConfig) *Service {
	return &Service{snapshots: snapshots, profiles: profiles, results: results, venues: venues, cfg: cfg}
}

// RunDate scores one date for one scenario and upserts the result, so a
// rerun after a profile rebuild replaces the old grade instead of stacking
// a duplicate.
func (s *Service) RunDate(ctx context.Context, venueID, businessDate string, scenario staffing.Scenario, rolling bool) (ports.BacktestRecord, error) {
	if ctx == nil {
		return ports.BacktestRecord{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.backtest"),
		slog.String("venue_id", venueID),
		slog.String("business_date", businessDate),
		slog.String("scenario", string(scenario)),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return ports.BacktestRecord{}, errs.Wrap(err, "resolve venue config")
	}

	date, err := time.Parse(venue.DateLayout, businessDate)
	if err != nil {
		return ports.BacktestRecord{}, errs.Wrapf(err, "parse business date %q", businessDate)
	}
	weekday := venue.WeekdayOf(date)

	actuals, err := s.snapshots.ListForDate(ctx, venueID, businessDate)
	if err != nil {
		return ports.BacktestRecord{}, errs.Wrap(err, "list snapshots")
	}
	if len(actuals) == 0 {
		return ports.BacktestRecord{}, errs.Wrapf(ports.ErrNoData, "no snapshots for %s", businessDate)
	}

	var recommended map[int]int
	backtestType := TypeStandard
	version := 0
	if rolling {
		backtestType = TypeRolling
		recommended, err = s.rollingRecommendations(ctx, venueID, date, weekday, scenario, cfg)
		if err != nil {
			return ports.BacktestRecord{}, err
		}
	} else {
		byHour, v, err := s.profiles.LatestForWeekday(ctx, venueID, weekday)
		if err != nil {
			if errors.Is(err, ports.ErrNoData) || errors.Is(err, ports.ErrNoProfile) {
				return ports.BacktestRecord{}, errs.Wrapf(ports.ErrNoProfile, "weekday %d", weekday)
			}
			return ports.BacktestRecord{}, errs.Wrap(err, "load profile")
		}
		version = v
		recommended = make(map[int]int, len(byHour))
		for hour, cell := range byHour {
			recommended[hour] = scenarioServers(cell, scenario)
		}
	}

	record := score(actuals, recommended, cfg)
	record.VenueID = venueID
	record.BusinessDate = businessDate
	record.Scenario = string(scenario)
	record.BacktestType = backtestType
	record.ProfileVersion = version

	if err := s.results.UpsertResult(ctx, record); err != nil {
		return ports.BacktestRecord{}, errs.Wrap(err, "store backtest result")
	}

	logging.Info(logCtx, "backtest scored",
		slog.String("type", backtestType),
		slog.Float64("coverage_pct", record.CoveragePct),
		slog.Float64("accuracy_pct", record.AccuracyPct),
	)
	return record, nil
}

// RunRange scores every date in [startDate, endDate] that has snapshots.
// Dates without a usable profile are skipped with a warning.
func (s *Service) RunRange(ctx context.Context, venueID, startDate, endDate string, scenario staffing.Scenario, rolling bool) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	rows, err := s.snapshots.ListBetween(ctx, venueID, startDate, endDate)
	if err != nil {
		return 0, errs.Wrap(err, "list snapshots")
	}

	seen := map[string]bool{}
	var dates []string
	for _, row := range rows {
		if !seen[row.BusinessDate] {
			seen[row.BusinessDate] = true
			dates = append(dates, row.BusinessDate)
		}
	}

	scored := 0
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return scored, errs.Wrap(err, "check context")
		}
		if _, err := s.RunDate(ctx, venueID, date, scenario, rolling); err != nil {
			if errors.Is(err, ports.ErrNoProfile) || errors.Is(err, ports.ErrNoData) {
				logging.Warn(ctx, "backtest skipped",
					slog.String("business_date", date),
					slog.Any("err", errs.Loggable(err)),
				)
				continue
			}
			return scored, err
		}
		scored++
	}
	return scored, nil
}

// rollingRecommendations rebuilds the per-hour percentiles from the training
// window [date - train_weeks, date - 1] for the tested weekday, so a date
// never scores against statistics that include it.
func (s *Service) rollingRecommendations(ctx context.Context, venueID string, date time.Time, weekday int, scenario staffing.Scenario, cfg ports.VenueConfigRecord) (map[int]int, error) {
	weeks := s.cfg.TrainWeeks
	if weeks <= 0 {
		weeks = 4
	}
	endDate := date.AddDate(0, 0, -1).Format(venue.DateLayout)
	startDate := date.AddDate(0, 0, -7*weeks).Format(venue.DateLayout)

	rows, err := s.snapshots.ListBetween(ctx, venueID, startDate, endDate)
	if err != nil {
		return nil, errs.Wrap(err, "list rolling window")
	}

	byHour := map[int][]float64{}
	for _, row := range rows {
		if row.DayOfWeek != weekday {
			continue
		}
		byHour[row.HourSlot] = append(byHour[row.HourSlot], float64(row.ActiveCovers))
	}

	buffer := staffing.ScenarioBuffer(scenario, cfg.BufferPct)
	params := staffing.Params{CoversPerWorker: cfg.CoversPerServer, BufferPct: buffer, Floor: cfg.MinServers}

	recommended := map[int]int{}
	for hour, values := range byHour {
		if len(values) < s.cfg.MinSamples {
			continue
		}
		stats := staffing.Summarize(values)
		base := staffing.ScenarioBase(scenario, stats.P50, stats.P75, stats.P90)
		recommended[hour] = staffing.Needed(base, params)
	}
	if len(recommended) == 0 {
		return nil, errs.Wrapf(ports.ErrNoProfile, "rolling window %s..%s", startDate, endDate)
	}
	return recommended, nil
}

// score grades actual hours against recommendations. Needed headcount is
// the raw ceil(actual/ratio) with no buffer and no floor: the grade measures
// demand coverage, not policy.
func score(actuals []ports.SnapshotRecord, recommended map[int]int, cfg ports.VenueConfigRecord) ports.BacktestRecord {
	var record ports.BacktestRecord
	var accuracySum float64
	accuracyHours := 0

	for _, actual := range actuals {
		rec, ok := recommended[actual.HourSlot]
		if !ok {
			continue
		}

		needed := 0
		if actual.ActiveCovers > 0 {
			needed = int(math.Ceil(float64(actual.ActiveCovers) / cfg.CoversPerServer))
		}
		delta := rec - needed

		status := "adequate"
		switch {
		case delta < 0:
			status = "understaffed"
			record.HoursUnderstaffed++
			record.UnderstaffedHours += float64(-delta)
		case delta > 1:
			status = "overstaffed"
			record.HoursOverstaffed++
		default:
			record.HoursAdequate++
		}
		// Every surplus hour is paid for, including the adequate +1 slack.
		if delta > 0 {
			record.WastedLaborHours += float64(delta)
		}

		if needed > 0 {
			miss := math.Abs(float64(needed-rec)) / float64(needed)
			accuracySum += 100 * math.Max(0, 1-miss)
			accuracyHours++
		}

		record.HoursAnalyzed++
		record.Hourly = append(record.Hourly, ports.BacktestHour{
			Hour:         actual.HourSlot,
			ActualCovers: actual.ActiveCovers,
			Needed:       needed,
			Recommended:  rec,
			Delta:        delta,
			Status:       status,
		})
	}

	if record.HoursAnalyzed > 0 {
		record.CoveragePct = 100 * float64(record.HoursAdequate) / float64(record.HoursAnalyzed)
	}
	if accuracyHours > 0 {
		record.AccuracyPct = accuracySum / float64(accuracyHours)
	}
	record.WastedLaborCost = record.WastedLaborHours * cfg.AvgHourlyRate
	return record
}

func scenarioServers(cell ports.ProfileRecord, scenario staffing.Scenario) int {
	switch scenario {
	case staffing.ScenarioLean:
		return cell.ServersLean
	case staffing.ScenarioSafe:
		return cell.ServersSafe
	default:
		return cell.ServersBuffered
	}
}
