// Package snapshot turns raw checks into hourly concurrency rows, the unit
// every later stage consumes.
package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/domain/occupancy"
	"shiftwise/internal/domain/staffing"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/venue"
)

type Service struct {
	checks    ports.CheckRepository
	snapshots ports.SnapshotRepository
	venues    *venue.Resolver
}

func NewService(checks ports.CheckRepository, snapshots ports.SnapshotRepository, venues *venue.Resolver) *Service {
	return &Service{checks: checks, snapshots: snapshots, venues: venues}
}

// BuildDate evaluates one business date's checks across the venue's
// operating window and replaces the date's snapshot rows. Rebuilding after a
// late import is therefore safe. The first-pass staffing columns carry the
// buffered recommendation for that single day's actuals; profile-based
// recommendations supersede them downstream.
func (s *Service) BuildDate(ctx context.Context, venueID, businessDate string) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.snapshot"),
		slog.String("venue_id", venueID),
		slog.String("business_date", businessDate),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return 0, errs.Wrap(err, "resolve venue config")
	}

	date, err := time.Parse(venue.DateLayout, businessDate)
	if err != nil {
		return 0, errs.Wrapf(err, "parse business date %q", businessDate)
	}

	records, err := s.checks.ListChecks(ctx, venueID, businessDate)
	if err != nil {
		return 0, errs.Wrap(err, "list checks")
	}
	if len(records) == 0 {
		logging.Warn(logCtx, "no checks for date, snapshots unchanged")
		return 0, nil
	}

	checks := make([]occupancy.Check, 0, len(records))
	for _, rec := range records {
		checks = append(checks, occupancy.Check{
			ExternalID:  rec.ExternalID,
			OpenTime:    rec.OpenTime,
			CloseTime:   rec.CloseTime,
			GuestCount:  rec.GuestCount,
			TotalAmount: rec.TotalAmount,
		})
	}

	curve := occupancy.HourlyCurve(checks, date, cfg.OpenHour, cfg.CloseHour)
	weekday := venue.WeekdayOf(date)

	serverParams := staffing.Params{CoversPerWorker: cfg.CoversPerServer, BufferPct: cfg.BufferPct, Floor: cfg.MinServers}
	barParams := staffing.Params{CoversPerWorker: cfg.CoversPerBartender, BufferPct: cfg.BufferPct, Floor: cfg.MinBartenders}

	rows := make([]ports.SnapshotRecord, 0, len(curve))
	for _, sample := range curve {
		rows = append(rows, ports.SnapshotRecord{
			VenueID:             venueID,
			BusinessDate:        businessDate,
			HourSlot:            sample.Hour,
			DayOfWeek:           weekday,
			ActiveCovers:        sample.ActiveCovers,
			ActiveTables:        sample.ActiveTables,
			NewCovers:           sample.NewCovers,
			DepartingCovers:     sample.DepartingCovers,
			ServersFirstPass:    staffing.Needed(float64(sample.ActiveCovers), serverParams),
			BartendersFirstPass: staffing.Needed(float64(sample.ActiveCovers), barParams),
		})
	}

	if err := s.snapshots.ReplaceForDate(ctx, venueID, businessDate, rows); err != nil {
		return 0, errs.Wrap(err, "replace snapshots")
	}

	logging.Info(logCtx, "snapshots built", slog.Int("hours", len(rows)))
	return len(rows), nil
}

// Backfill rebuilds snapshots for every date in [startDate, endDate] that
// has checks. Dates without checks are skipped rather than zeroed.
func (s *Service) Backfill(ctx context.Context, venueID, startDate, endDate string) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	dates, err := s.checks.ListCheckDates(ctx, venueID, startDate, endDate)
	if err != nil {
		return 0, errs.Wrap(err, "list check dates")
	}

	built := 0
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return built, errs.Wrap(err, "check context")
		}
		if _, err := s.BuildDate(ctx, venueID, date); err != nil {
			return built, errs.Wrapf(err, "build %s", date)
		}
		built++
	}
	return built, nil
}
