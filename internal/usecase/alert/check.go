// Package alert compares a date's realized occupancy against its profile
// and flags anomalies worth a manager's attention. Alerts upsert on
// (venue, date, hour, type): re-checking a date refreshes severities
// instead of duplicating rows.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/profile"
	"shiftwise/internal/usecase/venue"
)

const (
	TypeDemandSpike  = "demand_spike"
	TypeDemandDrop   = "demand_drop"
	TypeUnderstaffed = "understaffed"
	TypeOverstaffed  = "overstaffed"
	TypeNoProfile    = "no_profile"
	TypeNoData       = "no_data"

	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type Service struct {
	snapshots ports.SnapshotRepository
	profiles  *profile.Service
	alerts    ports.AlertRepository
	venues    *venue.Resolver
}

func NewService(snapshots ports.SnapshotRepository, profiles *profile.Service, alerts ports.AlertRepository, venues *venue.Resolver) *Service {
	return &Service{snapshots: snapshots, profiles: profiles, alerts: alerts, venues: venues}
}

// CheckDate evaluates one business date and stores the alerts it produces.
func (s *Service) CheckDate(ctx context.Context, venueID, businessDate string) ([]ports.AlertRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.alert"),
		slog.String("venue_id", venueID),
		slog.String("business_date", businessDate),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return nil, errs.Wrap(err, "resolve venue config")
	}

	date, err := time.Parse(venue.DateLayout, businessDate)
	if err != nil {
		return nil, errs.Wrapf(err, "parse business date %q", businessDate)
	}
	weekday := venue.WeekdayOf(date)

	if venue.IsClosed(cfg, weekday) {
		logging.Info(logCtx, "venue closed on weekday, alert check skipped")
		return nil, nil
	}

	actuals, err := s.snapshots.ListForDate(ctx, venueID, businessDate)
	if err != nil {
		return nil, errs.Wrap(err, "list snapshots")
	}

	var alerts []ports.AlertRecord
	if len(actuals) == 0 {
		alerts = append(alerts, ports.AlertRecord{
			VenueID:   venueID,
			AlertDate: businessDate,
			AlertType: TypeNoData,
			Severity:  SeverityWarning,
			Message:   "no snapshots recorded for an open day",
		})
		return s.store(logCtx, alerts)
	}

	byHour, _, err := s.profiles.LatestForWeekday(ctx, venueID, weekday)
	if err != nil {
		if errors.Is(err, ports.ErrNoData) || errors.Is(err, ports.ErrNoProfile) {
			alerts = append(alerts, ports.AlertRecord{
				VenueID:   venueID,
				AlertDate: businessDate,
				AlertType: TypeNoProfile,
				Severity:  SeverityInfo,
				Message:   fmt.Sprintf("no staffing profile for weekday %d", weekday),
			})
			return s.store(logCtx, alerts)
		}
		return nil, errs.Wrap(err, "load profile")
	}

	for _, actual := range actuals {
		cell, ok := byHour[actual.HourSlot]
		if !ok {
			continue
		}
		alerts = append(alerts, hourAlerts(venueID, businessDate, actual, cell, cfg)...)
	}

	return s.store(logCtx, alerts)
}

func (s *Service) store(ctx context.Context, alerts []ports.AlertRecord) ([]ports.AlertRecord, error) {
	if len(alerts) == 0 {
		logging.Info(ctx, "no anomalies found")
		return nil, nil
	}
	if err := s.alerts.UpsertAlerts(ctx, alerts); err != nil {
		return nil, errs.Wrap(err, "store alerts")
	}
	logging.Info(ctx, "alerts stored", slog.Int("count", len(alerts)))
	return alerts, nil
}

func hourAlerts(venueID, businessDate string, actual ports.SnapshotRecord, cell ports.ProfileRecord, cfg ports.VenueConfigRecord) []ports.AlertRecord {
	var alerts []ports.AlertRecord
	hour := actual.HourSlot
	covers := float64(actual.ActiveCovers)

	add := func(alertType, severity, message string) {
		slot := hour
		alerts = append(alerts, ports.AlertRecord{
			VenueID:            venueID,
			AlertDate:          businessDate,
			HourSlot:           &slot,
			AlertType:          alertType,
			Severity:           severity,
			Message:            message,
			ActualCovers:       actual.ActiveCovers,
			RecommendedServers: cell.ServersBuffered,
		})
	}

	if cell.P90ActiveCovers > 0 {
		switch {
		case covers > 1.5*cell.P90ActiveCovers:
			add(TypeDemandSpike, SeverityCritical,
				fmt.Sprintf("%d covers at %02d:00 is more than 1.5x the p90 of %.0f", actual.ActiveCovers, hour, cell.P90ActiveCovers))
		case covers > 1.2*cell.P90ActiveCovers:
			add(TypeDemandSpike, SeverityWarning,
				fmt.Sprintf("%d covers at %02d:00 exceeds the p90 of %.0f", actual.ActiveCovers, hour, cell.P90ActiveCovers))
		}
	}

	if cell.P50ActiveCovers > 10 && covers < 0.5*cell.P50ActiveCovers {
		add(TypeDemandDrop, SeverityInfo,
			fmt.Sprintf("%d covers at %02d:00 is under half the p50 of %.0f", actual.ActiveCovers, hour, cell.P50ActiveCovers))
	}

	needed := 0
	if actual.ActiveCovers > 0 {
		needed = int(math.Ceil(covers / cfg.CoversPerServer))
	}
	shortfall := needed - cell.ServersBuffered
	switch {
	case shortfall > 4:
		add(TypeUnderstaffed, SeverityCritical,
			fmt.Sprintf("demand needed %d servers at %02d:00, plan had %d", needed, hour, cell.ServersBuffered))
	case shortfall > 2:
		add(TypeUnderstaffed, SeverityWarning,
			fmt.Sprintf("demand needed %d servers at %02d:00, plan had %d", needed, hour, cell.ServersBuffered))
	case shortfall < -3:
		add(TypeOverstaffed, SeverityInfo,
			fmt.Sprintf("plan had %d servers at %02d:00 for demand needing %d", cell.ServersBuffered, hour, needed))
	}

	return alerts
}
