package roster

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/venue"
)

// demandKey identifies one (date, shift) demand cell.
type demandKey struct {
	date  string
	shift string
}

type demandCell struct {
	covers     float64
	revenue    float64
	confidence float64
}

// resolveDemand loads the external forecaster's rows for the week under a
// deadline, then fills any missing (date, shift) cell from realized history.
// A dead forecaster degrades the whole week to the fallback.
func (s *Service) resolveDemand(ctx context.Context, venueID, weekStart, weekEnd string) map[demandKey]demandCell {
	cells := map[demandKey]demandCell{}
	if s.demand == nil {
		return cells
	}

	timeout := s.signals.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	listCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := s.demand.List(listCtx, venueID, weekStart, weekEnd)
	if err != nil && !errors.Is(err, ports.ErrNoData) {
		logging.Warn(ctx, "demand forecaster unavailable, using history fallback", slog.Any("err", errs.Loggable(err)))
		rows = nil
	}
	for _, row := range rows {
		cells[demandKey{date: row.BusinessDate, shift: row.ShiftType}] = demandCell{
			covers:     row.PredictedCovers,
			revenue:    row.PredictedRevenue,
			confidence: row.Confidence,
		}
	}
	return cells
}

// fallbackDemand synthesizes a (weekday, shift) prediction from realized
// history: recent weeks weigh more (1/weeks-ago), and confidence grows with
// sample count but is capped at 0.7 because a synthetic signal should never
// look as sure as a real one. Outcomes under one cover are noise and are
// skipped.
func (s *Service) fallbackDemand(ctx context.Context, venueID string, asOf time.Time) map[fallbackKey]demandCell {
	cells := map[fallbackKey]demandCell{}
	if s.demand == nil {
		return cells
	}

	sinceDate := asOf.AddDate(0, 0, -7*8).Format(venue.DateLayout)
	rows, err := s.demand.ListHistory(ctx, venueID, sinceDate)
	if err != nil {
		logging.Warn(ctx, "demand history unavailable", slog.Any("err", errs.Loggable(err)))
		return cells
	}

	type bucket struct {
		weightedCovers  float64
		weightedRevenue float64
		weightSum       float64
		samples         int
	}
	buckets := map[fallbackKey]*bucket{}

	for _, row := range rows {
		if row.ActualCovers < 1 {
			continue
		}
		date, err := time.Parse(venue.DateLayout, row.BusinessDate)
		if err != nil {
			continue
		}
		weeksAgo := int(asOf.Sub(date).Hours()/(24*7)) + 1
		if weeksAgo < 1 {
			weeksAgo = 1
		}
		weight := 1.0 / float64(weeksAgo)

		key := fallbackKey{weekday: venue.WeekdayOf(date), shift: row.ShiftType}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.weightedCovers += row.ActualCovers * weight
		b.weightedRevenue += row.ActualRevenue * weight
		b.weightSum += weight
		b.samples++
	}

	for key, b := range buckets {
		if b.weightSum <= 0 {
			continue
		}
		confidence := float64(b.samples) / 8.0
		if confidence > 0.7 {
			confidence = 0.7
		}
		cells[key] = demandCell{
			covers:     b.weightedCovers / b.weightSum,
			revenue:    b.weightedRevenue / b.weightSum,
			confidence: confidence,
		}
	}
	return cells
}

type fallbackKey struct {
	weekday int
	shift   string
}
