// Package venue resolves effective venue settings: the venue_configs row
// when one exists, file-level defaults otherwise.
package venue

import (
	"context"
	"errors"
	"time"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/ports"
)

// DateLayout is the canonical business-date form used across the store.
const DateLayout = "2006-01-02"

// WeekdayOf maps a date to the 0=Monday weekday numbering used everywhere.
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

type Resolver struct {
	repo     ports.VenueConfigRepository
	defaults config.VenueDefaults
}

func NewResolver(repo ports.VenueConfigRepository, defaults config.VenueDefaults) *Resolver {
	return &Resolver{repo: repo, defaults: defaults}
}

func (r *Resolver) Resolve(ctx context.Context, venueID string) (ports.VenueConfigRecord, error) {
	if r.repo != nil {
		row, err := r.repo.Get(ctx, venueID)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, ports.ErrNoVenueConfig) {
			return ports.VenueConfigRecord{}, err
		}
	}

	d := r.defaults
	return ports.VenueConfigRecord{
		VenueID:            venueID,
		OpenHour:           d.OpenHour,
		CloseHour:          d.CloseHour,
		CoversPerServer:    d.CoversPerServer,
		CoversPerBartender: d.CoversPerBartender,
		BufferPct:          d.BufferPct,
		PeakBufferPct:      d.PeakBufferPct,
		PeakWeekdays:       d.PeakWeekdays,
		ClosedWeekdays:     d.ClosedWeekdays,
		MinServers:         d.MinServers,
		MinBartenders:      d.MinBartenders,
		AvgHourlyRate:      d.AvgHourlyRate,
		AvgRevenuePerCover: d.AvgRevenuePerCover,
		DwellMinutes:       d.DwellMinutes,
	}, nil
}

// IsClosed reports whether the venue is dark on a weekday (0=Monday).
func IsClosed(cfg ports.VenueConfigRecord, weekday int) bool {
	for _, d := range cfg.ClosedWeekdays {
		if d == weekday {
			return true
		}
	}
	return false
}

func IsPeak(cfg ports.VenueConfigRecord, weekday int) bool {
	for _, d := range cfg.PeakWeekdays {
		if d == weekday {
			return true
		}
	}
	return false
}
