// Package profile aggregates snapshots into versioned per-(weekday, hour)
// statistical profiles. A build never overwrites history: it writes the next
// version, so forecasts and backtests can pin the version they ran against.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/domain/staffing"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/venue"
)

type Service struct {
	snapshots ports.SnapshotRepository
	profiles  ports.ProfileRepository
	venues    *venue.Resolver
	cfg       config.ProfileConfig
}

func NewService(snapshots ports.SnapshotRepository, profiles ports.ProfileRepository, venues *venue.Resolver, cfg config.ProfileConfig) *Service {
	return &Service{snapshots: snapshots, profiles: profiles, venues: venues, cfg: cfg}
}

type BuildResult struct {
	Version  int
	Cells    int
	Excluded int
}

type cellKey struct {
	weekday int
	hour    int
}

type cell struct {
	active []float64
	fresh  []float64
}

// Build aggregates the lookback window ending at asOf into a new profile
// version. Cells with fewer than the minimum sample count are excluded
// entirely; an absent cell downstream means "not enough history", not
// "zero demand".
func (s *Service) Build(ctx context.Context, venueID string, asOf time.Time) (BuildResult, error) {
	if ctx == nil {
		return BuildResult{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.profile"),
		slog.String("venue_id", venueID),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return BuildResult{}, errs.Wrap(err, "resolve venue config")
	}

	endDate := asOf.Format(venue.DateLayout)
	startDate := asOf.AddDate(0, 0, -7*s.cfg.LookbackWeeks).Format(venue.DateLayout)

	rows, err := s.snapshots.ListBetween(ctx, venueID, startDate, endDate)
	if err != nil {
		return BuildResult{}, errs.Wrap(err, "list snapshots")
	}
	if len(rows) == 0 {
		return BuildResult{}, errs.Wrapf(ports.ErrNoData, "no snapshots in %s..%s", startDate, endDate)
	}

	cells := map[cellKey]*cell{}
	for _, row := range rows {
		key := cellKey{weekday: row.DayOfWeek, hour: row.HourSlot}
		c, ok := cells[key]
		if !ok {
			c = &cell{}
			cells[key] = c
		}
		c.active = append(c.active, float64(row.ActiveCovers))
		c.fresh = append(c.fresh, float64(row.NewCovers))
	}

	latest, err := s.profiles.LatestVersion(ctx, venueID)
	if err != nil && !errors.Is(err, ports.ErrNoData) {
		return BuildResult{}, errs.Wrap(err, "latest profile version")
	}
	version := latest + 1

	serverParams := staffing.Params{CoversPerWorker: cfg.CoversPerServer, BufferPct: cfg.BufferPct, Floor: cfg.MinServers}
	barParams := staffing.Params{CoversPerWorker: cfg.CoversPerBartender, BufferPct: cfg.BufferPct, Floor: cfg.MinBartenders}

	var records []ports.ProfileRecord
	excluded := 0
	for key, c := range cells {
		if len(c.active) < s.cfg.MinSamples {
			excluded++
			continue
		}

		active := staffing.Summarize(c.active)
		fresh := staffing.Summarize(c.fresh)

		servers := staffing.ScenarioStaffing(active.P50, active.P75, active.P90, serverParams)
		bartenders := staffing.ScenarioStaffing(active.P50, active.P75, active.P90, barParams)

		records = append(records, ports.ProfileRecord{
			VenueID:            venueID,
			DayOfWeek:          key.weekday,
			HourSlot:           key.hour,
			ProfileVersion:     version,
			SampleCount:        active.Count,
			RangeStart:         startDate,
			RangeEnd:           endDate,
			AvgActiveCovers:    active.Mean,
			P50ActiveCovers:    active.P50,
			P75ActiveCovers:    active.P75,
			P90ActiveCovers:    active.P90,
			MaxActiveCovers:    active.Max,
			StddevActiveCovers: active.Stddev,
			AvgNewCovers:       fresh.Mean,
			P75NewCovers:       fresh.P75,
			ServersLean:        servers.Lean,
			ServersBuffered:    servers.Buffered,
			ServersSafe:        servers.Safe,
			BartendersLean:     bartenders.Lean,
			BartendersBuffered: bartenders.Buffered,
			BartendersSafe:     bartenders.Safe,
		})
	}
	if len(records) == 0 {
		return BuildResult{}, errs.Wrap(ports.ErrNoData, "every cell below minimum sample count")
	}

	if err := s.profiles.InsertProfiles(ctx, records); err != nil {
		return BuildResult{}, errs.Wrap(err, "insert profiles")
	}

	result := BuildResult{Version: version, Cells: len(records), Excluded: excluded}
	logging.Info(logCtx, "profile built",
		slog.Int("version", result.Version),
		slog.Int("cells", result.Cells),
		slog.Int("excluded_cells", result.Excluded),
	)
	return result, nil
}

// LatestForWeekday returns the newest version's rows for one weekday,
// keyed by hour slot.
func (s *Service) LatestForWeekday(ctx context.Context, venueID string, weekday int) (map[int]ports.ProfileRecord, int, error) {
	version, err := s.profiles.LatestVersion(ctx, venueID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.profiles.ListVersionForWeekday(ctx, venueID, version, weekday)
	if err != nil {
		return nil, 0, err
	}

	byHour := make(map[int]ports.ProfileRecord, len(rows))
	for _, row := range rows {
		byHour[row.HourSlot] = row
	}
	return byHour, version, nil
}
