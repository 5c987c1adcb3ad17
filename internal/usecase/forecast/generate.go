// Package forecast projects staffing for future dates from the latest
// profile, adjusted by the seasonal calendar. One run writes one row per
// scenario so schedulers can pick their risk posture later.
package forecast

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

type Service struct {
	profiles  *profile.Service
	forecasts ports.ForecastRepository
	seasonal  ports.SeasonalSource
	venues    *venue.Resolver
	signals   config.SignalConfig
}

func NewService(profiles *profile.Service, forecasts ports.ForecastRepository, seasonal ports.SeasonalSource, venues *venue.Resolver, signals config.SignalConfig) *Service {
	return &Service{profiles: profiles, forecasts: forecasts, seasonal: seasonal, venues: venues, signals: signals}
}

type GenerateResult struct {
	Skipped    bool
	SkipReason string
	Scenarios  []ports.ForecastRecord
}

// Generate builds all three scenario forecasts for a date. Closed weekdays
// and weekdays without profile coverage are skipped, not errored: a batch
// run over a whole week should not die on the dark day.
func (s *Service) Generate(ctx context.Context, venueID, forecastDate string) (GenerateResult, error) {
	if ctx == nil {
		return GenerateResult{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.forecast"),
		slog.String("venue_id", venueID),
		slog.String("forecast_date", forecastDate),
	)

	cfg, err := s.venues.Resolve(ctx, venueID)
	if err != nil {
		return GenerateResult{}, errs.Wrap(err, "resolve venue config")
	}

	date, err := time.Parse(venue.DateLayout, forecastDate)
	if err != nil {
		return GenerateResult{}, errs.Wrapf(err, "parse forecast date %q", forecastDate)
	}
	weekday := venue.WeekdayOf(date)

	if venue.IsClosed(cfg, weekday) {
		logging.Info(logCtx, "venue closed on weekday, forecast skipped", slog.Int("weekday", weekday))
		return GenerateResult{Skipped: true, SkipReason: "closed"}, nil
	}

	byHour, version, err := s.profiles.LatestForWeekday(ctx, venueID, weekday)
	if err != nil {
		if errors.Is(err, ports.ErrNoData) || errors.Is(err, ports.ErrNoProfile) {
			logging.Warn(logCtx, "no profile for weekday, forecast skipped", slog.Int("weekday", weekday))
			return GenerateResult{Skipped: true, SkipReason: "no_profile"}, nil
		}
		return GenerateResult{}, errs.Wrap(err, "load profile")
	}

	factor, hourFactors, note := s.lookupSeasonal(logCtx, venueID, forecastDate)

	bufferPct := cfg.BufferPct
	if venue.IsPeak(cfg, weekday) {
		bufferPct = cfg.PeakBufferPct
	}

	result := GenerateResult{}
	for _, scenario := range staffing.Scenarios {
		record := s.buildScenario(scenarioInput{
			venueID:      venueID,
			forecastDate: forecastDate,
			weekday:      weekday,
			scenario:     scenario,
			cfg:          cfg,
			byHour:       byHour,
			version:      version,
			factor:       factor,
			hourFactors:  hourFactors,
			note:         note,
			bufferPct:    bufferPct,
		})
		if err := s.forecasts.UpsertForecast(ctx, record); err != nil {
			return GenerateResult{}, errs.Wrapf(err, "store %s forecast", scenario)
		}
		result.Scenarios = append(result.Scenarios, record)
	}

	logging.Info(logCtx, "forecast generated",
		slog.Int("profile_version", version),
		slog.Float64("seasonal_factor", factor),
	)
	return result, nil
}

type scenarioInput struct {
	venueID      string
	forecastDate string
	weekday      int
	scenario     staffing.Scenario
	cfg          ports.VenueConfigRecord
	byHour       map[int]ports.ProfileRecord
	version      int
	factor       float64
	hourFactors  map[int]float64
	note         string
	bufferPct    float64
}

func (s *Service) buildScenario(in scenarioInput) ports.ForecastRecord {
	buffer := staffing.ScenarioBuffer(in.scenario, in.bufferPct)
	serverParams := staffing.Params{CoversPerWorker: in.cfg.CoversPerServer, BufferPct: buffer, Floor: in.cfg.MinServers}
	barParams := staffing.Params{CoversPerWorker: in.cfg.CoversPerBartender, BufferPct: buffer, Floor: in.cfg.MinBartenders}

	record := ports.ForecastRecord{
		VenueID:        in.venueID,
		ForecastDate:   in.forecastDate,
		DayOfWeek:      in.weekday,
		Scenario:       string(in.scenario),
		SeasonalFactor: in.factor,
		SeasonalNote:   in.note,
		ProfileVersion: in.version,
	}

	for hour := in.cfg.OpenHour; hour <= in.cfg.CloseHour; hour++ {
		cell, ok := in.byHour[hour]
		if !ok {
			continue
		}

		factor := in.factor
		if override, ok := in.hourFactors[hour]; ok {
			factor = override
		}

		base := staffing.ScenarioBase(in.scenario, cell.P50ActiveCovers, cell.P75ActiveCovers, cell.P90ActiveCovers)
		adjusted := base * factor
		servers := staffing.Needed(adjusted, serverParams)
		bartenders := staffing.Needed(adjusted, barParams)

		record.Hourly = append(record.Hourly, ports.ForecastHour{
			Hour:           hour,
			AdjustedCovers: adjusted,
			Servers:        servers,
			Bartenders:     bartenders,
			SeasonalFactor: factor,
		})

		record.TotalLaborHours += float64(servers + bartenders)
		if servers > record.PeakServers {
			record.PeakServers = servers
		}
		if bartenders > record.PeakBartenders {
			record.PeakBartenders = bartenders
		}
		// The scenario's own adjusted actives are the cover estimate, rounded
		// hour by hour so each slot lands on a whole party count.
		record.EstimatedCovers += int(math.Round(adjusted))
	}

	record.EstimatedCost = record.TotalLaborHours * in.cfg.AvgHourlyRate
	record.EstimatedRevenue = float64(record.EstimatedCovers) * in.cfg.AvgRevenuePerCover
	return record
}

// lookupSeasonal resolves the date's multiplier under a deadline. Any
// failure degrades to 1.0: a slow or missing calendar must never block the
// forecast run.
func (s *Service) lookupSeasonal(ctx context.Context, venueID, date string) (float64, map[int]float64, string) {
	if s.seasonal == nil {
		return 1.0, nil, ""
	}

	timeout := s.signals.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	row, err := s.seasonal.Lookup(lookupCtx, venueID, date)
	if err != nil {
		if !errors.Is(err, ports.ErrNoData) {
			logging.Warn(ctx, "seasonal lookup failed, using neutral factor", slog.Any("err", errs.Loggable(err)))
		}
		return 1.0, nil, ""
	}
	if row.Multiplier <= 0 {
		return 1.0, nil, ""
	}
	return row.Multiplier, row.HourMultipliers, row.EventName
}
