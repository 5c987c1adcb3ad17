package forecast

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/infrastructure/persistence/sqlite/repository"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/profile"
	"shiftwise/internal/usecase/venue"
)

type fixture struct {
	svc       *Service
	profiles  *repository.ProfileRepository
	seasonal  *repository.SeasonalRepository
	forecasts *repository.ForecastRepository
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "forecast.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.HourlySnapshot{}, &model.StaffingProfile{}, &model.SeasonalFactor{},
		&model.StaffingForecast{}, &model.VenueConfig{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	venues := venue.NewResolver(repository.NewVenueConfigRepository(db), config.VenueDefaults{
		OpenHour:           15,
		CloseHour:          23,
		CoversPerServer:    16,
		CoversPerBartender: 30,
		BufferPct:          0.10,
		PeakBufferPct:      0.15,
		PeakWeekdays:       []int{4, 5},
		ClosedWeekdays:     []int{0},
		MinServers:         2,
		MinBartenders:      1,
		AvgHourlyRate:      18,
		AvgRevenuePerCover: 150,
	})

	profiles := repository.NewProfileRepository(db)
	seasonal := repository.NewSeasonalRepository(db)
	forecasts := repository.NewForecastRepository(db)
	profileSvc := profile.NewService(repository.NewSnapshotRepository(db), profiles, venues, config.ProfileConfig{
		LookbackWeeks: 8,
		MinSamples:    3,
	})
	svc := NewService(profileSvc, forecasts, seasonal, venues, config.SignalConfig{Timeout: 2 * time.Second})
	return fixture{svc: svc, profiles: profiles, seasonal: seasonal, forecasts: forecasts}
}

func seedProfile(t *testing.T, fx fixture, weekday int) {
	t.Helper()

	err := fx.profiles.InsertProfiles(context.Background(), []ports.ProfileRecord{{
		VenueID:         "v1",
		DayOfWeek:       weekday,
		HourSlot:        19,
		ProfileVersion:  1,
		SampleCount:     8,
		P50ActiveCovers: 240,
		P75ActiveCovers: 280,
		P90ActiveCovers: 320,
		AvgNewCovers:    120,
	}})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func scenarioByName(t *testing.T, records []ports.ForecastRecord, name string) ports.ForecastRecord {
	t.Helper()
	for _, rec := range records {
		if rec.Scenario == name {
			return rec
		}
	}
	t.Fatalf("scenario %s missing from %d records", name, len(records))
	return ports.ForecastRecord{}
}

func TestGenerateScenarios(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedProfile(t, fx, 2) // Wednesday, off-peak

	result, err := fx.svc.Generate(ctx, "v1", "2026-03-04")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Skipped {
		t.Fatalf("Generate() skipped: %s", result.SkipReason)
	}
	if len(result.Scenarios) != 3 {
		t.Fatalf("scenarios = %d, want 3", len(result.Scenarios))
	}

	lean := scenarioByName(t, result.Scenarios, "lean")
	buffered := scenarioByName(t, result.Scenarios, "buffered")
	safe := scenarioByName(t, result.Scenarios, "safe")

	// lean: ceil(240/16) = 15; buffered: ceil(280*1.10/16) = 20;
	// safe: ceil(320/16) = 20.
	if lean.Hourly[0].Servers != 15 {
		t.Fatalf("lean servers = %d, want 15", lean.Hourly[0].Servers)
	}
	if buffered.Hourly[0].Servers != 20 {
		t.Fatalf("buffered servers = %d, want 20", buffered.Hourly[0].Servers)
	}
	if buffered.Hourly[0].Bartenders != 11 {
		t.Fatalf("buffered bartenders = %d, want ceil(280*1.10/30) = 11", buffered.Hourly[0].Bartenders)
	}
	if safe.Hourly[0].Servers != 20 {
		t.Fatalf("safe servers = %d, want 20", safe.Hourly[0].Servers)
	}

	if buffered.SeasonalFactor != 1.0 {
		t.Fatalf("seasonal factor = %v, want neutral 1.0", buffered.SeasonalFactor)
	}
	// Covers track each scenario's own adjusted actives, so the three rows
	// diverge instead of all repeating the arrival average.
	if lean.EstimatedCovers != 240 || buffered.EstimatedCovers != 280 || safe.EstimatedCovers != 320 {
		t.Fatalf("estimated covers = %d/%d/%d, want 240/280/320",
			lean.EstimatedCovers, buffered.EstimatedCovers, safe.EstimatedCovers)
	}
	if buffered.EstimatedRevenue != 280*150.0 {
		t.Fatalf("estimated revenue = %v, want 42000", buffered.EstimatedRevenue)
	}
	wantCost := buffered.TotalLaborHours * 18
	if buffered.EstimatedCost != wantCost {
		t.Fatalf("estimated cost = %v, want %v", buffered.EstimatedCost, wantCost)
	}

	stored, err := fx.forecasts.GetForecast(ctx, "v1", "2026-03-04", "buffered")
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if stored.ProfileVersion != 1 || len(stored.Hourly) != 1 {
		t.Fatalf("stored forecast = %+v", stored)
	}
}

func TestGeneratePeakWeekdayUsesPeakBuffer(t *testing.T) {
	fx := setup(t)
	seedProfile(t, fx, 4) // Friday is a peak weekday

	result, err := fx.svc.Generate(context.Background(), "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	buffered := scenarioByName(t, result.Scenarios, "buffered")
	// ceil(280 * 1.15 / 16) = 21 with the peak buffer in effect.
	if buffered.Hourly[0].Servers != 21 {
		t.Fatalf("buffered servers = %d, want 21", buffered.Hourly[0].Servers)
	}
}

func TestGenerateAppliesSeasonalMultiplier(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedProfile(t, fx, 2)

	venueID := "v1"
	err := fx.seasonal.UpsertFactor(ctx, ports.SeasonalRecord{
		VenueID:    &venueID,
		Date:       "2026-03-04",
		EventName:  "restaurant week",
		Multiplier: 1.5,
	})
	if err != nil {
		t.Fatalf("UpsertFactor() error = %v", err)
	}

	result, err := fx.svc.Generate(ctx, venueID, "2026-03-04")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	buffered := scenarioByName(t, result.Scenarios, "buffered")
	// ceil(280 * 1.5 * 1.10 / 16) = 29.
	if buffered.Hourly[0].Servers != 29 {
		t.Fatalf("buffered servers = %d, want 29", buffered.Hourly[0].Servers)
	}
	if buffered.SeasonalFactor != 1.5 || buffered.SeasonalNote != "restaurant week" {
		t.Fatalf("seasonal = %v %q", buffered.SeasonalFactor, buffered.SeasonalNote)
	}
	// round(280 * 1.5) = 420 covers after the multiplier.
	if buffered.EstimatedCovers != 420 {
		t.Fatalf("estimated covers = %d, want 420", buffered.EstimatedCovers)
	}
}

func TestGenerateSkipsClosedWeekday(t *testing.T) {
	fx := setup(t)
	seedProfile(t, fx, 0)

	result, err := fx.svc.Generate(context.Background(), "v1", "2026-03-02") // a Monday
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Skipped || result.SkipReason != "closed" {
		t.Fatalf("result = %+v, want closed skip", result)
	}
}

func TestGenerateSkipsWithoutProfile(t *testing.T) {
	fx := setup(t)

	result, err := fx.svc.Generate(context.Background(), "v1", "2026-03-04")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Skipped || result.SkipReason != "no_profile" {
		t.Fatalf("result = %+v, want no_profile skip", result)
	}
}
