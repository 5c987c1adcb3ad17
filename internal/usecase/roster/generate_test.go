package roster

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
	"shiftwise/internal/usecase/venue"
)

type fixture struct {
	db        *gorm.DB
	svc       *Service
	roster    *repository.RosterRepository
	forecasts *repository.ForecastRepository
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "roster.sqlite")
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
		&model.Position{}, &model.Employee{}, &model.ManagerOverride{},
		&model.WeeklySchedule{}, &model.ShiftAssignment{},
		&model.StaffingForecast{}, &model.DemandForecast{}, &model.DemandHistory{},
		&model.VenueConfig{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	venues := venue.NewResolver(repository.NewVenueConfigRepository(db), config.VenueDefaults{
		OpenHour:       15,
		CloseHour:      23,
		ClosedWeekdays: []int{0},
		MinServers:     2,
		MinBartenders:  1,
	})
	rosterRepo := repository.NewRosterRepository(db)
	forecasts := repository.NewForecastRepository(db)
	svc := NewService(rosterRepo, forecasts, repository.NewDemandRepository(db), venues,
		config.SchedulingConfig{
			Strategy:        "greedy",
			CostWeight:      0.4,
			QualityWeight:   0.4,
			RestDayPenalty:  0.25,
			SetupMinutes:    30,
			TeardownMinutes: 45,
			SplitThreshold:  4,
			BusserRatio:     0.5,
			RunnerRatio:     0.33,
		},
		config.SignalConfig{Timeout: 2 * time.Second},
	)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return fixture{db: db, svc: svc, roster: rosterRepo, forecasts: forecasts}
}

func seedStaff(t *testing.T, db *gorm.DB) {
	t.Helper()

	positions := []model.Position{
		{PositionID: "pos-server", VenueID: "v1", Name: "Server", Category: "front", BaseHourlyRate: 18, Active: true},
		{PositionID: "pos-bar", VenueID: "v1", Name: "Bartender", Category: "front", BaseHourlyRate: 20, Active: true},
	}
	if err := db.Create(&positions).Error; err != nil {
		t.Fatalf("seed positions: %v", err)
	}

	employees := []model.Employee{
		{EmployeeID: "e1", VenueID: "v1", FirstName: "Ana", LastName: "Silva", PositionID: "pos-server", MaxHoursPerWeek: 40, Active: true},
		{EmployeeID: "e2", VenueID: "v1", FirstName: "Ben", LastName: "Okafor", PositionID: "pos-server", MaxHoursPerWeek: 40, Active: true},
		{EmployeeID: "e3", VenueID: "v1", FirstName: "Cam", LastName: "Reyes", PositionID: "pos-server", MaxHoursPerWeek: 40, Active: true},
		{EmployeeID: "e4", VenueID: "v1", FirstName: "Dee", LastName: "Moss", PositionID: "pos-bar", MaxHoursPerWeek: 40, Active: true},
		{EmployeeID: "e5", VenueID: "v1", FirstName: "Eli", LastName: "Tran", PositionID: "pos-bar", MaxHoursPerWeek: 40, Active: true},
	}
	if err := db.Create(&employees).Error; err != nil {
		t.Fatalf("seed employees: %v", err)
	}
}

func seedTuesdayForecast(t *testing.T, fx fixture) {
	t.Helper()

	err := fx.forecasts.UpsertForecast(context.Background(), ports.ForecastRecord{
		VenueID:      "v1",
		ForecastDate: "2026-03-03",
		DayOfWeek:    1,
		Scenario:     "buffered",
		Hourly: []ports.ForecastHour{
			{Hour: 18, AdjustedCovers: 32, Servers: 2, Bartenders: 1, SeasonalFactor: 1},
			{Hour: 19, AdjustedCovers: 48, Servers: 3, Bartenders: 1, SeasonalFactor: 1},
			{Hour: 20, AdjustedCovers: 16, Servers: 1, Bartenders: 1, SeasonalFactor: 1},
		},
		PeakServers:      3,
		PeakBartenders:   1,
		EstimatedCovers:  120,
		EstimatedRevenue: 18000,
		ProfileVersion:   1,
	})
	if err != nil {
		t.Fatalf("seed forecast: %v", err)
	}
}

func TestGenerateWeek(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedStaff(t, fx.db)
	seedTuesdayForecast(t, fx)

	result, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	if result.Schedule.Status != "draft" || result.Schedule.OptimizationMode != "smart" {
		t.Fatalf("schedule = %+v, want a smart draft", result.Schedule)
	}
	if result.Schedule.WeekEnd != "2026-03-08" {
		t.Fatalf("week end = %s", result.Schedule.WeekEnd)
	}

	// Monday is dark. Tuesday has a forecast: two server waves (2 at 18:00,
	// 1 at 19:00) plus one bartender wave. The other five days fall back to
	// two of each position on the dinner template.
	if len(result.Assignments) != 24 {
		t.Fatalf("assignments = %d, want 24", len(result.Assignments))
	}
	if result.Unfilled != 0 {
		t.Fatalf("unfilled = %d, want 0", result.Unfilled)
	}
	if result.Schedule.QualityScore != 1 {
		t.Fatalf("quality = %v, want 1.0 with no shift over the coverage standard", result.Schedule.QualityScore)
	}

	var monday, waveSeats int
	totalHours := 0.0
	perDay := map[string]map[string]bool{}
	for _, a := range result.Assignments {
		totalHours += a.ScheduledHours
		if a.BusinessDate == "2026-03-02" {
			monday++
		}
		if a.BusinessDate == "2026-03-03" && a.PositionName == "Server" {
			waveSeats++
		}
		days := perDay[a.EmployeeID]
		if days == nil {
			days = map[string]bool{}
			perDay[a.EmployeeID] = days
		}
		if days[a.BusinessDate] {
			t.Fatalf("employee %s scheduled twice on %s", a.EmployeeID, a.BusinessDate)
		}
		days[a.BusinessDate] = true
		if a.ScheduledEnd.Before(a.ScheduledStart) {
			t.Fatalf("assignment ends before it starts: %+v", a)
		}
	}
	if monday != 0 {
		t.Fatalf("monday assignments = %d, want none on the closed day", monday)
	}
	if waveSeats != 3 {
		t.Fatalf("tuesday server seats = %d, want 3 from the waves", waveSeats)
	}
	if result.Schedule.TotalLaborHours != totalHours {
		t.Fatalf("total hours = %v, assignments sum to %v", result.Schedule.TotalLaborHours, totalHours)
	}
	if result.Schedule.ProjectedRevenue != 18000 {
		t.Fatalf("projected revenue = %v, want the forecast's 18000", result.Schedule.ProjectedRevenue)
	}
	if result.Schedule.LaborPct <= 0 {
		t.Fatalf("labor pct = %v, want positive", result.Schedule.LaborPct)
	}

	stored, assignments, err := fx.roster.GetSchedule(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("GetSchedule() error = %v", err)
	}
	if stored.ID != result.Schedule.ID || len(assignments) != 24 {
		t.Fatalf("stored = %s with %d assignments", stored.ID, len(assignments))
	}
}

func TestGenerateWeekRerunReplaces(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedStaff(t, fx.db)
	seedTuesdayForecast(t, fx)

	first, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("first GenerateWeek() error = %v", err)
	}
	second, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("second GenerateWeek() error = %v", err)
	}
	if first.Schedule.ID == second.Schedule.ID {
		t.Fatalf("rerun reused schedule id %s", first.Schedule.ID)
	}

	var scheduleCount, assignmentCount int64
	if err := fx.db.Model(&model.WeeklySchedule{}).Count(&scheduleCount).Error; err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	if err := fx.db.Model(&model.ShiftAssignment{}).Count(&assignmentCount).Error; err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if scheduleCount != 1 {
		t.Fatalf("schedules = %d, want the rerun to replace", scheduleCount)
	}
	if assignmentCount != int64(len(second.Assignments)) {
		t.Fatalf("assignments = %d, want %d with no orphans", assignmentCount, len(second.Assignments))
	}
}

func TestGenerateWeekFallbackMode(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedStaff(t, fx.db)

	result, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}
	if result.Schedule.OptimizationMode != "fallback" {
		t.Fatalf("mode = %s, want fallback with no forecasts at all", result.Schedule.OptimizationMode)
	}
	// Six open days, two servers and two bartenders each.
	if len(result.Assignments) != 24 {
		t.Fatalf("assignments = %d, want 24", len(result.Assignments))
	}
}

func TestGenerateWeekQualityCountsCoverageViolations(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedStaff(t, fx.db)
	seedTuesdayForecast(t, fx)

	// 200 predicted dinner covers against three scheduled servers blows the
	// 12 covers-per-server standard for that one (date, shift).
	signal := model.DemandForecast{
		VenueID:          "v1",
		BusinessDate:     "2026-03-03",
		ShiftType:        "dinner",
		PredictedCovers:  200,
		PredictedRevenue: 30000,
		Confidence:       0.8,
	}
	if err := fx.db.Create(&signal).Error; err != nil {
		t.Fatalf("seed demand signal: %v", err)
	}

	result, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	if result.Unfilled != 0 {
		t.Fatalf("unfilled = %d, want 0", result.Unfilled)
	}
	if result.Schedule.QualityScore != 0.9 {
		t.Fatalf("quality = %v, want 0.9 after one covers-per-server violation", result.Schedule.QualityScore)
	}
	if result.Schedule.ProjectedRevenue != 30000 {
		t.Fatalf("projected revenue = %v, want the signal's 30000", result.Schedule.ProjectedRevenue)
	}
}

func TestGenerateWeekLearnsFromOverrides(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedStaff(t, fx.db)
	seedTuesdayForecast(t, fx)

	// Three "added" overrides for the bartender dinner shift on past
	// Tuesdays is a clear signal; the learned +1 lands on the Tuesday wave.
	overrides := []model.ManagerOverride{
		{VenueID: "v1", BusinessDate: "2026-02-10", PositionName: "Bartender", ShiftType: "dinner", Action: "added_shift"},
		{VenueID: "v1", BusinessDate: "2026-02-17", PositionName: "Bartender", ShiftType: "dinner", Action: "added_shift"},
		{VenueID: "v1", BusinessDate: "2026-02-24", PositionName: "Bartender", ShiftType: "dinner", Action: "added_shift"},
	}
	if err := fx.db.Create(&overrides).Error; err != nil {
		t.Fatalf("seed overrides: %v", err)
	}

	result, err := fx.svc.GenerateWeek(ctx, "v1", "2026-03-02")
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}

	bartenders := 0
	for _, a := range result.Assignments {
		if a.BusinessDate == "2026-03-03" && a.PositionName == "Bartender" {
			bartenders++
		}
	}
	if bartenders != 2 {
		t.Fatalf("tuesday bartender seats = %d, want the learned extra for 2", bartenders)
	}
}

func TestGenerateWeekWithoutPositions(t *testing.T) {
	fx := setup(t)

	_, err := fx.svc.GenerateWeek(context.Background(), "v1", "2026-03-02")
	if err == nil {
		t.Fatalf("GenerateWeek() expected an error with no positions")
	}
}
