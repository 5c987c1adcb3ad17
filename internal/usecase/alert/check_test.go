package alert

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

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
	snapshots *repository.SnapshotRepository
	profiles  *repository.ProfileRepository
	alerts    *repository.AlertRepository
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "alert.sqlite")
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
		&model.HourlySnapshot{}, &model.StaffingProfile{}, &model.Alert{}, &model.VenueConfig{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	venues := venue.NewResolver(repository.NewVenueConfigRepository(db), config.VenueDefaults{
		OpenHour:        15,
		CloseHour:       23,
		CoversPerServer: 16,
		BufferPct:       0.10,
		ClosedWeekdays:  []int{0},
		MinServers:      2,
	})

	snapshots := repository.NewSnapshotRepository(db)
	profiles := repository.NewProfileRepository(db)
	alerts := repository.NewAlertRepository(db)
	profileSvc := profile.NewService(snapshots, profiles, venues, config.ProfileConfig{LookbackWeeks: 8, MinSamples: 3})
	return fixture{
		svc:       NewService(snapshots, profileSvc, alerts, venues),
		snapshots: snapshots,
		profiles:  profiles,
		alerts:    alerts,
	}
}

func seedProfile(t *testing.T, fx fixture) {
	t.Helper()

	var rows []ports.ProfileRecord
	for _, hour := range []int{18, 19, 20} {
		rows = append(rows, ports.ProfileRecord{
			VenueID:         "v1",
			DayOfWeek:       4,
			HourSlot:        hour,
			ProfileVersion:  1,
			SampleCount:     8,
			P50ActiveCovers: 80,
			P90ActiveCovers: 100,
			ServersBuffered: 5,
		})
	}
	if err := fx.profiles.InsertProfiles(context.Background(), rows); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func byTypeAndHour(alerts []ports.AlertRecord) map[string]ports.AlertRecord {
	out := map[string]ports.AlertRecord{}
	for _, a := range alerts {
		key := a.AlertType
		if a.HourSlot != nil {
			key = fmtKey(a.AlertType, *a.HourSlot)
		}
		out[key] = a
	}
	return out
}

func fmtKey(alertType string, hour int) string {
	return fmt.Sprintf("%s@%d", alertType, hour)
}

func TestCheckDateFlagsAnomalies(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedProfile(t, fx)

	err := fx.snapshots.ReplaceForDate(ctx, "v1", "2026-03-06", []ports.SnapshotRecord{
		{VenueID: "v1", BusinessDate: "2026-03-06", HourSlot: 18, DayOfWeek: 4, ActiveCovers: 30},
		{VenueID: "v1", BusinessDate: "2026-03-06", HourSlot: 19, DayOfWeek: 4, ActiveCovers: 155},
		{VenueID: "v1", BusinessDate: "2026-03-06", HourSlot: 20, DayOfWeek: 4, ActiveCovers: 90},
	})
	if err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	alerts, err := fx.svc.CheckDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("CheckDate() error = %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("alerts = %d, want 3: %+v", len(alerts), alerts)
	}
	got := byTypeAndHour(alerts)

	// 155 covers against a p90 of 100 clears the 1.5x critical bar.
	spike, ok := got[fmtKey(TypeDemandSpike, 19)]
	if !ok || spike.Severity != SeverityCritical {
		t.Fatalf("demand spike = %+v", spike)
	}
	// needed ceil(155/16) = 10 against 5 planned servers.
	under, ok := got[fmtKey(TypeUnderstaffed, 19)]
	if !ok || under.Severity != SeverityCritical {
		t.Fatalf("understaffed = %+v", under)
	}
	// 30 covers is under half the p50 of 80.
	drop, ok := got[fmtKey(TypeDemandDrop, 18)]
	if !ok || drop.Severity != SeverityInfo {
		t.Fatalf("demand drop = %+v", drop)
	}
	// Hour 20 sits inside every band and raises nothing.
	if _, ok := got[fmtKey(TypeDemandSpike, 20)]; ok {
		t.Fatalf("hour 20 should be quiet")
	}
}

func TestCheckDateRerunRefreshesInsteadOfDuplicating(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	seedProfile(t, fx)

	err := fx.snapshots.ReplaceForDate(ctx, "v1", "2026-03-06", []ports.SnapshotRecord{
		{VenueID: "v1", BusinessDate: "2026-03-06", HourSlot: 19, DayOfWeek: 4, ActiveCovers: 155},
	})
	if err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := fx.svc.CheckDate(ctx, "v1", "2026-03-06"); err != nil {
			t.Fatalf("CheckDate() #%d error = %v", i+1, err)
		}
	}

	stored, err := fx.alerts.ListForDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("ListForDate() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored alerts = %d, want 2 (spike + understaffed)", len(stored))
	}
}

func TestCheckDateWithoutSnapshots(t *testing.T) {
	fx := setup(t)

	alerts, err := fx.svc.CheckDate(context.Background(), "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("CheckDate() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].AlertType != TypeNoData || alerts[0].Severity != SeverityWarning {
		t.Fatalf("alerts = %+v, want a single no_data warning", alerts)
	}
	if alerts[0].HourSlot != nil {
		t.Fatalf("no_data alert should be date-level")
	}
}

func TestCheckDateWithoutProfile(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	err := fx.snapshots.ReplaceForDate(ctx, "v1", "2026-03-06", []ports.SnapshotRecord{
		{VenueID: "v1", BusinessDate: "2026-03-06", HourSlot: 19, DayOfWeek: 4, ActiveCovers: 60},
	})
	if err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	alerts, err := fx.svc.CheckDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("CheckDate() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].AlertType != TypeNoProfile || alerts[0].Severity != SeverityInfo {
		t.Fatalf("alerts = %+v, want a single no_profile info", alerts)
	}
}

func TestCheckDateSkipsClosedWeekday(t *testing.T) {
	fx := setup(t)

	alerts, err := fx.svc.CheckDate(context.Background(), "v1", "2026-03-02") // a Monday
	if err != nil {
		t.Fatalf("CheckDate() error = %v", err)
	}
	if alerts != nil {
		t.Fatalf("alerts = %+v, want none on a dark day", alerts)
	}
}
