package snapshot

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

func setupService(t *testing.T) (*Service, *repository.CheckRepository, *repository.SnapshotRepository) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "snapshot.sqlite")
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
	if err := db.AutoMigrate(&model.Check{}, &model.HourlySnapshot{}, &model.VenueConfig{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	checks := repository.NewCheckRepository(db)
	snapshots := repository.NewSnapshotRepository(db)
	venues := venue.NewResolver(repository.NewVenueConfigRepository(db), config.VenueDefaults{
		OpenHour:           15,
		CloseHour:          23,
		CoversPerServer:    16,
		CoversPerBartender: 30,
		BufferPct:          0.10,
		MinServers:         2,
		MinBartenders:      1,
	})
	return NewService(checks, snapshots, venues), checks, snapshots
}

func seedChecks(t *testing.T, checks *repository.CheckRepository) {
	t.Helper()

	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 6, hour, minute, 0, 0, time.UTC)
	}
	rows := []ports.CheckRecord{
		{VenueID: "v1", BusinessDate: "2026-03-06", ExternalID: "a", OpenTime: at(18, 0), CloseTime: at(19, 30), GuestCount: 4, TotalAmount: 180},
		{VenueID: "v1", BusinessDate: "2026-03-06", ExternalID: "b", OpenTime: at(19, 0), CloseTime: at(20, 0), GuestCount: 2, TotalAmount: 95},
	}
	if err := checks.UpsertChecks(context.Background(), rows); err != nil {
		t.Fatalf("seed checks: %v", err)
	}
}

func TestBuildDate(t *testing.T) {
	svc, checks, snapshots := setupService(t)
	ctx := context.Background()
	seedChecks(t, checks)

	hours, err := svc.BuildDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("BuildDate() error = %v", err)
	}
	if hours != 9 {
		t.Fatalf("BuildDate() hours = %d, want 9 (15..23)", hours)
	}

	rows, err := snapshots.ListForDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("ListForDate() error = %v", err)
	}

	byHour := map[int]ports.SnapshotRecord{}
	for _, row := range rows {
		byHour[row.HourSlot] = row
	}

	// 2026-03-06 is a Friday: weekday 4 in 0=Monday numbering.
	if byHour[18].DayOfWeek != 4 {
		t.Fatalf("day_of_week = %d, want 4", byHour[18].DayOfWeek)
	}

	// At 18:30 only the four-top is seated; at 19:30 it has left and the
	// two-top remains.
	if byHour[18].ActiveCovers != 4 || byHour[18].NewCovers != 4 {
		t.Fatalf("hour 18 = %+v, want active 4 new 4", byHour[18])
	}
	if byHour[19].ActiveCovers != 2 || byHour[19].NewCovers != 2 || byHour[19].DepartingCovers != 4 {
		t.Fatalf("hour 19 = %+v, want active 2 new 2 departing 4", byHour[19])
	}
	if byHour[20].ActiveCovers != 0 || byHour[20].DepartingCovers != 2 {
		t.Fatalf("hour 20 = %+v, want active 0 departing 2", byHour[20])
	}

	// Dead hours still carry the staffing floors.
	if byHour[15].ServersFirstPass != 2 || byHour[15].BartendersFirstPass != 1 {
		t.Fatalf("hour 15 floors = %+v", byHour[15])
	}
}

func TestBuildDateWithoutChecksLeavesSnapshots(t *testing.T) {
	svc, _, snapshots := setupService(t)
	ctx := context.Background()

	hours, err := svc.BuildDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("BuildDate() error = %v", err)
	}
	if hours != 0 {
		t.Fatalf("BuildDate() hours = %d, want 0", hours)
	}

	rows, err := snapshots.ListForDate(ctx, "v1", "2026-03-06")
	if err != nil {
		t.Fatalf("ListForDate() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("snapshots = %d, want none", len(rows))
	}
}

func TestBackfill(t *testing.T) {
	svc, checks, snapshots := setupService(t)
	ctx := context.Background()
	seedChecks(t, checks)

	open := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	if err := checks.UpsertChecks(ctx, []ports.CheckRecord{
		{VenueID: "v1", BusinessDate: "2026-03-07", ExternalID: "c", OpenTime: open, CloseTime: open.Add(time.Hour), GuestCount: 6},
	}); err != nil {
		t.Fatalf("seed second date: %v", err)
	}

	days, err := svc.Backfill(ctx, "v1", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if days != 2 {
		t.Fatalf("Backfill() days = %d, want 2", days)
	}

	rows, err := snapshots.ListBetween(ctx, "v1", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("ListBetween() error = %v", err)
	}
	if len(rows) != 18 {
		t.Fatalf("snapshot rows = %d, want 18", len(rows))
	}
}
