package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) LatestVersion(ctx context.Context, venueID string) (int, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var version *int
	if err := db.Model(&model.StaffingProfile{}).
		Select("max(profile_version)").
		Where("venue_id = ?", venueID).
		Scan(&version).Error; err != nil {
		return 0, errs.Wrap(err, "query latest profile version")
	}
	if version == nil {
		return 0, ports.ErrNoData
	}
	return *version, nil
}

func (r *ProfileRepository) InsertProfiles(ctx context.Context, rows []ports.ProfileRecord) error {
	if len(rows) == 0 {
		return nil
	}

	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	models := make([]model.StaffingProfile, 0, len(rows))
	for _, p := range rows {
		models = append(models, model.StaffingProfile{
			VenueID:            p.VenueID,
			DayOfWeek:          p.DayOfWeek,
			HourSlot:           p.HourSlot,
			ProfileVersion:     p.ProfileVersion,
			SampleCount:        p.SampleCount,
			RangeStart:         p.RangeStart,
			RangeEnd:           p.RangeEnd,
			AvgActiveCovers:    p.AvgActiveCovers,
			P50ActiveCovers:    p.P50ActiveCovers,
			P75ActiveCovers:    p.P75ActiveCovers,
			P90ActiveCovers:    p.P90ActiveCovers,
			MaxActiveCovers:    p.MaxActiveCovers,
			StddevActiveCovers: p.StddevActiveCovers,
			AvgNewCovers:       p.AvgNewCovers,
			P75NewCovers:       p.P75NewCovers,
			ServersLean:        p.ServersLean,
			ServersBuffered:    p.ServersBuffered,
			ServersSafe:        p.ServersSafe,
			BartendersLean:     p.BartendersLean,
			BartendersBuffered: p.BartendersBuffered,
			BartendersSafe:     p.BartendersSafe,
		})
	}

	// Versions are append-only; a conflict means the same build ran twice,
	// in which case the fresh rows win.
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "venue_id"}, {Name: "day_of_week"},
			{Name: "hour_slot"}, {Name: "profile_version"},
		},
		UpdateAll: true,
	}).Create(&models).Error; err != nil {
		return errs.Wrap(err, "insert profiles")
	}
	return nil
}

func (r *ProfileRepository) ListVersionForWeekday(ctx context.Context, venueID string, version, dayOfWeek int) ([]ports.ProfileRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.StaffingProfile
	if err := db.
		Where("venue_id = ? AND profile_version = ? AND day_of_week = ?", venueID, version, dayOfWeek).
		Order("hour_slot asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query profiles")
	}
	if len(rows) == 0 {
		return nil, ports.ErrNoProfile
	}

	items := make([]ports.ProfileRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ProfileRecord{
			VenueID:            row.VenueID,
			DayOfWeek:          row.DayOfWeek,
			HourSlot:           row.HourSlot,
			ProfileVersion:     row.ProfileVersion,
			SampleCount:        row.SampleCount,
			RangeStart:         row.RangeStart,
			RangeEnd:           row.RangeEnd,
			AvgActiveCovers:    row.AvgActiveCovers,
			P50ActiveCovers:    row.P50ActiveCovers,
			P75ActiveCovers:    row.P75ActiveCovers,
			P90ActiveCovers:    row.P90ActiveCovers,
			MaxActiveCovers:    row.MaxActiveCovers,
			StddevActiveCovers: row.StddevActiveCovers,
			AvgNewCovers:       row.AvgNewCovers,
			P75NewCovers:       row.P75NewCovers,
			ServersLean:        row.ServersLean,
			ServersBuffered:    row.ServersBuffered,
			ServersSafe:        row.ServersSafe,
			BartendersLean:     row.BartendersLean,
			BartendersBuffered: row.BartendersBuffered,
			BartendersSafe:     row.BartendersSafe,
		})
	}
	return items, nil
}
