package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type SeasonalRepository struct {
	db *gorm.DB
}

func NewSeasonalRepository(db *gorm.DB) *SeasonalRepository {
	return &SeasonalRepository{db: db}
}

// Lookup prefers a venue row over a global row for the same date and
// returns ports.ErrNoData when neither exists.
func (r *SeasonalRepository) Lookup(ctx context.Context, venueID, date string) (ports.SeasonalRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return ports.SeasonalRecord{}, err
	}

	var rows []model.SeasonalFactor
	if err := db.
		Where("factor_date = ? AND (venue_id = ? OR venue_id IS NULL)", date, venueID).
		Order("venue_id desc").
		Limit(1).
		Find(&rows).Error; err != nil {
		return ports.SeasonalRecord{}, errs.Wrap(err, "query seasonal factor")
	}
	if len(rows) == 0 {
		return ports.SeasonalRecord{}, ports.ErrNoData
	}
	return mapSeasonal(rows[0])
}

func (r *SeasonalRepository) UpsertFactor(ctx context.Context, row ports.SeasonalRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	hourly := ""
	if len(row.HourMultipliers) > 0 {
		keyed := make(map[string]float64, len(row.HourMultipliers))
		for hour, m := range row.HourMultipliers {
			keyed[strconv.Itoa(hour)] = m
		}
		raw, err := json.Marshal(keyed)
		if err != nil {
			return errs.Wrap(err, "encode hourly multipliers")
		}
		hourly = string(raw)
	}

	record := model.SeasonalFactor{
		VenueID:           row.VenueID,
		FactorDate:        row.Date,
		EventName:         row.EventName,
		Multiplier:        row.Multiplier,
		HourlyMultipliers: hourly,
		Notes:             row.Notes,
	}

	// SQLite treats NULLs as distinct in unique indexes, so the global row
	// needs an explicit update-or-insert instead of ON CONFLICT.
	if row.VenueID == nil {
		res := db.Model(&model.SeasonalFactor{}).
			Where("venue_id IS NULL AND factor_date = ?", row.Date).
			Updates(map[string]any{
				"event_name":         record.EventName,
				"multiplier":         record.Multiplier,
				"hourly_multipliers": record.HourlyMultipliers,
				"notes":              record.Notes,
			})
		if res.Error != nil {
			return errs.Wrap(res.Error, "update seasonal factor")
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := db.Create(&record).Error; err != nil {
			return errs.Wrap(err, "insert seasonal factor")
		}
		return nil
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venue_id"}, {Name: "factor_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"event_name", "multiplier", "hourly_multipliers", "notes",
		}),
	}).Create(&record).Error; err != nil {
		return errs.Wrap(err, "upsert seasonal factor")
	}
	return nil
}

func mapSeasonal(row model.SeasonalFactor) (ports.SeasonalRecord, error) {
	record := ports.SeasonalRecord{
		VenueID:    row.VenueID,
		Date:       row.FactorDate,
		EventName:  row.EventName,
		Multiplier: row.Multiplier,
		Notes:      row.Notes,
	}
	if row.HourlyMultipliers != "" {
		keyed := map[string]float64{}
		if err := json.Unmarshal([]byte(row.HourlyMultipliers), &keyed); err != nil {
			return ports.SeasonalRecord{}, errs.Wrap(err, "decode hourly multipliers")
		}
		record.HourMultipliers = make(map[int]float64, len(keyed))
		for key, m := range keyed {
			hour, err := strconv.Atoi(key)
			if err != nil {
				return ports.SeasonalRecord{}, errs.Wrapf(err, "decode hour key %q", key)
			}
			record.HourMultipliers[hour] = m
		}
	}
	return record, nil
}
