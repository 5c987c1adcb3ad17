package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type ForecastRepository struct {
	db *gorm.DB
}

func NewForecastRepository(db *gorm.DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

func (r *ForecastRepository) UpsertForecast(ctx context.Context, row ports.ForecastRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	detail, err := json.Marshal(row.Hourly)
	if err != nil {
		return errs.Wrap(err, "encode forecast detail")
	}

	record := model.StaffingForecast{
		VenueID:          row.VenueID,
		ForecastDate:     row.ForecastDate,
		Scenario:         row.Scenario,
		DayOfWeek:        row.DayOfWeek,
		PeakServers:      row.PeakServers,
		PeakBartenders:   row.PeakBartenders,
		TotalLaborHours:  row.TotalLaborHours,
		EstimatedCost:    row.EstimatedCost,
		EstimatedCovers:  row.EstimatedCovers,
		EstimatedRevenue: row.EstimatedRevenue,
		HourlyDetail:     string(detail),
		SeasonalFactor:   row.SeasonalFactor,
		SeasonalNote:     row.SeasonalNote,
		ProfileVersion:   row.ProfileVersion,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "venue_id"}, {Name: "forecast_date"}, {Name: "scenario"},
		},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return errs.Wrap(err, "upsert forecast")
	}
	return nil
}

func (r *ForecastRepository) GetForecast(ctx context.Context, venueID, date, scenario string) (ports.ForecastRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return ports.ForecastRecord{}, err
	}

	var row model.StaffingForecast
	if err := db.
		Where("venue_id = ? AND forecast_date = ? AND scenario = ?", venueID, date, scenario).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ForecastRecord{}, ports.ErrNoData
		}
		return ports.ForecastRecord{}, errs.Wrap(err, "query forecast")
	}

	var hourly []ports.ForecastHour
	if row.HourlyDetail != "" {
		if err := json.Unmarshal([]byte(row.HourlyDetail), &hourly); err != nil {
			return ports.ForecastRecord{}, errs.Wrap(err, "decode forecast detail")
		}
	}

	return ports.ForecastRecord{
		VenueID:          row.VenueID,
		ForecastDate:     row.ForecastDate,
		DayOfWeek:        row.DayOfWeek,
		Scenario:         row.Scenario,
		PeakServers:      row.PeakServers,
		PeakBartenders:   row.PeakBartenders,
		TotalLaborHours:  row.TotalLaborHours,
		EstimatedCost:    row.EstimatedCost,
		EstimatedCovers:  row.EstimatedCovers,
		EstimatedRevenue: row.EstimatedRevenue,
		Hourly:           hourly,
		SeasonalFactor:   row.SeasonalFactor,
		SeasonalNote:     row.SeasonalNote,
		ProfileVersion:   row.ProfileVersion,
	}, nil
}
