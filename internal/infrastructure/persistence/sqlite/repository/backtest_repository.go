package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type BacktestRepository struct {
	db *gorm.DB
}

func NewBacktestRepository(db *gorm.DB) *BacktestRepository {
	return &BacktestRepository{db: db}
}

func (r *BacktestRepository) UpsertResult(ctx context.Context, row ports.BacktestRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	detail, err := json.Marshal(row.Hourly)
	if err != nil {
		return errs.Wrap(err, "encode backtest detail")
	}

	record := model.BacktestResult{
		VenueID:           row.VenueID,
		BusinessDate:      row.BusinessDate,
		Scenario:          row.Scenario,
		BacktestType:      row.BacktestType,
		HoursAnalyzed:     row.HoursAnalyzed,
		HoursAdequate:     row.HoursAdequate,
		HoursUnderstaffed: row.HoursUnderstaffed,
		HoursOverstaffed:  row.HoursOverstaffed,
		CoveragePct:       row.CoveragePct,
		AccuracyPct:       row.AccuracyPct,
		WastedLaborHours:  row.WastedLaborHours,
		WastedLaborCost:   row.WastedLaborCost,
		UnderstaffedHours: row.UnderstaffedHours,
		HourlyDetail:      string(detail),
		ProfileVersion:    row.ProfileVersion,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "venue_id"}, {Name: "business_date"},
			{Name: "scenario"}, {Name: "backtest_type"},
		},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return errs.Wrap(err, "upsert backtest result")
	}
	return nil
}

func (r *BacktestRepository) ListResults(ctx context.Context, venueID, startDate, endDate string) ([]ports.BacktestRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.BacktestResult
	if err := db.
		Where("venue_id = ? AND business_date >= ? AND business_date <= ?", venueID, startDate, endDate).
		Order("business_date asc, scenario asc, backtest_type asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query backtest results")
	}

	items := make([]ports.BacktestRecord, 0, len(rows))
	for _, row := range rows {
		var hourly []ports.BacktestHour
		if row.HourlyDetail != "" {
			if err := json.Unmarshal([]byte(row.HourlyDetail), &hourly); err != nil {
				return nil, errs.Wrap(err, "decode backtest detail")
			}
		}
		items = append(items, ports.BacktestRecord{
			VenueID:           row.VenueID,
			BusinessDate:      row.BusinessDate,
			Scenario:          row.Scenario,
			BacktestType:      row.BacktestType,
			HoursAnalyzed:     row.HoursAnalyzed,
			HoursAdequate:     row.HoursAdequate,
			HoursUnderstaffed: row.HoursUnderstaffed,
			HoursOverstaffed:  row.HoursOverstaffed,
			CoveragePct:       row.CoveragePct,
			AccuracyPct:       row.AccuracyPct,
			WastedLaborHours:  row.WastedLaborHours,
			WastedLaborCost:   row.WastedLaborCost,
			UnderstaffedHours: row.UnderstaffedHours,
			Hourly:            hourly,
			ProfileVersion:    row.ProfileVersion,
		})
	}
	return items, nil
}
