package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

// DemandRepository serves forecast rows written by an external demand
// forecaster, plus the realized history used as a fallback signal.
type DemandRepository struct {
	db *gorm.DB
}

func NewDemandRepository(db *gorm.DB) *DemandRepository {
	return &DemandRepository{db: db}
}

func (r *DemandRepository) List(ctx context.Context, venueID, startDate, endDate string) ([]ports.DemandSignalRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.DemandForecast
	if err := db.
		Where("venue_id = ? AND business_date >= ? AND business_date <= ?", venueID, startDate, endDate).
		Order("business_date asc, shift_type asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query demand forecasts")
	}

	items := make([]ports.DemandSignalRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DemandSignalRecord{
			VenueID:          row.VenueID,
			BusinessDate:     row.BusinessDate,
			ShiftType:        row.ShiftType,
			PredictedCovers:  row.PredictedCovers,
			PredictedRevenue: row.PredictedRevenue,
			Confidence:       row.Confidence,
		})
	}
	return items, nil
}

func (r *DemandRepository) ListHistory(ctx context.Context, venueID, sinceDate string) ([]ports.DemandHistoryRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.DemandHistory
	if err := db.
		Where("venue_id = ? AND business_date >= ?", venueID, sinceDate).
		Order("business_date asc, shift_type asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query demand history")
	}

	items := make([]ports.DemandHistoryRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DemandHistoryRecord{
			VenueID:       row.VenueID,
			BusinessDate:  row.BusinessDate,
			ShiftType:     row.ShiftType,
			ActualCovers:  row.ActualCovers,
			ActualRevenue: row.ActualRevenue,
		})
	}
	return items, nil
}
