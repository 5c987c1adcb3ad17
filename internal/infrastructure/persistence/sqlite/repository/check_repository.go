package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type CheckRepository struct {
	db *gorm.DB
}

func NewCheckRepository(db *gorm.DB) *CheckRepository {
	return &CheckRepository{db: db}
}

func (r *CheckRepository) UpsertChecks(ctx context.Context, checks []ports.CheckRecord) error {
	if len(checks) == 0 {
		return nil
	}

	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	rows := make([]model.Check, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, model.Check{
			VenueID:        c.VenueID,
			BusinessDate:   c.BusinessDate,
			ExternalID:     c.ExternalID,
			OpenTime:       c.OpenTime,
			CloseTime:      c.CloseTime,
			GuestCount:     c.GuestCount,
			TotalAmount:    c.TotalAmount,
			CloseEstimated: c.CloseEstimated,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "venue_id"}, {Name: "external_check_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"business_date", "open_time", "close_time",
			"guest_count", "total_amount", "close_estimated",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert checks")
	}
	return nil
}

func (r *CheckRepository) ListChecks(ctx context.Context, venueID, businessDate string) ([]ports.CheckRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Check
	if err := db.
		Where("venue_id = ? AND business_date = ?", venueID, businessDate).
		Order("open_time asc, check_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query checks")
	}

	items := make([]ports.CheckRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CheckRecord{
			ID:             row.CheckID,
			VenueID:        row.VenueID,
			BusinessDate:   row.BusinessDate,
			ExternalID:     row.ExternalID,
			OpenTime:       row.OpenTime,
			CloseTime:      row.CloseTime,
			GuestCount:     row.GuestCount,
			TotalAmount:    row.TotalAmount,
			CloseEstimated: row.CloseEstimated,
		})
	}
	return items, nil
}

func (r *CheckRepository) ListCheckDates(ctx context.Context, venueID, startDate, endDate string) ([]string, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var dates []string
	if err := db.Model(&model.Check{}).
		Distinct("business_date").
		Where("venue_id = ? AND business_date >= ? AND business_date <= ?", venueID, startDate, endDate).
		Order("business_date asc").
		Pluck("business_date", &dates).Error; err != nil {
		return nil, errs.Wrap(err, "query check dates")
	}
	return dates, nil
}
