package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) UpsertAlerts(ctx context.Context, rows []ports.AlertRecord) error {
	if len(rows) == 0 {
		return nil
	}

	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	models := make([]model.Alert, 0, len(rows))
	for _, a := range rows {
		hourSlot := -1
		if a.HourSlot != nil {
			hourSlot = *a.HourSlot
		}
		models = append(models, model.Alert{
			VenueID:            a.VenueID,
			AlertDate:          a.AlertDate,
			HourSlot:           hourSlot,
			AlertType:          a.AlertType,
			Severity:           a.Severity,
			Message:            a.Message,
			ActualCovers:       a.ActualCovers,
			RecommendedServers: a.RecommendedServers,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "venue_id"}, {Name: "alert_date"},
			{Name: "hour_slot"}, {Name: "alert_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"severity", "message", "actual_covers", "recommended_servers",
		}),
	}).Create(&models).Error; err != nil {
		return errs.Wrap(err, "upsert alerts")
	}
	return nil
}

func (r *AlertRepository) ListForDate(ctx context.Context, venueID, date string) ([]ports.AlertRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Alert
	if err := db.
		Where("venue_id = ? AND alert_date = ?", venueID, date).
		Order("hour_slot asc, alert_type asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query alerts")
	}

	items := make([]ports.AlertRecord, 0, len(rows))
	for _, row := range rows {
		var hourSlot *int
		if row.HourSlot >= 0 {
			slot := row.HourSlot
			hourSlot = &slot
		}
		items = append(items, ports.AlertRecord{
			VenueID:            row.VenueID,
			AlertDate:          row.AlertDate,
			HourSlot:           hourSlot,
			AlertType:          row.AlertType,
			Severity:           row.Severity,
			Message:            row.Message,
			ActualCovers:       row.ActualCovers,
			RecommendedServers: row.RecommendedServers,
		})
	}
	return items, nil
}
