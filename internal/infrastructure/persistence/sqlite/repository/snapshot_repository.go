package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) ReplaceForDate(ctx context.Context, venueID, businessDate string, rows []ports.SnapshotRecord) error {
	if ports.TxFromContext(ctx) != nil {
		return r.replaceForDate(ctx, venueID, businessDate, rows)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.replaceForDate(ports.WithTxContext(ctx, tx), venueID, businessDate, rows)
	})
}

func (r *SnapshotRepository) replaceForDate(ctx context.Context, venueID, businessDate string, rows []ports.SnapshotRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.
		Where("venue_id = ? AND business_date = ?", venueID, businessDate).
		Delete(&model.HourlySnapshot{}).Error; err != nil {
		return errs.Wrap(err, "delete snapshots")
	}
	if len(rows) == 0 {
		return nil
	}

	models := make([]model.HourlySnapshot, 0, len(rows))
	for _, s := range rows {
		models = append(models, model.HourlySnapshot{
			VenueID:             s.VenueID,
			BusinessDate:        s.BusinessDate,
			HourSlot:            s.HourSlot,
			DayOfWeek:           s.DayOfWeek,
			ActiveCovers:        s.ActiveCovers,
			ActiveTables:        s.ActiveTables,
			NewCovers:           s.NewCovers,
			DepartingCovers:     s.DepartingCovers,
			ServersFirstPass:    s.ServersFirstPass,
			BartendersFirstPass: s.BartendersFirstPass,
		})
	}
	if err := db.Create(&models).Error; err != nil {
		return errs.Wrap(err, "insert snapshots")
	}
	return nil
}

func (r *SnapshotRepository) ListForDate(ctx context.Context, venueID, businessDate string) ([]ports.SnapshotRecord, error) {
	return r.list(ctx, "venue_id = ? AND business_date = ?", venueID, businessDate)
}

func (r *SnapshotRepository) ListSince(ctx context.Context, venueID, startDate string) ([]ports.SnapshotRecord, error) {
	return r.list(ctx, "venue_id = ? AND business_date >= ?", venueID, startDate)
}

func (r *SnapshotRepository) ListBetween(ctx context.Context, venueID, startDate, endDate string) ([]ports.SnapshotRecord, error) {
	return r.list(ctx, "venue_id = ? AND business_date >= ? AND business_date <= ?", venueID, startDate, endDate)
}

func (r *SnapshotRepository) list(ctx context.Context, cond string, args ...any) ([]ports.SnapshotRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.HourlySnapshot
	if err := db.
		Where(cond, args...).
		Order("business_date asc, hour_slot asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query snapshots")
	}

	items := make([]ports.SnapshotRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.SnapshotRecord{
			VenueID:             row.VenueID,
			BusinessDate:        row.BusinessDate,
			HourSlot:            row.HourSlot,
			DayOfWeek:           row.DayOfWeek,
			ActiveCovers:        row.ActiveCovers,
			ActiveTables:        row.ActiveTables,
			NewCovers:           row.NewCovers,
			DepartingCovers:     row.DepartingCovers,
			ServersFirstPass:    row.ServersFirstPass,
			BartendersFirstPass: row.BartendersFirstPass,
		})
	}
	return items, nil
}
