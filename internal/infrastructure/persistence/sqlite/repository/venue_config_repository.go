package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type VenueConfigRepository struct {
	db *gorm.DB
}

func NewVenueConfigRepository(db *gorm.DB) *VenueConfigRepository {
	return &VenueConfigRepository{db: db}
}

func (r *VenueConfigRepository) Get(ctx context.Context, venueID string) (ports.VenueConfigRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return ports.VenueConfigRecord{}, err
	}

	var row model.VenueConfig
	if err := db.Where("venue_id = ?", venueID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VenueConfigRecord{}, ports.ErrNoVenueConfig
		}
		return ports.VenueConfigRecord{}, errs.Wrap(err, "query venue config")
	}

	peak, err := parseWeekdays(row.PeakWeekdays)
	if err != nil {
		return ports.VenueConfigRecord{}, errs.Wrapf(err, "venue %s peak weekdays", venueID)
	}
	closed, err := parseWeekdays(row.ClosedWeekdays)
	if err != nil {
		return ports.VenueConfigRecord{}, errs.Wrapf(err, "venue %s closed weekdays", venueID)
	}

	return ports.VenueConfigRecord{
		VenueID:            row.VenueID,
		OpenHour:           row.OpenHour,
		CloseHour:          row.CloseHour,
		CoversPerServer:    row.CoversPerServer,
		CoversPerBartender: row.CoversPerBartender,
		BufferPct:          row.BufferPct,
		PeakBufferPct:      row.PeakBufferPct,
		PeakWeekdays:       peak,
		ClosedWeekdays:     closed,
		MinServers:         row.MinServers,
		MinBartenders:      row.MinBartenders,
		AvgHourlyRate:      row.AvgHourlyRate,
		AvgRevenuePerCover: row.AvgRevenuePerCover,
		DwellMinutes:       row.DwellMinutes,
	}, nil
}

func (r *VenueConfigRepository) Upsert(ctx context.Context, row ports.VenueConfigRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	record := model.VenueConfig{
		VenueID:            row.VenueID,
		OpenHour:           row.OpenHour,
		CloseHour:          row.CloseHour,
		CoversPerServer:    row.CoversPerServer,
		CoversPerBartender: row.CoversPerBartender,
		BufferPct:          row.BufferPct,
		PeakBufferPct:      row.PeakBufferPct,
		PeakWeekdays:       formatWeekdays(row.PeakWeekdays),
		ClosedWeekdays:     formatWeekdays(row.ClosedWeekdays),
		MinServers:         row.MinServers,
		MinBartenders:      row.MinBartenders,
		AvgHourlyRate:      row.AvgHourlyRate,
		AvgRevenuePerCover: row.AvgRevenuePerCover,
		DwellMinutes:       row.DwellMinutes,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "venue_id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return errs.Wrap(err, "upsert venue config")
	}
	return nil
}

func parseWeekdays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func formatWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}
