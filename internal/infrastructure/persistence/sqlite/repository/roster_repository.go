package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shiftwise/internal/errs"
	"shiftwise/internal/infrastructure/persistence/sqlite/model"
	"shiftwise/internal/ports"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListPositions(ctx context.Context, venueID string) ([]ports.PositionRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Position
	if err := db.
		Where("venue_id = ? AND active = ?", venueID, true).
		Order("name asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query positions")
	}

	items := make([]ports.PositionRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.PositionRecord{
			ID:             row.PositionID,
			VenueID:        row.VenueID,
			Name:           row.Name,
			Category:       row.Category,
			BaseHourlyRate: row.BaseHourlyRate,
			Salaried:       row.Salaried,
			Active:         row.Active,
		})
	}
	return items, nil
}

func (r *RosterRepository) ListEmployees(ctx context.Context, venueID string) ([]ports.EmployeeRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Employee
	if err := db.
		Where("venue_id = ? AND active = ?", venueID, true).
		Order("last_name asc, first_name asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query employees")
	}

	items := make([]ports.EmployeeRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.EmployeeRecord{
			ID:              row.EmployeeID,
			VenueID:         row.VenueID,
			FirstName:       row.FirstName,
			LastName:        row.LastName,
			PositionID:      row.PositionID,
			MinHoursPerWeek: row.MinHoursPerWeek,
			MaxHoursPerWeek: row.MaxHoursPerWeek,
			Active:          row.Active,
		})
	}
	return items, nil
}

func (r *RosterRepository) ListOverrides(ctx context.Context, venueID, sinceDate string) ([]ports.OverrideRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.ManagerOverride
	if err := db.
		Where("venue_id = ? AND business_date >= ?", venueID, sinceDate).
		Order("business_date asc, override_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query overrides")
	}

	items := make([]ports.OverrideRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OverrideRecord{
			VenueID:      row.VenueID,
			BusinessDate: row.BusinessDate,
			PositionName: row.PositionName,
			ShiftType:    row.ShiftType,
			Action:       row.Action,
		})
	}
	return items, nil
}

func (r *RosterRepository) ReplaceSchedule(ctx context.Context, schedule ports.ScheduleRecord, assignments []ports.AssignmentRecord) error {
	if ports.TxFromContext(ctx) != nil {
		return r.replaceSchedule(ctx, schedule, assignments)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.replaceSchedule(ports.WithTxContext(ctx, tx), schedule, assignments)
	})
}

func (r *RosterRepository) replaceSchedule(ctx context.Context, schedule ports.ScheduleRecord, assignments []ports.AssignmentRecord) error {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return err
	}

	var prior []model.WeeklySchedule
	if err := db.
		Where("venue_id = ? AND week_start = ?", schedule.VenueID, schedule.WeekStart).
		Find(&prior).Error; err != nil {
		return errs.Wrap(err, "query prior schedules")
	}
	for _, old := range prior {
		if err := db.Where("schedule_id = ?", old.ScheduleID).Delete(&model.ShiftAssignment{}).Error; err != nil {
			return errs.Wrap(err, "delete prior assignments")
		}
	}
	if len(prior) > 0 {
		if err := db.
			Where("venue_id = ? AND week_start = ?", schedule.VenueID, schedule.WeekStart).
			Delete(&model.WeeklySchedule{}).Error; err != nil {
			return errs.Wrap(err, "delete prior schedules")
		}
	}

	header := model.WeeklySchedule{
		ScheduleID:       schedule.ID,
		VenueID:          schedule.VenueID,
		WeekStart:        schedule.WeekStart,
		WeekEnd:          schedule.WeekEnd,
		Status:           schedule.Status,
		OptimizationMode: schedule.OptimizationMode,
		TotalLaborHours:  schedule.TotalLaborHours,
		TotalLaborCost:   schedule.TotalLaborCost,
		OverallCPLH:      schedule.OverallCPLH,
		LaborPct:         schedule.LaborPct,
		QualityScore:     schedule.QualityScore,
		ProjectedRevenue: schedule.ProjectedRevenue,
		GeneratedAt:      schedule.GeneratedAt,
	}
	if err := db.Create(&header).Error; err != nil {
		return errs.Wrap(err, "insert schedule")
	}

	if len(assignments) == 0 {
		return nil
	}
	rows := make([]model.ShiftAssignment, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, model.ShiftAssignment{
			ScheduleID:     schedule.ID,
			VenueID:        a.VenueID,
			EmployeeID:     a.EmployeeID,
			PositionID:     a.PositionID,
			PositionName:   a.PositionName,
			BusinessDate:   a.BusinessDate,
			ShiftType:      a.ShiftType,
			ScheduledStart: a.ScheduledStart,
			ScheduledEnd:   a.ScheduledEnd,
			ScheduledHours: a.ScheduledHours,
			HourlyRate:     a.HourlyRate,
			ScheduledCost:  a.ScheduledCost,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert assignments")
	}
	return nil
}

func (r *RosterRepository) GetSchedule(ctx context.Context, venueID, weekStart string) (ports.ScheduleRecord, []ports.AssignmentRecord, error) {
	db, err := sessionFrom(ctx, r.db)
	if err != nil {
		return ports.ScheduleRecord{}, nil, err
	}

	var header model.WeeklySchedule
	if err := db.
		Where("venue_id = ? AND week_start = ?", venueID, weekStart).
		First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ScheduleRecord{}, nil, ports.ErrNoData
		}
		return ports.ScheduleRecord{}, nil, errs.Wrap(err, "query schedule")
	}

	var rows []model.ShiftAssignment
	if err := db.
		Where("schedule_id = ?", header.ScheduleID).
		Order("business_date asc, shift_type asc, position_name asc, assignment_id asc").
		Find(&rows).Error; err != nil {
		return ports.ScheduleRecord{}, nil, errs.Wrap(err, "query assignments")
	}

	schedule := ports.ScheduleRecord{
		ID:               header.ScheduleID,
		VenueID:          header.VenueID,
		WeekStart:        header.WeekStart,
		WeekEnd:          header.WeekEnd,
		Status:           header.Status,
		OptimizationMode: header.OptimizationMode,
		TotalLaborHours:  header.TotalLaborHours,
		TotalLaborCost:   header.TotalLaborCost,
		OverallCPLH:      header.OverallCPLH,
		LaborPct:         header.LaborPct,
		QualityScore:     header.QualityScore,
		ProjectedRevenue: header.ProjectedRevenue,
		GeneratedAt:      header.GeneratedAt,
	}

	assignments := make([]ports.AssignmentRecord, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, ports.AssignmentRecord{
			ScheduleID:     row.ScheduleID,
			VenueID:        row.VenueID,
			EmployeeID:     row.EmployeeID,
			PositionID:     row.PositionID,
			PositionName:   row.PositionName,
			BusinessDate:   row.BusinessDate,
			ShiftType:      row.ShiftType,
			ScheduledStart: row.ScheduledStart,
			ScheduledEnd:   row.ScheduledEnd,
			ScheduledHours: row.ScheduledHours,
			HourlyRate:     row.HourlyRate,
			ScheduledCost:  row.ScheduledCost,
		})
	}
	return schedule, assignments, nil
}
