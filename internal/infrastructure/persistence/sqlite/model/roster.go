package model

import "time"

type Position struct {
	PositionID     string  `gorm:"column:position_id;type:text;primaryKey"`
	VenueID        string  `gorm:"column:venue_id;type:text;not null;index"`
	Name           string  `gorm:"column:name;type:text;not null"`
	Category       string  `gorm:"column:category;type:text;not null"`
	BaseHourlyRate float64 `gorm:"column:base_hourly_rate;not null"`
	Salaried       bool    `gorm:"column:salaried;not null;default:0"`
	Active         bool    `gorm:"column:active;not null;default:1"`
}

func (Position) TableName() string {
	return "positions"
}

type Employee struct {
	EmployeeID      string  `gorm:"column:employee_id;type:text;primaryKey"`
	VenueID         string  `gorm:"column:venue_id;type:text;not null;index"`
	FirstName       string  `gorm:"column:first_name;type:text;not null"`
	LastName        string  `gorm:"column:last_name;type:text;not null"`
	PositionID      string  `gorm:"column:position_id;type:text;not null;index"`
	MinHoursPerWeek float64 `gorm:"column:min_hours_per_week;not null"`
	MaxHoursPerWeek float64 `gorm:"column:max_hours_per_week;not null"`
	Active          bool    `gorm:"column:active;not null;default:1"`
}

func (Employee) TableName() string {
	return "employees"
}

type ManagerOverride struct {
	OverrideID   uint64 `gorm:"column:override_id;primaryKey;autoIncrement"`
	VenueID      string `gorm:"column:venue_id;type:text;not null;index:idx_overrides_venue_date,priority:1"`
	BusinessDate string `gorm:"column:business_date;type:text;not null;index:idx_overrides_venue_date,priority:2"`
	PositionName string `gorm:"column:position_name;type:text;not null"`
	ShiftType    string `gorm:"column:shift_type;type:text;not null"`
	Action       string `gorm:"column:action;type:text;not null"`
}

func (ManagerOverride) TableName() string {
	return "manager_overrides"
}

type WeeklySchedule struct {
	ScheduleID       string    `gorm:"column:schedule_id;type:text;primaryKey"`
	VenueID          string    `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_schedules_key,priority:1"`
	WeekStart        string    `gorm:"column:week_start;type:text;not null;uniqueIndex:uq_schedules_key,priority:2"`
	WeekEnd          string    `gorm:"column:week_end;type:text;not null"`
	Status           string    `gorm:"column:status;type:text;not null"`
	OptimizationMode string    `gorm:"column:optimization_mode;type:text;not null"`
	TotalLaborHours  float64   `gorm:"column:total_labor_hours;not null"`
	TotalLaborCost   float64   `gorm:"column:total_labor_cost;not null"`
	OverallCPLH      float64   `gorm:"column:overall_cplh;not null"`
	LaborPct         float64   `gorm:"column:labor_pct;not null"`
	QualityScore     float64   `gorm:"column:quality_score;not null"`
	ProjectedRevenue float64   `gorm:"column:projected_revenue;not null"`
	GeneratedAt      time.Time `gorm:"column:generated_at;not null"`
}

func (WeeklySchedule) TableName() string {
	return "weekly_schedules"
}

type ShiftAssignment struct {
	AssignmentID   uint64    `gorm:"column:assignment_id;primaryKey;autoIncrement"`
	ScheduleID     string    `gorm:"column:schedule_id;type:text;not null;index"`
	VenueID        string    `gorm:"column:venue_id;type:text;not null"`
	EmployeeID     string    `gorm:"column:employee_id;type:text;not null;index"`
	PositionID     string    `gorm:"column:position_id;type:text;not null"`
	PositionName   string    `gorm:"column:position_name;type:text;not null"`
	BusinessDate   string    `gorm:"column:business_date;type:text;not null"`
	ShiftType      string    `gorm:"column:shift_type;type:text;not null"`
	ScheduledStart time.Time `gorm:"column:scheduled_start;not null"`
	ScheduledEnd   time.Time `gorm:"column:scheduled_end;not null"`
	ScheduledHours float64   `gorm:"column:scheduled_hours;not null"`
	HourlyRate     float64   `gorm:"column:hourly_rate;not null"`
	ScheduledCost  float64   `gorm:"column:scheduled_cost;not null"`
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}
