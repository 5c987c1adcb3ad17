package ports

import (
	"context"
	"time"
)

// PositionRecord is an externally managed role definition.
type PositionRecord struct {
	ID             string
	VenueID        string
	Name           string
	Category       string // front_of_house | support | kitchen | bar | management
	BaseHourlyRate float64
	Salaried       bool // salaried roles are exempt from the weekly hour cap
	Active         bool
}

// EmployeeRecord is an externally managed staff member.
type EmployeeRecord struct {
	ID              string
	VenueID         string
	FirstName       string
	LastName        string
	PositionID      string
	MinHoursPerWeek float64
	MaxHoursPerWeek float64
	Active          bool
}

// OverrideRecord is one manager override of a generated recommendation.
type OverrideRecord struct {
	VenueID      string
	BusinessDate string
	PositionName string
	ShiftType    string
	Action       string // added_shift | shift_removed
}

// DemandSignalRecord is the external forecaster's prediction for one
// (date, shift). Opaque to the pipeline: quality affects output quality
// only, never correctness.
type DemandSignalRecord struct {
	VenueID          string
	BusinessDate     string
	ShiftType        string
	PredictedCovers  float64
	PredictedRevenue float64
	Confidence       float64
}

// DemandHistoryRecord is one realized (date, shift) outcome, used to
// synthesize a signal when no forecast rows exist.
type DemandHistoryRecord struct {
	VenueID       string
	BusinessDate  string
	ShiftType     string
	ActualCovers  float64
	ActualRevenue float64
}

// ScheduleRecord is the weekly schedule header.
type ScheduleRecord struct {
	ID               string
	VenueID          string
	WeekStart        string
	WeekEnd          string
	Status           string
	OptimizationMode string // smart | fallback
	TotalLaborHours  float64
	TotalLaborCost   float64
	OverallCPLH      float64
	LaborPct         float64
	QualityScore     float64
	ProjectedRevenue float64
	GeneratedAt      time.Time
}

// AssignmentRecord is one employee filling one shift slot.
type AssignmentRecord struct {
	ScheduleID     string
	VenueID        string
	EmployeeID     string
	PositionID     string
	PositionName   string
	BusinessDate   string
	ShiftType      string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ScheduledHours float64
	HourlyRate     float64
	ScheduledCost  float64
}

// RosterRepository covers the assignment engine's reads and its
// delete-then-insert write of a week's schedule.
type RosterRepository interface {
	ListPositions(ctx context.Context, venueID string) ([]PositionRecord, error)
	ListEmployees(ctx context.Context, venueID string) ([]EmployeeRecord, error)
	ListOverrides(ctx context.Context, venueID, sinceDate string) ([]OverrideRecord, error)

	// ReplaceSchedule deletes any prior schedule (header and assignments)
	// for (venue, week start) and inserts the new one atomically enough for
	// a single-writer batch: the delete and insert share one transaction.
	ReplaceSchedule(ctx context.Context, schedule ScheduleRecord, assignments []AssignmentRecord) error
	GetSchedule(ctx context.Context, venueID, weekStart string) (ScheduleRecord, []AssignmentRecord, error)
}

// DemandSignal exposes the external forecaster. Callers bound calls with a
// context deadline and degrade to the history fallback on failure.
type DemandSignal interface {
	List(ctx context.Context, venueID, startDate, endDate string) ([]DemandSignalRecord, error)
	ListHistory(ctx context.Context, venueID, sinceDate string) ([]DemandHistoryRecord, error)
}
