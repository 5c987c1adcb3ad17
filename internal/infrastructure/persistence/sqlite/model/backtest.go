package model

type BacktestResult struct {
	ResultID          uint64  `gorm:"column:result_id;primaryKey;autoIncrement"`
	VenueID           string  `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_backtests_key,priority:1"`
	BusinessDate      string  `gorm:"column:business_date;type:text;not null;uniqueIndex:uq_backtests_key,priority:2"`
	Scenario          string  `gorm:"column:scenario;type:text;not null;uniqueIndex:uq_backtests_key,priority:3"`
	BacktestType      string  `gorm:"column:backtest_type;type:text;not null;uniqueIndex:uq_backtests_key,priority:4"`
	HoursAnalyzed     int     `gorm:"column:hours_analyzed;not null"`
	HoursAdequate     int     `gorm:"column:hours_adequate;not null"`
	HoursUnderstaffed int     `gorm:"column:hours_understaffed;not null"`
	HoursOverstaffed  int     `gorm:"column:hours_overstaffed;not null"`
	CoveragePct       float64 `gorm:"column:coverage_pct;not null"`
	AccuracyPct       float64 `gorm:"column:accuracy_pct;not null"`
	WastedLaborHours  float64 `gorm:"column:wasted_labor_hours;not null"`
	WastedLaborCost   float64 `gorm:"column:wasted_labor_cost;not null"`
	UnderstaffedHours float64 `gorm:"column:understaffed_hours;not null"`
	HourlyDetail      string  `gorm:"column:hourly_detail;type:text;not null"`
	ProfileVersion    int     `gorm:"column:profile_version;not null"`
}

func (BacktestResult) TableName() string {
	return "backtest_results"
}
