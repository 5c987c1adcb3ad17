package model

type StaffingForecast struct {
	ForecastID       uint64  `gorm:"column:forecast_id;primaryKey;autoIncrement"`
	VenueID          string  `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_forecasts_key,priority:1"`
	ForecastDate     string  `gorm:"column:forecast_date;type:text;not null;uniqueIndex:uq_forecasts_key,priority:2"`
	Scenario         string  `gorm:"column:scenario;type:text;not null;uniqueIndex:uq_forecasts_key,priority:3"`
	DayOfWeek        int     `gorm:"column:day_of_week;not null"`
	PeakServers      int     `gorm:"column:peak_servers;not null"`
	PeakBartenders   int     `gorm:"column:peak_bartenders;not null"`
	TotalLaborHours  float64 `gorm:"column:total_labor_hours;not null"`
	EstimatedCost    float64 `gorm:"column:estimated_cost;not null"`
	EstimatedCovers  int     `gorm:"column:estimated_covers;not null"`
	EstimatedRevenue float64 `gorm:"column:estimated_revenue;not null"`
	HourlyDetail     string  `gorm:"column:hourly_detail;type:text;not null"`
	SeasonalFactor   float64 `gorm:"column:seasonal_factor;not null;default:1"`
	SeasonalNote     string  `gorm:"column:seasonal_note;type:text;not null;default:''"`
	ProfileVersion   int     `gorm:"column:profile_version;not null"`
}

func (StaffingForecast) TableName() string {
	return "staffing_forecasts"
}
