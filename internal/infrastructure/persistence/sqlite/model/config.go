package model

// VenueConfig stores the weekday lists as comma separated integers,
// 0=Monday.
type VenueConfig struct {
	VenueID            string  `gorm:"column:venue_id;type:text;primaryKey"`
	OpenHour           int     `gorm:"column:open_hour;not null"`
	CloseHour          int     `gorm:"column:close_hour;not null"`
	CoversPerServer    float64 `gorm:"column:covers_per_server;not null"`
	CoversPerBartender float64 `gorm:"column:covers_per_bartender;not null"`
	BufferPct          float64 `gorm:"column:buffer_pct;not null"`
	PeakBufferPct      float64 `gorm:"column:peak_buffer_pct;not null"`
	PeakWeekdays       string  `gorm:"column:peak_weekdays;type:text;not null;default:''"`
	ClosedWeekdays     string  `gorm:"column:closed_weekdays;type:text;not null;default:''"`
	MinServers         int     `gorm:"column:min_servers;not null"`
	MinBartenders      int     `gorm:"column:min_bartenders;not null"`
	AvgHourlyRate      float64 `gorm:"column:avg_hourly_rate;not null"`
	AvgRevenuePerCover float64 `gorm:"column:avg_revenue_per_cover;not null"`
	DwellMinutes       int     `gorm:"column:dwell_minutes;not null"`
}

func (VenueConfig) TableName() string {
	return "venue_configs"
}
