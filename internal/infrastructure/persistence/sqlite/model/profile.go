package model

type StaffingProfile struct {
	ProfileID      uint64 `gorm:"column:profile_id;primaryKey;autoIncrement"`
	VenueID        string `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_profiles_key,priority:1"`
	DayOfWeek      int    `gorm:"column:day_of_week;not null;uniqueIndex:uq_profiles_key,priority:2"`
	HourSlot       int    `gorm:"column:hour_slot;not null;uniqueIndex:uq_profiles_key,priority:3"`
	ProfileVersion int    `gorm:"column:profile_version;not null;uniqueIndex:uq_profiles_key,priority:4"`
	SampleCount    int    `gorm:"column:sample_count;not null"`
	RangeStart     string `gorm:"column:date_range_start;type:text;not null"`
	RangeEnd       string `gorm:"column:date_range_end;type:text;not null"`

	AvgActiveCovers    float64 `gorm:"column:avg_active_covers;not null"`
	P50ActiveCovers    float64 `gorm:"column:p50_active_covers;not null"`
	P75ActiveCovers    float64 `gorm:"column:p75_active_covers;not null"`
	P90ActiveCovers    float64 `gorm:"column:p90_active_covers;not null"`
	MaxActiveCovers    float64 `gorm:"column:max_active_covers;not null"`
	StddevActiveCovers float64 `gorm:"column:stddev_active_covers;not null"`
	AvgNewCovers       float64 `gorm:"column:avg_new_covers;not null"`
	P75NewCovers       float64 `gorm:"column:p75_new_covers;not null"`

	ServersLean        int `gorm:"column:servers_lean;not null"`
	ServersBuffered    int `gorm:"column:servers_buffered;not null"`
	ServersSafe        int `gorm:"column:servers_safe;not null"`
	BartendersLean     int `gorm:"column:bartenders_lean;not null"`
	BartendersBuffered int `gorm:"column:bartenders_buffered;not null"`
	BartendersSafe     int `gorm:"column:bartenders_safe;not null"`
}

func (StaffingProfile) TableName() string {
	return "staffing_profiles"
}
