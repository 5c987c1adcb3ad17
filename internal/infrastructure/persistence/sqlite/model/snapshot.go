package model

type HourlySnapshot struct {
	SnapshotID          uint64 `gorm:"column:snapshot_id;primaryKey;autoIncrement"`
	VenueID             string `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_snapshots_key,priority:1"`
	BusinessDate        string `gorm:"column:business_date;type:text;not null;uniqueIndex:uq_snapshots_key,priority:2"`
	HourSlot            int    `gorm:"column:hour_slot;not null;uniqueIndex:uq_snapshots_key,priority:3"`
	DayOfWeek           int    `gorm:"column:day_of_week;not null;index"`
	ActiveCovers        int    `gorm:"column:active_covers;not null"`
	ActiveTables        int    `gorm:"column:active_tables;not null"`
	NewCovers           int    `gorm:"column:new_covers;not null"`
	DepartingCovers     int    `gorm:"column:departing_covers;not null"`
	ServersFirstPass    int    `gorm:"column:servers_recommended;not null"`
	BartendersFirstPass int    `gorm:"column:bartenders_recommended;not null"`
}

func (HourlySnapshot) TableName() string {
	return "hourly_snapshots"
}
