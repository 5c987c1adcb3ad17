package model

// Alert stores date-level alerts with hour_slot = -1 so the unique index
// still collapses regenerated rows (SQLite treats NULLs as distinct).
type Alert struct {
	AlertID            uint64 `gorm:"column:alert_id;primaryKey;autoIncrement"`
	VenueID            string `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_alerts_key,priority:1"`
	AlertDate          string `gorm:"column:alert_date;type:text;not null;uniqueIndex:uq_alerts_key,priority:2"`
	HourSlot           int    `gorm:"column:hour_slot;not null;uniqueIndex:uq_alerts_key,priority:3"`
	AlertType          string `gorm:"column:alert_type;type:text;not null;uniqueIndex:uq_alerts_key,priority:4"`
	Severity           string `gorm:"column:severity;type:text;not null"`
	Message            string `gorm:"column:message;type:text;not null"`
	ActualCovers       int    `gorm:"column:actual_covers;not null"`
	RecommendedServers int    `gorm:"column:recommended_servers;not null"`
}

func (Alert) TableName() string {
	return "staffing_alerts"
}
