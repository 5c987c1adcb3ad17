package model

import "time"

type Check struct {
	CheckID        uint64    `gorm:"column:check_id;primaryKey;autoIncrement"`
	VenueID        string    `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_checks_venue_external,priority:1;index:idx_checks_venue_date,priority:1"`
	BusinessDate   string    `gorm:"column:business_date;type:text;not null;index:idx_checks_venue_date,priority:2"`
	ExternalID     string    `gorm:"column:external_check_id;type:text;not null;uniqueIndex:uq_checks_venue_external,priority:2"`
	OpenTime       time.Time `gorm:"column:open_time;not null"`
	CloseTime      time.Time `gorm:"column:close_time;not null"`
	GuestCount     int       `gorm:"column:guest_count;not null"`
	TotalAmount    float64   `gorm:"column:total_amount;not null;default:0"`
	CloseEstimated bool      `gorm:"column:close_estimated;not null;default:0"`
}

func (Check) TableName() string {
	return "pos_checks"
}
