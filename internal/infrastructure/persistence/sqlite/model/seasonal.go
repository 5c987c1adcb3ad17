package model

// SeasonalFactor rows with a NULL venue_id apply to every venue; a venue row
// for the same date wins.
type SeasonalFactor struct {
	FactorID          uint64  `gorm:"column:factor_id;primaryKey;autoIncrement"`
	VenueID           *string `gorm:"column:venue_id;type:text;uniqueIndex:uq_seasonal_key,priority:1"`
	FactorDate        string  `gorm:"column:factor_date;type:text;not null;uniqueIndex:uq_seasonal_key,priority:2"`
	EventName         string  `gorm:"column:event_name;type:text;not null"`
	Multiplier        float64 `gorm:"column:multiplier;not null"`
	HourlyMultipliers string  `gorm:"column:hourly_multipliers;type:text;not null;default:''"`
	Notes             string  `gorm:"column:notes;type:text;not null;default:''"`
}

func (SeasonalFactor) TableName() string {
	return "seasonal_factors"
}
