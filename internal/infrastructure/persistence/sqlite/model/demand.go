package model

type DemandForecast struct {
	DemandID         uint64  `gorm:"column:demand_id;primaryKey;autoIncrement"`
	VenueID          string  `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_demand_key,priority:1"`
	BusinessDate     string  `gorm:"column:business_date;type:text;not null;uniqueIndex:uq_demand_key,priority:2"`
	ShiftType        string  `gorm:"column:shift_type;type:text;not null;uniqueIndex:uq_demand_key,priority:3"`
	PredictedCovers  float64 `gorm:"column:predicted_covers;not null"`
	PredictedRevenue float64 `gorm:"column:predicted_revenue;not null"`
	Confidence       float64 `gorm:"column:confidence;not null"`
}

func (DemandForecast) TableName() string {
	return "demand_forecasts"
}

type DemandHistory struct {
	HistoryID     uint64  `gorm:"column:history_id;primaryKey;autoIncrement"`
	VenueID       string  `gorm:"column:venue_id;type:text;not null;uniqueIndex:uq_demand_history_key,priority:1"`
	BusinessDate  string  `gorm:"column:business_date;type:text;not null;uniqueIndex:uq_demand_history_key,priority:2"`
	ShiftType     string  `gorm:"column:shift_type;type:text;not null;uniqueIndex:uq_demand_history_key,priority:3"`
	ActualCovers  float64 `gorm:"column:actual_covers;not null"`
	ActualRevenue float64 `gorm:"column:actual_revenue;not null"`
}

func (DemandHistory) TableName() string {
	return "demand_history"
}
