package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoData marks a key with no stored rows; callers skip and continue.
	ErrNoData = errors.New("no data for key")
	// ErrNoProfile marks a weekday with no profile rows at any version.
	ErrNoProfile = errors.New("no staffing profile for weekday")
	// ErrNoVenueConfig marks a venue without an explicit config row; callers
	// fall back to documented defaults.
	ErrNoVenueConfig = errors.New("no venue config")
)

// CheckRecord is one imported POS check. BusinessDate is the service day in
// YYYY-MM-DD form; a check opened after midnight still belongs to the prior
// business date.
type CheckRecord struct {
	ID             uint64
	VenueID        string
	BusinessDate   string
	ExternalID     string
	OpenTime       time.Time
	CloseTime      time.Time
	GuestCount     int
	TotalAmount    float64
	CloseEstimated bool
}

// SnapshotRecord is one hour slot of concurrency counts for a business date.
type SnapshotRecord struct {
	VenueID             string
	BusinessDate        string
	HourSlot            int
	DayOfWeek           int // 0=Monday
	ActiveCovers        int
	ActiveTables        int
	NewCovers           int
	DepartingCovers     int
	ServersFirstPass    int
	BartendersFirstPass int
}

// ProfileRecord is one (weekday, hour) statistical cell at one profile
// version. Versions are append-only; older versions stay queryable.
type ProfileRecord struct {
	VenueID        string
	DayOfWeek      int
	HourSlot       int
	ProfileVersion int
	SampleCount    int
	RangeStart     string
	RangeEnd       string

	AvgActiveCovers    float64
	P50ActiveCovers    float64
	P75ActiveCovers    float64
	P90ActiveCovers    float64
	MaxActiveCovers    float64
	StddevActiveCovers float64
	AvgNewCovers       float64
	P75NewCovers       float64

	ServersLean        int
	ServersBuffered    int
	ServersSafe        int
	BartendersLean     int
	BartendersBuffered int
	BartendersSafe     int
}

// SeasonalRecord is one curated calendar row. A nil VenueID means global;
// venue rows override global rows for the same date. HourMultipliers, when
// present, override the scalar for those hours only.
type SeasonalRecord struct {
	VenueID         *string
	Date            string
	EventName       string
	Multiplier      float64
	HourMultipliers map[int]float64
	Notes           string
}

// ForecastHour is one hour of a persisted forecast's detail.
type ForecastHour struct {
	Hour           int     `json:"hour"`
	AdjustedCovers float64 `json:"covers"`
	Servers        int     `json:"servers"`
	Bartenders     int     `json:"bartenders"`
	SeasonalFactor float64 `json:"seasonal_factor"`
}

// ForecastRecord is one (venue, date, scenario) staffing forecast.
type ForecastRecord struct {
	VenueID          string
	ForecastDate     string
	DayOfWeek        int
	Scenario         string
	PeakServers      int
	PeakBartenders   int
	TotalLaborHours  float64
	EstimatedCost    float64
	EstimatedCovers  int
	EstimatedRevenue float64
	Hourly           []ForecastHour
	SeasonalFactor   float64
	SeasonalNote     string
	ProfileVersion   int
}

// BacktestHour is one scored hour in a backtest detail.
type BacktestHour struct {
	Hour         int    `json:"hour"`
	ActualCovers int    `json:"actual_covers"`
	Needed       int    `json:"needed"`
	Recommended  int    `json:"recommended"`
	Delta        int    `json:"delta"`
	Status       string `json:"status"`
}

// BacktestRecord is one (venue, date, scenario, type) result row.
type BacktestRecord struct {
	VenueID           string
	BusinessDate      string
	Scenario          string
	BacktestType      string // standard | rolling
	HoursAnalyzed     int
	HoursAdequate     int
	HoursUnderstaffed int
	HoursOverstaffed  int
	CoveragePct       float64
	AccuracyPct       float64
	WastedLaborHours  float64
	WastedLaborCost   float64
	UnderstaffedHours float64
	Hourly            []BacktestHour
	ProfileVersion    int
}

// AlertRecord is one anomaly, keyed by (venue, date, hour, type). HourSlot
// is nil for date-level alerts (no profile / no data).
type AlertRecord struct {
	VenueID            string
	AlertDate          string
	HourSlot           *int
	AlertType          string
	Severity           string
	Message            string
	ActualCovers       int
	RecommendedServers int
}

// VenueConfigRecord overrides the file defaults for one venue.
type VenueConfigRecord struct {
	VenueID            string
	OpenHour           int
	CloseHour          int
	CoversPerServer    float64
	CoversPerBartender float64
	BufferPct          float64
	PeakBufferPct      float64
	PeakWeekdays       []int
	ClosedWeekdays     []int
	MinServers         int
	MinBartenders      int
	AvgHourlyRate      float64
	AvgRevenuePerCover float64
	DwellMinutes       int
}

// CheckRepository stores imported POS checks.
type CheckRepository interface {
	UpsertChecks(ctx context.Context, checks []CheckRecord) error
	ListChecks(ctx context.Context, venueID, businessDate string) ([]CheckRecord, error)
	ListCheckDates(ctx context.Context, venueID, startDate, endDate string) ([]string, error)
}

// SnapshotRepository stores hourly concurrency snapshots. ReplaceForDate is
// a scoped replace: all rows for (venue, date) are rewritten together.
type SnapshotRepository interface {
	ReplaceForDate(ctx context.Context, venueID, businessDate string, rows []SnapshotRecord) error
	ListForDate(ctx context.Context, venueID, businessDate string) ([]SnapshotRecord, error)
	ListSince(ctx context.Context, venueID, startDate string) ([]SnapshotRecord, error)
	ListBetween(ctx context.Context, venueID, startDate, endDate string) ([]SnapshotRecord, error)
}

// ProfileRepository stores versioned statistical profiles.
type ProfileRepository interface {
	LatestVersion(ctx context.Context, venueID string) (int, error)
	InsertProfiles(ctx context.Context, rows []ProfileRecord) error
	ListVersionForWeekday(ctx context.Context, venueID string, version, dayOfWeek int) ([]ProfileRecord, error)
}

// SeasonalSource resolves the demand multiplier for a date. Implementations
// may call out of process; callers bound them with a context deadline and
// treat failure as "no adjustment".
type SeasonalSource interface {
	Lookup(ctx context.Context, venueID, date string) (SeasonalRecord, error)
}

// SeasonalRepository additionally allows curation of calendar rows.
type SeasonalRepository interface {
	SeasonalSource
	UpsertFactor(ctx context.Context, row SeasonalRecord) error
}

// ForecastRepository stores staffing forecasts, one row per
// (venue, date, scenario), replacing prior rows for the same key.
type ForecastRepository interface {
	UpsertForecast(ctx context.Context, row ForecastRecord) error
	GetForecast(ctx context.Context, venueID, date, scenario string) (ForecastRecord, error)
}

// BacktestRepository stores backtest results idempotently per
// (venue, date, scenario, type).
type BacktestRepository interface {
	UpsertResult(ctx context.Context, row BacktestRecord) error
	ListResults(ctx context.Context, venueID, startDate, endDate string) ([]BacktestRecord, error)
}

// AlertRepository upserts alerts on (venue, date, hour, type) so
// regeneration updates rather than duplicates.
type AlertRepository interface {
	UpsertAlerts(ctx context.Context, rows []AlertRecord) error
	ListForDate(ctx context.Context, venueID, date string) ([]AlertRecord, error)
}

// VenueConfigRepository reads per-venue overrides. Get returns
// ErrNoVenueConfig when the venue has no explicit row.
type VenueConfigRepository interface {
	Get(ctx context.Context, venueID string) (VenueConfigRecord, error)
	Upsert(ctx context.Context, row VenueConfigRecord) error
}
