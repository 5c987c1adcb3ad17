package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/errs"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Defaults   VenueDefaults    `mapstructure:"defaults"`
	Profiles   ProfileConfig    `mapstructure:"profiles"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Signals    SignalConfig     `mapstructure:"signals"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// VenueDefaults backs any venue without a venue_configs row.
type VenueDefaults struct {
	OpenHour           int     `mapstructure:"open_hour"`
	CloseHour          int     `mapstructure:"close_hour"`
	CoversPerServer    float64 `mapstructure:"covers_per_server"`
	CoversPerBartender float64 `mapstructure:"covers_per_bartender"`
	BufferPct          float64 `mapstructure:"buffer_pct"`
	PeakBufferPct      float64 `mapstructure:"peak_buffer_pct"`
	PeakWeekdays       []int   `mapstructure:"peak_weekdays"`
	ClosedWeekdays     []int   `mapstructure:"closed_weekdays"`
	MinServers         int     `mapstructure:"min_servers"`
	MinBartenders      int     `mapstructure:"min_bartenders"`
	AvgHourlyRate      float64 `mapstructure:"avg_hourly_rate"`
	AvgRevenuePerCover float64 `mapstructure:"avg_revenue_per_cover"`
	DwellMinutes       int     `mapstructure:"dwell_minutes"`
}

type ProfileConfig struct {
	LookbackWeeks int `mapstructure:"lookback_weeks"`
	MinSamples    int `mapstructure:"min_samples"`
	// TrainWeeks is the rolling-backtest training window.
	TrainWeeks int `mapstructure:"train_weeks"`
}

type SchedulingConfig struct {
	Strategy           string  `mapstructure:"strategy"` // greedy | localsearch
	CostWeight         float64 `mapstructure:"cost_weight"`
	QualityWeight      float64 `mapstructure:"quality_weight"`
	RestDayPenalty     float64 `mapstructure:"rest_day_penalty"`
	SetupMinutes       int     `mapstructure:"setup_minutes"`
	TeardownMinutes    int     `mapstructure:"teardown_minutes"`
	SplitThreshold     int     `mapstructure:"split_threshold"`
	MaxCoversPerServer float64 `mapstructure:"max_covers_per_server"`
	BusserRatio        float64 `mapstructure:"busser_ratio"`
	RunnerRatio        float64 `mapstructure:"runner_ratio"`
	FeedbackWindowDays int     `mapstructure:"feedback_window_days"`
}

// SignalConfig bounds calls to external demand/seasonal sources.
type SignalConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrapf(err, "read config file %q", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}

	logging.Info(logCtx, "config loaded",
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("assign_strategy", cfg.Scheduling.Strategy),
	)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shiftwise")
	v.SetDefault("app.env", "development")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/shiftwise.sqlite")

	v.SetDefault("defaults.open_hour", 15)
	v.SetDefault("defaults.close_hour", 23)
	v.SetDefault("defaults.covers_per_server", 16.0)
	v.SetDefault("defaults.covers_per_bartender", 30.0)
	v.SetDefault("defaults.buffer_pct", 0.10)
	v.SetDefault("defaults.peak_buffer_pct", 0.15)
	v.SetDefault("defaults.peak_weekdays", []int{4, 5})
	v.SetDefault("defaults.closed_weekdays", []int{0})
	v.SetDefault("defaults.min_servers", 2)
	v.SetDefault("defaults.min_bartenders", 1)
	v.SetDefault("defaults.avg_hourly_rate", 18.0)
	v.SetDefault("defaults.avg_revenue_per_cover", 150.0)
	v.SetDefault("defaults.dwell_minutes", 90)

	v.SetDefault("profiles.lookback_weeks", 8)
	v.SetDefault("profiles.min_samples", 3)
	v.SetDefault("profiles.train_weeks", 4)

	v.SetDefault("scheduling.strategy", "greedy")
	v.SetDefault("scheduling.cost_weight", 0.4)
	v.SetDefault("scheduling.quality_weight", 0.4)
	v.SetDefault("scheduling.rest_day_penalty", 0.25)
	v.SetDefault("scheduling.setup_minutes", 30)
	v.SetDefault("scheduling.teardown_minutes", 45)
	v.SetDefault("scheduling.split_threshold", 4)
	v.SetDefault("scheduling.max_covers_per_server", 12)
	v.SetDefault("scheduling.busser_ratio", 0.5)
	v.SetDefault("scheduling.runner_ratio", 0.33)
	v.SetDefault("scheduling.feedback_window_days", 90)

	v.SetDefault("signals.timeout", 5*time.Second)
}
