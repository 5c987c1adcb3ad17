package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"shiftwise/internal/bootstrap/config"
	"shiftwise/internal/bootstrap/database"
	"shiftwise/internal/bootstrap/logging"
	sqliterepo "shiftwise/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "shiftwise/internal/infrastructure/persistence/sqlite/uow"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/alert"
	"shiftwise/internal/usecase/backtest"
	"shiftwise/internal/usecase/forecast"
	"shiftwise/internal/usecase/ingest"
	"shiftwise/internal/usecase/profile"
	"shiftwise/internal/usecase/roster"
	"shiftwise/internal/usecase/snapshot"
	"shiftwise/internal/usecase/venue"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		func(cfg config.Config) config.VenueDefaults { return cfg.Defaults },
		func(cfg config.Config) config.ProfileConfig { return cfg.Profiles },
		func(cfg config.Config) config.SchedulingConfig { return cfg.Scheduling },
		func(cfg config.Config) config.SignalConfig { return cfg.Signals },
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCheckRepository,
			fx.As(new(ports.CheckRepository)),
		),
		fx.Annotate(
			sqliterepo.NewSnapshotRepository,
			fx.As(new(ports.SnapshotRepository)),
		),
		fx.Annotate(
			sqliterepo.NewProfileRepository,
			fx.As(new(ports.ProfileRepository)),
		),
		fx.Annotate(
			sqliterepo.NewSeasonalRepository,
			fx.As(new(ports.SeasonalRepository)),
			fx.As(new(ports.SeasonalSource)),
		),
		fx.Annotate(
			sqliterepo.NewForecastRepository,
			fx.As(new(ports.ForecastRepository)),
		),
		fx.Annotate(
			sqliterepo.NewBacktestRepository,
			fx.As(new(ports.BacktestRepository)),
		),
		fx.Annotate(
			sqliterepo.NewAlertRepository,
			fx.As(new(ports.AlertRepository)),
		),
		fx.Annotate(
			sqliterepo.NewVenueConfigRepository,
			fx.As(new(ports.VenueConfigRepository)),
		),
		fx.Annotate(
			sqliterepo.NewRosterRepository,
			fx.As(new(ports.RosterRepository)),
		),
		fx.Annotate(
			sqliterepo.NewDemandRepository,
			fx.As(new(ports.DemandSignal)),
		),
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		venue.NewResolver,
		ingest.NewService,
		snapshot.NewService,
		profile.NewService,
		forecast.NewService,
		backtest.NewService,
		alert.NewService,
		roster.NewService,
	),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
