package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/alert"
	"shiftwise/internal/usecase/backtest"
	"shiftwise/internal/usecase/forecast"
	"shiftwise/internal/usecase/ingest"
	"shiftwise/internal/usecase/profile"
	"shiftwise/internal/usecase/roster"
	"shiftwise/internal/usecase/snapshot"
)

// services carries every usecase a command might need; fx populates it once
// per invocation.
type services struct {
	Ingest   *ingest.Service
	Snapshot *snapshot.Service
	Profile  *profile.Service
	Forecast *forecast.Service
	Backtest *backtest.Service
	Alert    *alert.Service
	Roster   *roster.Service
	Seasonal ports.SeasonalRepository
	Venues   ports.VenueConfigRepository
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svc *services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		svc := &services{}
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app,
				&svc.Ingest, &svc.Snapshot, &svc.Profile, &svc.Forecast,
				&svc.Backtest, &svc.Alert, &svc.Roster,
				&svc.Seasonal, &svc.Venues,
			),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
