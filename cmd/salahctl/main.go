package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/storage"
	"github.com/comitanigiacomo/salah-sync-engine/internal/config"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/salah-sync-engine/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	EnvFile  string `help:"Path of the .env file." default:".env" type:"path"`
	Backend  string `help:"Override STORAGE_BACKEND."`
	LogLevel string `help:"Log level." default:"warn" enum:"debug,info,warn,error"`

	Mark   MarkCmd   `cmd:"" help:"Mark a prayer as completed."`
	Unmark UnmarkCmd `cmd:"" help:"Mark a prayer as not completed."`
	Day    DayCmd    `cmd:"" help:"Show the stats of a day."`
	Week   WeekCmd   `cmd:"" help:"Show the stats of seven days."`
	Month  MonthCmd  `cmd:"" help:"Show the stats of a month."`
	Stats  StatsCmd  `cmd:"" help:"Show stats over every stored record."`
	Clear  ClearCmd  `cmd:"" help:"Delete every stored record."`
	Token  TokenCmd  `cmd:"" help:"Issue a device token for the write endpoints."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("salahctl"),
		kong.Description("Prayer completion tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		return err
	}
	if CLI.Backend != "" {
		cfg.Storage.Backend = CLI.Backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	appLogger, err := logger.New(logger.Config{
		Level:  CLI.LogLevel,
		File:   cfg.Log.File,
		Prefix: "salahctl",
	})
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	backend, err := storage.Open(openCtx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer backend.Close()

	tracker := services.NewTrackerService(backend.Store, appLogger, time.Now)
	tracker.Initialize(openCtx)

	appCtx := &Context{
		Ctx:     context.Background(),
		Tracker: tracker,
		Out:     os.Stdout,
		Now:     time.Now,
	}
	if cfg.Auth.Secret != "" {
		appCtx.Tokens = services.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	}

	return ctx.Run(appCtx)
}
