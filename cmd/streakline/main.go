package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/cli/auth"
	"github.com/julianstephens/streakline/internal/cli/habits"
	"github.com/julianstephens/streakline/internal/cli/settings"
	"github.com/julianstephens/streakline/internal/cli/system"
	"github.com/julianstephens/streakline/internal/config"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/keyring"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/observability"
	"github.com/julianstephens/streakline/internal/remote/appwrite"
	"github.com/julianstephens/streakline/internal/theme"
	"github.com/julianstephens/streakline/internal/utils"
)

var CLI struct {
	Version     kong.VersionFlag
	Config      string `help:"Config file path (yaml, toml or json)." type:"path"`
	Verbose     bool   `name:"debug" help:"Log debug output to stderr."`
	Timezone    string `help:"IANA timezone used to decide what 'today' is."`
	MetricsFile string `help:"Write Prometheus counters to this file on exit." type:"path"`

	Init        system.InitCmd        `cmd:"" help:"Initialize the local cache."`
	Doctor      system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Migrate     system.MigrateCmd     `cmd:"" help:"Apply pending cache migrations."`
	Keyring     system.KeyringCmd     `cmd:"" help:"Inspect the session stored in the OS keyring."`
	Debug       system.DebugCmd       `cmd:"" help:"Inspect the local cache."`
	Auth        auth.AuthCmd          `cmd:"" help:"Sign in, sign up and manage your profile."`
	Habit       habits.HabitCmd       `cmd:"" help:"Manage habits and mark them done."`
	Leaderboard habits.LeaderboardCmd `cmd:"" help:"Show the leaderboard."`
	Theme       settings.ThemeCmd     `cmd:"" help:"Show or set the color theme."`
}

// commands that manage the cache themselves and need no session
var standalone = map[string]bool{
	"init": true, "doctor": true, "migrate": true,
	"theme": true, "keyring": true, "debug": true,
}

// commands that open the cache themselves
var ownsCache = map[string]bool{"init": true, "doctor": true, "migrate": true}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, offline cache and leaderboard"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	}
}

func main() {
	kctx := kong.Parse(&CLI, parserOptions()...)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Verbose {
		cfg.Debug = true
	}
	if CLI.Timezone != "" {
		if !utils.ValidateTimezone(CLI.Timezone) {
			apperrors.Fatalf("invalid timezone %q", CLI.Timezone)
		}
		cfg.Timezone = CLI.Timezone
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, kctx, cfg)
	if CLI.MetricsFile != "" {
		if werr := observability.WriteTextfile(CLI.MetricsFile); werr != nil {
			logger.Warn("Failed to write metrics file", "path", CLI.MetricsFile, "error", werr)
		}
	}
	if err != nil {
		stop()
		apperrors.Fatal(err)
	}
}

func run(ctx context.Context, kctx *kong.Context, cfg *config.Config) error {
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close cache", "error", err)
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client := appwrite.New(cfg.Client(), appwrite.WithSessionStore(keyring.NewSessionStore(cfg.Appwrite.ProjectID)))
	appCtx := cli.NewContext(ctx, store, client, cfg.Collections(), utils.SystemClock(loc))
	appCtx.Config = cfg

	command := strings.Fields(kctx.Command())[0]
	logger.Debug("Running command", "command", kctx.Command(), "cache", store.Describe())

	if !ownsCache[command] {
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("failed to open cache %s: %w", store.Describe(), err)
		}
		appCtx.Styles = theme.NewStyles(theme.ResolveTerminal(theme.Load(ctx, appCtx.Local)))
	}

	if !standalone[command] {
		if _, err := appCtx.Session.Bootstrap(ctx); err != nil {
			return err
		}
		if err := appCtx.Habits.Load(ctx); err != nil {
			logger.Warn("Failed to load cached habits", "error", err)
		}
	}

	return kctx.Run(appCtx)
}
