package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baiirun/things/internal/config"
	"github.com/baiirun/things/internal/dates"
	"github.com/baiirun/things/internal/logger"
	"github.com/baiirun/things/internal/ordering"
	"github.com/baiirun/things/internal/progress"
	"github.com/baiirun/things/internal/store"
	"github.com/baiirun/things/internal/views"
)

var (
	flagDB      string
	flagConfig  string
	flagVerbose bool
	flagJSON    bool
)

// app bundles everything a command needs. It is opened before each command
// runs and closed afterwards.
type app struct {
	cfg      config.Config
	store    *store.Store
	views    *views.Facade
	order    *ordering.Service
	progress *progress.Engine
	locale   dates.Locale
	delay    time.Duration
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "things",
	Short: "A personal task manager",
	Long: `Inbox, projects, areas and a Today list, kept in a local SQLite file.
Run "things tui" for the interactive view.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openApp,
	PersistentPostRunE: closeApp,
}

func openApp(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	if flagVerbose {
		err = logger.Init(true, "debug")
	} else {
		err = logger.Init(cfg.Log.Development, cfg.Log.Level)
	}
	if err != nil {
		return err
	}

	locale, err := dates.LocaleByName(cfg.Locale)
	if err != nil {
		return err
	}
	delay, err := cfg.ToggleDelayDuration()
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.DBPath, store.WithProjectTitle(locale.NewProjectTitle))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	current = &app{
		cfg:      cfg,
		store:    s,
		views:    views.New(s),
		order:    ordering.New(s),
		progress: progress.New(s),
		locale:   locale,
		delay:    delay,
	}
	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	defer logger.Sync()
	if current == nil {
		return nil
	}
	err := current.store.Close()
	current = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.things/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
