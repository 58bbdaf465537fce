package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/daemon"
	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/probe"
	"github.com/Nomadcxx/sportwatch/internal/registry"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
	"github.com/Nomadcxx/sportwatch/internal/scanner"
	"github.com/Nomadcxx/sportwatch/internal/watcher"
)

var (
	cfgFile    string
	dryRun     bool
	sportName  string
	healthAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sportwatchd",
		Short: "SportWatch daemon service",
		Long: `Sportwatchd runs in the background watching source directories for new
sports media files and organizing them as they settle. A periodic full
scan catches anything the watcher missed.`,
		RunE: runDaemon,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "preview changes without moving files")
	rootCmd.PersistentFlags().StringVar(&sportName, "sport", "", "sport ruleset to apply (default: first configured)")
	rootCmd.PersistentFlags().StringVar(&healthAddr, "health-addr", "", "health server address (default from config)")

	rootCmd.AddCommand(newInstallCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("unable to create logger: %w", err)
	}
	defer logger.Close()

	if len(cfg.Library.Sources) == 0 {
		return fmt.Errorf("no source directories configured")
	}
	if cfg.Library.Destination == "" {
		return fmt.Errorf("no library destination configured")
	}

	sport, err := selectSport(sportName)
	if err != nil {
		return err
	}
	if sport != nil {
		logger.Info("daemon", "sport ruleset loaded", logging.F("sport", sport.Name))
	}

	groups, err := registry.Open()
	if err != nil {
		return fmt.Errorf("unable to open group registry: %w", err)
	}
	defer groups.Close()
	if len(cfg.ReleaseGroups.Seed) > 0 {
		if err := groups.AppendAll(context.Background(), cfg.ReleaseGroups.Seed, registry.SourceSeed); err != nil {
			logger.Warn("registry", "seeding failed", logging.F("err", err.Error()))
		}
	}

	rules, err := resolver.NewRuleset(sport, cfg)
	if err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	var prober probe.Prober
	if cfg.Probe.Enabled {
		prober = &probe.FFProbe{
			Binary:  cfg.Probe.Binary,
			Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		}
	}

	pipeline := resolver.New(rules, groups, prober, resolver.OptionsFromConfig(cfg), logger)

	isDryRun := dryRun || cfg.Options.DryRun
	org := organizer.New(cfg.Library.Destination, cfg.Library.Quarantine,
		cfg.Options.Hardlink, isDryRun, logger)
	if isDryRun {
		logger.Warn("daemon", "DRY RUN MODE - no files will be moved")
	}

	handler := daemon.NewFileHandler(pipeline, org, logger)

	w, err := watcher.New(handler, logger)
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}

	var periodic *scanner.PeriodicScanner
	if freq := cfg.Daemon.ScanFrequency; freq != "" {
		interval, err := time.ParseDuration(freq)
		if err != nil {
			return fmt.Errorf("invalid scan_frequency %q: %w", freq, err)
		}
		batch := scanner.New(pipeline, org, cfg.Options.Workers, logger)
		periodic = scanner.NewPeriodic(batch, cfg.Library.Sources, interval, logger)
	}

	addr := healthAddr
	if addr == "" {
		addr = cfg.Daemon.HealthAddr
	}
	var server *daemon.Server
	if addr != "" {
		server = daemon.NewServer(handler, periodic, addr, logger)
	}

	logger.Info("daemon", "sportwatchd starting",
		logging.F("sources", cfg.Library.Sources),
		logging.F("destination", cfg.Library.Destination),
		logging.F("health_addr", addr),
		logging.F("log_file", logger.FilePath()))

	d := daemon.New(w, periodic, server, cfg.Library.Sources, logger)
	return d.Run(cmd.Context())
}

func selectSport(name string) (*config.Sport, error) {
	sports, err := config.LoadSports()
	if err != nil {
		return nil, err
	}
	if name == "" {
		if len(sports) == 0 {
			return nil, nil
		}
		return &sports[0], nil
	}
	for i := range sports {
		if sports[i].Name == name {
			return &sports[i], nil
		}
	}
	return nil, fmt.Errorf("unknown sport %q", name)
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Show systemd installation steps",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("To install sportwatchd as a systemd service:")
			fmt.Println()
			fmt.Println("1. Copy the binary:")
			fmt.Println("   sudo cp sportwatchd /usr/local/bin/")
			fmt.Println()
			fmt.Println("2. Copy the service file:")
			fmt.Println("   sudo cp sportwatchd.service /etc/systemd/system/")
			fmt.Println()
			fmt.Println("3. Reload systemd:")
			fmt.Println("   sudo systemctl daemon-reload")
			fmt.Println()
			fmt.Println("4. Enable and start:")
			fmt.Println("   sudo systemctl enable --now sportwatchd")
			fmt.Println()
			fmt.Println("5. Follow the logs:")
			fmt.Println("   journalctl -u sportwatchd -f")
		},
	}
}
