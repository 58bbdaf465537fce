package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/probe"
	"github.com/Nomadcxx/sportwatch/internal/registry"
	"github.com/Nomadcxx/sportwatch/internal/report"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
	"github.com/Nomadcxx/sportwatch/internal/scanner"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

var (
	version   = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile   string
	dryRun    bool
	verbose   bool
	noColor   bool
	sportName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sportwatch",
		Short: "Sports media organizer",
		Long: `SportWatch extracts league, air date, and release metadata from sports
media filenames and organizes them into a clean library tree.

Files that cannot be resolved confidently are quarantined for review
instead of being filed under a wrong league or date.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				ui.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/sportwatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "preview changes without moving files")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&sportName, "sport", "", "sport ruleset to apply (default: first configured)")

	rootCmd.AddCommand(newOrganizeCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newProbeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newOrganizeCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "organize [source...]",
		Short: "Organize sports media files into the library",
		Long: `Organize resolves every file under the given sources and moves accepted
files into <destination>/<League>/<Season>/, quarantining anything that
cannot be resolved confidently.

With no arguments the configured source directories are scanned.

Examples:
  sportwatch organize
  sportwatch organize /downloads/sports --dry-run
  sportwatch organize /downloads/wrestling --sport wrestling`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, args, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default: CPU count)")
	return cmd
}

func runOrganize(cmd *cobra.Command, args []string, workers int) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	sources := args
	if len(sources) == 0 {
		sources = env.cfg.Library.Sources
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources given and none configured")
	}
	if env.cfg.Library.Destination == "" {
		return fmt.Errorf("no library destination configured")
	}

	isDryRun := dryRun || env.cfg.Options.DryRun
	if isDryRun {
		ui.WarningMsg("dry run: no files will be moved")
	}

	org := organizer.New(env.cfg.Library.Destination, env.cfg.Library.Quarantine,
		env.cfg.Options.Hardlink, isDryRun, env.log)
	if workers <= 0 {
		workers = env.cfg.Options.Workers
	}

	s := scanner.New(env.pipeline, org, workers, env.log)

	counter := ui.NewCounter("scanning")
	progress := func(p scanner.Progress) {
		counter.Set(p.FilesScanned)
	}

	summary, err := s.Run(cmd.Context(), sources, progress)
	counter.Done()
	if err != nil {
		return err
	}

	return report.Write(os.Stdout, summary, report.Options{
		Verbose: verbose,
		DryRun:  isDryRun,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sportwatch %s\n", version)
		},
	}
}

// env bundles the state most commands need: config, logger, sport rules,
// group registry, and the resolver pipeline built from them.
type env struct {
	cfg      *config.Config
	log      *logging.Logger
	sport    *config.Sport
	groups   *registry.Registry
	pipeline *resolver.Pipeline
}

func (e *env) Close() {
	if e.groups != nil {
		e.groups.Close()
	}
	if e.log != nil {
		e.log.Close()
	}
}

func buildEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create logger: %w", err)
	}
	if verbose {
		log.SetLevel(logging.LevelDebug)
	}

	sport, err := selectSport()
	if err != nil {
		log.Close()
		return nil, err
	}

	groups, err := registry.Open()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("unable to open group registry: %w", err)
	}
	if len(cfg.ReleaseGroups.Seed) > 0 {
		if err := groups.AppendAll(context.Background(), cfg.ReleaseGroups.Seed, registry.SourceSeed); err != nil {
			log.Warn("registry", "seeding failed", logging.F("err", err.Error()))
		}
	}

	rules, err := resolver.NewRuleset(sport, cfg)
	if err != nil {
		groups.Close()
		log.Close()
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	var prober probe.Prober
	if cfg.Probe.Enabled {
		prober = &probe.FFProbe{
			Binary:  cfg.Probe.Binary,
			Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		}
	}

	pipeline := resolver.New(rules, groups, prober, resolver.OptionsFromConfig(cfg), log)

	return &env{cfg: cfg, log: log, sport: sport, groups: groups, pipeline: pipeline}, nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// selectSport picks the ruleset named by --sport, or the first configured
// sport when the flag is empty. No sport files at all is fine: the global
// rules still apply.
func selectSport() (*config.Sport, error) {
	sports, err := config.LoadSports()
	if err != nil {
		return nil, err
	}
	if sportName == "" {
		if len(sports) == 0 {
			return nil, nil
		}
		return &sports[0], nil
	}
	for i := range sports {
		if strings.EqualFold(sports[i].Name, sportName) {
			return &sports[i], nil
		}
	}
	return nil, fmt.Errorf("unknown sport %q", sportName)
}
