package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/paths"
	"github.com/Nomadcxx/sportwatch/internal/slots"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage SportWatch configuration",
		Long: `Commands for managing SportWatch configuration.

The config file is stored at: ~/.config/sportwatch/config.toml
Sport rulesets live next to it under: ~/.config/sportwatch/sports/

Examples:
  sportwatch config init              # Create default config file
  sportwatch config show              # Display current configuration
  sportwatch config sports            # List loaded sport rulesets
  sportwatch config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSportsCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Long: `Create a new configuration file with default values.

Edit the file to set your source directories, the library destination,
and pipeline weights. Add sport rulesets as YAML files under the sports
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists() && !force {
				path, _ := config.ConfigPath()
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			path, _ := config.ConfigPath()
			ui.SuccessMsg("created config file: %s", path)
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Edit the config to set sources and destination")
			fmt.Println("  2. Drop sport rulesets into the sports directory")
			fmt.Println("  3. Run 'sportwatch organize --dry-run' to preview")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if path, err := config.ConfigPath(); err == nil {
				fmt.Printf("Config file: %s\n", path)
			}

			ui.Section("library")
			fmt.Printf("Sources:     %v\n", cfg.Library.Sources)
			fmt.Printf("Destination: %s\n", cfg.Library.Destination)
			fmt.Printf("Quarantine:  %s\n", cfg.QuarantineDir())

			ui.Section("pipeline")
			fmt.Printf("Threshold:  %.2f\n", cfg.Pipeline.Threshold)
			fmt.Printf("Quarantine: %s\n", strings.Join(cfg.Pipeline.Quarantine, ", "))
			weights := cfg.WeightTable()
			table := ui.NewTable("FIELD", "WEIGHT")
			for _, field := range slots.Fields {
				if weight, ok := weights[field]; ok {
					table.AddRow(field, fmt.Sprintf("%d", weight))
				}
			}
			table.Render()

			ui.Section("extensions")
			fmt.Printf("Allowed: %v\n", cfg.Extensions.Allowed)
			fmt.Printf("Blocked: %v\n", cfg.Extensions.Blocked)

			ui.Section("release groups")
			fmt.Printf("Auto-add:       %v\n", cfg.ReleaseGroups.AutoAdd)
			fmt.Printf("Append unknown: %v\n", cfg.ReleaseGroups.AppendUnknown)

			ui.Section("probe")
			fmt.Printf("Enabled: %v\n", cfg.Probe.Enabled)
			if cfg.Probe.Enabled {
				fmt.Printf("Binary:  %s\n", cfg.Probe.Binary)
				fmt.Printf("Timeout: %ds\n", cfg.Probe.TimeoutSeconds)
			}

			ui.Section("daemon")
			fmt.Printf("Enabled:        %v\n", cfg.Daemon.Enabled)
			fmt.Printf("Scan frequency: %s\n", cfg.Daemon.ScanFrequency)
			fmt.Printf("Health address: %s\n", cfg.Daemon.HealthAddr)

			ui.Section("options")
			fmt.Printf("Dry run:  %v\n", cfg.Options.DryRun)
			fmt.Printf("Hardlink: %v\n", cfg.Options.Hardlink)
			fmt.Printf("Workers:  %d\n", cfg.Options.Workers)

			return nil
		},
	}
}

func newConfigSportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sports",
		Short: "List loaded sport rulesets",
		RunE: func(cmd *cobra.Command, args []string) error {
			sports, err := config.LoadSports()
			if err != nil {
				return err
			}
			if len(sports) == 0 {
				dir, _ := paths.SportsDir()
				fmt.Printf("no sport rulesets found under %s\n", dir)
				return nil
			}

			table := ui.NewTable("SPORT", "LEAGUES", "EVENTS", "WILDCARDS")
			for _, s := range sports {
				table.AddRow(s.Name,
					fmt.Sprintf("%d", len(s.Leagues)+len(s.LeaguePatterns)),
					fmt.Sprintf("%d", len(s.Events)+len(s.EventPatterns)),
					fmt.Sprintf("%d", len(s.Wildcards)))
			}
			table.Render()
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.ConfigPath()
			if err != nil {
				return err
			}
			sportsDir, err := paths.SportsDir()
			if err != nil {
				return err
			}
			registryPath, err := paths.RegistryPath()
			if err != nil {
				return err
			}
			fmt.Printf("config:   %s\n", configPath)
			fmt.Printf("sports:   %s\n", sportsDir)
			fmt.Printf("registry: %s\n", registryPath)
			return nil
		},
	}
}
