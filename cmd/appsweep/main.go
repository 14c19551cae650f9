package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/appsweep/appsweep/internal/appindex"
	"github.com/appsweep/appsweep/internal/catalog"
	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/reporter"
	"github.com/appsweep/appsweep/internal/scanjob"
	"github.com/appsweep/appsweep/internal/server"
	"github.com/appsweep/appsweep/internal/ui"
	"github.com/appsweep/appsweep/internal/watcher"
	"github.com/appsweep/appsweep/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	dryRun     bool
	assumeYes  bool
	outputFmt  string
	outputFile string
	serverAddr string
	schedule   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appsweep",
	Short: "Find and remove leftovers of uninstalled macOS apps",
	Long: `AppSweep inventories the applications installed on this Mac, then walks the
Library locations where apps keep containers, preferences, caches, logs and
login items, and reports everything that belongs to an app you no longer have.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for leftovers of uninstalled apps",
	Long:  `Scans the Library locations and reports leftover candidates without making any changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		color.NoColor = !reporter.ColorEnabled(cfg.Output.Color)

		engine := leftover.NewEngine(cfg, info)

		fmt.Println("Scanning for leftovers...")
		result := engine.Scan(cmd.Context())

		format := parseFormat(outputFmt)
		if outputFile != "" {
			if err := reporter.SaveToFile(result, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}

		rptr := reporter.New(os.Stdout, format)
		if err := rptr.Report(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		if verbose && len(result.Skipped) > 0 {
			fmt.Printf("\nExamined but skipped (%d):\n", len(result.Skipped))
			for _, s := range result.Skipped {
				fmt.Printf("  %-18s %s\n", s.Reason, s.Path)
			}
		}

		return nil
	},
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed application identifiers",
	Long:  `Builds the installed-application index and prints every identifier it found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		index := appindex.NewBuilder(info).Build(cmd.Context())

		for _, id := range index.Identifiers() {
			fmt.Println(id)
		}
		fmt.Fprintf(os.Stderr, "%d installed applications\n", index.Len())

		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Interactively review and remove leftovers",
	Long: `Scans for leftovers, then opens an interactive view to pick what gets removed.
With --yes the pre-selected items are removed without the interactive review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = dryRun
		}

		if !assumeYes {
			return ui.RunInteractive(cfg)
		}

		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		fmt.Println("Scanning for leftovers...")
		scanResult := leftover.NewEngine(cfg, info).Scan(cmd.Context())

		var selected []leftover.Item
		for _, item := range scanResult.Items {
			if item.Selected {
				selected = append(selected, item)
			}
		}
		if len(selected) == 0 {
			fmt.Println("Nothing to remove.")
			return nil
		}

		c := cleaner.New(cfg)
		for _, p := range info.ProtectedPaths {
			c.Validator().AddProtectedPath(p)
		}

		result := c.Clean(selected)

		action := "Removed"
		if result.DryRun {
			action = "Would remove"
		}
		fmt.Printf("%s %d items, %s\n", action, result.Removed, utils.FormatBytes(result.RemovedSize))
		if result.Failed > 0 {
			fmt.Printf("Failed: %d items\n", result.Failed)
			for _, re := range result.Errors {
				fmt.Println("  " + re.UserMessage())
			}
		}
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List well-known cache locations and their sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		entries := catalog.NewScanner(info).Scan()

		if parseFormat(outputFmt) == reporter.FormatJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		fmt.Printf("%-22s %-10s %-6s %s\n", "Location", "Size", "Risk", "Path")
		for _, e := range entries {
			if !e.Exists {
				continue
			}
			fmt.Printf("%-22s %-10s %-6s %s\n", e.Name, utils.FormatBytes(e.Size), e.Risk, e.Path)
		}

		return nil
	},
}

var catalogEmptyCmd = &cobra.Command{
	Use:   "empty <location-id>...",
	Short: "Empty well-known cache locations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = dryRun
		}

		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		results := catalog.NewScanner(info).Empty(args, cfg.DryRun)
		for _, r := range results {
			if r.Error != "" {
				fmt.Printf("%-22s error: %s\n", r.ID, r.Error)
				continue
			}
			action := "freed"
			if r.DryRun {
				action = "would free"
			}
			fmt.Printf("%-22s %s %s (%d entries)\n", r.ID, action, utils.FormatBytes(r.FreedSize), r.Removed)
		}

		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API server",
	Long:  `Serves the scan, clean, catalog and system-stats operations over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serverAddr
		}
		if cmd.Flags().Changed("schedule") {
			cfg.Server.ScanSchedule = schedule
		}

		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, info).ListenAndServe(ctx)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the Applications folders and rescan on app churn",
	Long: `Watches the Applications directories and runs a scan whenever apps are
installed or removed, printing a summary after each scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		info, err := platform.GetInfo()
		if err != nil {
			return fmt.Errorf("failed to get platform info: %w", err)
		}

		engine := leftover.NewEngine(cfg, info)
		jobs := scanjob.NewManager(func(ctx context.Context) *leftover.Result {
			result := engine.Scan(ctx)
			fmt.Printf("scan complete: %d leftover items, %s reclaimable\n",
				result.TotalCount, utils.FormatBytes(result.TotalSize))
			return result
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watcher.New(info, func() {
			if id, accepted := jobs.Start(ctx); accepted {
				fmt.Printf("application change detected, scanning (job %s)\n", id)
			}
		})

		fmt.Println("Watching for application changes. Ctrl+C to stop.")
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := configPath
		if cfgPath == "" {
			var err error
			cfgPath, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	scanCmd.Flags().StringVar(&outputFmt, "format", "table", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "output", "", "save report to file")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without removing")
	cleanCmd.Flags().BoolVar(&assumeYes, "yes", false, "remove the pre-selected items without the interactive review")

	catalogCmd.Flags().StringVar(&outputFmt, "format", "table", "output format (table, json)")
	catalogEmptyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed without removing")
	catalogCmd.AddCommand(catalogEmptyCmd)

	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&schedule, "schedule", "", "cron expression for periodic scans")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

func parseFormat(s string) reporter.OutputFormat {
	switch s {
	case "json":
		return reporter.FormatJSON
	case "yaml":
		return reporter.FormatYAML
	case "summary":
		return reporter.FormatSummary
	default:
		return reporter.FormatTable
	}
}
