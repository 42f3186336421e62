package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tsheet/internal/output"
	"tsheet/internal/store"
	"tsheet/internal/tracker"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "tsheet",
	Short: "Timesheet aggregation for issue trackers",
	Long: `tsheet aggregates logged time from Yandex Tracker or Jira,
reconciles it against the production-calendar working-hours norm,
and classifies imported calendar meetings into time tracks.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/tsheet/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "tsheet")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TSHEET")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "tsheet")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "tsheet.db"))
	viper.SetDefault("tracker.kind", "yandex")
	viper.SetDefault("tracker.base_url", "https://api.tracker.yandex.net")
	viper.SetDefault("tracker.token", "")
	viper.SetDefault("tracker.org_id", "")
	viper.SetDefault("tracker.queue", "")
	viper.SetDefault("tracker.project", "")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// The store is opened lazily so config/version commands run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// getTracker builds the configured tracker client.
func getTracker() (tracker.Client, error) {
	token := viper.GetString("tracker.token")
	if token == "" {
		return nil, fmt.Errorf("tracker.token is not configured (run 'tsheet config init')")
	}

	switch kind := viper.GetString("tracker.kind"); kind {
	case "yandex":
		return tracker.NewYandexClient(
			viper.GetString("tracker.base_url"),
			token,
			viper.GetString("tracker.org_id"),
			viper.GetString("tracker.queue"),
		), nil
	case "jira":
		return tracker.NewJiraClient(
			viper.GetString("tracker.base_url"),
			token,
			viper.GetString("tracker.project"),
		), nil
	default:
		return nil, fmt.Errorf("unknown tracker.kind: %q (use: yandex, jira)", kind)
	}
}
