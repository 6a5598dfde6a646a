package main

import (
	"fmt"
	"os"

	"github.com/EmadAlmahdi/Backup-Manager/internal/config"
	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "backup-manager",
	Short: "Timestamped MySQL backups with retention",
	Long: `backup-manager takes timestamped dumps of a MySQL database with
mysqldump and keeps a bounded set of them according to a retention policy:
keep the newest N backups, keep backups for N days, or keep the total size
under N megabytes.

Every run is one shot: back up, prune, exit. Point a cron job or systemd
timer at it.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the config file path and assembles the run
// configuration. The default path is only used when the file exists.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// initLogger builds the process logger at the configured level.
func initLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(parsed)
	return loggerConfig.Build()
}

func credentialsFromConfig(cfg *config.Config) mysql.Credentials {
	return mysql.Credentials{
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
	}
}
