package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EmadAlmahdi/Backup-Manager/internal/backup"
	"github.com/EmadAlmahdi/Backup-Manager/internal/dump"
	"github.com/EmadAlmahdi/Backup-Manager/internal/metrics"
	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/EmadAlmahdi/Backup-Manager/internal/retention"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backupFlags struct {
	host    string
	port    int
	user    string
	options []string
}

var backupCmd = &cobra.Command{
	Use:   "backup [database]",
	Short: "Back up a MySQL database and apply retention",
	Long: `Back up one MySQL database into the storage directory, then delete
expendable artifacts according to the configured retention policy.

The database can be given as an argument or through the configuration
(mysql.database). The MySQL password is handed to mysqldump through the
MYSQL_PWD environment variable, never on its command line.

Examples:
  # Back up the configured database
  backup-manager backup

  # Back up a specific database
  backup-manager backup shopdb

  # Pass extra mysqldump options for this run
  backup-manager backup shopdb --option=--no-tablespaces`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupFlags.host, "host", "", "MySQL host, overrides the configuration")
	backupCmd.Flags().IntVar(&backupFlags.port, "port", 0, "MySQL port, overrides the configuration")
	backupCmd.Flags().StringVar(&backupFlags.user, "user", "", "MySQL user, overrides the configuration")
	backupCmd.Flags().StringArrayVar(&backupFlags.options, "option", nil, "extra mysqldump option, repeatable")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if backupFlags.host != "" {
		cfg.MySQL.Host = backupFlags.host
	}
	if backupFlags.port != 0 {
		cfg.MySQL.Port = backupFlags.port
	}
	if backupFlags.user != "" {
		cfg.MySQL.User = backupFlags.user
	}

	database := cfg.MySQL.Database
	if len(args) == 1 {
		database = args[0]
	}
	if database == "" {
		return fmt.Errorf("no database given: pass one as an argument or set mysql.database")
	}

	policy, err := retention.New(cfg.Retention.Policy, cfg.Retention.Limit, logger)
	if err != nil {
		return err
	}

	options := append([]string{}, cfg.Dump.Options...)
	options = append(options, backupFlags.options...)

	orchestrator, err := backup.NewOrchestrator(
		cfg.Storage.Path,
		mysql.NewClient(logger),
		dump.NewMysqldump(cfg.Dump.Binary, logger),
		policy,
		logger,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(logger)

	result, runErr := orchestrator.Run(ctx, credentialsFromConfig(cfg), database, options)
	if runErr != nil {
		collector.IncBackupTotal(metrics.StatusFailure)
	} else {
		collector.IncBackupTotal(metrics.StatusSuccess)
		collector.ObserveBackupDuration(result.Duration.Seconds())
		collector.SetBackupSize(result.Size)
		collector.AddRetentionDeleted(result.Deleted)
		collector.SetArtifactCount(result.Artifacts)
		collector.SetStorageBytes(result.StorageBytes)
	}

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics textfile", zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Backup written to %s (%s)\n", result.ArtifactPath, humanize.Bytes(uint64(result.Size)))
	if result.Deleted > 0 {
		fmt.Printf("Retention deleted %d artifact(s), %d kept using %s\n",
			result.Deleted, result.Artifacts, humanize.Bytes(uint64(result.StorageBytes)))
	}

	return nil
}
