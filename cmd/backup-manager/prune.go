package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EmadAlmahdi/Backup-Manager/internal/retention"
	"github.com/spf13/cobra"
)

var pruneFlags struct {
	policy string
	limit  int
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy without taking a backup",
	Long: `Delete expendable backup artifacts from the storage directory
according to the retention policy, without creating a new backup first.

Examples:
  # Apply the configured policy
  backup-manager prune

  # Ad-hoc: keep only the newest five backups
  backup-manager prune --policy count --limit 5`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneFlags.policy, "policy", "", "retention policy (count, age or size)")
	pruneCmd.Flags().IntVar(&pruneFlags.limit, "limit", 0, "retention limit for the chosen policy")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if pruneFlags.policy != "" {
		cfg.Retention.Policy = pruneFlags.policy
	}
	if pruneFlags.limit != 0 {
		cfg.Retention.Limit = pruneFlags.limit
	}

	policy, err := retention.New(cfg.Retention.Policy, cfg.Retention.Limit, logger)
	if err != nil {
		return err
	}
	if policy == nil {
		return fmt.Errorf("no retention policy configured: set retention.policy and retention.limit, or pass --policy and --limit")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deleted, err := policy.Cleanup(ctx, cfg.Storage.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d artifact(s)\n", deleted)
	return nil
}
