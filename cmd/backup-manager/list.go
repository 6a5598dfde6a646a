package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored backup artifacts",
	Long: `List the backup artifacts in the storage directory, newest first,
with their sizes and ages.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	artifacts, err := storage.Scan(cfg.Storage.Path)
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		fmt.Printf("No backup artifacts in %s\n", cfg.Storage.Path)
		return nil
	}

	storage.SortNewestFirst(artifacts)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
	for _, artifact := range artifacts {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			artifact.Name(),
			humanize.Bytes(uint64(artifact.Size)),
			humanize.Time(artifact.LastModified),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d artifact(s), %s total\n",
		len(artifacts), humanize.Bytes(uint64(storage.TotalSize(artifacts))))
	return nil
}
