package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sheetcrm/config"
	"sheetcrm/storage"
)

var (
	snapshotDBPath    string
	snapshotKeep      int
	snapshotPruneKeep int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store a copy of every spreadsheet tab in SQLite",
	Long: `Read every tab of the configured spreadsheet and store the raw cell matrices in a
local SQLite database.

Snapshots can later be served read-only with source.kind "snapshot", which keeps the
API answering while the spreadsheet is unreachable. After each capture, only the
newest snapshot.keep snapshots are retained (0 keeps all).`,
	Example: `
  # Capture into the configured database
  sheetcrm snapshot

  # Capture into a specific database and keep the last 7
  sheetcrm snapshot --db ./crm.db --keep 7

  # List stored snapshots
  sheetcrm snapshot list
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		if current.cfg.Source.Kind == config.SourceSnapshot {
			return fmt.Errorf("source kind snapshot is already a stored copy; capture from google or workbook")
		}

		dbPath := resolveSnapshotDB(snapshotDBPath, current.cfg.Snapshot.DB)
		keep := current.cfg.Snapshot.Keep
		if cmd.Flags().Changed("keep") {
			keep = snapshotKeep
		}

		snapshot, err := storage.CaptureSnapshot(cmd.Context(), current.client, time.Now())
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveSnapshot(snapshot)
		if err != nil {
			return err
		}
		pruned := int64(0)
		if keep > 0 {
			pruned, err = store.PruneSnapshots(keep)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Snapshot completed. ID: %d, Tabs: %d, Pruned: %d, DB: %s\n", id, len(snapshot.Tabs), pruned, dbPath)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(resolveSnapshotDB(snapshotDBPath, configuredSnapshotDB()))
		if err != nil {
			return err
		}
		defer store.Close()

		summaries, err := store.ListSnapshots()
		if err != nil {
			return err
		}
		printSnapshotSummaries(os.Stdout, summaries)
		return nil
	},
}

var snapshotPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest snapshots",
	Example: `
  # Keep the newest 5 snapshots
  sheetcrm snapshot prune --keep 5
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(resolveSnapshotDB(snapshotDBPath, configuredSnapshotDB()))
		if err != nil {
			return err
		}
		defer store.Close()

		pruned, err := store.PruneSnapshots(snapshotPruneKeep)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned snapshots: %d\n", pruned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotPruneCmd)

	snapshotCmd.PersistentFlags().StringVar(&snapshotDBPath, "db", "", "Path to the snapshot SQLite database (default: snapshot.db from config)")
	snapshotCmd.Flags().IntVar(&snapshotKeep, "keep", 0, "Snapshots to retain after capture (default: snapshot.keep from config)")
	snapshotPruneCmd.Flags().IntVar(&snapshotPruneKeep, "keep", config.DefaultSnapshotRetains, "Snapshots to retain")
}

func configuredSnapshotDB() string {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return ""
	}
	return cfg.Snapshot.DB
}

func resolveSnapshotDB(flagValue, configValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if strings.TrimSpace(configValue) != "" {
		return configValue
	}
	return config.DefaultSnapshotDB
}

func printSnapshotSummaries(out io.Writer, summaries []storage.SnapshotSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No snapshots stored.")
		return
	}
	fmt.Fprintf(out, "%-6s %-25s %-5s %-6s %s\n", "ID", "TAKEN AT", "TABS", "ROWS", "SPREADSHEET")
	for _, summary := range summaries {
		fmt.Fprintf(out, "%-6d %-25s %-5d %-6d %s\n",
			summary.ID,
			summary.TakenAt.Local().Format(time.RFC3339),
			summary.TabCount,
			summary.RowCount,
			summary.Title,
		)
	}
}
