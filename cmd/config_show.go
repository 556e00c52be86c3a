package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sheetcrm/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are masked.`,
	Example: `
  # Show active configuration
  sheetcrm config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		printConfig(os.Stdout, cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "source.kind: %s\n", cfg.Source.Kind)
	fmt.Fprintf(out, "google.spreadsheet_id: %s\n", cfg.Google.SpreadsheetID)
	fmt.Fprintf(out, "google.credentials_json: %s\n", maskSecret(cfg.Google.CredentialsJSON))
	fmt.Fprintf(out, "google.client_email: %s\n", cfg.Google.ClientEmail)
	fmt.Fprintf(out, "google.private_key: %s\n", maskSecret(cfg.Google.PrivateKey))
	fmt.Fprintf(out, "workbook.path: %s\n", cfg.Workbook.Path)
	fmt.Fprintf(out, "snapshot.db: %s\n", cfg.Snapshot.DB)
	fmt.Fprintf(out, "snapshot.id: %d\n", cfg.Snapshot.ID)
	fmt.Fprintf(out, "snapshot.keep: %d\n", cfg.Snapshot.Keep)
	for _, entry := range []struct {
		name string
		tab  config.TabConfig
	}{
		{name: "properties", tab: cfg.Tabs.Properties},
		{name: "leads", tab: cfg.Tabs.Leads},
		{name: "appointments", tab: cfg.Tabs.Appointments},
		{name: "meta", tab: cfg.Tabs.Meta},
	} {
		candidates := "(default)"
		if len(entry.tab.Candidates) > 0 {
			candidates = strings.Join(entry.tab.Candidates, ", ")
		}
		layout := entry.tab.Layout
		if layout == "" {
			layout = "header"
		}
		fmt.Fprintf(out, "tabs.%s.candidates: %s\n", entry.name, candidates)
		fmt.Fprintf(out, "tabs.%s.layout: %s\n", entry.name, layout)
		if layout == "positional" {
			fmt.Fprintf(out, "tabs.%s.header_rows: %d\n", entry.name, entry.tab.HeaderRows)
		}
	}
	fmt.Fprintf(out, "server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(out, "server.fetch_timeout: %s\n", cfg.Server.FetchTimeout)
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "log.format: %s\n", cfg.Log.Format)
}

func maskSecret(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "****"
}
