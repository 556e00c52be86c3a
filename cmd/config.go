package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sheetcrm configuration file values.",
	Long: `Create, edit, display, and delete the sheetcrm configuration file.

The configuration stores the spreadsheet source and runtime settings:
- source.kind (google | workbook | snapshot)
- google.spreadsheet_id / credentials_json / client_email / private_key
- workbook.path, snapshot.db / snapshot.id / snapshot.keep
- tabs.<entity>.candidates / layout
- server.port / server.fetch_timeout, log.level / log.format

Credentials may also come from the environment or a .env file.`,
	Example: `
  # Create default config in $HOME/.sheetcrm.yaml
  sheetcrm config create

  # Show active config and source file
  sheetcrm config show

  # Open active config in editor (creates example if missing)
  sheetcrm config edit

  # Delete active config file
  sheetcrm config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
