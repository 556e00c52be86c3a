/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sheetcrm/config"
)

var (
	cfgFile string
	envFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sheetcrm",
	Short: "Serve and export a real-estate CRM kept in a Google spreadsheet.",
	Long: `
**********************************************
*                 SHEET CRM                  *
**********************************************

This CLI reads the properties, leads and appointments tabs of a CRM spreadsheet,
normalizes every row, and serves them as a JSON API. Rows can be created and
patched through the API; every write bumps the META change marker.

Supported sources:
- google: the Google Sheets API with a service account
- workbook: a local Excel workbook (.xlsx, .xlsm) with the same tabs
- snapshot: a read-only copy stored by "sheetcrm snapshot"
`,
	Example: `
  # Create configuration file
  sheetcrm config create

  # Check that the spreadsheet is reachable
  sheetcrm health

  # Serve the JSON API
  sheetcrm serve --port 8080

  # Export leads to Excel
  sheetcrm export --entity leads --output ./leads.xlsx

  # Map a local CSV export without touching the spreadsheet
  sheetcrm map -i ./citas.csv --entity appointments

  # Store a snapshot of every tab in SQLite
  sheetcrm snapshot

  # Print KPIs
  sheetcrm report
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.sheetcrm.yaml, then ./.sheetcrm.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with credentials, loaded when present")
}

// initConfig reads in the dotenv file, config file and ENV variables if set.
func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".sheetcrm" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sheetcrm")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: sheetcrm config create")
	}
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
