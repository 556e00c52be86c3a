package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"sheetcrm/config"
	"sheetcrm/importer"
	"sheetcrm/internal/logging"
	"sheetcrm/repository"
	"sheetcrm/sheets"
	"sheetcrm/storage"
)

// app bundles what a command needs to talk to the spreadsheet. It is
// built once per command run.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	client sheets.Client
	repo   *repository.Repository
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	client, err := newSheetsClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tabs, err := repositoryTabs(cfg.Tabs)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"source": cfg.Source.Kind,
	}).Debug("spreadsheet client ready")

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		repo:   repository.New(client, repository.Options{Tabs: tabs, Logger: logger}),
	}, nil
}

func newSheetsClient(ctx context.Context, cfg *config.Config) (sheets.Client, error) {
	switch cfg.Source.Kind {
	case config.SourceGoogle:
		credentials, err := credentialsJSON(cfg.Google.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		client, err := sheets.NewGoogleClient(ctx, sheets.GoogleConfig{
			SpreadsheetID:   cfg.Google.SpreadsheetID,
			CredentialsJSON: credentials,
			ClientEmail:     cfg.Google.ClientEmail,
			PrivateKey:      cfg.Google.PrivateKey,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.SourceWorkbook:
		client, err := sheets.NewWorkbookClient(cfg.Workbook.Path)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.SourceSnapshot:
		store, err := storage.OpenSQLite(cfg.Snapshot.DB)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		client, err := storage.OpenSnapshotClient(store, cfg.Snapshot.ID)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", cfg.Source.Kind)
	}
}

// credentialsJSON accepts either the service account JSON itself or a path
// to the file holding it.
func credentialsJSON(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "{") {
		return []byte(value), nil
	}
	content, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return content, nil
}

func repositoryTabs(cfg config.TabsConfig) (map[string]repository.TabConfig, error) {
	entries := map[string]config.TabConfig{
		sheets.TabProperties:   cfg.Properties,
		sheets.TabLeads:        cfg.Leads,
		sheets.TabAppointments: cfg.Appointments,
		sheets.TabMeta:         cfg.Meta,
	}

	tabs := make(map[string]repository.TabConfig, len(entries))
	for key, entry := range entries {
		mode, err := importer.ParseMode(entry.Layout)
		if err != nil {
			return nil, fmt.Errorf("tabs.%s.layout: %w", key, err)
		}
		tabs[key] = repository.TabConfig{Candidates: entry.Candidates, Mode: mode, HeaderRows: entry.HeaderRows}
	}
	return tabs, nil
}
