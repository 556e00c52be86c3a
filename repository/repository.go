// Package repository is the boundary between the spreadsheet transport and
// its consumers. Transport failures are absorbed here: the safe read methods
// always return a usable, possibly empty, result.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sheetcrm/importer"
	"sheetcrm/internal/timeutil"
	"sheetcrm/sheets"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrInvalid  = errors.New("invalid input")
)

// TabConfig tells the repository which tab holds an entity and how its rows
// are laid out. HeaderRows only applies to positional tabs: it is the number
// of rows above the data, zero for a headerless tab. Header tabs always have
// exactly one.
type TabConfig struct {
	Candidates []string
	Mode       importer.Mode
	HeaderRows int
}

type Options struct {
	Tabs   map[string]TabConfig
	Logger *logrus.Logger
	Now    func() time.Time
	NewID  func() string
}

type Repository struct {
	client   sheets.Client
	tabs     map[string]TabConfig
	logger   *logrus.Logger
	now      func() time.Time
	newID    func() string
	validate *validator.Validate

	mu       sync.Mutex
	resolved map[string]string
}

// DefaultTabs returns the known tab names for every entity, all with a
// header row.
func DefaultTabs() map[string]TabConfig {
	tabs := make(map[string]TabConfig)
	for key, candidates := range sheets.DefaultTabCandidates() {
		tabs[key] = TabConfig{Candidates: candidates, Mode: importer.ModeHeaderRow}
	}
	return tabs
}

// New builds a repository over client. The client is owned by the caller and
// is expected to live for the whole process.
func New(client sheets.Client, opts Options) *Repository {
	tabs := DefaultTabs()
	for key, tab := range opts.Tabs {
		if len(tab.Candidates) == 0 {
			tab.Candidates = tabs[key].Candidates
		}
		tabs[key] = tab
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Repository{
		client:   client,
		tabs:     tabs,
		logger:   logger,
		now:      now,
		newID:    newID,
		validate: newValidator(),
		resolved: make(map[string]string),
	}
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("loosedate", func(fl validator.FieldLevel) bool {
		_, ok := timeutil.ParseLooseDate(fl.Field().String())
		return ok
	})
	return validate
}

// Client exposes the underlying transport for diagnostics.
func (r *Repository) Client() sheets.Client {
	return r.client
}

// tab is a resolved tab: its title, layout mode and raw rows. headerRows is
// the number of rows above the first data row.
type tab struct {
	title      string
	mode       importer.Mode
	headerRows int
	rows       [][]string
}

func newTab(title string, cfg TabConfig, rows [][]string) tab {
	headerRows := 1
	if cfg.Mode == importer.ModePositional {
		headerRows = max(cfg.HeaderRows, 0)
	}
	return tab{title: title, mode: cfg.Mode, headerRows: headerRows, rows: rows}
}

func (t tab) records() []importer.Record {
	if t.mode == importer.ModePositional {
		return importer.Records(importer.SkipRows(t.rows, t.headerRows), importer.ModePositional)
	}
	return importer.Records(t.rows, importer.ModeHeaderRow)
}

// nextPosition is the record position an appended row will take.
func (t tab) nextPosition() int {
	return max(len(t.rows)-t.headerRows, 0) + 1
}

func (t tab) headerIndex() importer.HeaderIndex {
	if t.mode == importer.ModePositional {
		return nil
	}
	if len(t.rows) == 0 {
		return importer.HeaderIndex{}
	}
	return importer.BuildHeaderIndex(t.rows[0])
}

// sheetRow converts a record position into the 1-based spreadsheet row.
func (t tab) sheetRow(position int) int {
	return position + t.headerRows
}

func (r *Repository) tabConfig(key string) (TabConfig, error) {
	cfg, ok := r.tabs[key]
	if !ok {
		return TabConfig{}, fmt.Errorf("no tab configured for %s", key)
	}
	return cfg, nil
}

// resolveTitle finds the tab title for key, remembering the answer until a
// read against it fails.
func (r *Repository) resolveTitle(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	title, ok := r.resolved[key]
	r.mu.Unlock()
	if ok {
		return title, nil
	}

	cfg, err := r.tabConfig(key)
	if err != nil {
		return "", err
	}
	info, err := r.client.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("read spreadsheet info: %w", err)
	}
	title, err = sheets.ResolveTab(info.SheetTitles, cfg.Candidates)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.resolved[key] = title
	r.mu.Unlock()
	return title, nil
}

func (r *Repository) forget(key string) {
	r.mu.Lock()
	delete(r.resolved, key)
	r.mu.Unlock()
}

func (r *Repository) readTab(ctx context.Context, key string) (tab, error) {
	cfg, err := r.tabConfig(key)
	if err != nil {
		return tab{}, err
	}
	title, err := r.resolveTitle(ctx, key)
	if err != nil {
		return tab{}, err
	}

	rows, err := r.client.GetValues(ctx, sheets.QuoteTab(title))
	if err != nil {
		r.forget(key)
		return tab{}, fmt.Errorf("read tab %q: %w", title, err)
	}
	return newTab(title, cfg, rows), nil
}

// orEmpty is the single place where read failures turn into empty results.
func orEmpty[T any](logger *logrus.Logger, entity string, items []T, err error) ([]T, bool) {
	if err != nil {
		logger.WithFields(logrus.Fields{
			"entity": entity,
			"error":  err.Error(),
		}).Warn("spreadsheet read failed, serving empty result")
		return []T{}, false
	}
	if items == nil {
		return []T{}, true
	}
	return items, true
}
