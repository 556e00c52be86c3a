package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	valueInputUserEntered = "USER_ENTERED"
	insertDataInsertRows  = "INSERT_ROWS"
)

// GoogleConfig describes how to reach a Google spreadsheet. CredentialsJSON
// takes precedence over ClientEmail/PrivateKey. HTTPClient and Endpoint
// replace authentication entirely and are meant for tests.
type GoogleConfig struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	ClientEmail     string
	PrivateKey      string
	HTTPClient      *http.Client
	Endpoint        string
}

type GoogleClient struct {
	spreadsheetID string
	service       *gsheets.Service
}

func NewGoogleClient(ctx context.Context, cfg GoogleConfig) (*GoogleClient, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleClient{spreadsheetID: spreadsheetID, service: service}, nil
}

func clientOptions(ctx context.Context, cfg GoogleConfig) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case len(cfg.CredentialsJSON) > 0:
		conf, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, gsheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account json: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(conf.Client(ctx)))
	case strings.TrimSpace(cfg.ClientEmail) != "" && strings.TrimSpace(cfg.PrivateKey) != "":
		conf := &jwt.Config{
			Email:      strings.TrimSpace(cfg.ClientEmail),
			PrivateKey: []byte(NormalizePrivateKey(cfg.PrivateKey)),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = append(opts, option.WithHTTPClient(conf.Client(ctx)))
	default:
		return nil, errors.New("service account credentials are required")
	}

	return opts, nil
}

// NormalizePrivateKey turns escaped "\n" sequences from environment
// variables back into newlines.
func NormalizePrivateKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, `"`)
	return strings.ReplaceAll(key, `\n`, "\n")
}

func (c *GoogleClient) Info(ctx context.Context) (Info, error) {
	resp, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("spreadsheetId,properties.title,sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return Info{}, fmt.Errorf("get spreadsheet %s: %w", c.spreadsheetID, err)
	}

	info := Info{SpreadsheetID: resp.SpreadsheetId}
	if resp.Properties != nil {
		info.Title = resp.Properties.Title
	}
	for _, sheet := range resp.Sheets {
		if sheet == nil || sheet.Properties == nil {
			continue
		}
		info.SheetTitles = append(info.SheetTitles, sheet.Properties.Title)
	}
	return info, nil
}

func (c *GoogleClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", rng, err)
	}
	return StringifyValues(resp.Values), nil
}

func (c *GoogleClient) UpdateValues(ctx context.Context, rng string, rows [][]string) error {
	body := &gsheets.ValueRange{Values: toInterfaceRows(rows)}
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, rng, body).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update values %s: %w", rng, err)
	}
	return nil
}

func (c *GoogleClient) AppendValues(ctx context.Context, rng string, rows [][]string) error {
	body := &gsheets.ValueRange{Values: toInterfaceRows(rows)}
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, rng, body).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertDataInsertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append values %s: %w", rng, err)
	}
	return nil
}
