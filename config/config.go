package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	SourceGoogle   = "google"
	SourceWorkbook = "workbook"
	SourceSnapshot = "snapshot"
)

const (
	KeySourceKind          = "source.kind"
	KeySpreadsheetID       = "google.spreadsheet_id"
	KeyCredentialsJSON     = "google.credentials_json"
	KeyClientEmail         = "google.client_email"
	KeyPrivateKey          = "google.private_key"
	KeyWorkbookPath        = "workbook.path"
	KeySnapshotDB          = "snapshot.db"
	KeySnapshotID          = "snapshot.id"
	KeySnapshotKeep        = "snapshot.keep"
	KeyServerPort          = "server.port"
	KeyServerFetchTimeout  = "server.fetch_timeout"
	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
	DefaultHeaderRows      = 1
	DefaultPort            = 8080
	DefaultFetchTimeout    = 15 * time.Second
	DefaultSnapshotDB      = "sheetcrm-snapshots.db"
	DefaultSnapshotRetains = 30
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source" validate:"required"`
	Google   GoogleConfig   `mapstructure:"google"`
	Workbook WorkbookConfig `mapstructure:"workbook"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Tabs     TabsConfig     `mapstructure:"tabs"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type SourceConfig struct {
	Kind string `mapstructure:"kind" validate:"required,oneof=google workbook snapshot"`
}

// GoogleConfig holds the service account used against the Sheets API. Either
// CredentialsJSON or the ClientEmail/PrivateKey pair is enough.
type GoogleConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	ClientEmail     string `mapstructure:"client_email" validate:"omitempty,email"`
	PrivateKey      string `mapstructure:"private_key"`
}

type WorkbookConfig struct {
	Path string `mapstructure:"path"`
}

type SnapshotConfig struct {
	DB   string `mapstructure:"db"`
	ID   int64  `mapstructure:"id" validate:"gte=0"`
	Keep int    `mapstructure:"keep" validate:"gte=0"`
}

type TabsConfig struct {
	Properties   TabConfig `mapstructure:"properties"`
	Leads        TabConfig `mapstructure:"leads"`
	Appointments TabConfig `mapstructure:"appointments"`
	Meta         TabConfig `mapstructure:"meta"`
}

// TabConfig overrides where an entity lives. Empty candidates keep the
// built-in tab names. HeaderRows is only read for positional layouts.
type TabConfig struct {
	Candidates []string `mapstructure:"candidates" validate:"dive,required"`
	Layout     string   `mapstructure:"layout" validate:"omitempty,oneof=header positional"`
	HeaderRows int      `mapstructure:"header_rows" validate:"gte=0,lte=10"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// SetDefaults sets default values and environment bindings on the global
// Viper instance.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
// Credentials may still come from the environment.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# sheetcrm configuration
source:
  # google | workbook | snapshot
  kind: "google"

google:
  # May also come from SHEET_ID, GOOGLE_SERVICE_ACCOUNT_JSON,
  # GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY.
  spreadsheet_id: ""
  credentials_json: ""
  client_email: ""
  private_key: ""

workbook:
  path: ""

snapshot:
  db: "sheetcrm-snapshots.db"
  id: 0
  keep: 30

tabs:
  properties:
    candidates: []
    layout: "header"
    # rows above the data when layout is "positional"
    header_rows: 1
  leads:
    candidates: []
    layout: "header"
    # rows above the data when layout is "positional"
    header_rows: 1
  appointments:
    candidates: []
    layout: "header"
    # rows above the data when layout is "positional"
    header_rows: 1
  meta:
    candidates: []

server:
  port: 8080
  fetch_timeout: "15s"

log:
  level: "info"
  format: "text"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
	})
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", describeValidation(err))
	}
	if err := validateSource(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// describeValidation rewrites validator errors in terms of config keys, so
// "Config.Source.Kind" reads as "source.kind must be one of ...".
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		key := fieldErr.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		messages = append(messages, key+" "+ruleMessage(fieldErr))
	}
	return errors.New(strings.Join(messages, "; "))
}

func ruleMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "min", "gte":
		return "must be at least " + fieldErr.Param()
	case "max", "lte":
		return "must be at most " + fieldErr.Param()
	case "gt":
		return "must be greater than " + fieldErr.Param()
	case "email":
		return "must be an email address"
	default:
		return fmt.Sprintf("failed %q", fieldErr.Tag())
	}
}

// SourceSummary describes in one line where the configured data comes from.
func SourceSummary(cfg *Config) string {
	switch cfg.Source.Kind {
	case SourceGoogle:
		auth := "client_email/private_key"
		if strings.TrimSpace(cfg.Google.CredentialsJSON) != "" {
			auth = "credentials_json"
		}
		return fmt.Sprintf("google spreadsheet %s (auth: %s)", cfg.Google.SpreadsheetID, auth)
	case SourceWorkbook:
		return "workbook " + cfg.Workbook.Path
	case SourceSnapshot:
		if cfg.Snapshot.ID > 0 {
			return fmt.Sprintf("snapshot #%d in %s", cfg.Snapshot.ID, cfg.Snapshot.DB)
		}
		return "latest snapshot in " + cfg.Snapshot.DB
	default:
		return cfg.Source.Kind
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySourceKind, SourceGoogle)
	v.SetDefault(KeySnapshotDB, DefaultSnapshotDB)
	v.SetDefault(KeySnapshotID, 0)
	v.SetDefault(KeySnapshotKeep, DefaultSnapshotRetains)
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyServerFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	for _, tab := range []string{"properties", "leads", "appointments", "meta"} {
		v.SetDefault("tabs."+tab+".header_rows", DefaultHeaderRows)
	}

	_ = v.BindEnv(KeySpreadsheetID, "SHEET_ID")
	_ = v.BindEnv(KeyCredentialsJSON, "GOOGLE_SERVICE_ACCOUNT_JSON")
	_ = v.BindEnv(KeyClientEmail, "GOOGLE_SERVICE_ACCOUNT_EMAIL", "GOOGLE_CLIENT_EMAIL")
	_ = v.BindEnv(KeyPrivateKey, "GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY", "GOOGLE_PRIVATE_KEY")
	_ = v.BindEnv(KeyServerPort, "PORT")
}

func validateSource(cfg Config) error {
	switch cfg.Source.Kind {
	case SourceGoogle:
		if strings.TrimSpace(cfg.Google.SpreadsheetID) == "" {
			return fmt.Errorf("validation failed: google.spreadsheet_id is required (or set SHEET_ID)")
		}
		if strings.TrimSpace(cfg.Google.CredentialsJSON) != "" {
			return nil
		}
		if strings.TrimSpace(cfg.Google.ClientEmail) == "" || strings.TrimSpace(cfg.Google.PrivateKey) == "" {
			return fmt.Errorf("validation failed: google requires credentials_json (or GOOGLE_SERVICE_ACCOUNT_JSON) or client_email/private_key (or GOOGLE_SERVICE_ACCOUNT_EMAIL/GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY)")
		}
	case SourceWorkbook:
		if strings.TrimSpace(cfg.Workbook.Path) == "" {
			return fmt.Errorf("validation failed: workbook.path is required for source kind workbook")
		}
	case SourceSnapshot:
		if strings.TrimSpace(cfg.Snapshot.DB) == "" {
			return fmt.Errorf("validation failed: snapshot.db is required for source kind snapshot")
		}
	}
	return nil
}
