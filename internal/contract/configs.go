package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sprintsync/sprintsync/schema"
)

// Environment variable fallbacks for values that should not live in a config
// file. A value in the config file wins over the environment; the environment
// only fills gaps.
const (
	EnvTrackerUser   = "JIRA_USER"
	EnvTrackerToken  = "JIRA_TOKEN"
	EnvTrackerServer = "JIRA_SERVER"
	EnvDBEndpoint    = "DB_ENDPOINT"
	EnvDBUser        = "DB_USER"
	EnvDBPassword    = "DB_PASSWORD"
	EnvDBTableName   = "DB_TABLE_NAME"
)

// DefaultQueriesFile is the queries file looked up when --queries is not set.
const DefaultQueriesFile = "queries.yml"

// Config holds the validated runtime configuration for a batch run.
// This struct remains the "final, validated" config.
type Config struct {
	TrackerServer string
	TrackerUser   string
	TrackerToken  string // Please use env var as this is plaintext

	SinkBackend schema.SinkBackend
	DBEndpoint  string
	DBUser      string
	DBPassword  string // Please use env var as this is plaintext
	DBName      string
	SQLitePath  string

	IssueTable      string
	SprintTimeTable string
	SprintField     string

	// Queries maps query name to its JQL text, loaded from the queries file.
	Queries map[string]string

	OutputFile string
	UseColors  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	QueriesFile     string `mapstructure:"queries"`
	SinkBackend     string `mapstructure:"sink-backend"`
	SQLitePath      string `mapstructure:"sink-db-file"`
	IssueTable      string `mapstructure:"issue-table"`
	SprintTimeTable string `mapstructure:"sprint-table"`
	SprintField     string `mapstructure:"sprint-field"`
	OutputFile      string `mapstructure:"output-file"`
	Color           string `mapstructure:"color"`

	// --- Fields from the config file only ---
	Tracker struct {
		Server string `mapstructure:"server"`
		User   string `mapstructure:"user"`
		Token  string `mapstructure:"token"`
	} `mapstructure:"tracker"`

	Database struct {
		Endpoint string `mapstructure:"endpoint"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		Table    string `mapstructure:"table"`
	} `mapstructure:"database"`
}

// resolve returns the config file value when present, otherwise the named
// environment variable. Config beats environment on purpose: a run should be
// reproducible from its config file alone.
func resolve(fileValue, envName string) string {
	if fileValue != "" {
		return fileValue
	}
	return os.Getenv(envName)
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Tracker credentials ---
	cfg.TrackerServer = strings.TrimRight(resolve(input.Tracker.Server, EnvTrackerServer), "/")
	cfg.TrackerUser = resolve(input.Tracker.User, EnvTrackerUser)
	cfg.TrackerToken = resolve(input.Tracker.Token, EnvTrackerToken)
	if cfg.TrackerServer == "" {
		return fmt.Errorf("tracker server is required (config tracker.server or %s)", EnvTrackerServer)
	}
	if cfg.TrackerUser == "" || cfg.TrackerToken == "" {
		return fmt.Errorf("tracker credentials are required (config tracker.user/token or %s/%s)", EnvTrackerUser, EnvTrackerToken)
	}

	// --- 2. Sink backend ---
	cfg.SinkBackend = schema.SinkBackend(strings.ToLower(input.SinkBackend))
	if _, ok := schema.ValidSinkBackends[cfg.SinkBackend]; !ok {
		return fmt.Errorf("invalid sink backend '%s'. must be sqlite, mysql, postgresql", input.SinkBackend)
	}
	cfg.DBEndpoint = resolve(input.Database.Endpoint, EnvDBEndpoint)
	cfg.DBUser = resolve(input.Database.User, EnvDBUser)
	cfg.DBPassword = resolve(input.Database.Password, EnvDBPassword)
	cfg.DBName = input.Database.Name
	switch cfg.SinkBackend {
	case schema.SQLiteBackend:
		cfg.SQLitePath = input.SQLitePath
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = GetSinkDBFilePath()
		}
	default:
		if cfg.DBEndpoint == "" {
			return fmt.Errorf("database endpoint is required for %s (config database.endpoint or %s)", cfg.SinkBackend, EnvDBEndpoint)
		}
		if cfg.DBUser == "" || cfg.DBPassword == "" {
			return fmt.Errorf("database credentials are required for %s (config database.user/password or %s/%s)", cfg.SinkBackend, EnvDBUser, EnvDBPassword)
		}
		if cfg.DBName == "" {
			cfg.DBName = "postgres"
		}
	}

	// --- 3. Tables and sprint field ---
	cfg.IssueTable = firstNonEmpty(input.IssueTable, input.Database.Table, os.Getenv(EnvDBTableName), schema.DefaultIssueTable)
	cfg.SprintTimeTable = firstNonEmpty(input.SprintTimeTable, schema.DefaultSprintTimeTable)
	cfg.SprintField = firstNonEmpty(input.SprintField, schema.DefaultSprintField)

	// --- 4. Output options ---
	cfg.OutputFile = input.OutputFile
	colors, err := ParseBoolString(firstNonEmpty(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// LoadQueries reads the queries file, a flat YAML mapping of query name to
// JQL text, into cfg.Queries. A missing file with the default name is not an
// error; the issues pipeline then simply has nothing to do.
func LoadQueries(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultQueriesFile
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return fmt.Errorf("queries file %s: %w", path, err)
		}
		cfg.Queries = map[string]string{}
		return nil
	}

	qv := viper.New()
	qv.SetConfigFile(path)
	if err := qv.ReadInConfig(); err != nil {
		return fmt.Errorf("queries file %s: %w", path, err)
	}

	queries := make(map[string]string)
	for name, raw := range qv.AllSettings() {
		jql, ok := raw.(string)
		if !ok || strings.TrimSpace(jql) == "" {
			return fmt.Errorf("queries file %s: query %q must be a non-empty JQL string", path, name)
		}
		queries[name] = jql
	}
	cfg.Queries = queries
	return nil
}

// GetSinkDBFilePath returns the path to the SQLite DB file for sink storage.
func GetSinkDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sprintsync.db"
	}
	return filepath.Join(homeDir, ".sprintsync.db")
}
