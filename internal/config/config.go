package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Parser  ParserConfig  `yaml:"parser" envconfig:"PARSER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/emaparse.log" validate:"required"`
}

// OutputConfig names the files the pipeline produces. The defaults are
// fixed names downstream tooling relies on; they are configuration
// points, not hardcoded strings, so alternate layouts stay possible.
type OutputConfig struct {
	Dir            string `yaml:"dir" envconfig:"DIR" default:"output" validate:"required"`
	SubjectsSubdir string `yaml:"subjects_subdir" envconfig:"SUBJECTS_SUBDIR" default:"Subjects" validate:"required"`
	CompositeCSV   string `yaml:"composite_csv" envconfig:"COMPOSITE_CSV" default:"all_subjects.csv" validate:"required"`
	CompositeXLSX  string `yaml:"composite_xlsx" envconfig:"COMPOSITE_XLSX" default:"all_subjects.xlsx" validate:"required"`
	QuarantineJSON string `yaml:"quarantine_json" envconfig:"QUARANTINE_JSON" default:"parent-errors.json" validate:"required"`
	DuplicatesJSON string `yaml:"duplicates_json" envconfig:"DUPLICATES_JSON" default:"response-duplicates.json" validate:"required"`
	ErrorLog       string `yaml:"error_log" envconfig:"ERROR_LOG" default:"error-log.txt" validate:"required"`
}

// ParserConfig contains normalization policy knobs
type ParserConfig struct {
	// ListDelimiter joins list-valued answers into one cell so a ping
	// stays a single row.
	ListDelimiter string `yaml:"list_delimiter" envconfig:"LIST_DELIMITER" default:";" validate:"required"`
	// PNAValue is the cell emitted for prefer-not-to-answer responses.
	PNAValue string `yaml:"pna_value" envconfig:"PNA_VALUE" default:"PNA" validate:"required"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. Environment variables take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("EMA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		overlayFileConfig(&cfg, *fileConfig)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlayFileConfig applies file values over the env/default config.
// Precedence is env var > config file > struct default; envconfig
// fills defaults for unset vars, so a field only keeps its file value
// when its env var is genuinely absent.
func overlayFileConfig(cfg *Config, file Config) {
	set := func(envKey string, dst *string, fileVal string) {
		if fileVal == "" {
			return
		}
		if _, ok := os.LookupEnv(envKey); ok {
			return
		}
		*dst = fileVal
	}

	set("EMA_LOGGING_LEVEL", &cfg.Logging.Level, file.Logging.Level)
	set("EMA_LOGGING_FORMAT", &cfg.Logging.Format, file.Logging.Format)
	set("EMA_LOGGING_OUTPUT", &cfg.Logging.Output, file.Logging.Output)
	set("EMA_LOGGING_FILE_PATH", &cfg.Logging.FilePath, file.Logging.FilePath)
	set("EMA_OUTPUT_DIR", &cfg.Output.Dir, file.Output.Dir)
	set("EMA_OUTPUT_SUBJECTS_SUBDIR", &cfg.Output.SubjectsSubdir, file.Output.SubjectsSubdir)
	set("EMA_OUTPUT_COMPOSITE_CSV", &cfg.Output.CompositeCSV, file.Output.CompositeCSV)
	set("EMA_OUTPUT_COMPOSITE_XLSX", &cfg.Output.CompositeXLSX, file.Output.CompositeXLSX)
	set("EMA_OUTPUT_QUARANTINE_JSON", &cfg.Output.QuarantineJSON, file.Output.QuarantineJSON)
	set("EMA_OUTPUT_DUPLICATES_JSON", &cfg.Output.DuplicatesJSON, file.Output.DuplicatesJSON)
	set("EMA_OUTPUT_ERROR_LOG", &cfg.Output.ErrorLog, file.Output.ErrorLog)
	set("EMA_PARSER_LIST_DELIMITER", &cfg.Parser.ListDelimiter, file.Parser.ListDelimiter)
	set("EMA_PARSER_PNA_VALUE", &cfg.Parser.PNAValue, file.Parser.PNAValue)
}

// validate checks the configuration with struct tags
func (c *Config) validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the config file location, overridable via
// EMA_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv("EMA_CONFIG_FILE"); path != "" {
		return path
	}
	return "emaparse.yaml"
}
