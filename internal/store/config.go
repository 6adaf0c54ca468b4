package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. ANALYZER_INPUT_PATH
// or ANALYZER_OUTPUT_TOP_N.
const EnvPrefix = "ANALYZER"

type Config struct {
	Input struct {
		Path          string `yaml:"path" validate:"required"`
		IDColumn      string `yaml:"id_column" split_words:"true" validate:"required"`
		HistoryColumn string `yaml:"history_column" split_words:"true" validate:"required"`
		Delimiter     string `yaml:"delimiter" validate:"len=1"`
		LazyQuotes    bool   `yaml:"lazy_quotes" split_words:"true"`
	} `yaml:"input"`
	Repair struct {
		Quotes         *bool `yaml:"quotes"`
		TrailingCommas *bool `yaml:"trailing_commas" split_words:"true"`
	} `yaml:"repair"`
	Output struct {
		Dir         string `yaml:"dir" validate:"required"`
		MetricsFile string `yaml:"metrics_file" split_words:"true" validate:"required"`
		TopFile     string `yaml:"top_file" split_words:"true" validate:"required"`
		TopN        int    `yaml:"top_n" split_words:"true" validate:"gte=1"`
		RejectsPath string `yaml:"rejects_path" split_words:"true"`
	} `yaml:"output"`
	Rank struct {
		Method string `yaml:"method" validate:"oneof=dense average min max first"`
	} `yaml:"rank"`
	Diagnostics struct {
		SampleSize int `yaml:"sample_size" split_words:"true" validate:"gte=0"`
	} `yaml:"diagnostics"`
	Logging struct {
		Level    string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
		Format   string `yaml:"format" validate:"omitempty,oneof=json text"`
		Detailed bool   `yaml:"detailed"`
	} `yaml:"logging"`
	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Output  string `yaml:"output"`
	} `yaml:"tracing"`
}

// RepairQuotes reports whether single quotes are rewritten; on unless disabled.
func (c *Config) RepairQuotes() bool {
	return c.Repair.Quotes == nil || *c.Repair.Quotes
}

// RepairTrailingCommas reports whether trailing commas are stripped; on unless disabled.
func (c *Config) RepairTrailingCommas() bool {
	return c.Repair.TrailingCommas == nil || *c.Repair.TrailingCommas
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s %q: failed %q rule", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}
	if c.Output.MetricsFile == c.Output.TopFile {
		return fmt.Errorf("output.metrics_file and output.top_file must differ, both are %q", c.Output.MetricsFile)
	}
	return nil
}

// Default returns the configuration used when no file is present. It matches
// the fixed paths the one-shot job has always used.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Input.Path == "" {
		c.Input.Path = "TRADES_CopyTr_90D_ROI.csv"
	}
	if c.Input.IDColumn == "" {
		c.Input.IDColumn = "Port_IDs"
	}
	if c.Input.HistoryColumn == "" {
		c.Input.HistoryColumn = "Trade_History"
	}
	if c.Input.Delimiter == "" {
		c.Input.Delimiter = ","
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.MetricsFile == "" {
		c.Output.MetricsFile = "account_metrics.csv"
	}
	if c.Output.TopN == 0 {
		c.Output.TopN = 20
	}
	if c.Output.TopFile == "" {
		c.Output.TopFile = fmt.Sprintf("top_%d_accounts.csv", c.Output.TopN)
	}
	if c.Rank.Method == "" {
		c.Rank.Method = "dense"
	}
	if c.Diagnostics.SampleSize == 0 {
		c.Diagnostics.SampleSize = 5
	}
}

// LoadConfig reads path when it exists, applies ANALYZER_* environment
// overrides, then each override in order, then defaults, and validates the
// result. A missing file is not an error.
func LoadConfig(path string, overrides ...func(*Config)) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	for _, o := range overrides {
		o(&c)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
