package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultConfigFile = "dqc.yaml"
	EnvPrefix         = "DQC_"
)

const (
	DictionaryFile      = "file"
	DictionaryWarehouse = "warehouse"

	SampleWarehouse = "warehouse"
	SampleCDC       = "cdc"
	SampleSynthetic = "synthetic"

	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	Dictionary DictionaryConfig `koanf:"dictionary"`
	Warehouse  WarehouseConfig  `koanf:"warehouse"`
	CDC        CDCConfig        `koanf:"cdc"`
	Samples    SamplesConfig    `koanf:"samples"`
	Rules      RulesConfig      `koanf:"rules"`
	Log        LogConfig        `koanf:"log"`
	Output     string           `koanf:"output"`
}

type DictionaryConfig struct {
	Source string `koanf:"source"`
	Path   string `koanf:"path"`
	Table  string `koanf:"table"`
}

type WarehouseConfig struct {
	Driver  string        `koanf:"driver"`
	DSN     string        `koanf:"dsn"`
	Schema  string        `koanf:"schema"`
	Timeout time.Duration `koanf:"timeout"`
}

type CDCConfig struct {
	Brokers     []string      `koanf:"brokers"`
	TopicPrefix string        `koanf:"topic_prefix"`
	Timeout     time.Duration `koanf:"timeout"`
}

type SamplesConfig struct {
	Sources []string `koanf:"sources"`
	Rows    int      `koanf:"rows"`
}

type RulesConfig struct {
	EnumThreshold           int           `koanf:"enum_threshold"`
	Missing                 MissingConfig `koanf:"missing"`
	SkipMissingInTypeChecks bool          `koanf:"skip_missing_in_type_checks"`
}

type MissingConfig struct {
	EmptyString     bool `koanf:"empty_string"`
	LiteralNull     bool `koanf:"literal_null"`
	CaseInsensitive bool `koanf:"case_insensitive"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"dictionary.source":                 DictionaryFile,
		"dictionary.path":                   "dictionary.yaml",
		"dictionary.table":                  "data_dictionary",
		"warehouse.timeout":                 "5s",
		"cdc.timeout":                       "3s",
		"samples.sources":                   []string{SampleSynthetic},
		"samples.rows":                      10,
		"rules.enum_threshold":              20,
		"rules.missing.empty_string":        true,
		"rules.missing.literal_null":        true,
		"rules.missing.case_insensitive":    true,
		"rules.skip_missing_in_type_checks": false,
		"log.level":                         "info",
		"log.format":                        "text",
		"output":                            OutputText,
	}
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"dictionary":     "dictionary.path",
	"dictionary-src": "dictionary.source",
	"driver":         "warehouse.driver",
	"dsn":            "warehouse.dsn",
	"schema":         "warehouse.schema",
	"sources":        "samples.sources",
	"rows":           "samples.rows",
	"log-level":      "log.level",
	"output":         "output",
}

// Load layers configuration: defaults, then the YAML file, then DQC_
// environment variables, then explicitly set flags. An empty path falls back
// to dqc.yaml when it exists.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// DQC_WAREHOUSE__DSN -> warehouse.dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize splits comma-joined lists, which is how env vars carry them.
func (c *Config) normalize() {
	c.Samples.Sources = splitList(c.Samples.Sources)
	c.CDC.Brokers = splitList(c.CDC.Brokers)
	c.Dictionary.Source = strings.ToLower(c.Dictionary.Source)
	c.Warehouse.Driver = strings.ToLower(c.Warehouse.Driver)
	c.Output = strings.ToLower(c.Output)
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToLower(part))
			}
		}
	}
	return out
}

func (c *Config) usesWarehouse() bool {
	return c.Dictionary.Source == DictionaryWarehouse || slices.Contains(c.Samples.Sources, SampleWarehouse)
}

func (c *Config) Validate() error {
	switch c.Dictionary.Source {
	case DictionaryFile:
		if c.Dictionary.Path == "" {
			return errors.New("dictionary.path is required for the file dictionary source")
		}
	case DictionaryWarehouse:
		if c.Dictionary.Table == "" {
			return errors.New("dictionary.table is required for the warehouse dictionary source")
		}
	default:
		return fmt.Errorf("dictionary.source must be file or warehouse, got %q", c.Dictionary.Source)
	}

	if c.usesWarehouse() {
		switch c.Warehouse.Driver {
		case "mysql", "postgres", "sqlite":
		case "":
			return errors.New("warehouse.driver is required")
		default:
			return fmt.Errorf("warehouse.driver must be mysql, postgres or sqlite, got %q", c.Warehouse.Driver)
		}
		if c.Warehouse.DSN == "" {
			return errors.New("warehouse.dsn is required")
		}
	}

	if len(c.Samples.Sources) == 0 {
		return errors.New("at least one sample source is required")
	}
	for _, s := range c.Samples.Sources {
		switch s {
		case SampleWarehouse, SampleSynthetic:
		case SampleCDC:
			if len(c.CDC.Brokers) == 0 {
				return errors.New("cdc.brokers is required for the cdc sample source")
			}
		default:
			return fmt.Errorf("unknown sample source %q", s)
		}
	}
	if c.Samples.Rows <= 0 {
		return fmt.Errorf("samples.rows must be positive, got %d", c.Samples.Rows)
	}
	if c.Rules.EnumThreshold <= 0 {
		return fmt.Errorf("rules.enum_threshold must be positive, got %d", c.Rules.EnumThreshold)
	}

	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
