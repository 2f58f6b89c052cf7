package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/money"
)

// FileName is the config file at the root of a project.
const FileName = "conciliador.yaml"

// Config represents the top-level conciliador.yaml configuration.
type Config struct {
	Business  BusinessConfig  `yaml:"business"`
	Database  DatabaseConfig  `yaml:"database"`
	Currency  CurrencyConfig  `yaml:"currency"`
	Import    ImportConfig    `yaml:"import"`
	Holidays  HolidaysConfig  `yaml:"holidays"`
	Rules     RulesConfig     `yaml:"rules"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Log       LogConfig       `yaml:"log"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// DatabaseConfig locates the SQLite file. Relative paths are resolved
// against the project root.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CurrencyConfig controls how amounts are printed.
type CurrencyConfig struct {
	Symbol    string `yaml:"symbol"`
	Thousands string `yaml:"thousands"`
	Decimals  string `yaml:"decimals"`
}

// ImportConfig names the input and archive folders.
type ImportConfig struct {
	Reports          string `yaml:"reports"`
	Statements       string `yaml:"statements"`
	Extension        string `yaml:"extension"`
	Archive          string `yaml:"archive"`
	OverwriteArchive bool   `yaml:"overwrite_archive"`
}

// HolidaysConfig lists non-business days beyond the national calendar
// (municipal holidays, bank closures), as YYYY-MM-DD.
type HolidaysConfig struct {
	Extra []string `yaml:"extra,omitempty"`
}

// RulesConfig points to a YAML rules file. Empty uses the built-in tables.
type RulesConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ReconcileConfig tunes reconciliation runs.
type ReconcileConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig sets the default log level and format ("console" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a conciliador.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Database: DatabaseConfig{Path: "conciliador.db"},
		Currency: CurrencyConfig{
			Symbol:    money.Real.Symbol,
			Thousands: money.Brazilian.Thousands,
			Decimals:  money.Brazilian.Decimals,
		},
		Import: ImportConfig{
			Reports:    "input/reports",
			Statements: "input/statements",
			Extension:  ".csv",
			Archive:    "archive",
		},
		Reconcile: ReconcileConfig{Workers: 1},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error
	if c.Currency.Decimals == "" {
		errs = append(errs, errors.New("currency.decimals is empty"))
	}
	if c.Currency.Thousands == c.Currency.Decimals {
		errs = append(errs, errors.New("currency.thousands and currency.decimals must differ"))
	}
	if c.Reconcile.Workers < 0 {
		errs = append(errs, errors.New("reconcile.workers must not be negative"))
	}
	if _, err := c.Holidays.Dates(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want console or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Money returns the configured currency formatter.
func (c CurrencyConfig) Money() money.Currency {
	return money.Currency{
		Symbol: c.Symbol,
		Format: money.Format{Thousands: c.Thousands, Decimals: c.Decimals},
	}
}

// Dates parses the extra holidays.
func (h HolidaysConfig) Dates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(h.Extra))
	for _, s := range h.Extra {
		d, err := dates.ParseISO(s)
		if err != nil {
			return nil, fmt.Errorf("holidays.extra: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadRules returns the compiled rule set: the file at Path (resolved
// against root) or the built-in tables.
func (r RulesConfig) LoadRules(root string) (*classify.Set, error) {
	if r.Path == "" {
		return classify.DefaultSet(), nil
	}
	tables, err := classify.LoadTables(Resolve(root, r.Path))
	if err != nil {
		return nil, err
	}
	return tables.Compile()
}

// Resolve joins a relative path to root. Absolute paths are returned as is.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
