package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
)

// Config holds all yield-engine configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Providers ProvidersConfig `toml:"providers"`
	Engine    EngineConfig    `toml:"engine"`
	Tax       TaxConfig       `toml:"tax"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int      `toml:"port"`
	DBPath      string   `toml:"db_path"`
	CORSOrigins []string `toml:"cors_origins,omitempty"`
	// PoolHolidays shares one holiday cache across requests.
	PoolHolidays bool `toml:"pool_holidays"`
	// MaxBusinessDays caps the horizon a single request may ask for.
	MaxBusinessDays int `toml:"max_business_days"`
	// PrefetchInterval is how often the provider caches are warmed.
	// Zero disables the prefetcher.
	PrefetchInterval Duration `toml:"prefetch_interval"`
}

// ProvidersConfig selects where holidays and rates come from.
type ProvidersConfig struct {
	// Offline uses the computed national calendar and FixedDailyRate
	// instead of the remote services.
	Offline        bool     `toml:"offline"`
	HolidaysURL    string   `toml:"holidays_url,omitempty"`
	RatesURL       string   `toml:"rates_url,omitempty"`
	RateSeries     int      `toml:"rate_series,omitempty"`
	HolidaysFile   string   `toml:"holidays_file,omitempty"`
	FixedDailyRate string   `toml:"fixed_daily_rate,omitempty"`
	Timeout        Duration `toml:"timeout"`
	RateTTL        Duration `toml:"rate_ttl"`
	UserAgent      string   `toml:"user_agent,omitempty"`
}

// EngineConfig tunes the projection engine.
type EngineConfig struct {
	Precision       int32 `toml:"precision"`
	MaxCalendarDays int   `toml:"max_calendar_days,omitempty"`
}

// TaxConfig overrides the withholding table. Empty means the regressive
// income tax table.
type TaxConfig struct {
	Brackets []BracketConfig `toml:"brackets,omitempty"`
}

// BracketConfig is one withholding bracket. MaxDays 0 is open-ended.
type BracketConfig struct {
	MaxDays int    `toml:"max_days"`
	Rate    string `toml:"rate"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Path   string `toml:"path,omitempty"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:             8080,
			DBPath:           ":memory:",
			CORSOrigins:      []string{"*"},
			PoolHolidays:     true,
			MaxBusinessDays:  5040,
			PrefetchInterval: Duration{6 * time.Hour},
		},
		Providers: ProvidersConfig{
			RateSeries:     11,
			FixedDailyRate: "0.0004",
			Timeout:        Duration{30 * time.Second},
			RateTTL:        Duration{12 * time.Hour},
		},
		Engine: EngineConfig{
			Precision: generic.DefaultPrecision,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the config file, returning defaults if path is empty or the
// file doesn't exist. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from YIELD_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("YIELD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("YIELD_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("YIELD_DB"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("YIELD_OFFLINE"); v != "" {
		offline, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("YIELD_OFFLINE: %w", err)
		}
		cfg.Providers.Offline = offline
	}
	if v := os.Getenv("YIELD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("YIELD_HOLIDAYS_URL"); v != "" {
		cfg.Providers.HolidaysURL = v
	}
	if v := os.Getenv("YIELD_RATES_URL"); v != "" {
		cfg.Providers.RatesURL = v
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBusinessDays <= 0 || c.Server.MaxBusinessDays > generic.MaxTargetBusinessDays {
		errs = append(errs, fmt.Errorf("server.max_business_days %d outside [1, %d]",
			c.Server.MaxBusinessDays, generic.MaxTargetBusinessDays))
	}
	if c.Engine.Precision < 2 || c.Engine.Precision > 28 {
		errs = append(errs, fmt.Errorf("engine.precision %d outside [2, 28]", c.Engine.Precision))
	}
	if c.Engine.MaxCalendarDays < 0 {
		errs = append(errs, errors.New("engine.max_calendar_days must not be negative"))
	}
	if c.Providers.Offline {
		if _, err := c.FixedRate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.TaxTable(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FixedRate parses providers.fixed_daily_rate.
func (c Config) FixedRate() (decimal.Decimal, error) {
	r, err := decimal.NewFromString(strings.TrimSpace(c.Providers.FixedDailyRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("providers.fixed_daily_rate: %w", err)
	}
	if r.IsNegative() {
		return decimal.Zero, fmt.Errorf("providers.fixed_daily_rate %s is negative", r)
	}
	return r, nil
}

// TaxTable converts the configured brackets. It returns nil when no
// brackets are configured.
func (c Config) TaxTable() (generic.TaxTable, error) {
	if len(c.Tax.Brackets) == 0 {
		return nil, nil
	}
	table := make(generic.TaxTable, 0, len(c.Tax.Brackets))
	for i, b := range c.Tax.Brackets {
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			return nil, fmt.Errorf("tax.brackets[%d].rate: %w", i, err)
		}
		table = append(table, generic.TaxBracket{MaxDays: b.MaxDays, Rate: rate})
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Addr is the listen address for the server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}
