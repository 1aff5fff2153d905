package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	LiveKindHTTP     = "http"
	LiveKindPostgres = "postgres"
)

type SLAConfig struct {
	UseMock        bool          `mapstructure:"use_mock"`
	Seed           int64         `mapstructure:"seed"`
	Preset         string        `mapstructure:"preset"`
	DefaultDays    int           `mapstructure:"default_days"`
	Environments   []string      `mapstructure:"environments"`
	Phases         []string      `mapstructure:"phases"`
	LiveKind       string        `mapstructure:"live_kind"`
	LivePath       string        `mapstructure:"live_path"`
	DatabaseURL    string        `mapstructure:"database_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MockLatencyMin time.Duration `mapstructure:"mock_latency_min"`
	MockLatencyMax time.Duration `mapstructure:"mock_latency_max"`
}

type DashboardConfig struct {
	UseMock        bool          `mapstructure:"use_mock"`
	Seed           int64         `mapstructure:"seed"`
	MockDelay      time.Duration `mapstructure:"mock_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Config struct {
	ServerPort     string            `mapstructure:"server_port"`
	LogLevel       string            `mapstructure:"log_level"`
	Timezone       string            `mapstructure:"timezone"`
	AllowedOrigins []string          `mapstructure:"allowed_origins"`
	Stage          string            `mapstructure:"stage"`
	APIBaseURL     string            `mapstructure:"api_base_url"`
	APIBaseURLs    map[string]string `mapstructure:"api_base_urls"`
	SLA            SLAConfig         `mapstructure:"sla"`
	Dashboard      DashboardConfig   `mapstructure:"dashboard"`

	flags *Flags
}

// Flags holds the settings that may change while the server runs.
type Flags struct {
	slaMock       atomic.Bool
	dashboardMock atomic.Bool
}

func (f *Flags) SLAMock() bool       { return f.slaMock.Load() }
func (f *Flags) DashboardMock() bool { return f.dashboardMock.Load() }

func (f *Flags) set(sla, dashboard bool) {
	f.slaMock.Store(sla)
	f.dashboardMock.Store(dashboard)
}

// Flags returns the runtime flags, seeded from the loaded values.
func (c *Config) Flags() *Flags {
	if c.flags == nil {
		c.flags = &Flags{}
		c.flags.set(c.SLA.UseMock, c.Dashboard.UseMock)
	}
	return c.flags
}

// BaseURL resolves the upstream API address: an explicit api_base_url wins,
// otherwise the entry for the current stage.
func (c *Config) BaseURL() (string, error) {
	if u := strings.TrimSpace(c.APIBaseURL); u != "" {
		return u, nil
	}
	if u, ok := c.APIBaseURLs[c.Stage]; ok && strings.TrimSpace(u) != "" {
		return strings.TrimSpace(u), nil
	}
	return "", fmt.Errorf("no API base URL configured for stage %q", c.Stage)
}

// Location returns the configured timezone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.SLA.DefaultDays <= 0 {
		return fmt.Errorf("sla.default_days must be positive")
	}
	if len(c.SLA.Environments) == 0 {
		return fmt.Errorf("sla.environments must not be empty")
	}
	switch c.SLA.LiveKind {
	case LiveKindHTTP:
	case LiveKindPostgres:
		if c.SLA.DatabaseURL == "" && !c.SLA.UseMock {
			return fmt.Errorf("sla.database_url is required when sla.live_kind is postgres")
		}
	default:
		return fmt.Errorf("unknown sla.live_kind %q", c.SLA.LiveKind)
	}
	if c.SLA.MockLatencyMax < c.SLA.MockLatencyMin {
		return fmt.Errorf("sla.mock_latency_max must not be below sla.mock_latency_min")
	}
	_, err := c.Location()
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("stage", "local")
	v.SetDefault("api_base_urls", map[string]string{})

	v.SetDefault("sla.use_mock", true)
	v.SetDefault("sla.seed", 12345)
	v.SetDefault("sla.preset", "weighted")
	v.SetDefault("sla.default_days", 7)
	v.SetDefault("sla.environments", []string{"ASYS", "TSYS", "MST0", "OSYS", "ECT0", "QSYS", "VST0"})
	v.SetDefault("sla.live_kind", LiveKindHTTP)
	v.SetDefault("sla.live_path", "/api/sla")
	v.SetDefault("sla.request_timeout", 15*time.Second)
	v.SetDefault("sla.mock_latency_min", 300*time.Millisecond)
	v.SetDefault("sla.mock_latency_max", time.Second)

	v.SetDefault("dashboard.use_mock", true)
	v.SetDefault("dashboard.seed", 42)
	v.SetDefault("dashboard.mock_delay", 300*time.Millisecond)
	v.SetDefault("dashboard.request_timeout", 10*time.Second)
}

// New returns a viper instance with defaults, env overrides and the config
// search path applied. It does not read the file.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BATCHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the deployment scripts export the bare name
	_ = v.BindEnv("api_base_url", "BATCHBOARD_API_BASE_URL", "API_BASE_URL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return v
}

// Read loads the config file if one exists and decodes it.
func Read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.SLA.LiveKind = strings.ToLower(strings.TrimSpace(cfg.SLA.LiveKind))
	for i, env := range cfg.SLA.Environments {
		cfg.SLA.Environments[i] = strings.ToUpper(strings.TrimSpace(env))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Flags()
	return &cfg, nil
}

// Load reads the configuration from config.yaml and the environment.
func Load() (*Config, *viper.Viper) {
	v := New()
	cfg, err := Read(v)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg, v
}

// Watch re-reads the mock flags whenever the config file changes. Other
// settings need a restart.
func Watch(v *viper.Viper, cfg *Config, logger zerolog.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	logger = logger.With().Str("component", "config").Logger()
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		Reload(v, cfg, logger)
	})
	v.WatchConfig()
}

// Reload applies the current mock flag values from v to cfg.
func Reload(v *viper.Viper, cfg *Config, logger zerolog.Logger) {
	sla, dashboard := v.GetBool("sla.use_mock"), v.GetBool("dashboard.use_mock")
	flags := cfg.Flags()
	if flags.SLAMock() == sla && flags.DashboardMock() == dashboard {
		return
	}
	flags.set(sla, dashboard)
	logger.Info().
		Bool("sla_use_mock", sla).
		Bool("dashboard_use_mock", dashboard).
		Msg("config reloaded")
}
