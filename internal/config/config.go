package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	App          AppConfig          `yaml:"app" mapstructure:"app"`
	JobNimbus    JobNimbusConfig    `yaml:"jobnimbus" mapstructure:"jobnimbus"`
	Defaults     DefaultsConfig     `yaml:"defaults" mapstructure:"defaults"`
	Contact      ContactConfig      `yaml:"contact" mapstructure:"contact"`
	JobNaming    JobNamingConfig    `yaml:"job_naming" mapstructure:"job_naming"`
	Phone        PhoneConfig        `yaml:"phone" mapstructure:"phone"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator" mapstructure:"orchestrator"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// AppConfig holds the shared secret callers present in x-app-token.
type AppConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
}

// JobNimbusConfig configures the outbound CRM client.
type JobNimbusConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	FieldStyle  string  `yaml:"field_style" mapstructure:"field_style"`
	ActorMode   string  `yaml:"actor_mode" mapstructure:"actor_mode"`
}

// DefaultsConfig fills record type and status when callers omit them.
type DefaultsConfig struct {
	ContactType   string `yaml:"contact_type" mapstructure:"contact_type"`
	ContactStatus string `yaml:"contact_status" mapstructure:"contact_status"`
	JobType       string `yaml:"job_type" mapstructure:"job_type"`
	JobStatus     string `yaml:"job_status" mapstructure:"job_status"`
}

// ContactConfig selects the display name key sent on contact creation.
type ContactConfig struct {
	DisplayNameMode string `yaml:"display_name_mode" mapstructure:"display_name_mode"`
}

// JobNamingConfig configures derived job names.
type JobNamingConfig struct {
	Mode       string `yaml:"mode" mapstructure:"mode"`
	AddJobMode string `yaml:"add_job_mode" mapstructure:"add_job_mode"`
	DateLayout string `yaml:"date_layout" mapstructure:"date_layout"`
}

// PhoneConfig configures phone normalization.
type PhoneConfig struct {
	Region    string `yaml:"region" mapstructure:"region"`
	Format    string `yaml:"format" mapstructure:"format"`
	OnFailure string `yaml:"on_failure" mapstructure:"on_failure"`
}

// OrchestratorConfig tunes the dual-create waits and the transient retry.
type OrchestratorConfig struct {
	PropagationDelayMs    int      `yaml:"propagation_delay_ms" mapstructure:"propagation_delay_ms"`
	TransientRetryDelayMs int      `yaml:"transient_retry_delay_ms" mapstructure:"transient_retry_delay_ms"`
	TransientMarkers      []string `yaml:"transient_markers" mapstructure:"transient_markers"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	BodyLimitBytes int64    `yaml:"body_limit_bytes" mapstructure:"body_limit_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the unprefixed variable names older
// deployments set.
var legacyEnv = map[string]string{
	"app.token":                 "APP_TOKEN",
	"jobnimbus.base_url":        "JOBNIMBUS_API_BASE",
	"jobnimbus.api_key":         "JOBNIMBUS_API_KEY",
	"defaults.contact_type":     "JN_DEFAULT_CONTACT_TYPE",
	"defaults.contact_status":   "JN_DEFAULT_CONTACT_STATUS",
	"defaults.job_type":         "JN_DEFAULT_JOB_TYPE",
	"defaults.job_status":       "JN_DEFAULT_JOB_STATUS",
	"contact.display_name_mode": "JN_CONTACT_DISPLAY_NAME_MODE",
	"log.level":                 "LOG_LEVEL",
	"server.port":               "PORT",
}

const envPrefix = "JNDC"

// Load reads configuration from .env, config.yaml and the environment.
// Environment wins over the file; prefixed variables win over legacy names.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("jobnimbus.base_url", "https://app.jobnimbus.com/api1")
	v.SetDefault("jobnimbus.timeout_secs", 15)
	v.SetDefault("jobnimbus.rate_limit", 0)
	v.SetDefault("jobnimbus.field_style", "snake")
	v.SetDefault("jobnimbus.actor_mode", "query")
	v.SetDefault("defaults.contact_type", "Residential")
	v.SetDefault("defaults.contact_status", "New Lead")
	v.SetDefault("defaults.job_type", "General")
	v.SetDefault("defaults.job_status", "New")
	v.SetDefault("contact.display_name_mode", "displayName")
	v.SetDefault("job_naming.mode", "dated")
	v.SetDefault("job_naming.add_job_mode", "contact")
	v.SetDefault("job_naming.date_layout", "2006-01-02")
	v.SetDefault("phone.region", "US")
	v.SetDefault("phone.format", "national")
	v.SetDefault("phone.on_failure", "passthrough")
	v.SetDefault("orchestrator.propagation_delay_ms", 1000)
	v.SetDefault("orchestrator.transient_retry_delay_ms", 2000)
	v.SetDefault("orchestrator.transient_markers", []string{"CouchbaseError"})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.body_limit_bytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// loadDotEnv applies path to the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return eris.Wrap(err, "config: stat .env")
	}
	if err := godotenv.Load(path); err != nil {
		return eris.Wrap(err, "config: load .env")
	}
	return nil
}

// Validate checks the configuration for the given command mode.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if strings.TrimSpace(c.App.Token) == "" {
			errs = append(errs, "app.token is required")
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.BodyLimitBytes <= 0 {
			errs = append(errs, "server.body_limit_bytes must be > 0")
		}
	case "cli":
		if strings.TrimSpace(c.JobNimbus.APIKey) == "" {
			errs = append(errs, "jobnimbus.api_key is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if u, err := url.Parse(c.JobNimbus.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "jobnimbus.base_url must be an absolute URL")
	}
	if c.JobNimbus.TimeoutSecs <= 0 {
		errs = append(errs, "jobnimbus.timeout_secs must be > 0")
	}
	if c.JobNimbus.RateLimit < 0 {
		errs = append(errs, "jobnimbus.rate_limit must be >= 0")
	}
	errs = appendEnum(errs, "jobnimbus.field_style", c.JobNimbus.FieldStyle, "snake", "camel")
	errs = appendEnum(errs, "jobnimbus.actor_mode", c.JobNimbus.ActorMode, "query", "fields", "none")
	errs = appendEnum(errs, "contact.display_name_mode", c.Contact.DisplayNameMode, "displayName", "name")
	errs = appendEnum(errs, "job_naming.mode", c.JobNaming.Mode, "dated", "contact", "static")
	errs = appendEnum(errs, "job_naming.add_job_mode", c.JobNaming.AddJobMode, "dated", "contact", "static")
	errs = appendEnum(errs, "phone.format", c.Phone.Format, "national", "e164")
	errs = appendEnum(errs, "phone.on_failure", c.Phone.OnFailure, "passthrough", "drop")
	if c.Orchestrator.PropagationDelayMs < 0 || c.Orchestrator.TransientRetryDelayMs < 0 {
		errs = append(errs, "orchestrator delays must be >= 0")
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func appendEnum(errs []string, key, val string, allowed ...string) []string {
	if val == "" || slices.Contains(allowed, val) {
		return errs
	}
	return append(errs, fmt.Sprintf("%s must be one of %s, got %q", key, strings.Join(allowed, "|"), val))
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
