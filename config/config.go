package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Contact transport kinds
const (
	TransportSimulated = "simulated"
	TransportWebhook   = "webhook"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	ReCAPTCHA     ReCAPTCHAConfig
	Contact       ContactConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type ReCAPTCHAConfig struct {
	SecretKey string // empty disables captcha checks
}

// ContactConfig selects and tunes the transport behind the contact form
type ContactConfig struct {
	Transport             string
	SimulatedDelayMS      int
	WebhookURL            string
	WebhookSecret         string
	WebhookTimeoutSeconds int
	DedupeTTLSeconds      int
}

type EventTriggersConfig struct {
	ContactSubmittedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8081")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://cogstack.co.za,https://www.cogstack.co.za")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("CONTACT_TRANSPORT", TransportSimulated)
	v.SetDefault("CONTACT_SIMULATED_DELAY_MS", 1000)
	v.SetDefault("CONTACT_WEBHOOK_TIMEOUT_SECONDS", 10)
	v.SetDefault("CONTACT_DEDUPE_TTL_SECONDS", 600) // 10 minutes
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")      // OTLP over HTTP, empty disables tracing
	v.SetDefault("O11Y_BE_SERVICE_NAME", "cogstack-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "cogstack-site")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "cogstack-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_V2_SECRET_KEY"),
		},
		Contact: ContactConfig{
			Transport:             strings.ToLower(strings.TrimSpace(v.GetString("CONTACT_TRANSPORT"))),
			SimulatedDelayMS:      v.GetInt("CONTACT_SIMULATED_DELAY_MS"),
			WebhookURL:            v.GetString("CONTACT_WEBHOOK_URL"),
			WebhookSecret:         v.GetString("CONTACT_WEBHOOK_SECRET"),
			WebhookTimeoutSeconds: v.GetInt("CONTACT_WEBHOOK_TIMEOUT_SECONDS"),
			DedupeTTLSeconds:      v.GetInt("CONTACT_DEDUPE_TTL_SECONDS"),
		},
		EventTriggers: EventTriggersConfig{
			ContactSubmittedTriggerURL: v.GetString("CONTACT_SUBMITTED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	// Contact transport
	switch c.Contact.Transport {
	case TransportSimulated:
		if c.Contact.SimulatedDelayMS < 0 {
			return fmt.Errorf("CONTACT_SIMULATED_DELAY_MS must not be negative")
		}
	case TransportWebhook:
		if c.Contact.WebhookURL == "" {
			return fmt.Errorf("CONTACT_WEBHOOK_URL is required when CONTACT_TRANSPORT=webhook")
		}
	default:
		return fmt.Errorf("CONTACT_TRANSPORT must be one of: %s, %s", TransportSimulated, TransportWebhook)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// SimulatedDelay is the artificial latency of the simulated transport
func (c ContactConfig) SimulatedDelay() time.Duration {
	return time.Duration(c.SimulatedDelayMS) * time.Millisecond
}

// WebhookTimeout is the per-request timeout of the webhook transport
func (c ContactConfig) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSeconds) * time.Second
}

// DedupeTTL is how long an identical submission is remembered
func (c ContactConfig) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}
