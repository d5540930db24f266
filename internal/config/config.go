package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	ThingSpeak ThingSpeakConfig
	Polling    PollingConfig
	MongoDB    MongoDBConfig
	Auth       AuthConfig
	AI         AIConfig
	WhatsApp   WhatsAppConfig
	Sheets     SheetsConfig
	Influx     InfluxConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string
}

// ThingSpeakConfig describes the two telemetry channels and the breaker
// guarding them.
type ThingSpeakConfig struct {
	BaseURL         string
	SoilChannelID   string
	SoilAPIKey      string
	EnvChannelID    string
	EnvAPIKey       string
	Timeout         time.Duration
	HistoryResults  int
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// PollingConfig holds scheduler-related settings.
type PollingConfig struct {
	Schedule string
	Timezone string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
}

// Enabled reports whether plan enhancement is available.
func (c AIConfig) Enabled() bool { return c.AnthropicKey != "" }

// WhatsAppConfig contains credentials for soil health alerts through the
// Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken    string
	PhoneNumberID  string
	BaseURL        string
	APIVersion     string
	AlertRecipient string
}

// Enabled reports whether alerts can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.AlertRecipient != ""
}

// SheetsConfig contains configuration required to export snapshots to
// Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the spreadsheet export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// InfluxConfig points at the time-series bucket receiving snapshots.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Enabled reports whether snapshots are written to InfluxDB.
func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Token != "" && c.Org != "" && c.Bucket != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	var errs []error
	durationVar := func(key string, fallback time.Duration) time.Duration {
		d, err := getenvDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	intVar := func(key string, fallback int) int {
		n, err := getenvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		ThingSpeak: ThingSpeakConfig{
			BaseURL:         getenvWithDefault("THINGSPEAK_BASE_URL", "https://api.thingspeak.com"),
			SoilChannelID:   os.Getenv("THINGSPEAK_SOIL_CHANNEL_ID"),
			SoilAPIKey:      os.Getenv("THINGSPEAK_SOIL_API_KEY"),
			EnvChannelID:    os.Getenv("THINGSPEAK_ENV_CHANNEL_ID"),
			EnvAPIKey:       os.Getenv("THINGSPEAK_ENV_API_KEY"),
			Timeout:         durationVar("THINGSPEAK_TIMEOUT", 10*time.Second),
			HistoryResults:  intVar("THINGSPEAK_HISTORY_RESULTS", 24),
			BreakerFailures: intVar("CB_MAX_FAILURES", 3),
			BreakerTimeout:  durationVar("CB_OPEN_TIMEOUT", 30*time.Second),
		},
		Polling: PollingConfig{
			Schedule: getenvWithDefault("TELEMETRY_POLL_SCHEDULE", "@every 5m"),
			Timezone: getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "agricure"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  durationVar("JWT_TTL", 24*time.Hour),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:    os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:  os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:        getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:     getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AlertRecipient: os.Getenv("ALERT_RECIPIENT"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Influx: InfluxConfig{
			URL:    os.Getenv("INFLUX_URL"),
			Token:  os.Getenv("INFLUX_TOKEN"),
			Org:    os.Getenv("INFLUX_ORG"),
			Bucket: os.Getenv("INFLUX_BUCKET"),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.ThingSpeak.BaseURL == "":
		return errors.New("THINGSPEAK_BASE_URL must not be empty")
	case c.ThingSpeak.Timeout <= 0:
		return errors.New("THINGSPEAK_TIMEOUT must be positive")
	case c.ThingSpeak.HistoryResults <= 0 || c.ThingSpeak.HistoryResults > 8000:
		// ThingSpeak caps a feeds request at 8000 entries.
		return errors.New("THINGSPEAK_HISTORY_RESULTS must be between 1 and 8000")
	case c.ThingSpeak.BreakerFailures < 1:
		return errors.New("CB_MAX_FAILURES must be at least 1")
	}

	if c.Polling.Schedule == "" {
		return errors.New("TELEMETRY_POLL_SCHEDULE must be provided")
	}

	if c.Polling.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Polling.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
