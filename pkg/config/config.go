package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var ErrMissingMongoURI = errors.New("MONGODB_URI is not defined")

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// AppConfig general application configurations
type AppConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	Port            string
	RoutePrefix     string
	ShutdownTimeout time.Duration

	Mongo MongoConfig

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	TelemetryEnabled bool
	OTLPEndpoint     string
	MetricsPort      string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:     "taskapp",
		ServiceVersion:  "1.0.0",
		Environment:     EnvDevelopment,
		Port:            "5000",
		RoutePrefix:     "/task",
		ShutdownTimeout: 15 * time.Second,
		Mongo: MongoConfig{
			Database:   "taskapp",
			Collection: "tasks",
			Timeout:    10 * time.Second,
		},
		RateLimitEnabled: true,
		RateLimitConfigs: DefaultRateLimits(),
		TelemetryEnabled: true,
		OTLPEndpoint:     "localhost:4317",
		MetricsPort:      "9091",
	}
}

// DefaultRateLimits keyed by "METHOD /route" relative to the route prefix.
func DefaultRateLimits() map[string]RateLimitConfig {
	return map[string]RateLimitConfig{
		"GET /tasks":              {Requests: 100, Window: time.Minute},
		"GET /get/:id":            {Requests: 100, Window: time.Minute},
		"POST /create":            {Requests: 20, Window: time.Minute},
		"PUT /edit/:id":           {Requests: 20, Window: time.Minute},
		"PATCH /tasks/:id/status": {Requests: 30, Window: time.Minute},
		"DELETE /remove/:id":      {Requests: 10, Window: time.Minute},
		"default":                 {Requests: 60, Window: time.Minute},
	}
}

// Load reads the environment, plus a .env file in dir when one exists.
// MONGODB_URI is mandatory.
func Load(dir string) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVICE_NAME", cfg.ServiceName)
	v.SetDefault("SERVICE_VERSION", cfg.ServiceVersion)
	v.SetDefault("ENVIRONMENT", cfg.Environment)
	v.SetDefault("PORT", cfg.Port)
	v.SetDefault("ROUTE_PREFIX", cfg.RoutePrefix)
	v.SetDefault("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", cfg.Mongo.Database)
	v.SetDefault("MONGODB_COLLECTION", cfg.Mongo.Collection)
	v.SetDefault("MONGODB_TIMEOUT", cfg.Mongo.Timeout)
	v.SetDefault("RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	v.SetDefault("TELEMETRY_ENABLED", cfg.TelemetryEnabled)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	v.SetDefault("METRICS_PORT", cfg.MetricsPort)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}

	cfg.ServiceName = v.GetString("SERVICE_NAME")
	cfg.ServiceVersion = v.GetString("SERVICE_VERSION")
	cfg.Environment = v.GetString("ENVIRONMENT")
	cfg.Port = v.GetString("PORT")
	cfg.RoutePrefix = v.GetString("ROUTE_PREFIX")
	cfg.ShutdownTimeout = v.GetDuration("SHUTDOWN_TIMEOUT")
	cfg.Mongo.URI = v.GetString("MONGODB_URI")
	cfg.Mongo.Database = v.GetString("MONGODB_DATABASE")
	cfg.Mongo.Collection = v.GetString("MONGODB_COLLECTION")
	cfg.Mongo.Timeout = v.GetDuration("MONGODB_TIMEOUT")
	cfg.RateLimitEnabled = v.GetBool("RATE_LIMIT_ENABLED")
	cfg.TelemetryEnabled = v.GetBool("TELEMETRY_ENABLED")
	cfg.OTLPEndpoint = v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.MetricsPort = v.GetString("METRICS_PORT")

	if cfg.Port == "" {
		cfg.Port = GetDefaultConfig().Port
	}

	if cfg.Mongo.URI == "" {
		return nil, ErrMissingMongoURI
	}

	return cfg, nil
}
