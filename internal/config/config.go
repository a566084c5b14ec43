package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// PurpleAir API configuration.
	PurpleAirAPIKey  string
	PurpleAirBaseURL string
	PurpleAirTimeout time.Duration
	SensorIDs        []string
	SensorFields     []string

	// Optional Kafka publishing of converted readings.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	purpleAirTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PURPLEAIR_TIMEOUT", "10s"))
	if err != nil || purpleAirTimeout <= 0 {
		return nil, errors.New("invalid PURPLEAIR_TIMEOUT")
	}

	sensorIDs, err := domain.ParseSensorIDs(sharedcfg.EnvOrDefault("SENSOR_IDS", strings.Join(domain.DefaultSensorIDs, ",")))
	if err != nil {
		return nil, fmt.Errorf("invalid SENSOR_IDS: %w", err)
	}

	sensorFields := splitList(sharedcfg.EnvOrDefault("SENSOR_FIELDS", strings.Join(domain.DefaultFields, ",")))
	if len(sensorFields) == 0 {
		return nil, errors.New("SENSOR_FIELDS must list at least one field")
	}

	var kafkaBrokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		kafkaBrokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		AllowedOrigins:  splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		PurpleAirAPIKey:  os.Getenv("PURPLEAIR_API_KEY"),
		PurpleAirBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("PURPLEAIR_BASE_URL", "https://api.purpleair.com/v1"), "/"),
		PurpleAirTimeout: purpleAirTimeout,
		SensorIDs:        sensorIDs,
		SensorFields:     sensorFields,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "aqi-readings"),
	}

	if cfg.PurpleAirAPIKey == "" {
		return nil, errors.New("PURPLEAIR_API_KEY is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
