package main

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/purpleair-aqi-service/internal/adapter/kafka"
	"github.com/couchcryptid/purpleair-aqi-service/internal/adapter/purpleair"
	"github.com/couchcryptid/purpleair-aqi-service/internal/config"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
	"github.com/couchcryptid/purpleair-aqi-service/internal/pipeline"
	"github.com/couchcryptid/purpleair-aqi-service/internal/report"
)

var rootCmd = &cobra.Command{
	Use:          "aqi-report",
	Short:        "PurpleAir PM2.5 readings as a US EPA AQI report",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, renderCmd)
}

// loadConfig reads configuration and installs the logger built by newLogger.
// Config errors are logged with the default logger since ours needs the config.
func loadConfig(newLogger func(*config.Config) *slog.Logger) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, nil, err
	}
	return cfg, newLogger(cfg), nil
}

// buildPipeline wires the PurpleAir client, the optional Kafka writer, and
// the renderer. The returned close func releases the writer.
func buildPipeline(cfg *config.Config, renderer report.Renderer, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Pipeline, func()) {
	client := purpleair.NewClient(cfg.PurpleAirBaseURL, cfg.PurpleAirAPIKey, cfg.PurpleAirTimeout, metrics, logger)

	// Publisher stays a nil interface when Kafka is disabled.
	var publisher pipeline.Publisher
	closeFn := func() {}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		closeFn = func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	opts := pipeline.Options{
		SensorIDs: cfg.SensorIDs,
		Fields:    cfg.SensorFields,
	}
	return pipeline.New(client, publisher, renderer, opts, clockwork.NewRealClock(), logger, metrics), closeFn
}
