package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
	"github.com/couchcryptid/purpleair-aqi-service/internal/report"
)

var (
	renderSensors string
	renderFormat  string
	renderOutput  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch readings once and print the AQI report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		renderer, err := rendererFor(renderFormat)
		if err != nil {
			return err
		}

		var sensorIDs []string
		if renderSensors != "" {
			if sensorIDs, err = domain.ParseSensorIDs(renderSensors); err != nil {
				return fmt.Errorf("invalid --sensors: %w", err)
			}
		}

		cfg, logger, err := loadConfig(observability.NewCLILogger)
		if err != nil {
			return err
		}
		metrics := observability.NewMetrics()

		p, closePublisher := buildPipeline(cfg, renderer, logger, metrics)
		defer closePublisher()

		resp := p.Handle(cmd.Context(), sensorIDs)
		if resp.StatusCode != http.StatusOK {
			return errors.New(strings.TrimPrefix(resp.Body, "Error: "))
		}

		var out io.Writer = cmd.OutOrStdout()
		if renderOutput != "" && renderOutput != "-" {
			f, err := os.Create(renderOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		if _, err := io.WriteString(out, resp.Body); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderSensors, "sensors", "", "comma-separated sensor indexes (default SENSOR_IDS)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "html", "output format: html or text")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the report to a file instead of stdout")
}

func rendererFor(format string) (report.Renderer, error) {
	switch format {
	case "html":
		return report.HTML{}, nil
	case "text":
		return report.Terminal{}, nil
	default:
		return nil, fmt.Errorf("unknown --format %q, want html or text", format)
	}
}
