// Package purpleair fetches sensor readings from the PurpleAir API.
package purpleair

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
)

const apiKeyHeader = "X-API-Key"

// Client reads the multiple-sensors endpoint of the PurpleAir API.
type Client struct {
	http    *resty.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a PurpleAir client. baseURL is the API root, e.g.
// https://api.purpleair.com/v1.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader(apiKeyHeader, apiKey).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    rc,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchSensors requests the given fields for the given sensors and decodes
// the response. Rows come back in whatever order the API chooses.
func (c *Client) FetchSensors(ctx context.Context, sensorIDs, fields []string) (domain.Payload, error) {
	start := time.Now()
	payload, err := c.fetch(ctx, sensorIDs, fields)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := domain.ErrorKind(err)
		c.metrics.UpstreamErrors.WithLabelValues(kind).Inc()
		c.logger.Warn("purpleair request failed", "kind", kind, "sensors", len(sensorIDs), "error", err)
		return domain.Payload{}, err
	}

	c.logger.Debug("purpleair response", "sensors", len(sensorIDs), "rows", len(payload.Data))
	return payload, nil
}

func (c *Client) fetch(ctx context.Context, sensorIDs, fields []string) (domain.Payload, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"show_only": strings.Join(sensorIDs, ","),
			"fields":    strings.Join(fields, ","),
		}).
		Get("/sensors")
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return domain.Payload{}, &domain.StatusError{StatusCode: resp.StatusCode()}
	}

	ct := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return domain.Payload{}, fmt.Errorf("%w: %q", domain.ErrContentType, ct)
	}

	return domain.ParsePayload(resp.Body())
}
