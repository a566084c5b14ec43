package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
	"github.com/couchcryptid/purpleair-aqi-service/internal/report"
)

// Fetcher reads sensor rows from the upstream API.
type Fetcher interface {
	FetchSensors(ctx context.Context, sensorIDs, fields []string) (domain.Payload, error)
}

// Publisher receives the converted readings of every successful report.
type Publisher interface {
	Publish(ctx context.Context, readings []domain.AQIReading) error
}

// Options are the per-deployment report settings.
type Options struct {
	SensorIDs []string // default sensor list and display order
	Fields    []string // fields requested from the upstream API
	Labels    domain.Labels
	Title     string
}

// Response is the result of one report invocation.
type Response struct {
	StatusCode  int
	ContentType string
	Body        string
}

const contentTypeText = "text/plain; charset=utf-8"

// Pipeline runs the fetch-reorder-convert-render cycle for one invocation.
type Pipeline struct {
	fetcher   Fetcher
	publisher Publisher // nil disables publishing
	renderer  report.Renderer
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	lastErr atomic.Pointer[string]
}

// New creates a Pipeline. publisher may be nil.
func New(f Fetcher, pub Publisher, r report.Renderer, opts Options, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.Labels == nil {
		opts.Labels = domain.DefaultLabels()
	}
	if opts.Title == "" {
		opts.Title = report.DefaultTitle
	}
	return &Pipeline{
		fetcher:   f,
		publisher: pub,
		renderer:  r,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns an error while the most recent upstream fetch is
// failing. A pipeline that has not fetched yet is ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if msg := p.lastErr.Load(); msg != nil {
		return fmt.Errorf("last upstream fetch failed: %s", *msg)
	}
	return nil
}

// Handle produces the report for sensorIDs, or for the configured sensors
// when sensorIDs is empty. Failures become an error response; it never
// returns a partial table.
func (p *Pipeline) Handle(ctx context.Context, sensorIDs []string) Response {
	start := p.clock.Now()
	if len(sensorIDs) == 0 {
		sensorIDs = p.opts.SensorIDs
	}

	resp, err := p.run(ctx, sensorIDs, start)
	p.metrics.ReportDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		p.metrics.Reports.WithLabelValues("error").Inc()
		p.logger.Error("report failed",
			"error", err,
			"kind", domain.ErrorKind(err),
			"sensors", len(sensorIDs),
		)
		return errorResponse(err)
	}

	p.metrics.Reports.WithLabelValues("success").Inc()
	return resp
}

func (p *Pipeline) run(ctx context.Context, sensorIDs []string, start time.Time) (Response, error) {
	payload, err := p.fetcher.FetchSensors(ctx, sensorIDs, p.opts.Fields)
	if err != nil {
		msg := err.Error()
		p.lastErr.Store(&msg)
		return Response{}, err
	}
	p.lastErr.Store(nil)

	rows := domain.ReorderReadings(payload.Data, sensorIDs)
	cols := domain.Columns(payload.Fields, p.opts.Labels)

	tbl := report.Build(cols, rows)
	tbl.Title = p.opts.Title

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, tbl); err != nil {
		return Response{}, err
	}

	readings := domain.AQIReadings(cols, rows, start)
	p.recordReadings(readings)
	p.publish(ctx, readings)

	p.logger.Info("report rendered",
		"sensors", len(sensorIDs),
		"rows", len(rows),
		"readings", len(readings),
	)

	return Response{
		StatusCode:  http.StatusOK,
		ContentType: p.renderer.ContentType(),
		Body:        buf.String(),
	}, nil
}

func (p *Pipeline) recordReadings(readings []domain.AQIReading) {
	for _, r := range readings {
		if r.AQI == nil {
			continue
		}
		p.metrics.SensorAQI.WithLabelValues(r.SensorID, r.Field).Set(float64(*r.AQI))
	}
}

// publish hands readings to the publisher. A failure is logged and counted
// but does not affect the report.
func (p *Pipeline) publish(ctx context.Context, readings []domain.AQIReading) {
	if p.publisher == nil || len(readings) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, readings); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish aqi readings failed", "error", err, "count", len(readings))
		return
	}
	p.metrics.ReadingsPublished.Add(float64(len(readings)))
}

func errorResponse(err error) Response {
	return Response{
		StatusCode:  domain.StatusCode(err),
		ContentType: contentTypeText,
		Body:        "Error: " + err.Error(),
	}
}
