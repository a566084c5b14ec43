//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/purpleair-aqi-service/internal/adapter/kafka"
	"github.com/couchcryptid/purpleair-aqi-service/internal/adapter/purpleair"
	"github.com/couchcryptid/purpleair-aqi-service/internal/config"
	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
	"github.com/couchcryptid/purpleair-aqi-service/internal/pipeline"
	"github.com/couchcryptid/purpleair-aqi-service/internal/report"
)

const testTopic = "test-aqi-readings"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("aqi-test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "testdata", "purpleair_sample.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestReportPublishesReadings runs a full report against a stub PurpleAir API
// and checks every converted reading lands on the topic.
func TestReportPublishesReadings(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	client := purpleair.NewClient(upstream(t).URL, "test-key", 5*time.Second, metrics, discardLogger())
	observedAt := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	p := pipeline.New(client, writer, report.HTML{}, pipeline.Options{
		SensorIDs: domain.DefaultSensorIDs,
		Fields:    domain.DefaultFields,
	}, clockwork.NewFakeClockAt(observedAt), discardLogger(), metrics)

	resp := p.Handle(ctx, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.True(t, strings.Contains(resp.Body, "Beehive"))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	const want = 28 // 4 sensors x 7 particulate windows
	got := make([]domain.AQIReading, 0, want)
	headers := make([]map[string]string, 0, want)
	for len(got) < want {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from readings topic")

		var r domain.AQIReading
		require.NoError(t, json.Unmarshal(msg.Value, &r))
		assert.Equal(t, r.SensorID, string(msg.Key))
		got = append(got, r)

		h := make(map[string]string, len(msg.Headers))
		for _, kv := range msg.Headers {
			h[kv.Key] = string(kv.Value)
		}
		headers = append(headers, h)
	}

	first := got[0]
	assert.Equal(t, "108616", first.SensorID)
	assert.Equal(t, "Beehive", first.SensorName)
	assert.Equal(t, "pm2.5", first.Field)
	require.NotNil(t, first.AQI)
	assert.Equal(t, 26, *first.AQI)
	assert.Equal(t, domain.SeverityGood, first.Severity)
	assert.True(t, observedAt.Equal(first.ObservedAt))

	assert.Equal(t, "pm2.5", headers[0]["field"])
	assert.Equal(t, "good", headers[0]["severity"])
	assert.Equal(t, "2024-04-26T15:10:00Z", headers[0]["observed_at"])

	last := got[want-1]
	assert.Equal(t, "66167", last.SensorID)
	assert.Equal(t, "pm2.5_1week", last.Field)
	require.NotNil(t, last.AQI)
	assert.Equal(t, 19, *last.AQI)
}
