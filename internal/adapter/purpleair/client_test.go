package purpleair

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/purpleair-aqi-service/internal/domain"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
)

const (
	testAPIKey        = "test-read-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(t *testing.T, baseURL string) (*Client, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	c := NewClient(baseURL, testAPIKey, 5*time.Second, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c, m
}

func samplePayload(t *testing.T) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", "purpleair_sample.json"))
	require.NoError(t, err)
	return body
}

func TestClient_FetchSensors_Success(t *testing.T) {
	body := samplePayload(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/sensors", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get(apiKeyHeader))
		assert.Equal(t, "108616,80327", r.URL.Query().Get("show_only"))
		assert.Equal(t, "name,pm2.5", r.URL.Query().Get("fields"))

		w.Header().Set(headerContentType, contentTypeJSON+"; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c, m := testClient(t, srv.URL+"/v1/")
	p, err := c.FetchSensors(context.Background(), []string{"108616", "80327"}, []string{"name", "pm2.5"})
	require.NoError(t, err)

	assert.Equal(t, "sensor_index", p.Fields[0])
	require.Len(t, p.Data, 4)
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.UpstreamErrors))
}

func TestClient_FetchSensors_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"ApiKeyInvalidError"}`))
	}))
	defer srv.Close()

	c, m := testClient(t, srv.URL)
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, http.StatusForbidden, domain.StatusCode(err))
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("transport")))
}

func TestClient_FetchSensors_WrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c, m := testClient(t, srv.URL)
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrContentType)
	assert.Contains(t, err.Error(), "text/html")
	assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("content_type")))
}

func TestClient_FetchSensors_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"fields":["sensor_index"]}`))
	}))
	defer srv.Close()

	c, m := testClient(t, srv.URL)
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "'data'")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("malformed_payload")))
}

func TestClient_FetchSensors_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"fields":`))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestClient_FetchSensors_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := testClient(t, url)
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(err))
}

func TestClient_FetchSensors_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testAPIKey, 50*time.Millisecond, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.FetchSensors(context.Background(), []string{"1"}, []string{"name"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_FetchSensors_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"fields":[],"data":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := testClient(t, srv.URL)
	_, err := c.FetchSensors(ctx, []string{"1"}, []string{"name"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
