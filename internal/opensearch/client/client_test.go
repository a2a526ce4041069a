package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rx3lixir/search-connector/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clusterInfo = `{"version": {"number": "2.11.0", "distribution": "opensearch"}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.URL = srv.URL
	cfg.MaxRetries = 0

	c, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IndexName = ""

	_, err := New(cfg, logger.Nop())
	assert.Error(t, err)
}

func TestHealthChecker_ClusterHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/_cluster/health":
			_, _ = io.WriteString(w, `{"cluster_name": "test", "status": "yellow", "number_of_nodes": 1}`)
		default:
			_, _ = io.WriteString(w, clusterInfo)
		}
	})

	checker := NewHealthChecker(c)
	require.NoError(t, checker.Check(context.Background()))

	health, err := checker.ClusterHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", health.ClusterName)
	assert.True(t, health.IsHealthy())
}

func TestHealthChecker_WaitForHealthy(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead && calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, clusterInfo)
	})

	checker := NewHealthChecker(c)
	checker.retryDelay = time.Millisecond

	require.NoError(t, checker.WaitForHealthy(context.Background(), 5))
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestHealthChecker_Unhealthy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	checker := NewHealthChecker(c)
	checker.retryDelay = time.Millisecond

	assert.Error(t, checker.WaitForHealthy(context.Background(), 2))
}

func TestHealthChecker_ClusterDetails(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{"green", "green", false},
		{"yellow", "yellow", false},
		{"red", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if r.URL.Path == "/_cluster/health" {
					_, _ = io.WriteString(w, `{"cluster_name": "test", "status": "`+tt.status+`", "number_of_nodes": 2, "unassigned_shards": 1}`)
					return
				}
				_, _ = io.WriteString(w, clusterInfo)
			})

			details, err := NewHealthChecker(c).ClusterDetails(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.status, details["cluster_status"])
			assert.Equal(t, 2, details["number_of_nodes"])
			assert.Equal(t, 1, details["unassigned_shards"])
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no url", func(c *Config) { c.URL = "" }, true},
		{"short timeout", func(c *Config) { c.Timeout = 100 * time.Millisecond }, true},
		{"too many retries", func(c *Config) { c.MaxRetries = 10 }, true},
		{"retry on success status", func(c *Config) { c.RetryOnStatus = []int{200} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
