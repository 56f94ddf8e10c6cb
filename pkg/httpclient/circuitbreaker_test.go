package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreakerUnderTest(t *testing.T, name string) (*BreakerClient, *atomic.Int32, *httptest.Server) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	// Fail fast: no retries, small sample before the ratio is evaluated.
	client := New(Config{Timeout: time.Second, MaxRetries: 0})
	cfg := DefaultBreakerConfig(name)
	cfg.MinRequests = 2
	cfg.Timeout = time.Minute

	bc := NewBreakerClient(client, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return bc, &hits, srv
}

func TestBreakerClientPassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bc := NewBreakerClient(
		New(Config{Timeout: time.Second, MaxRetries: 0}),
		DefaultBreakerConfig("pass-through"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	resp, err := bc.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, bc.State())
}

func TestBreakerClientOpensOnFailures(t *testing.T) {
	bc, hits, srv := newBreakerUnderTest(t, "opens-on-failures")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := bc.Get(ctx, srv.URL)
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, bc.State())

	// Open breaker rejects without touching the server.
	before := hits.Load()
	_, err := bc.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, hits.Load())
}
