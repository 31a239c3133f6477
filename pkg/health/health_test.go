package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeStatus(t *testing.T, handler http.HandlerFunc) int {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec.Code
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	s := New()
	assert.Equal(t, http.StatusServiceUnavailable, probeStatus(t, s.ReadyEndpoint))
	assert.False(t, s.IsReady())

	s.SetReady(true)
	assert.Equal(t, http.StatusOK, probeStatus(t, s.ReadyEndpoint))
	assert.True(t, s.IsReady())
}

func TestFailureThreshold(t *testing.T) {
	s := New()
	s.AddLivenessCheck("flaky", time.Second, func(context.Context) error {
		return errors.New("boom")
	})

	ctx := context.Background()

	// Below the threshold the probe still passes.
	s.runAll(ctx)
	s.runAll(ctx)
	assert.Equal(t, http.StatusOK, probeStatus(t, s.LiveEndpoint))

	s.runAll(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, probeStatus(t, s.LiveEndpoint))
}

func TestCheckRecovers(t *testing.T) {
	fail := true
	s := New()
	s.AddReadinessCheck("dep", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	s.SetReady(true)

	ctx := context.Background()
	for range 3 {
		s.runAll(ctx)
	}
	require.False(t, s.IsReady())

	fail = false
	s.runAll(ctx)
	assert.True(t, s.IsReady())
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
