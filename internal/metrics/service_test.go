package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncQueueJoins()
	s.IncQueueJoins()
	s.IncPoolsGenerated()
	s.ObservePoolPowerDelta(40)
	s.IncMatchesCreated()
	s.IncMatchesFinished()
	s.IncMatchesCancelled()

	assert.Equal(t, 2.0, testutil.ToFloat64(s.QueueJoins))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.PoolsGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesFinished))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesCancelled))
	assert.Equal(t, 1, testutil.CollectAndCount(s.PoolPowerDelta))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncQueueJoins()

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "courtmatch_queue_joins_total 1")
	assert.Contains(t, string(body), "courtmatch_pool_power_delta_bucket")
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncQueueJoins()
	m.ObservePoolPowerDelta(10)
	m.ObservePoolPowerDelta(0)
	m.IncMatchesFinished()

	assert.Equal(t, 1, m.QueueJoins())
	assert.Equal(t, []int{10, 0}, m.PowerDeltas())
	assert.Equal(t, 1, m.MatchesFinished())
	assert.Equal(t, 0, m.MatchesCancelled())
}
