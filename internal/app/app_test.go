package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/courtmatch/internal/config"
	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/testutil"
)

// envelope повторяет формат ответа API
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Meta       *struct {
		TotalCount int `json:"totalCount"`
	} `json:"meta"`
}

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupApp(t *testing.T) (*testEnv, *testutil.Postgres) {
	t.Helper()
	db := testutil.StartPostgres(t)
	user, password, name := db.Credentials()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:          db.Host,
			Port:          db.Port,
			User:          user,
			Password:      password,
			Name:          name,
			SSLMode:       "disable",
			MaxConns:      10,
			MinConns:      1,
			RunMigrations: true,
		},
		JWT:         config.JWTConfig{Secret: "test-jwt-secret", ExpirationHours: 1},
		Matchmaking: config.MatchmakingConfig{ScopeCap: 8, PowerCasual: 50, PowerBeginner: 60, PowerIntermediate: 80, PowerAdvanced: 90},
		Log:         config.LogConfig{Level: "warn"},
	}

	application, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, application.Initialize(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	})

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &testEnv{server: server}, db
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestE2E_SessionToFinishedMatch(t *testing.T) {
	env, db := setupApp(t)
	courts := db.SeedClub(t, "club-1", 1)
	for i, level := range []domain.Level{domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelCasual, domain.LevelCasual} {
		db.SeedMember(t, "club-1", []string{"m1", "m2", "m3", "m4"}[i], domain.GenderMale, level)
	}

	t.Run("Health is public", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, body.Success)
	})

	t.Run("Routes require a token", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/sessions/whatever", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	status, body := env.do(t, http.MethodPost, "/auth/login", map[string]string{"member_id": "m1"})
	require.Equal(t, http.StatusOK, status)
	env.token = decode[struct {
		Token string `json:"token"`
	}](t, body.Data).Token
	require.NotEmpty(t, env.token)

	now := time.Now().UTC()
	status, body = env.do(t, http.MethodPost, "/sessions", map[string]any{
		"club_id":    "club-1",
		"start_time": now.Add(-time.Hour),
		"end_time":   now.Add(2 * time.Hour),
		"type":       "DOUBLES",
		"capacity":   4,
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	session := decode[domain.Session](t, body.Data)

	status, _ = env.do(t, http.MethodPost, "/sessions/"+session.ID+"/courts", map[string]string{"court_id": courts[0]})
	require.Equal(t, http.StatusCreated, status)

	// m1 joins with its own token, the rest on behalf of the organiser
	status, _ = env.do(t, http.MethodPost, "/sessions/"+session.ID+"/queue", nil)
	require.Equal(t, http.StatusCreated, status)
	for _, id := range []string{"m2", "m3", "m4"} {
		status, body = env.do(t, http.MethodPost, "/sessions/"+session.ID+"/queue", map[string]string{"member_id": id})
		require.Equal(t, http.StatusCreated, status, body.Message)
	}

	status, body = env.do(t, http.MethodPost, "/sessions/"+session.ID+"/queue", map[string]string{"member_id": "m4"})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, body.Success)

	status, body = env.do(t, http.MethodPost, "/sessions/"+session.ID+"/pools", nil)
	require.Equal(t, http.StatusCreated, status, body.Message)
	pool := decode[domain.Pool](t, body.Data)
	assert.Equal(t, 0, pool.PowerDelta)

	status, body = env.do(t, http.MethodPost, "/pools/"+pool.ID+"/promote", map[string]string{"court_id": courts[0]})
	require.Equal(t, http.StatusCreated, status, body.Message)
	match := decode[domain.Match](t, body.Data)
	assert.Equal(t, domain.MatchStatusFormed, match.Status)

	status, body = env.do(t, http.MethodPost, "/matches/"+match.ID+"/finish", map[string]int{"team_a_points": 21, "team_b_points": 21})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPost, "/matches/"+match.ID+"/finish", map[string]int{"team_a_points": 21, "team_b_points": 15})
	require.Equal(t, http.StatusOK, status, body.Message)
	outcome := decode[struct {
		Match    domain.Match         `json:"match"`
		Winner   domain.Team          `json:"winner"`
		Requeued []*domain.QueueEntry `json:"requeued"`
	}](t, body.Data)
	assert.Equal(t, domain.TeamA, outcome.Winner)
	assert.Equal(t, domain.MatchStatusFinished, outcome.Match.Status)
	assert.Len(t, outcome.Requeued, 4)

	status, body = env.do(t, http.MethodPost, "/matches/"+match.ID+"/finish", map[string]int{"team_a_points": 21, "team_b_points": 15})
	assert.Equal(t, http.StatusConflict, status)

	status, body = env.do(t, http.MethodGet, "/sessions/"+session.ID+"/queue?limit=2", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 4, body.Meta.TotalCount)
	entries := decode[[]domain.QueueEntry](t, body.Data)
	require.Len(t, entries, 2)
	// team A won: m1 and m3 come back first
	assert.Equal(t, "m1", entries[0].MemberID)
	assert.Equal(t, "m3", entries[1].MemberID)

	status, body = env.do(t, http.MethodGet, "/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, decode[domain.Session](t, body.Data).RemainingParticipants)

	t.Run("Metrics are exposed", func(t *testing.T) {
		resp, err := env.server.Client().Get(env.server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "courtmatch_matches_finished_total 1")
	})
}
