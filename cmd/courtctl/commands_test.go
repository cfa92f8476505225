package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishCommand(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"statusCode":200,"success":true,"message":"match finished"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--host", srv.URL, "--token", "tok", "finish", "m1", "21", "15"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "/matches/m1/finish", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, map[string]int{"team_a_points": 21, "team_b_points": 15}, gotBody)
	assert.Contains(t, out.String(), "Status Code: 200")
	assert.Contains(t, out.String(), `"message": "match finished"`)
}

func TestFinishCommand_InvalidPoints(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--host", "http://127.0.0.1:0", "finish", "m1", "x", "15"})

	assert.Error(t, rootCmd.Execute())
}

func TestJoinCommand_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"statusCode":409,"success":false,"message":"member already queued"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--host", srv.URL, "join", "s1", "m1"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, out.String(), "Status Code: 409")
}
