package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/courtmatch/internal/service"
)

type validatorFunc func(token string) (*service.Claims, error)

func (f validatorFunc) ValidateToken(token string) (*service.Claims, error) { return f(token) }

func TestAuthMiddleware(t *testing.T) {
	validator := validatorFunc(func(token string) (*service.Claims, error) {
		if token != "good" {
			return nil, errors.New("bad token")
		}
		return &service.Claims{MemberID: "m1", ClubID: "c1"}, nil
	})

	var member, club string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member = GetMemberIDFromContext(r.Context())
		club = GetClubIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthMiddleware(validator)(next)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid", "Bearer good", http.StatusNoContent, ""},
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "invalid authorization header format"},
		{"invalid", "Bearer bad", http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, club = "", ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "m1", member)
				assert.Equal(t, "c1", club)
				return
			}

			var body struct {
				StatusCode int    `json:"statusCode"`
				Success    bool   `json:"success"`
				Message    string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, member)
		})
	}
}
