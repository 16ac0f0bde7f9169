package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/middleware"
)

type tokenParserFunc func(string) (uuid.UUID, error)

func (f tokenParserFunc) Parse(raw string) (uuid.UUID, error) { return f(raw) }

func TestAuthHandler(t *testing.T) {
	userID := uuid.New()
	parser := tokenParserFunc(func(raw string) (uuid.UUID, error) {
		if raw == "good" {
			return userID, nil
		}
		return uuid.Nil, errors.New("bad token")
	})

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.UserIDFrom(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})
	h := middleware.NewAuthHandler(parser)(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer good", http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"rejected token", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/trips/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusUnauthorized {
				assert.Equal(t, userID, seen)
				return
			}
			assert.Equal(t, uuid.Nil, seen, "next handler must not run")
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "unauthorized", body.Error.Code)
		})
	}
}

func TestUserIDFrom_Missing(t *testing.T) {
	_, ok := middleware.UserIDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
