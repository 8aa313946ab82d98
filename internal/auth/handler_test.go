package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newLoginRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _ := loginFixture(t)
	handler := NewHandler(slog.Default(), service)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestLoginEndpointSuccess(t *testing.T) {
	router := newLoginRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"janedoe","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Success    bool    `json:"success"`
		CustomerID int64   `json:"customer_id"`
		Due        float64 `json:"due"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Equal(t, int64(1), payload.CustomerID)
	require.Equal(t, 350.0, payload.Due)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	router := newLoginRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"janedoe","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.Equal(t, "Invalid credentials", payload.Message)
}

func TestLoginEndpointMissingFields(t *testing.T) {
	router := newLoginRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"janedoe"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
