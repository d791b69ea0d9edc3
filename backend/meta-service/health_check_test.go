package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargets(t *testing.T) {
	got := parseTargets(" auth=http://a/health, ,http://b/health ")
	require.Len(t, got, 2)
	assert.Equal(t, target{Name: "auth", URL: "http://a/health"}, got[0])
	assert.Equal(t, target{Name: "http://b/health", URL: "http://b/health"}, got[1])
}

func TestHealthChecker(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	check := func(targets []target) (int, healthReport) {
		h := &healthChecker{client: up.Client(), targets: targets}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		var report healthReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		return rec.Code, report
	}

	code, report := check([]target{{"auth", up.URL}, {"rental", up.URL}})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", report.Status)

	code, report = check([]target{{"auth", up.URL}, {"rental", down.URL}})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", report.Services["rental"])
	assert.Equal(t, "ok", report.Services["auth"])

	code, report = check([]target{{"gone", "http://127.0.0.1:1/health"}})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unreachable", report.Services["gone"])
}
