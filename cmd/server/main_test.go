package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydone/checklist-api/internal/api"
	"github.com/dailydone/checklist-api/internal/quota"
	"github.com/dailydone/checklist-api/internal/service"
)

type staticGenerator struct{ output string }

func (g staticGenerator) GenerateChecklist(ctx context.Context, prompt string) (string, error) {
	return g.output, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := quota.NewTracker(log, 3, 5)
	gen := staticGenerator{
		output: `{"checklist":[{"description":"step","estimatedTime":10,"isCompleted":false}]}`,
	}
	clock := fixedClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}

	svc, err := service.NewChecklistService(log, tracker, gen, clock)
	require.NoError(t, err)

	return setupRouter(api.NewChecklistHandler(svc, log), log)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGenerateRouteIsRegistered(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	body := strings.NewReader(`{
		"userId": "user-1",
		"taskId": "task-1",
		"taskTitle": "Write report",
		"taskDescription": "Quarterly report"
	}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checklists/generate", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "checklist")
}

func TestUnknownRouteReturns404(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
