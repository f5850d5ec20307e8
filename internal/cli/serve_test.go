package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/plantops/internal/ports/primary"
)

type fakeOptimizer struct {
	summary *primary.RunSummary
	err     error
	lastRef time.Time
	ctxErr  error
}

func (f *fakeOptimizer) RunOnce(ctx context.Context, referenceDate time.Time) (*primary.RunSummary, error) {
	f.lastRef = referenceDate
	f.ctxErr = ctx.Err()
	return f.summary, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeRun(t *testing.T, rec *httptest.ResponseRecorder) runResponse {
	t.Helper()
	var resp runResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRunHandler_Completed(t *testing.T) {
	opt := &fakeOptimizer{summary: &primary.RunSummary{
		Outcome:        primary.OutcomeCompleted,
		ReferenceDate:  "2026-10-19",
		CandidateTasks: 3,
		AssignedCount:  2,
		Skipped:        map[string]int{primary.SkipBelowThreshold: 1},
	}}

	req := httptest.NewRequest(http.MethodPost, "/optimizer/run?date=2026-10-19", nil)
	rec := httptest.NewRecorder()
	RunHandler(opt, discardLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2026-10-19", opt.lastRef.Format("2006-01-02"))

	resp := decodeRun(t, rec)
	assert.Equal(t, "completed", resp.Outcome)
	assert.Equal(t, 2, resp.Assigned)
	assert.Equal(t, 1, resp.Skipped["below_threshold"])
	assert.Equal(t, "Assigned 2 of 3 candidate tasks; skipped 1 (below_threshold: 1).", resp.Message)
	assert.Empty(t, resp.Error)
}

func TestRunHandler_DefaultsToToday(t *testing.T) {
	opt := &fakeOptimizer{summary: &primary.RunSummary{Outcome: primary.OutcomeIdle}}

	rec := httptest.NewRecorder()
	RunHandler(opt, discardLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimizer/run", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, opt.lastRef.IsZero())
}

func TestRunHandler_BadDate(t *testing.T) {
	opt := &fakeOptimizer{}

	rec := httptest.NewRecorder()
	RunHandler(opt, discardLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimizer/run?date=monday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeRun(t, rec).Error, "invalid date")
}

func TestRunHandler_InProgress(t *testing.T) {
	opt := &fakeOptimizer{err: primary.ErrRunInProgress}

	rec := httptest.NewRecorder()
	RunHandler(opt, discardLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimizer/run", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunHandler_Aborted(t *testing.T) {
	opt := &fakeOptimizer{
		summary: &primary.RunSummary{Outcome: primary.OutcomeAborted, LoadErrors: []string{"failed to load tasks"}},
		err:     errors.New("optimizer run aborted: failed to load tasks"),
	}

	rec := httptest.NewRecorder()
	RunHandler(opt, discardLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/optimizer/run", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeRun(t, rec)
	assert.Equal(t, "aborted", resp.Outcome)
	assert.Contains(t, resp.Error, "failed to load tasks")
}

func TestRunHandler_DetachedFromRequest(t *testing.T) {
	opt := &fakeOptimizer{summary: &primary.RunSummary{Outcome: primary.OutcomeIdle}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/optimizer/run", nil).WithContext(ctx)

	RunHandler(opt, discardLogger()).ServeHTTP(httptest.NewRecorder(), req)
	assert.NoError(t, opt.ctxErr)
}
