package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydone/checklist-api/internal/domain"
	"github.com/dailydone/checklist-api/internal/quota"
	"github.com/dailydone/checklist-api/internal/sanitize"
)

// stubGenerator returns canned model output and records the prompts it saw.
type stubGenerator struct {
	output  string
	err     error
	prompts []string
}

func (g *stubGenerator) GenerateChecklist(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

// fixedClock pins the calendar day for quota tests.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, gen *stubGenerator) (*ChecklistService, *fixedClock) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := quota.NewTracker(logger, 3, 5)
	clock := &fixedClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}

	svc, err := NewChecklistService(logger, tracker, gen, clock)
	require.NoError(t, err)
	return svc, clock
}

func validRequest() *domain.GenerationRequest {
	return &domain.GenerationRequest{
		UserID:          "user-1",
		TaskID:          "task-1",
		TaskTitle:       "Write report",
		TaskDescription: "Quarterly report for the sales team",
	}
}

const validOutput = `{"checklist":[{"description":"outline","estimatedTime":20,"isCompleted":false}]}`

func TestGenerateChecklistSuccess(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, _ := newTestService(t, gen)

	body, err := svc.GenerateChecklist(context.Background(), validRequest())
	require.NoError(t, err)
	assert.JSONEq(t, validOutput, string(body))
}

func TestGenerateChecklistValidatesIdentityFields(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, _ := newTestService(t, gen)

	req := validRequest()
	req.UserID = ""
	_, err := svc.GenerateChecklist(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrMissingUserID)

	req = validRequest()
	req.TaskID = ""
	_, err = svc.GenerateChecklist(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrMissingTaskID)

	assert.Empty(t, gen.prompts, "validation failures must not reach the generator")
}

func TestGenerateChecklistPromptContents(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, _ := newTestService(t, gen)

	req := validRequest()
	req.Category = "Work"
	req.MorningPeak = 70
	_, err := svc.GenerateChecklist(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `Title: "Write report"`)
	assert.Contains(t, prompt, `Description: "Quarterly report for the sales team"`)
	assert.Contains(t, prompt, "Work Hours: 09:00 to 17:00", "defaults are resolved before prompt construction")
	assert.Contains(t, prompt, "Notification Hours: 08:00 to 20:00")
	assert.Contains(t, prompt, "Morning Productivity Peak: 70%")
	assert.Contains(t, prompt, "Afternoon Productivity Peak: 50%")
	assert.Contains(t, prompt, `Category: "Work"`)
	assert.Contains(t, prompt, "same language as the task title and description")
}

func TestGenerateChecklistTruncatesPromptFields(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, _ := newTestService(t, gen)

	req := validRequest()
	req.TaskTitle = strings.Repeat("x", 80)
	_, err := svc.GenerateChecklist(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `Title: "`+strings.Repeat("x", 50)+`"`)
	assert.NotContains(t, gen.prompts[0], strings.Repeat("x", 51))
}

func TestGenerateChecklistEnforcesTaskQuota(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, clock := newTestService(t, gen)

	for i := 0; i < 3; i++ {
		_, err := svc.GenerateChecklist(context.Background(), validRequest())
		require.NoError(t, err)
	}

	_, err := svc.GenerateChecklist(context.Background(), validRequest())
	assert.ErrorIs(t, err, quota.ErrTaskLimitReached)
	assert.Len(t, gen.prompts, 3, "a rejected request must not invoke the external service")

	// The next calendar day resets the counter.
	clock.now = clock.now.Add(24 * time.Hour)
	_, err = svc.GenerateChecklist(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestGenerateChecklistEnforcesUserQuota(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: validOutput}
	svc, _ := newTestService(t, gen)

	for i := 0; i < 5; i++ {
		req := validRequest()
		req.TaskID = "task-" + string(rune('a'+i))
		_, err := svc.GenerateChecklist(context.Background(), req)
		require.NoError(t, err)
	}

	req := validRequest()
	req.TaskID = "task-new"
	_, err := svc.GenerateChecklist(context.Background(), req)
	assert.ErrorIs(t, err, quota.ErrUserLimitReached)

	// An already-granted task is still allowed.
	req = validRequest()
	req.TaskID = "task-a"
	_, err = svc.GenerateChecklist(context.Background(), req)
	assert.NoError(t, err)
}

func TestGenerateChecklistConsumesQuotaOnFailedCalls(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("upstream down")}
	svc, _ := newTestService(t, gen)

	// Quota is consumed at admission, so three failed calls exhaust the
	// per-task limit just like successful ones.
	for i := 0; i < 3; i++ {
		_, err := svc.GenerateChecklist(context.Background(), validRequest())
		require.Error(t, err)
		require.NotErrorIs(t, err, quota.ErrTaskLimitReached)
	}

	_, err := svc.GenerateChecklist(context.Background(), validRequest())
	assert.ErrorIs(t, err, quota.ErrTaskLimitReached)
	assert.Len(t, gen.prompts, 3)
}

func TestGenerateChecklistSanitizesModelOutput(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + validOutput + "\n```"
	gen := &stubGenerator{output: fenced}
	svc, _ := newTestService(t, gen)

	body, err := svc.GenerateChecklist(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, validOutput, string(body), "fences are stripped and the JSON re-encoded canonically")
}

func TestGenerateChecklistProducesASCIIForNonASCIIContent(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{
		output: `{"checklist":[{"description":"資料を読む","estimatedTime":25,"isCompleted":false}]}`,
	}
	svc, _ := newTestService(t, gen)

	req := validRequest()
	req.TaskTitle = "資料を読んで要約する" // 10 CJK characters
	body, err := svc.GenerateChecklist(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < len(body); i++ {
		require.LessOrEqual(t, body[i], byte(127), "response must be pure ASCII")
	}
	assert.Contains(t, string(body), `\u`, "non-ASCII content is escaped, not dropped")
}

func TestGenerateChecklistSurfacesSanitizationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		wantErr error
	}{
		{"empty output", "", sanitize.ErrEmptyOutput},
		{"truncated output", "{...}", sanitize.ErrTruncatedOutput},
		{"malformed output", "{not valid json at all", sanitize.ErrMalformedJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gen := &stubGenerator{output: tc.output}
			svc, _ := newTestService(t, gen)

			_, err := svc.GenerateChecklist(context.Background(), validRequest())
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGenerateChecklistPropagatesGeneratorErrors(t *testing.T) {
	t.Parallel()

	upstreamErr := errors.New("connection reset")
	gen := &stubGenerator{err: upstreamErr}
	svc, _ := newTestService(t, gen)

	_, err := svc.GenerateChecklist(context.Background(), validRequest())
	assert.ErrorIs(t, err, upstreamErr)
}
