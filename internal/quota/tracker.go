// Package quota bounds how often a caller may trigger checklist generation.
// It enforces two independent per-calendar-day limits: generation attempts
// per (user, task) pair, and distinct tasks per user. State is in-memory
// only; a process restart resets all quotas.
package quota

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Quota rejection errors. The API layer maps both to HTTP 429.
var (
	// ErrTaskLimitReached indicates the (user, task) pair has used all of its
	// generation attempts for today.
	ErrTaskLimitReached = errors.New("checklist generation limit reached for this task today")

	// ErrUserLimitReached indicates the user has generated checklists for the
	// maximum number of distinct tasks today.
	ErrUserLimitReached = errors.New("daily checklist generation limit for new tasks reached")
)

// Clock supplies the current time. It is injected so tests can pin the
// calendar day.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// DayKey converts a wall-clock time to the calendar-day key that scopes all
// counters. Quotas reset at UTC midnight, not on a rolling 24-hour window.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// taskQuotaRecord holds per-task attempt counts for one user on one day.
type taskQuotaRecord struct {
	date   string
	counts map[string]int
}

// userTaskSetRecord holds the set of task IDs a user has been granted
// generation for on one day.
type userTaskSetRecord struct {
	date  string
	tasks map[string]struct{}
}

// Tracker maintains both daily limits. All state is keyed by user ID and
// guarded by a single mutex, so concurrent requests for the same user cannot
// exceed either cap.
type Tracker struct {
	logger             *slog.Logger
	maxAttemptsPerTask int
	maxTasksPerUser    int

	mu         sync.Mutex
	taskCounts map[string]*taskQuotaRecord
	userTasks  map[string]*userTaskSetRecord
}

// NewTracker creates a Tracker with the given per-task attempt limit and
// per-user distinct-task limit.
func NewTracker(logger *slog.Logger, maxAttemptsPerTask, maxTasksPerUser int) *Tracker {
	return &Tracker{
		logger:             logger,
		maxAttemptsPerTask: maxAttemptsPerTask,
		maxTasksPerUser:    maxTasksPerUser,
		taskCounts:         make(map[string]*taskQuotaRecord),
		userTasks:          make(map[string]*userTaskSetRecord),
	}
}

// CheckTaskQuota reports whether the (user, task) pair may attempt another
// generation today. It does not mutate state.
func (t *Tracker) CheckTaskQuota(userID, taskID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkTaskQuotaLocked(userID, taskID, DayKey(now))
}

// RecordTaskAttempt increments the attempt count for the (user, task) pair,
// creating or resetting the day bucket as needed.
func (t *Tracker) RecordTaskAttempt(userID, taskID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordTaskAttemptLocked(userID, taskID, DayKey(now))
}

// CheckUserDailyQuota reports whether the user may generate a checklist for
// taskID today. A task already granted today always passes, regardless of
// how many distinct tasks the user has used.
func (t *Tracker) CheckUserDailyQuota(userID, taskID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkUserDailyQuotaLocked(userID, taskID, DayKey(now))
}

// RecordUserTask adds taskID to the user's granted set for today.
func (t *Tracker) RecordUserTask(userID, taskID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordUserTaskLocked(userID, taskID, DayKey(now))
}

// Admit performs both quota checks and, if both pass, records both grants.
// Check and record happen under one lock, so the "at most N attempts per
// day" invariants hold exactly even under concurrent requests for the same
// user. Returns ErrTaskLimitReached or ErrUserLimitReached on rejection.
func (t *Tracker) Admit(userID, taskID string, now time.Time) error {
	day := DayKey(now)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.checkTaskQuotaLocked(userID, taskID, day) {
		return ErrTaskLimitReached
	}
	if !t.checkUserDailyQuotaLocked(userID, taskID, day) {
		return ErrUserLimitReached
	}

	t.recordTaskAttemptLocked(userID, taskID, day)
	t.recordUserTaskLocked(userID, taskID, day)
	return nil
}

func (t *Tracker) checkTaskQuotaLocked(userID, taskID, day string) bool {
	count := 0
	if rec, ok := t.taskCounts[userID]; ok && rec.date == day {
		count = rec.counts[taskID]
	}
	allowed := count < t.maxAttemptsPerTask

	t.logger.Debug("task quota check",
		"user_id", userID,
		"task_id", taskID,
		"date", day,
		"count", count,
		"allowed", allowed)
	return allowed
}

func (t *Tracker) recordTaskAttemptLocked(userID, taskID, day string) {
	rec, ok := t.taskCounts[userID]
	if !ok || rec.date != day {
		rec = &taskQuotaRecord{date: day, counts: make(map[string]int)}
		t.taskCounts[userID] = rec
	}
	rec.counts[taskID]++

	t.logger.Debug("task attempt recorded",
		"user_id", userID,
		"task_id", taskID,
		"date", day,
		"count", rec.counts[taskID])
}

func (t *Tracker) checkUserDailyQuotaLocked(userID, taskID, day string) bool {
	rec, ok := t.userTasks[userID]
	if !ok || rec.date != day {
		// Fresh day for this user: the distinct-task quota is untouched.
		return true
	}
	if _, granted := rec.tasks[taskID]; granted {
		// Re-requesting an already-granted task never counts against the cap.
		return true
	}
	allowed := len(rec.tasks) < t.maxTasksPerUser

	t.logger.Debug("user daily quota check",
		"user_id", userID,
		"task_id", taskID,
		"date", day,
		"distinct_tasks", len(rec.tasks),
		"allowed", allowed)
	return allowed
}

func (t *Tracker) recordUserTaskLocked(userID, taskID, day string) {
	rec, ok := t.userTasks[userID]
	if !ok || rec.date != day {
		rec = &userTaskSetRecord{date: day, tasks: make(map[string]struct{})}
		t.userTasks[userID] = rec
	}
	rec.tasks[taskID] = struct{}{}
}
