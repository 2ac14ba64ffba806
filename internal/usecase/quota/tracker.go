// Package quota caps calls to the paid search provider per day and per month.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
)

// Action defines behavior when the budget is spent.
type Action string

const (
	// ActionWarn logs a warning but allows the call.
	ActionWarn Action = "warn"
	// ActionReject blocks the call.
	ActionReject Action = "reject"
)

// Tracker is an in-memory call budget with optional write-behind persistence.
// Check never leaves the process; Record updates memory first, then the store.
type Tracker struct {
	mu             sync.Mutex
	dailyUsed      int64
	monthlyUsed    int64
	reserved       int64
	dailyLimit     int64
	monthlyLimit   int64
	action         Action
	provider       string
	lastDayReset   time.Time
	lastMonthReset time.Time
	store          Store
	now            func() time.Time
	logger         *zap.Logger
}

// NewTracker creates a tracker. A zero limit means unlimited.
func NewTracker(provider string, dailyLimit, monthlyLimit int64, action Action, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		provider:     provider,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
	now := t.now()
	t.lastDayReset = truncateToDay(now)
	t.lastMonthReset = truncateToMonth(now)
	return t
}

// WithStore attaches a persistence store and loads the current counters.
func (t *Tracker) WithStore(ctx context.Context, store Store) *Tracker {
	t.store = store
	t.loadFromStore(ctx)
	return t
}

func (t *Tracker) loadFromStore(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if val, err := t.store.Get(ctx, t.dailyKey(now)); err == nil {
		t.dailyUsed = val
	} else {
		t.logger.Warn("Failed to load daily search quota", zap.Error(err))
	}
	if val, err := t.store.Get(ctx, t.monthlyKey(now)); err == nil {
		t.monthlyUsed = val
	} else {
		t.logger.Warn("Failed to load monthly search quota", zap.Error(err))
	}

	t.logger.Info("Search quota loaded",
		zap.String("provider", t.provider),
		zap.Int64("daily_used", t.dailyUsed),
		zap.Int64("monthly_used", t.monthlyUsed),
	)
}

func (t *Tracker) dailyKey(at time.Time) string {
	return fmt.Sprintf("%squota:%s:daily:%s", domain.KeyPrefix, t.provider, at.Format("2006-01-02"))
}

func (t *Tracker) monthlyKey(at time.Time) string {
	return fmt.Sprintf("%squota:%s:monthly:%s", domain.KeyPrefix, t.provider, at.Format("2006-01"))
}

// Check reports whether another call fits the budget. Calls reserved but not yet
// committed count against it.
func (t *Tracker) Check(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkLocked()
}

// Reserve claims one call under the same lock as the budget check, so concurrent
// callers cannot all pass while the first one is still in flight. Every successful
// Reserve must be followed by Commit or Release.
func (t *Tracker) Reserve(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkLocked(); err != nil {
		return err
	}
	t.reserved++
	return nil
}

// Commit turns a reservation into a recorded call.
func (t *Tracker) Commit() {
	t.mu.Lock()
	t.releaseLocked()
	t.mu.Unlock()
	t.Record(1)
}

// Release drops a reservation without counting it.
func (t *Tracker) Release() {
	t.mu.Lock()
	t.releaseLocked()
	t.mu.Unlock()
}

func (t *Tracker) releaseLocked() {
	if t.reserved > 0 {
		t.reserved--
	}
}

func (t *Tracker) checkLocked() error {
	t.resetIfNeeded()

	dailyExceeded := t.dailyLimit > 0 && t.dailyUsed+t.reserved >= t.dailyLimit
	monthlyExceeded := t.monthlyLimit > 0 && t.monthlyUsed+t.reserved >= t.monthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if t.action == ActionReject {
		return domain.ErrSearchQuotaExceeded
	}

	t.logger.Warn("Search quota exceeded",
		zap.String("provider", t.provider),
		zap.Int64("daily_used", t.dailyUsed),
		zap.Int64("daily_limit", t.dailyLimit),
		zap.Int64("monthly_used", t.monthlyUsed),
		zap.Int64("monthly_limit", t.monthlyLimit),
		zap.Int64("in_flight", t.reserved),
	)
	return nil
}

// Record registers consumed calls.
func (t *Tracker) Record(calls int64) {
	t.mu.Lock()
	t.resetIfNeeded()
	t.dailyUsed += calls
	t.monthlyUsed += calls
	store := t.store
	now := t.now()
	dailyKey := t.dailyKey(now)
	monthlyKey := t.monthlyKey(now)
	t.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request context so a cancelled query still persists its usage.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.IncrBy(ctx, dailyKey, calls); err != nil {
		t.logger.Warn("Failed to persist daily search quota", zap.String("key", dailyKey), zap.Error(err))
	}
	if err := store.IncrBy(ctx, monthlyKey, calls); err != nil {
		t.logger.Warn("Failed to persist monthly search quota", zap.String("key", monthlyKey), zap.Error(err))
	}
}

// RemainingDaily returns calls left today (-1 if unlimited).
func (t *Tracker) RemainingDaily() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return remaining(t.dailyLimit, t.dailyUsed)
}

// RemainingMonthly returns calls left this month (-1 if unlimited).
func (t *Tracker) RemainingMonthly() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return remaining(t.monthlyLimit, t.monthlyUsed)
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// DailyLimit returns the daily cap.
func (t *Tracker) DailyLimit() int64 { return t.dailyLimit }

// MonthlyLimit returns the monthly cap.
func (t *Tracker) MonthlyLimit() int64 { return t.monthlyLimit }

// DailyUsed returns calls made today.
func (t *Tracker) DailyUsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return t.dailyUsed
}

// MonthlyUsed returns calls made this month.
func (t *Tracker) MonthlyUsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return t.monthlyUsed
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (t *Tracker) resetIfNeeded() {
	now := t.now()
	today := truncateToDay(now)
	thisMonth := truncateToMonth(now)

	if today.After(t.lastDayReset) {
		t.dailyUsed = 0
		t.lastDayReset = today
	}
	if thisMonth.After(t.lastMonthReset) {
		t.monthlyUsed = 0
		t.lastMonthReset = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
