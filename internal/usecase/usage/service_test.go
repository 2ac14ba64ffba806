package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/sportspulse/internal/domain/usage"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

func fixedService(br BudgetReader) *Service {
	svc := New("serpapi", br)
	svc.now = func() time.Time { return time.Date(2024, 5, 8, 15, 30, 0, 0, time.UTC) }
	return svc
}

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		dailyLimit: 10, dailyUsed: 3, remainingDaily: 7,
		monthlyLimit: 250, monthlyUsed: 40, remainingMonthly: 210,
	}
	r := fixedService(br).GetReport(context.Background(), domusage.PeriodDay)

	if r.Period() != domusage.PeriodDay {
		t.Errorf("expected period %q, got %q", domusage.PeriodDay, r.Period())
	}
	dayStart := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart() != dayStart.UnixMilli() || r.PeriodEnd() != dayStart.Add(24*time.Hour).UnixMilli() {
		t.Errorf("unexpected period [%d, %d)", r.PeriodStart(), r.PeriodEnd())
	}
	if r.Calls() != 3 || r.Budget().CallsLimit() != 10 || r.Budget().CallsRemaining() != 7 {
		t.Errorf("unexpected counts: calls=%d limit=%d remaining=%d",
			r.Calls(), r.Budget().CallsLimit(), r.Budget().CallsRemaining())
	}
	if r.Budget().IsExhausted() {
		t.Error("budget must not be exhausted")
	}
	if r.Budget().ResetsAt() != r.PeriodEnd() {
		t.Errorf("budget must reset at period end")
	}
	if r.Provider() != "serpapi" {
		t.Errorf("provider = %q", r.Provider())
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	br := &mockBudgetReader{monthlyLimit: 250, monthlyUsed: 250, remainingMonthly: 0}
	r := fixedService(br).GetReport(context.Background(), domusage.PeriodMonth)

	monthStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart() != monthStart.UnixMilli() {
		t.Errorf("expected month start, got %d", r.PeriodStart())
	}
	if r.PeriodEnd() != time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("expected next month start, got %d", r.PeriodEnd())
	}
	if !r.Budget().IsExhausted() {
		t.Error("spent budget must be exhausted")
	}
}

func TestGetReport_UnlimitedBudget(t *testing.T) {
	br := &mockBudgetReader{dailyUsed: 12, remainingDaily: -1}
	r := fixedService(br).GetReport(context.Background(), domusage.PeriodDay)

	if !r.Budget().Unlimited() || r.Budget().IsExhausted() {
		t.Errorf("expected unlimited budget, got %+v", r.Budget())
	}
	if r.Calls() != 12 {
		t.Errorf("calls = %d, want 12", r.Calls())
	}
}

func TestGetReport_NoSearchProvider(t *testing.T) {
	r := fixedService(nil).GetReport(context.Background(), domusage.PeriodMonth)

	if r.Provider() != "" || r.Calls() != 0 {
		t.Errorf("expected empty report, got provider=%q calls=%d", r.Provider(), r.Calls())
	}
	if !r.Budget().Unlimited() || r.Budget().CallsRemaining() != -1 {
		t.Errorf("expected unlimited budget, got %+v", r.Budget())
	}
}
