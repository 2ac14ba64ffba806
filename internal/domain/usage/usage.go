// Package usage describes search provider consumption over a period.
package usage

import "github.com/kailas-cloud/sportspulse/internal/domain/usage/budget"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty selects PeriodDay.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Report is a search usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	calls       int
	budget      budget.Budget
}

// NewReport creates a usage report. start and end are unix millis.
func NewReport(period Period, start, end int64, provider string, calls int, b budget.Budget) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		calls:       calls,
		budget:      b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the search provider name, empty when web search is off.
func (r *Report) Provider() string { return r.provider }

// Calls returns the number of successful searches in the period.
func (r *Report) Calls() int { return r.calls }

// Budget returns the budget status.
func (r *Report) Budget() budget.Budget { return r.budget }
