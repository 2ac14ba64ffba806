package sportspulse

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
)

// UsagePeriod selects the usage window.
type UsagePeriod string

// Usage windows, both in UTC.
const (
	UsageDay   UsagePeriod = "day"
	UsageMonth UsagePeriod = "month"
)

// SearchUsage reports successful web searches in the current window.
// Remaining is -1 when the window has no quota.
type SearchUsage struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Provider    string
	Calls       int
	Limit       int
	Remaining   int
	Exhausted   bool
}

// Usage reports web search consumption for the current day or month.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) (SearchUsage, error) {
	p, ok := usage.ParsePeriod(string(period))
	if !ok {
		return SearchUsage{}, fmt.Errorf("%w: unknown usage period %q", ErrInvalidQuery, period)
	}
	r := c.usageSvc.GetReport(ctx, p)
	b := r.Budget()
	return SearchUsage{
		Period:      UsagePeriod(r.Period()),
		PeriodStart: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(r.PeriodEnd()).UTC(),
		Provider:    r.Provider(),
		Calls:       r.Calls(),
		Limit:       b.CallsLimit(),
		Remaining:   b.CallsRemaining(),
		Exhausted:   b.IsExhausted(),
	}, nil
}
