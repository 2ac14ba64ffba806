package dto

import (
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
)

// UsageBudget is the search budget part of UsageResponse. Remaining is -1 when unlimited.
type UsageBudget struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Exhausted bool      `json:"exhausted"`
	ResetsAt  time.Time `json:"resets_at"`
}

// UsageResponse is the body of GET /api/v1/usage.
type UsageResponse struct {
	Period      string      `json:"period"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	Provider    string      `json:"provider,omitempty"`
	Calls       int         `json:"calls"`
	Budget      UsageBudget `json:"budget"`
}

// NewUsageResponse converts a usage report.
func NewUsageResponse(r *usage.Report) UsageResponse {
	b := r.Budget()
	return UsageResponse{
		Period:      string(r.Period()),
		PeriodStart: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(r.PeriodEnd()).UTC(),
		Provider:    r.Provider(),
		Calls:       r.Calls(),
		Budget: UsageBudget{
			Limit:     b.CallsLimit(),
			Remaining: b.CallsRemaining(),
			Exhausted: b.IsExhausted(),
			ResetsAt:  time.UnixMilli(b.ResetsAt()).UTC(),
		},
	}
}
