package budget

// Budget is a snapshot of the search call budget for one period.
type Budget struct {
	callsLimit     int
	callsRemaining int
	isExhausted    bool
	resetsAt       int64 // unix millis, converted to RFC 3339 at transport layer
}

// New creates a Budget snapshot. limit 0 and remaining -1 mean unlimited.
func New(limit, remaining int, isExhausted bool, resetsAt int64) Budget {
	return Budget{
		callsLimit:     limit,
		callsRemaining: remaining,
		isExhausted:    isExhausted,
		resetsAt:       resetsAt,
	}
}

// CallsLimit returns the call cap, 0 when unlimited.
func (b Budget) CallsLimit() int { return b.callsLimit }

// CallsRemaining returns calls left, -1 when unlimited.
func (b Budget) CallsRemaining() int { return b.callsRemaining }

// Unlimited reports whether no cap applies.
func (b Budget) Unlimited() bool { return b.callsLimit == 0 }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.isExhausted }

// ResetsAt returns the reset timestamp (unix millis), 0 when the period has no end.
func (b Budget) ResetsAt() int64 { return b.resetsAt }
