package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer questions.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Component names used as Report.Checks keys.
const (
	CheckCorpus    = "corpus"
	CheckSearch    = "search_provider"
	CheckCache     = "page_cache"
	CheckEmbedding = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	corpus    CorpusState
	search    SearchProvider
	cache     CachePinger
	embedding EmbeddingChecker
}

// New creates a Service. search may be nil when web search is not wired.
func New(corpus CorpusState, search SearchProvider) *Service {
	return &Service{corpus: corpus, search: search}
}

// WithCache adds a page cache ping.
func (s *Service) WithCache(c CachePinger) *Service {
	s.cache = c
	return s
}

// WithEmbedding adds an embedding provider check.
func (s *Service) WithEmbedding(e EmbeddingChecker) *Service {
	s.embedding = e
	return s
}

// Check runs health checks against all components. A corpus that is not loaded makes the
// service unhealthy; failing optional components only degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.corpus.Ready() {
		checks[CheckCorpus] = CheckOK
	} else {
		checks[CheckCorpus] = CheckError
	}

	if s.search != nil && s.search.Configured() {
		checks[CheckSearch] = CheckOK
	} else {
		checks[CheckSearch] = CheckDisabled
	}

	if s.cache != nil {
		checks[CheckCache] = result(s.cache.Ping(ctx))
	}
	if s.embedding != nil {
		checks[CheckEmbedding] = result(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[CheckCorpus] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
