// Package qa answers questions by routing, retrieving and ranking.
package qa

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/logger"
	"github.com/kailas-cloud/sportspulse/internal/metrics"
)

// Defaults for per-source candidate counts.
const (
	DefaultStaticK = 5
	DefaultWebK    = 5
)

// Service runs the question answering pipeline.
type Service struct {
	router  Router
	static  Retriever
	web     WebRetriever
	ranker  Ranker
	ready   Readiness
	staticK int
	webK    int
}

// New creates a Service. web can be nil when live search is not available.
func New(router Router, static Retriever, web WebRetriever, ranker Ranker, ready Readiness) *Service {
	return &Service{
		router:  router,
		static:  static,
		web:     web,
		ranker:  ranker,
		ready:   ready,
		staticK: DefaultStaticK,
		webK:    DefaultWebK,
	}
}

// WithLimits sets how many candidates each retriever may return.
func (s *Service) WithLimits(staticK, webK int) *Service {
	if staticK > 0 {
		s.staticK = staticK
	}
	if webK > 0 {
		s.webK = webK
	}
	return s
}

// WebConfigured reports whether live search can be used at all.
func (s *Service) WebConfigured() bool {
	return s.web != nil && s.web.Configured()
}

// Ask answers a question. Only invalid input and an unloaded store fail the request; web
// search failures degrade the result to static-only and are reported in the summary.
func (s *Service) Ask(ctx context.Context, q query.Request) (answer.Result, error) {
	question := strings.TrimSpace(q.Question())
	if question == "" {
		return answer.Result{}, fmt.Errorf("%w: question is required", domain.ErrInvalidQuery)
	}
	if !s.ready.Ready() {
		return answer.Result{}, domain.ErrNotReady
	}

	log := logger.FromContext(ctx)

	liveEnabled := q.EnableWeb() && s.WebConfigured()
	decision := s.router.Route(question, liveEnabled)
	if liveEnabled && q.ForceWeb() && !decision.UseWeb {
		decision.UseWeb = true
		decision.Cues = append(decision.Cues, "forced")
	}

	summary := answer.SourceSummary{
		Routing: answer.Routing{
			UseStatic: decision.UseStatic,
			UseWeb:    decision.UseWeb,
			Cues:      decision.Cues,
		},
		KnowledgeBase: answer.SourceReport{Status: answer.StatusOK},
		Web:           webStatus(q, s.WebConfigured(), decision),
	}
	if summary.Web.Status == answer.StatusUnavailable {
		summary.Degraded = true
	}

	var staticPs, webPs []passage.Passage
	var webErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		defer observe(domain.SourceKnowledgeBase, start)

		ps, err := s.static.Retrieve(gctx, question, s.staticK)
		if err != nil {
			return fmt.Errorf("static retrieval: %w", err)
		}
		staticPs = ps
		return nil
	})
	if decision.UseWeb {
		g.Go(func() error {
			start := time.Now()
			defer observe(domain.SourceWebSearch, start)

			webPs, webErr = s.web.Retrieve(gctx, question, s.webK)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return answer.Result{}, err
	}

	if webErr != nil {
		reason := domain.SearchUnavailableReason(webErr)
		if reason == "" {
			reason = domain.ReasonProviderError
		}
		summary.Web.Status = answer.StatusUnavailable
		summary.Web.Reason = reason
		summary.Degraded = true
		webPs = nil
		metrics.WebSearchErrorsTotal.WithLabelValues(reason).Inc()
		log.Warn("Web search unavailable, answering from knowledge base only",
			zap.String("reason", reason), zap.Error(webErr))
	}

	answers := s.ranker.Rank(staticPs, webPs)

	summary.KnowledgeBase.Candidates = len(staticPs)
	summary.Web.Candidates = len(webPs)
	for _, a := range answers {
		switch a.Source {
		case domain.SourceKnowledgeBase:
			summary.KnowledgeBase.Answers++
		case domain.SourceWebSearch:
			summary.Web.Answers++
		}
	}

	res := answer.Result{
		Answers: answers,
		Found:   len(answers) > 0,
		Summary: summary,
	}
	if !res.Found {
		res.Message = answer.NoAnswerMessage
	}

	route := "static"
	if decision.UseWeb {
		route = "static_web"
	}
	metrics.QueriesTotal.WithLabelValues(route).Inc()
	metrics.AnswersReturned.Observe(float64(len(answers)))

	log.Info("Question answered",
		zap.String("route", route),
		zap.Strings("cues", decision.Cues),
		zap.Int("static_candidates", len(staticPs)),
		zap.Int("web_candidates", len(webPs)),
		zap.Int("answers", len(answers)),
		zap.Bool("degraded", summary.Degraded),
	)
	return res, nil
}

// webStatus reports the web source before retrieval runs.
func webStatus(q query.Request, configured bool, d query.Decision) answer.SourceReport {
	switch {
	case !q.EnableWeb():
		return answer.SourceReport{Status: answer.StatusDisabled}
	case !configured:
		return answer.SourceReport{Status: answer.StatusUnavailable, Reason: domain.ReasonUnconfigured}
	case !d.UseWeb:
		return answer.SourceReport{Status: answer.StatusSkipped}
	}
	return answer.SourceReport{Status: answer.StatusOK}
}

func observe(source domain.Source, start time.Time) {
	metrics.RetrievalDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
}
