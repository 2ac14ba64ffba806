package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/config"
	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
	"github.com/kailas-cloud/sportspulse/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterQueryMetrics()
	os.Exit(m.Run())
}

const testCorpus = `[
  {"title": "LeBron James responds to Stephen A. Smith",
   "text": "LeBron James confronted Stephen A. Smith courtside after the broadcaster criticized his son Bronny. The exchange went viral.",
   "source": "ESPN", "category": "NBA", "publishDate": "2024-03-07"},
  {"title": "Jokic wins MVP",
   "text": "Nikola Jokic won his third MVP award after another dominant season in Denver.",
   "source": "NBA.com", "category": "NBA", "publishDate": "2024-05-08"},
  {"title": "Empty record", "text": ""}
]`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.json")
	if err := os.WriteFile(path, []byte(testCorpus), 0o600); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func testConfig(corpusPath string) config.Config {
	cfg := config.Config{
		HTTP:   config.HTTPConfig{Port: 8080},
		Corpus: config.CorpusConfig{Path: corpusPath},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func ask(t *testing.T, a *App, question string, enableWeb bool) answer.Result {
	t.Helper()
	q, err := query.New(question, enableWeb, false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	res, err := a.QA.Ask(context.Background(), q)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	return res
}

func TestApp_NotReadyUntilLoaded(t *testing.T) {
	a := newApp(t, testConfig(writeCorpus(t)))

	q, _ := query.New("Who won MVP?", false, false)
	if _, err := a.QA.Ask(context.Background(), q); err == nil {
		t.Fatal("expected not ready error before LoadCorpus")
	}
	if a.Health.Check(context.Background()).Checks["corpus"] != "error" {
		t.Error("health must report the corpus as not loaded")
	}

	if err := a.LoadCorpus(); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if got := a.Store.Stats().Documents; got != 2 {
		t.Errorf("expected 2 documents (empty record skipped), got %d", got)
	}
}

func TestApp_StaticOnly(t *testing.T) {
	a := newApp(t, testConfig(writeCorpus(t)))
	if err := a.LoadCorpus(); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if a.WebEnabled() {
		t.Fatal("web must be disabled without a search key")
	}

	res := ask(t, a, "What happened between LeBron James and Stephen A. Smith?", false)

	if !res.Found {
		t.Fatalf("expected an answer, got %+v", res)
	}
	for _, ans := range res.Answers {
		if ans.Source != domain.SourceKnowledgeBase {
			t.Errorf("expected only knowledge_base answers, got %s", ans.Source)
		}
	}
	if !strings.Contains(res.Answers[0].Text, "Stephen A. Smith") {
		t.Errorf("unexpected best answer %q", res.Answers[0].Text)
	}
	if res.Summary.Web.Status != answer.StatusDisabled {
		t.Errorf("expected web disabled, got %q", res.Summary.Web.Status)
	}
}

func TestApp_MissingSearchKeyDegrades(t *testing.T) {
	a := newApp(t, testConfig(writeCorpus(t)))
	if err := a.LoadCorpus(); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	res := ask(t, a, "Who won the NBA game last night?", true)

	if !res.Summary.Degraded || res.Summary.Web.Reason != domain.ReasonUnconfigured {
		t.Errorf("expected degraded unconfigured summary, got %+v", res.Summary)
	}
	for _, ans := range res.Answers {
		if ans.Source != domain.SourceKnowledgeBase {
			t.Errorf("unexpected web answer without a search key")
		}
	}
}

func TestApp_WebSearch(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><nav>Scores | Teams</nav><article>
			<h1>Nuggets top Lakers</h1>
			<p>The Denver Nuggets won the NBA game last night, beating the Los Angeles Lakers 114-106 at Ball Arena.</p>
			<p>Nikola Jokic finished with a triple-double while Jamal Murray added 28 points in the fourth quarter.</p>
			<p>Denver has now won six straight games and sits second in the Western Conference standings.</p>
			</article></body></html>`)
	}))
	defer page.Close()

	serp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("q"), "last night") {
			t.Errorf("unexpected search query %q", r.URL.Query().Get("q"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"position": 1, "link": page.URL + "/recap", "title": "Nuggets top <b>Lakers</b>", "snippet": "Recap"},
			},
		})
	}))
	defer serp.Close()

	cfg := testConfig(writeCorpus(t))
	cfg.Search.APIKey = "test-key"
	cfg.Search.BaseURL = serp.URL
	a := newApp(t, cfg)
	if err := a.LoadCorpus(); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	res := ask(t, a, "Who won the NBA game last night?", true)

	if !res.Summary.Routing.UseWeb || res.Summary.Web.Status != answer.StatusOK {
		t.Fatalf("expected web retrieval, got %+v", res.Summary)
	}
	if !res.Found || res.Answers[0].Source != domain.SourceWebSearch {
		t.Fatalf("expected a web answer first, got %+v", res.Answers)
	}
	top := res.Answers[0]
	if !strings.Contains(top.Text, "Nuggets won the NBA game last night") {
		t.Errorf("unexpected web answer %q", top.Text)
	}
	if top.Title != "Nuggets top Lakers" || top.URL != page.URL+"/recap" {
		t.Errorf("unexpected web answer metadata: %+v", top)
	}
}

func TestApp_SearchQuotaDegrades(t *testing.T) {
	var searches atomic.Int32
	serp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		searches.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"organic_results": []map[string]any{}})
	}))
	defer serp.Close()

	cfg := testConfig(writeCorpus(t))
	cfg.Search.APIKey = "test-key"
	cfg.Search.BaseURL = serp.URL
	cfg.Search.Quota.DailyLimit = 1
	a := newApp(t, cfg)
	if err := a.LoadCorpus(); err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	first := ask(t, a, "Who won the NBA game last night?", true)
	if first.Summary.Degraded {
		t.Fatalf("first search must fit the quota, got %+v", first.Summary)
	}

	second := ask(t, a, "Who won the NBA game last night?", true)
	if !second.Summary.Degraded || second.Summary.Web.Reason != domain.ReasonQuotaExceeded {
		t.Errorf("expected quota degradation, got %+v", second.Summary)
	}
	if got := searches.Load(); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}

	report := a.Usage.GetReport(context.Background(), usage.PeriodDay)
	if report.Calls() != 1 || !report.Budget().IsExhausted() || report.Provider() != "serpapi" {
		t.Errorf("unexpected usage report: calls=%d exhausted=%v provider=%q",
			report.Calls(), report.Budget().IsExhausted(), report.Provider())
	}
}

func TestApp_LoadCorpusMissingFile(t *testing.T) {
	a := newApp(t, testConfig(filepath.Join(t.TempDir(), "missing.json")))
	if err := a.LoadCorpus(); err == nil {
		t.Fatal("expected error for missing corpus")
	}
}
