package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	calls []string
	err   error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.calls = append(s.calls, text)
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: []float32{float32(len(text))}, PromptTokens: 1, TotalTokens: 1}, nil
}

type stubBatchEmbedder struct {
	stubEmbedder
	batches int
	short   bool
}

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	s.batches++
	out := BatchEmbeddingResult{}
	for _, t := range texts {
		out.Embeddings = append(out.Embeddings, []float32{float32(len(t))})
	}
	if s.short {
		out.Embeddings = out.Embeddings[:len(out.Embeddings)-1]
	}
	return out, nil
}

func TestEmbedAll_Fallback(t *testing.T) {
	e := &stubEmbedder{}
	res, err := EmbedAll(context.Background(), e, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.calls) != 3 {
		t.Errorf("expected 3 single calls, got %d", len(e.calls))
	}
	if len(res.Embeddings) != 3 || res.Embeddings[2][0] != 3 {
		t.Errorf("unexpected embeddings: %v", res.Embeddings)
	}
	if res.TotalTokens != 3 {
		t.Errorf("expected usage to accumulate, got %d", res.TotalTokens)
	}
}

func TestEmbedAll_Batch(t *testing.T) {
	e := &stubBatchEmbedder{}
	res, err := EmbedAll(context.Background(), e, []string{"a", "bb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.batches != 1 || len(e.calls) != 0 {
		t.Errorf("expected one batch call, got batches=%d single=%d", e.batches, len(e.calls))
	}
	if len(res.Embeddings) != 2 {
		t.Errorf("expected 2 embeddings, got %d", len(res.Embeddings))
	}
}

func TestEmbedAll_BatchCountMismatch(t *testing.T) {
	e := &stubBatchEmbedder{short: true}
	_, err := EmbedAll(context.Background(), e, []string{"a", "bb"})
	if !errors.Is(err, ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedAll_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	_, err := EmbedAll(context.Background(), &stubEmbedder{err: innerErr}, []string{"a"})
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}
