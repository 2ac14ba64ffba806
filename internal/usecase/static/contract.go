package static

import "github.com/kailas-cloud/sportspulse/internal/domain/document"

// Store is the read side of the loaded document store.
type Store interface {
	Ready() bool
	Search(terms []string, n int) ([]document.Hit, error)
	Get(id string) (document.Document, error)
	IDF(term string) float64
}
