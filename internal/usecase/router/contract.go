package router

// Vocabulary reports whether a term occurs in the static corpus.
type Vocabulary interface {
	HasTerm(term string) bool
}
