package document

// Hit is a lexical match of a document against a query.
type Hit struct {
	DocumentID string
	Score      float64
}
