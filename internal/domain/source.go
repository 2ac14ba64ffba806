package domain

// Source is the provenance tag of a passage or answer.
type Source string

// Provenance tags.
const (
	SourceKnowledgeBase Source = "knowledge_base"
	SourceWebSearch     Source = "web_search"
	// SourceNone marks an empty result.
	SourceNone Source = "none"
)

// IsValid checks if the source is one of the retrieval tags.
func (s Source) IsValid() bool {
	return s == SourceKnowledgeBase || s == SourceWebSearch
}
