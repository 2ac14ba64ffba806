// Package websearch holds the types exchanged with a web search provider.
package websearch

// Result is one ranked hit from the search provider.
type Result struct {
	URL     string
	Title   string
	Snippet string
	// Rank is 1-based; 1 is the provider's best match.
	Rank int
	// Date and Publisher are reported by news results when available.
	Date      string
	Publisher string
}
