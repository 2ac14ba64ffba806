// Package textproc holds the text primitives shared by retrieval and ranking:
// tokenization, sentence splitting, whitespace normalization and truncation.
package textproc
