package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or malformed question.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotReady signals that the document store has not finished loading.
	ErrNotReady = errors.New("document store not ready")
	// ErrSearchUnavailable signals a missing, unauthenticated or failing search provider.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrExtractionFailed signals that no content could be extracted from a page.
	ErrExtractionFailed = errors.New("content extraction failed")
	// ErrAlreadyLoaded signals a second load of the document store.
	ErrAlreadyLoaded = errors.New("document store already loaded")
	// ErrDuplicateDocument signals two corpus records with the same id.
	ErrDuplicateDocument = errors.New("duplicate document id")
	// ErrSearchQuotaExceeded signals that the configured search call budget is spent.
	ErrSearchQuotaExceeded = errors.New("search quota exceeded")
	// ErrEmbeddingProviderError signals a failing embeddings API.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// Reasons reported by SearchUnavailableError.
const (
	ReasonUnconfigured    = "unconfigured"
	ReasonUnauthenticated = "unauthenticated"
	ReasonUnreachable     = "unreachable"
	ReasonTimeout         = "timeout"
	ReasonProviderError   = "provider_error"
	ReasonQuotaExceeded   = "quota_exceeded"
)

// SearchUnavailableError wraps ErrSearchUnavailable with the failure reason.
type SearchUnavailableError struct {
	Reason string
	Err    error
}

func (e *SearchUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s", ErrSearchUnavailable.Error(), e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("%s (%s)", ErrSearchUnavailable.Error(), e.Reason)
}

func (e *SearchUnavailableError) Unwrap() error { return ErrSearchUnavailable }

// NewSearchUnavailable creates a search-unavailable error with a reason.
func NewSearchUnavailable(reason string, err error) error {
	return &SearchUnavailableError{Reason: reason, Err: err}
}

// SearchUnavailableReason extracts the reason from err, or "" if err is not a search failure.
func SearchUnavailableReason(err error) string {
	var sue *SearchUnavailableError
	if errors.As(err, &sue) {
		return sue.Reason
	}
	if errors.Is(err, ErrSearchUnavailable) {
		return ReasonProviderError
	}
	return ""
}
