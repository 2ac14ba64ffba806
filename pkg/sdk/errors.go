package sportspulse

import "github.com/kailas-cloud/sportspulse/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrNotReady               = domain.ErrNotReady
	ErrSearchUnavailable      = domain.ErrSearchUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
