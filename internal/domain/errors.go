package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the chat message or session is missing
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCatalogUnavailable is returned when the product catalog search fails
	ErrCatalogUnavailable = errors.New("catalog search failed")

	// ErrKnowledgeUnavailable is returned when the knowledge base cannot be queried
	ErrKnowledgeUnavailable = errors.New("knowledge base unavailable")

	// ErrOrderNotFound is returned when the store has no order with the given number
	ErrOrderNotFound = errors.New("order not found")

	// ErrStoreAPIFailure is returned when a store REST API request fails
	ErrStoreAPIFailure = errors.New("store API request failed")

	// ErrCompletionFailed is returned when the language model call fails or times out
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrCompletionEmpty is returned when the language model answers with no text
	ErrCompletionEmpty = errors.New("completion returned no content")

	// ErrLogWriteFailed is returned when a conversation or recommendation record cannot be stored
	ErrLogWriteFailed = errors.New("log write failed")
)
