package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates no document exists for the requested fingerprint.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// missing or unreadable file or an empty question.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrStorage indicates a persistence read or write failure.
	// A failed save leaves no partially written document behind.
	ErrStorage = errors.New("storage failure")

	// ErrExternalService indicates an embedding or LLM call failed.
	// The underlying cause is always wrapped; there is no automatic retry.
	ErrExternalService = errors.New("external service failure")

	// ErrLLMUnavailable indicates no LLM provider is configured.
	// Answering falls back to the local extractive mode.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates no embedding provider is configured.
	// Documents cannot be ingested or queried without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexCorrupt indicates a stored index blob could not be decoded.
	ErrIndexCorrupt = errors.New("index blob corrupt")

	// ErrDimensionMismatch indicates a vector's length disagrees with the
	// index it is being added to or queried against.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
