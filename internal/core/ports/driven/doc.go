// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text from raw document bytes
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessorPipeline: Splits extracted text into chunks
//   - DocumentStore: Persists documents, chunks, embeddings and indices
//   - IndexBuilder: Builds and restores per-document similarity indices
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Remote answer generation. Without it, answering falls
//     back to the local extractive mode.
//   - PromptStore: Custom prompt templates. Without it, built-in defaults
//     are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
