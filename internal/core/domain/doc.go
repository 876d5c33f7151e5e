// Package domain defines the core business entities for DocChat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document identified by its content fingerprint
//   - Chunk: A fixed-size slice of a document's text, the unit of retrieval
//   - SearchIndex: A serialized per-document similarity index
//   - Answer: The outcome of a question asked against a document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
