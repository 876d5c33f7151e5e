package domain

// RawDocument represents opaque bytes read from a source file.
// It is the input to normalisation (text extraction).
type RawDocument struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any
}
