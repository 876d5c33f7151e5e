package domain

// Retrieval bounds. TopK values outside [MinTopK, MaxTopK] are clamped.
const (
	DefaultTopK = 5
	MinTopK     = 1
	MaxTopK     = 50
)

// ClampTopK forces k into the valid retrieval range,
// substituting the default for non-positive values.
func ClampTopK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	if k < MinTopK {
		return MinTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}

// AnswerMode identifies how an answer was produced.
type AnswerMode string

// Available answer modes.
const (
	// AnswerModeExtractive selects sentences from the retrieved chunks.
	// Runs locally, no network.
	AnswerModeExtractive AnswerMode = "extractive"

	// AnswerModeLLM sends the question plus retrieved chunks to a
	// configured LLM provider.
	AnswerModeLLM AnswerMode = "llm"
)

// IsValid returns true if the answer mode is recognised.
func (m AnswerMode) IsValid() bool {
	switch m {
	case AnswerModeExtractive, AnswerModeLLM:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m AnswerMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m AnswerMode) Description() string {
	switch m {
	case AnswerModeExtractive:
		return "Extractive (local, sentence selection)"
	case AnswerModeLLM:
		return "LLM (remote, generated)"
	default:
		return unknownDescription
	}
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the question (0-1).
	Similarity float64
}

// Answer is the outcome of asking a question against a document.
// Sources holds exactly the chunks the answerer saw, in retrieval order;
// the answer is never derived from unretrieved document text.
type Answer struct {
	// Text is the answer itself.
	Text string

	// Mode records how the answer was produced.
	Mode AnswerMode

	// Sources are the retrieved chunks the answer is grounded on.
	Sources []RetrievedChunk
}

// AskOptions configures a single question.
type AskOptions struct {
	// TopK is the number of chunks to retrieve. 0 means DefaultTopK.
	TopK int

	// ForceExtractive skips the LLM even when one is configured.
	ForceExtractive bool
}
