// Package extractive provides a local answerer that selects sentences
// from the retrieved chunks. It never calls the network, which makes it
// the fallback when no LLM provider is configured.
package extractive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Answerer implements the interface.
var _ driven.Answerer = (*Answerer)(nil)

// DefaultMaxSentences is the number of best-scoring sentences returned.
const DefaultMaxSentences = 3

// stopwords are excluded from query-term matching. Matching on words like
// "the" would score every sentence.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "do": {}, "does": {}, "for": {},
	"from": {}, "has": {}, "have": {}, "how": {}, "in": {}, "is": {},
	"it": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "why": {}, "with": {},
}

// Answerer selects the sentences from the retrieved chunks that best
// overlap with the question's terms.
type Answerer struct {
	maxSentences int
}

// Option configures the answerer.
type Option func(*Answerer)

// WithMaxSentences sets how many sentences the answer may contain.
func WithMaxSentences(n int) Option {
	return func(a *Answerer) {
		if n > 0 {
			a.maxSentences = n
		}
	}
}

// New creates a new extractive answerer.
func New(opts ...Option) *Answerer {
	a := &Answerer{maxSentences: DefaultMaxSentences}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// scoredSentence tracks where a sentence came from so the answer can be
// assembled in reading order.
type scoredSentence struct {
	text     string
	score    float64
	chunkPos int
	order    int
}

// Answer selects the best-scoring sentences from the retrieved chunks.
// Sentences are scored by distinct query-term overlap and returned in
// the order they appear in the document, so the answer reads naturally.
func (a *Answerer) Answer(_ context.Context, question string, chunks []domain.RetrievedChunk) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks retrieved", domain.ErrInvalidInput)
	}

	terms := queryTerms(question)

	var sentences []scoredSentence
	order := 0
	for _, rc := range chunks {
		for _, sent := range splitSentences(rc.Chunk.Content) {
			sentences = append(sentences, scoredSentence{
				text:     sent,
				score:    scoreSentence(sent, terms),
				chunkPos: rc.Chunk.Position,
				order:    order,
			})
			order++
		}
	}

	// Rank by score, then by appearance for determinism.
	ranked := make([]scoredSentence, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	limit := a.maxSentences
	if limit > len(ranked) {
		limit = len(ranked)
	}
	selected := ranked[:limit]

	// Reassemble in document order.
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].chunkPos != selected[j].chunkPos {
			return selected[i].chunkPos < selected[j].chunkPos
		}
		return selected[i].order < selected[j].order
	})

	var b strings.Builder
	for i, s := range selected {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s.text)
	}

	return &domain.Answer{
		Text:    b.String(),
		Mode:    domain.AnswerModeExtractive,
		Sources: chunks,
	}, nil
}

// Mode reports how this answerer produces answers.
func (a *Answerer) Mode() domain.AnswerMode {
	return domain.AnswerModeExtractive
}

// queryTerms lowercases and tokenises the question, dropping stopwords
// and single-character tokens.
func queryTerms(question string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, word := range tokenise(question) {
		if len(word) < 2 {
			continue
		}
		if _, ok := stopwords[word]; ok {
			continue
		}
		terms[word] = struct{}{}
	}
	return terms
}

// scoreSentence counts distinct query terms present in the sentence,
// normalised by the sentence's token count so short, dense sentences
// beat long rambling ones.
func scoreSentence(sentence string, terms map[string]struct{}) float64 {
	tokens := tokenise(sentence)
	if len(tokens) == 0 {
		return 0
	}

	seen := make(map[string]struct{})
	matched := 0
	for _, tok := range tokens {
		if _, ok := terms[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		matched++
	}
	if matched == 0 {
		return 0
	}

	return float64(matched) + float64(matched)/float64(len(tokens))
}

// tokenise splits text into lowercase alphanumeric words.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// splitSentences splits text on sentence-ending punctuation followed by
// whitespace. Abbreviation handling is deliberately minimal: the source
// text already went through extraction, so the occasional false split
// only shortens a candidate sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
