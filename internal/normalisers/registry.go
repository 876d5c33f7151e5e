package normalisers

import (
	"context"
	"fmt"
	"sort"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// registered for their MIME type.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise transforms a raw document using the best matching normaliser.
// Returns domain.ErrUnsupportedType when no normaliser handles the MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	for _, n := range r.normalisers {
		for _, mime := range n.SupportedMIMETypes() {
			if mime == raw.MIMEType {
				return n.Normalise(ctx, raw)
			}
		}
	}

	return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, raw.MIMEType)
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, n := range r.normalisers {
		for _, mime := range n.SupportedMIMETypes() {
			if !seen[mime] {
				seen[mime] = true
				types = append(types, mime)
			}
		}
	}
	sort.Strings(types)
	return types
}
