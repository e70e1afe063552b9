package app

import (
	"context"
	"path/filepath"
	"strings"

	"battcheck/domain/measurement"
	"battcheck/ports"
)

// SourceRouter picks a sample source by file extension
type SourceRouter struct {
	byExtension map[string]ports.SampleSourcePort
	fallback    ports.SampleSourcePort
}

// NewSourceRouter creates a router. Extensions are matched case-insensitively
// and include the dot (".xlsx"); anything unmatched goes to fallback.
func NewSourceRouter(fallback ports.SampleSourcePort, byExtension map[string]ports.SampleSourcePort) *SourceRouter {
	normalized := make(map[string]ports.SampleSourcePort, len(byExtension))
	for ext, source := range byExtension {
		normalized[strings.ToLower(ext)] = source
	}
	return &SourceRouter{byExtension: normalized, fallback: fallback}
}

// Load reads samples from path with the matching source
func (r *SourceRouter) Load(ctx context.Context, path string) (measurement.SampleSet, error) {
	if source, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return source.Load(ctx, path)
	}
	return r.fallback.Load(ctx, path)
}
