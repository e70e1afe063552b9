package ports

import (
	"context"

	"battcheck/domain/measurement"
)

// SampleSourcePort loads an already-parsed sample set from a file
type SampleSourcePort interface {
	Load(ctx context.Context, path string) (measurement.SampleSet, error)
}
