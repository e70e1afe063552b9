package ports

import (
	"context"

	"battcheck/domain/run"
)

// ReportSinkPort renders a run record to one or more artifacts and returns their locations
type ReportSinkPort interface {
	Write(ctx context.Context, rec *run.Record) ([]string, error)
}
