package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/domain/run"
	"battcheck/internal/errors"
	"battcheck/internal/logging"
	"battcheck/internal/profiling"
	"battcheck/ports"
)

// TestRunService loads a data file, evaluates it and hands the record to the report sinks
type TestRunService struct {
	source    ports.SampleSourcePort
	evaluator ports.BatteryPort
	sinks     []ports.ReportSinkPort
	analyzer  *profiling.DistributionAnalyzer
	logger    *zap.Logger
	now       func() time.Time
}

// TestRunRequest describes one evaluation
type TestRunRequest struct {
	DataFile    string
	Samples     measurement.SampleSet // used instead of DataFile when non-nil
	BatteryName string
	DeviceName  string
	DUTID       core.DUTID // overrides BatteryName/DeviceName when set
	Limits      measurement.Limits
}

// TestRunResult is the outcome of one evaluation
type TestRunResult struct {
	Record    *run.Record
	Artifacts []string
	Duration  time.Duration
}

// NewTestRunService creates a test run service
func NewTestRunService(source ports.SampleSourcePort, evaluator ports.BatteryPort, logger *zap.Logger, sinks ...ports.ReportSinkPort) *TestRunService {
	return &TestRunService{
		source:    source,
		evaluator: evaluator,
		sinks:     sinks,
		analyzer:  profiling.NewDistributionAnalyzer(),
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// WithClock replaces the time source used for DUT ids and timestamps
func (s *TestRunService) WithClock(now func() time.Time) *TestRunService {
	s.now = now
	return s
}

// Run evaluates one data file. A failing verdict is not an error. When a sink
// fails the result is still returned together with the error.
func (s *TestRunService) Run(ctx context.Context, req TestRunRequest) (*TestRunResult, error) {
	start := s.now()

	dutID, err := s.resolveDUTID(req, start)
	if err != nil {
		return nil, err
	}

	samples := req.Samples
	if samples == nil {
		samples, err = s.source.Load(ctx, req.DataFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", req.DataFile)
		}
	}
	if samples.IsEmpty() {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%s: %w", req.DataFile, core.ErrNoSamples))
	}

	v, err := s.evaluator.Evaluate(samples, req.Limits)
	if err != nil {
		return nil, err
	}

	manifest, err := run.NewManifest(core.NewRunID(), dutID, req.DataFile, samples, req.Limits, s.evaluator.IntervalHours(), core.NewTimestamp(start))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build run manifest")
	}
	fingerprint, err := core.ComputeFingerprint(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fingerprint verdict")
	}
	summary, err := s.analyzer.Summarize(samples)
	if err != nil {
		// Summary is report decoration only
		s.logger.Warn("sample summary unavailable", zap.Error(err))
	}

	rec := &run.Record{
		Manifest:    manifest,
		Samples:     samples,
		Verdict:     v,
		Summary:     summary,
		Fingerprint: fingerprint,
	}
	result := &TestRunResult{Record: rec}

	s.logger.Info("test run evaluated",
		zap.String("run_id", manifest.RunID.String()),
		zap.String("dut_id", dutID.String()),
		zap.Int("samples", samples.Len()),
		zap.Float64("capacity_ah", v.Capacity.TotalAh),
		zap.String("result", v.Status()),
		zap.Int("reasons", len(v.Reasons)))

	for _, sink := range s.sinks {
		paths, err := sink.Write(ctx, rec)
		result.Artifacts = append(result.Artifacts, paths...)
		if err != nil {
			result.Duration = s.now().Sub(start)
			return result, err
		}
	}

	result.Duration = s.now().Sub(start)
	return result, nil
}

func (s *TestRunService) resolveDUTID(req TestRunRequest, at time.Time) (core.DUTID, error) {
	if req.DUTID != "" {
		return req.DUTID, nil
	}
	if req.BatteryName == "" && req.DeviceName == "" {
		return "", nil
	}
	id, err := core.NewDUTID(req.BatteryName, req.DeviceName, at)
	if err != nil {
		return "", errors.WithCode(errors.CodeInvalidInput, err)
	}
	return id, nil
}

// BatchOutcome pairs a request with its result or error
type BatchOutcome struct {
	Request TestRunRequest
	Result  *TestRunResult
	Err     error
}

// RunBatch evaluates independent requests concurrently, at most parallelism at
// a time. Outcomes keep the order of reqs.
func (s *TestRunService) RunBatch(ctx context.Context, reqs []TestRunRequest, parallelism int) []BatchOutcome {
	if parallelism < 1 {
		parallelism = 1
	}
	outcomes := make([]BatchOutcome, len(reqs))
	sem := semaphore.NewWeighted(int64(parallelism))
	var wg sync.WaitGroup

	s.logger.Info("starting batch", zap.Int("files", len(reqs)), zap.Int("parallelism", parallelism))

	for i, req := range reqs {
		outcomes[i].Request = req
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i].Err = err
			continue
		}

		wg.Add(1)
		go func(i int, req TestRunRequest) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := s.Run(ctx, req)
			outcomes[i].Result = result
			outcomes[i].Err = err
			if err != nil {
				s.logger.Warn("batch item failed",
					zap.String("data_file", req.DataFile),
					zap.String("code", errors.GetCode(err)),
					zap.Error(err))
			}
		}(i, req)
	}

	wg.Wait()
	return outcomes
}
