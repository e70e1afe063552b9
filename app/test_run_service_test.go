package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"battcheck/adapters/battery"
	"battcheck/adapters/textfile"
	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/domain/run"
	"battcheck/internal/errors"
	"battcheck/internal/testkit"
	"battcheck/ports"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context, path string) (measurement.SampleSet, error) {
	args := m.Called(ctx, path)
	samples, _ := args.Get(0).(measurement.SampleSet)
	return samples, args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(ctx context.Context, rec *run.Record) ([]string, error) {
	args := m.Called(ctx, rec)
	paths, _ := args.Get(0).([]string)
	return paths, args.Error(1)
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(source ports.SampleSourcePort, sinks ...ports.ReportSinkPort) *TestRunService {
	return NewTestRunService(source, battery.NewDefaultEvaluator(), nil, sinks...).
		WithClock(func() time.Time { return fixedNow })
}

func TestTestRunService_Run(t *testing.T) {
	source := &mockSource{}
	source.On("Load", mock.Anything, "ramp.txt").Return(testkit.ReferenceSamples(), nil)
	sink := &mockSink{}
	sink.On("Write", mock.Anything, mock.AnythingOfType("*run.Record")).Return([]string{"out/report.txt"}, nil)

	svc := newService(source, sink)
	result, err := svc.Run(context.Background(), TestRunRequest{
		DataFile:    "ramp.txt",
		BatteryName: "Cell",
		DeviceName:  "Rig1",
		Limits:      measurement.DefaultLimits(),
	})
	require.NoError(t, err)

	rec := result.Record
	assert.Equal(t, core.DUTID("CellRig120240301"), rec.DUTID())
	assert.NotEmpty(t, rec.RunID())
	assert.True(t, rec.Passed())
	assert.InDelta(t, 125.0*8.0/3600.0, rec.Verdict.Capacity.TotalAh, 1e-12)
	assert.Equal(t, 3, rec.Manifest.SampleCount)
	assert.False(t, rec.Fingerprint.IsEmpty())
	require.NotNil(t, rec.Summary)
	assert.Equal(t, 3, rec.Summary.SampleCount)
	assert.Equal(t, []string{"out/report.txt"}, result.Artifacts)

	source.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestTestRunService_FailingVerdictIsNotAnError(t *testing.T) {
	limits := measurement.DefaultLimits()
	limits.MinCapacity = 1.0

	svc := newService(&mockSource{})
	result, err := svc.Run(context.Background(), TestRunRequest{
		Samples: measurement.SampleSet{{Voltage: 8.0, Current: 100.0}, {Voltage: 11.0, Current: 100.0}},
		DUTID:   "explicit",
		Limits:  limits,
	})
	require.NoError(t, err)
	assert.False(t, result.Record.Passed())
	assert.Len(t, result.Record.Verdict.Reasons, 2)
	assert.Equal(t, core.DUTID("explicit"), result.Record.DUTID())
}

func TestTestRunService_Errors(t *testing.T) {
	badLimits := measurement.DefaultLimits()
	badLimits.Tolerance = -0.1

	tests := []struct {
		name     string
		req      TestRunRequest
		loaded   measurement.SampleSet
		loadErr  error
		wantCode string
		wantIs   error
	}{
		{
			name:     "empty data file",
			req:      TestRunRequest{DataFile: "empty.txt", Limits: measurement.DefaultLimits()},
			loaded:   measurement.SampleSet{},
			wantCode: errors.CodeInvalidInput,
			wantIs:   core.ErrNoSamples,
		},
		{
			name:     "source not found",
			req:      TestRunRequest{DataFile: "missing.txt", Limits: measurement.DefaultLimits()},
			loadErr:  errors.NotFound("file missing.txt"),
			wantCode: errors.CodeNotFound,
		},
		{
			name:     "invalid limits",
			req:      TestRunRequest{DataFile: "ramp.txt", Limits: badLimits},
			loaded:   testkit.ReferenceSamples(),
			wantCode: errors.CodeConfigInvalid,
			wantIs:   core.ErrInvalidLimits,
		},
		{
			name:     "partial DUT name",
			req:      TestRunRequest{DataFile: "ramp.txt", BatteryName: "Cell", Limits: measurement.DefaultLimits()},
			wantCode: errors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{}
			source.On("Load", mock.Anything, tt.req.DataFile).Return(tt.loaded, tt.loadErr).Maybe()

			_, err := newService(source).Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestTestRunService_SinkFailureKeepsResult(t *testing.T) {
	first := &mockSink{}
	first.On("Write", mock.Anything, mock.Anything).Return([]string{"a.txt"}, nil)
	second := &mockSink{}
	second.On("Write", mock.Anything, mock.Anything).Return(nil, errors.ReportError("xlsx", fmt.Errorf("disk full")))

	svc := newService(&mockSource{}, first, second)
	result, err := svc.Run(context.Background(), TestRunRequest{
		Samples: testkit.ReferenceSamples(),
		Limits:  measurement.DefaultLimits(),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeReportError, errors.GetCode(err))
	require.NotNil(t, result)
	assert.True(t, result.Record.Passed())
	assert.Equal(t, []string{"a.txt"}, result.Artifacts)
}

type countingSource struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *countingSource) Load(ctx context.Context, path string) (measurement.SampleSet, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if path == "bad.txt" {
		return nil, errors.InvalidInput("bad.txt: line 1: malformed")
	}
	return testkit.ReferenceSamples(), nil
}

func TestTestRunService_RunBatch(t *testing.T) {
	source := &countingSource{}
	svc := newService(source)

	files := []string{"a.txt", "bad.txt", "c.txt", "d.txt", "e.txt", "f.txt"}
	reqs := make([]TestRunRequest, len(files))
	for i, f := range files {
		reqs[i] = TestRunRequest{DataFile: f, Limits: measurement.DefaultLimits()}
	}

	outcomes := svc.RunBatch(context.Background(), reqs, 2)
	require.Len(t, outcomes, len(files))

	for i, outcome := range outcomes {
		assert.Equal(t, files[i], outcome.Request.DataFile, "outcomes keep request order")
		if files[i] == "bad.txt" {
			assert.True(t, errors.IsInputError(outcome.Err))
			assert.Nil(t, outcome.Result)
			continue
		}
		require.NoError(t, outcome.Err)
		assert.True(t, outcome.Result.Record.Passed())
	}
	assert.LessOrEqual(t, source.peak.Load(), int32(2))
}

func TestTestRunService_RunBatchDeterministic(t *testing.T) {
	samples := testkit.NewDischargeGenerator(testkit.DefaultDischargeProfile()).Generate()
	svc := newService(&mockSource{})

	reqs := make([]TestRunRequest, 8)
	for i := range reqs {
		reqs[i] = TestRunRequest{Samples: samples, Limits: measurement.DefaultLimits()}
	}

	outcomes := svc.RunBatch(context.Background(), reqs, 4)
	first := outcomes[0].Result.Record.Fingerprint
	for _, outcome := range outcomes {
		require.NoError(t, outcome.Err)
		assert.Equal(t, first, outcome.Result.Record.Fingerprint)
	}
}

func TestSourceRouter(t *testing.T) {
	text := &mockSource{}
	text.On("Load", mock.Anything, "data.txt").Return(testkit.ReferenceSamples(), nil)
	sheet := &mockSource{}
	sheet.On("Load", mock.Anything, "data.XLSX").Return(measurement.SampleSet{{Voltage: 9, Current: 1}}, nil)

	router := NewSourceRouter(text, map[string]ports.SampleSourcePort{".xlsx": sheet})

	samples, err := router.Load(context.Background(), "data.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, samples.Len())

	samples, err = router.Load(context.Background(), "data.XLSX")
	require.NoError(t, err)
	assert.Equal(t, 1, samples.Len())

	text.AssertExpectations(t)
	sheet.AssertExpectations(t)
}

func TestTestRunService_TextFileEndToEnd(t *testing.T) {
	path, err := testkit.WriteTextFixture(t.TempDir(), "run.txt", testkit.ReferenceSamples())
	require.NoError(t, err)

	svc := newService(textfile.NewParser())
	result, err := svc.Run(context.Background(), TestRunRequest{DataFile: path, Limits: measurement.DefaultLimits()})
	require.NoError(t, err)
	assert.Equal(t, path, result.Record.Manifest.DataFile)
	assert.Equal(t, testkit.ReferenceSamples(), result.Record.Samples)
}
