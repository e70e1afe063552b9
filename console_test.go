package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"battcheck/domain/measurement"
	"battcheck/internal/config"
	"battcheck/internal/errors"
	"battcheck/internal/testkit"
)

func newTestSession(t *testing.T, input string, dir string) (*ConsoleSession, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = dir

	var out bytes.Buffer
	session := NewConsoleSession(strings.NewReader(input), &out, cfg, zap.NewNop())
	session.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return session, &out
}

func TestConsoleSession_PassingRunWithRawData(t *testing.T) {
	dir := t.TempDir()
	dataFile, err := testkit.WriteTextFixture(dir, "ramp.txt", testkit.ReferenceSamples())
	require.NoError(t, err)

	input := strings.Join([]string{dataFile, "Cell", "Rig", "abc", "0,1", "ja"}, "\n") + "\n"
	session, out := newTestSession(t, input, dir)

	require.NoError(t, session.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Generated DUT-ID: CellRig20240301")
	assert.Contains(t, text, `Please enter a non-negative number, got "abc"`)
	assert.Contains(t, text, "Voltage: 7.50 V, Current: 62.50 A")
	assert.Contains(t, text, "Calculating Capacity:")
	assert.Contains(t, text, "Cumulative Capacity: 0.27778 Ah")
	assert.Contains(t, text, "Test Result: PASS")

	report, err := os.ReadFile(filepath.Join(dir, "CellRig20240301_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Minimum Capacity: 0.1000 Ah")

	raw, err := os.ReadFile(filepath.Join(dir, "CellRig20240301_raw_data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "5.00 0.00\n7.50 62.50\n10.00 125.00\n", string(raw))
}

func TestConsoleSession_FailingRunWithoutRawData(t *testing.T) {
	dir := t.TempDir()
	dataFile, err := testkit.WriteTextFixture(dir, "spike.txt", measurement.SampleSet{{Voltage: 8.0, Current: 100.0}, {Voltage: 11.0, Current: 100.0}})
	require.NoError(t, err)

	input := dataFile + "\nCell\nRig\n1.0\nno\n"
	session, out := newTestSession(t, input, dir)

	require.NoError(t, session.Run(context.Background()))
	assert.Contains(t, out.String(), "Test Result: FAIL")
	assert.Contains(t, out.String(), "- voltage above maximum at sample 1")

	_, err = os.Stat(filepath.Join(dir, "CellRig20240301_raw_data.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestConsoleSession_NoData(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(dataFile, []byte("\n\n"), 0o644))

	session, out := newTestSession(t, dataFile+"\nCell\nRig\n1\n", dir)
	require.NoError(t, session.Run(context.Background()))
	assert.Contains(t, out.String(), "No measurement data found.")
}

func TestConsoleSession_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"input ends early", "data.txt\nCell\n", errors.CodeInvalidInput},
		{"empty battery name", "data.txt\n\nRig\n1\n", errors.CodeInvalidInput},
		{"missing data file", filepath.Join(dir, "absent.txt") + "\nCell\nRig\n1\n", errors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, _ := newTestSession(t, tt.input, dir)
			err := session.Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestIsYes(t *testing.T) {
	for _, answer := range []string{"y", "YES", " ja ", "j"} {
		assert.True(t, isYes(answer), answer)
	}
	for _, answer := range []string{"", "n", "nein", "maybe"} {
		assert.False(t, isYes(answer), answer)
	}
}
